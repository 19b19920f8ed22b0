package websocket

import (
	"github.com/gin-gonic/gin"

	"github.com/shifa-s11/board-task/internal/cache"
	"github.com/shifa-s11/board-task/internal/common/logger"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

// Gateway bundles the hub, the request dispatcher and the HTTP upgrade
// handler.
type Gateway struct {
	Hub        *Hub
	Dispatcher *ws.Dispatcher
	Handler    *Handler
}

// NewGateway creates a gateway serving subscriptions from c. Domain handlers
// add their actions to Dispatcher before the server starts.
func NewGateway(c *cache.Cache, log *logger.Logger) *Gateway {
	dispatcher := ws.NewDispatcher()
	hub := NewHub(c, dispatcher, log)
	RegisterHealthHandler(dispatcher)

	return &Gateway{
		Hub:        hub,
		Dispatcher: dispatcher,
		Handler:    NewHandler(hub, log),
	}
}

// SetupRoutes adds the WebSocket routes to the Gin engine
func (g *Gateway) SetupRoutes(router *gin.Engine) {
	router.GET("/ws", g.Handler.HandleConnection)
}

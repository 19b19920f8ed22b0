package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	authhandlers "github.com/shifa-s11/board-task/internal/auth/handlers"
	authservice "github.com/shifa-s11/board-task/internal/auth/service"
	"github.com/shifa-s11/board-task/internal/common/config"
	"github.com/shifa-s11/board-task/internal/common/httpmw"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/events"
	gateways "github.com/shifa-s11/board-task/internal/gateway/websocket"
	"github.com/shifa-s11/board-task/internal/persistence"
	settingshandlers "github.com/shifa-s11/board-task/internal/settings/handlers"
	settingsservice "github.com/shifa-s11/board-task/internal/settings/service"
	"github.com/shifa-s11/board-task/internal/storage"
	taskhandlers "github.com/shifa-s11/board-task/internal/task/handlers"
	taskservice "github.com/shifa-s11/board-task/internal/task/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	log.Info("Starting board-task server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Storage, cache and event bus
	backend, closeBackend, err := persistence.Provide(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.Error("Storage close error", zap.Error(err))
		}
	}()
	adapter := storage.NewAdapter(backend, log)
	c := persistence.NewCache(adapter, log)

	eventBus, closeBus, err := events.Provide(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer func() { _ = closeBus() }()

	// 4. Services
	taskSvc := taskservice.NewService(adapter, c, eventBus, log)
	if cfg.Seed.Enabled {
		seeded, err := taskSvc.Seed(ctx)
		if err != nil {
			log.Error("Failed to seed sample data", zap.Error(err))
		} else if seeded {
			log.Info("Seeded sample board")
		}
	}
	authSvc := authservice.NewService(adapter, c, eventBus, log)
	settingsSvc := settingsservice.NewService(adapter, c, taskSvc, log)

	// 5. WebSocket gateway
	gateway := gateways.NewGateway(c, log)
	go gateway.Hub.Run(ctx)
	broadcaster := gateways.RegisterEventNotifications(ctx, eventBus, gateway.Hub, log)
	defer broadcaster.Close()

	// 6. HTTP server
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(log, "board-task"))
	router.Use(httpmw.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "board-task",
			"clients": gateway.Hub.ClientCount(),
			"events":  eventBus.IsConnected(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	taskhandlers.RegisterRoutes(router, gateway.Dispatcher, taskSvc, log)
	authhandlers.RegisterRoutes(router, authSvc, log)
	settingshandlers.RegisterRoutes(router, settingsSvc, log)
	gateway.SetupRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 7. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down board-task server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("board-task server stopped")
}

package websocket

import (
	"context"
	"fmt"
)

// HandlerFunc answers one request with a response or error message.
type HandlerFunc func(ctx context.Context, msg *Message) (*Message, error)

// Dispatcher routes requests by action. The table is filled at startup and
// only read once clients connect, so it needs no lock.
type Dispatcher struct {
	routes map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{routes: make(map[string]HandlerFunc)}
}

// RegisterFunc binds action to fn. Binding the same action twice is a wiring
// bug and panics.
func (d *Dispatcher) RegisterFunc(action string, fn HandlerFunc) {
	if _, dup := d.routes[action]; dup {
		panic(fmt.Sprintf("websocket: action %q registered twice", action))
	}
	d.routes[action] = fn
}

// Dispatch runs the handler bound to msg.Action. Unbound actions get an
// UNKNOWN_ACTION error reply.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) (*Message, error) {
	fn, ok := d.routes[msg.Action]
	if !ok {
		return NewError(msg.ID, msg.Action, ErrorCodeUnknownAction, "Unknown action: "+msg.Action, nil)
	}
	return fn(ctx, msg)
}

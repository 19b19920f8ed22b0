package websocket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	d.RegisterFunc(ActionHealthCheck, func(ctx context.Context, msg *Message) (*Message, error) {
		return NewResponse(msg.ID, msg.Action, map[string]string{"status": "ok"})
	})
	assert.Panics(t, func() {
		d.RegisterFunc(ActionHealthCheck, func(context.Context, *Message) (*Message, error) { return nil, nil })
	})

	req, err := NewRequest("1", ActionHealthCheck, nil)
	require.NoError(t, err)
	resp, err := d.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeResponse, resp.Type)
	assert.Equal(t, "1", resp.ID)

	var body map[string]string
	require.NoError(t, resp.ParsePayload(&body))
	assert.Equal(t, "ok", body["status"])

	req.Action = "nope"
	resp, err = d.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeError, resp.Type)
	var e ErrorPayload
	require.NoError(t, resp.ParsePayload(&e))
	assert.Equal(t, ErrorCodeUnknownAction, e.Code)
}

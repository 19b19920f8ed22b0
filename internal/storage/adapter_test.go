package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
)

type brokenBackend struct {
	getErr error
	setErr error
}

func (b *brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, b.getErr
}

func (b *brokenBackend) Set(context.Context, string, []byte) error { return b.setErr }

func (b *brokenBackend) Delete(context.Context, string) error { return nil }

func (b *brokenBackend) Close() error { return nil }

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryBackend(), logger.Nop())

	require.NoError(t, a.Write(ctx, KeyBoards, []item{{ID: "b1", Name: "Sprint 1"}}))

	got := Read(ctx, a, KeyBoards, []item{})
	require.Len(t, got, 1)
	assert.Equal(t, "Sprint 1", got[0].Name)
}

func TestAdapterReadFallbacks(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	a := NewAdapter(backend, logger.Nop())
	fallback := []item{{ID: "fallback"}}

	t.Run("absent key", func(t *testing.T) {
		assert.Equal(t, fallback, Read(ctx, a, "nothing-here", fallback))
	})

	t.Run("corrupt json", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, KeyTasks, []byte(`{not json`)))
		assert.Equal(t, fallback, Read(ctx, a, KeyTasks, fallback))
	})

	t.Run("wrong shape", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, KeyTasks, []byte(`{"id":"x"}`)))
		assert.Equal(t, fallback, Read(ctx, a, KeyTasks, fallback))
	})

	t.Run("backend error", func(t *testing.T) {
		broken := NewAdapter(&brokenBackend{getErr: errors.New("io")}, logger.Nop())
		assert.Equal(t, fallback, Read(ctx, broken, KeyTasks, fallback))
	})

	t.Run("no storage", func(t *testing.T) {
		var none *Adapter
		assert.Equal(t, fallback, Read(ctx, none, KeyTasks, fallback))
		assert.Equal(t, "anon", Read(ctx, NewAdapter(nil, logger.Nop()), KeyAuth, "anon"))
	})
}

func TestAdapterWriteFailureIsStorageError(t *testing.T) {
	a := NewAdapter(&brokenBackend{setErr: errors.New("quota exceeded")}, logger.Nop())

	err := a.Write(context.Background(), KeyBoards, []item{})
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
}

func TestAdapterWithoutBackendDropsWrites(t *testing.T) {
	a := NewAdapter(nil, logger.Nop())
	assert.False(t, a.Available())
	assert.NoError(t, a.Write(context.Background(), KeyBoards, []item{{ID: "b"}}))
}

func TestAdapterStoresNull(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryBackend(), logger.Nop())

	require.NoError(t, a.Write(ctx, KeyAuth, nil))
	token := Read[*string](ctx, a, KeyAuth, nil)
	assert.Nil(t, token)

	raw, ok := a.ReadRaw(ctx, KeyAuth)
	require.True(t, ok)
	assert.JSONEq(t, `null`, string(raw))
}

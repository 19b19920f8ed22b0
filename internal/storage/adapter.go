package storage

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
)

// Adapter reads and writes whole JSON values under string keys.
//
// A nil Adapter, or one without a Backend, behaves like a runtime with no
// storage: every read returns its fallback and every write is dropped.
type Adapter struct {
	backend Backend
	logger  *logger.Logger
}

// NewAdapter creates an Adapter over backend. backend may be nil.
func NewAdapter(backend Backend, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Default()
	}
	return &Adapter{
		backend: backend,
		logger:  log.WithFields(zap.String("component", "kv-adapter")),
	}
}

// Available reports whether writes reach a backend.
func (a *Adapter) Available() bool {
	return a != nil && a.backend != nil
}

// Read returns the value stored under key decoded as T, or fallback when the
// key is absent, the backend fails, or the stored JSON does not decode into T.
func Read[T any](ctx context.Context, a *Adapter, key string, fallback T) T {
	raw, ok := a.ReadRaw(ctx, key)
	if !ok {
		return fallback
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.logger.Warn("stored value does not decode, using fallback",
			zap.String("key", key),
			zap.Error(err))
		return fallback
	}
	return out
}

// ReadRaw returns the stored JSON under key when it exists and is well formed.
func (a *Adapter) ReadRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	if !a.Available() {
		return nil, false
	}
	data, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.logger.Warn("storage read failed, using fallback",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	if !ok || len(data) == 0 {
		return nil, false
	}
	if !json.Valid(data) {
		a.logger.Warn("stored value is not valid JSON, using fallback", zap.String("key", key))
		return nil, false
	}
	return json.RawMessage(data), true
}

// Write encodes value as JSON and replaces whatever was stored under key.
// Failures are returned as a StorageError; nothing is partially written.
func (a *Adapter) Write(ctx context.Context, key string, value any) error {
	if !a.Available() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.StorageError("encode "+key, err)
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		a.logger.Error("storage write failed", zap.String("key", key), zap.Error(err))
		return apperrors.StorageError("write "+key, err)
	}
	return nil
}

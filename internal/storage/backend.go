// Package storage is the key-value persistence layer. A Backend stores raw
// bytes under string keys; the Adapter on top of it stores whole JSON values
// and degrades reads to a caller-supplied fallback.
package storage

import "context"

// Keys of the persisted application state.
const (
	KeyAuth    = "auth.isAuthenticated"
	KeyProfile = "profile"
	KeyBoards  = "boards"
	KeyTasks   = "tasks"
	KeyPrefs   = "kanban:prefs"
)

// Backend is a synchronous local key-value store.
type Backend interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the whole value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

package persistence

import (
	"context"

	authmodels "github.com/shifa-s11/board-task/internal/auth/models"
	"github.com/shifa-s11/board-task/internal/cache"
	"github.com/shifa-s11/board-task/internal/common/logger"
	settingsmodels "github.com/shifa-s11/board-task/internal/settings/models"
	"github.com/shifa-s11/board-task/internal/storage"
	taskmodels "github.com/shifa-s11/board-task/internal/task/models"
)

// NewFetcher returns a cache.Fetcher that decodes each known key into the
// type its writer stores:
//
//	auth.isAuthenticated  *string
//	profile               *authmodels.Profile
//	boards                []taskmodels.Board
//	tasks                 []taskmodels.Task
//	kanban:prefs          settingsmodels.Prefs
//
// Unknown keys come back as json.RawMessage, or nil when absent.
func NewFetcher(a *storage.Adapter) cache.Fetcher {
	return func(ctx context.Context, key string) any {
		switch key {
		case storage.KeyAuth:
			return storage.Read[*string](ctx, a, key, nil)
		case storage.KeyProfile:
			return storage.Read[*authmodels.Profile](ctx, a, key, nil)
		case storage.KeyBoards:
			return storage.Read(ctx, a, key, []taskmodels.Board{})
		case storage.KeyTasks:
			return storage.Read(ctx, a, key, []taskmodels.Task{})
		case storage.KeyPrefs:
			return storage.Read(ctx, a, key, settingsmodels.DefaultPrefs())
		default:
			if raw, ok := a.ReadRaw(ctx, key); ok {
				return raw
			}
			return nil
		}
	}
}

// NewCache builds the read-through cache over a.
func NewCache(a *storage.Adapter, log *logger.Logger) *cache.Cache {
	return cache.New(NewFetcher(a), log)
}

// Package service implements the settings page operations: display
// preferences and wholesale export, import and clearing of every persisted
// key.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	authmodels "github.com/shifa-s11/board-task/internal/auth/models"
	"github.com/shifa-s11/board-task/internal/cache"
	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/settings/models"
	"github.com/shifa-s11/board-task/internal/storage"
	taskmodels "github.com/shifa-s11/board-task/internal/task/models"
	taskservice "github.com/shifa-s11/board-task/internal/task/service"
)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for export timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.now = clock
	}
}

// Service reads and writes the non-entity keys directly and routes the board
// and task collections through the task service so its in-memory state and
// invariants stay authoritative.
type Service struct {
	store  *storage.Adapter
	cache  *cache.Cache
	tasks  *taskservice.Service
	logger *logger.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewService creates a settings service. c may be nil.
func NewService(store *storage.Adapter, c *cache.Cache, tasks *taskservice.Service, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		store:  store,
		cache:  c,
		tasks:  tasks,
		logger: log.WithFields(zap.String("component", "settings-service")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrefs returns the stored preferences or the defaults.
func (s *Service) GetPrefs(ctx context.Context) models.Prefs {
	if s.cache != nil {
		return cache.As(s.cache.Get(ctx, storage.KeyPrefs), models.DefaultPrefs())
	}
	return storage.Read(ctx, s.store, storage.KeyPrefs, models.DefaultPrefs())
}

// SavePrefs replaces the stored preferences.
func (s *Service) SavePrefs(ctx context.Context, p models.Prefs) (models.Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return p, s.writeLocked(ctx, storage.KeyPrefs, p)
}

// Export snapshots every persisted key.
func (s *Service) Export(ctx context.Context) *models.Payload {
	return &models.Payload{
		Meta: models.ExportMeta{
			Name:       models.ExportName,
			Version:    models.ExportVersion,
			ExportedAt: taskmodels.FormatTime(s.now()),
		},
		Data: models.ExportData{
			Auth:    s.auth(ctx),
			Profile: s.profile(ctx),
			Boards:  s.tasks.ListBoards(ctx),
			Tasks:   s.tasks.ListAllTasks(ctx),
			Prefs:   s.GetPrefs(ctx),
		},
	}
}

// decodedImport holds the keys present in an import document.
type decodedImport struct {
	applied    []string
	hasAuth    bool
	auth       *string
	hasProfile bool
	profile    *authmodels.Profile
	boards     []taskmodels.Board
	tasks      []taskmodels.Task
	hasPrefs   bool
	prefs      models.Prefs
}

// Import applies an export document. It accepts the wrapped {"data": {...}}
// form or a bare object with the same keys. Every recognised key that is
// present overwrites its collection wholesale; missing keys are untouched and
// unknown keys are ignored. Nothing is written unless the whole document
// decodes and the board and task collections validate.
func (s *Service) Import(ctx context.Context, raw []byte) (*models.ImportResult, error) {
	data, err := unwrapImport(raw)
	if err != nil {
		return nil, err
	}
	in, err := decodeImport(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.ReplaceCollections(ctx, in.boards, in.tasks); err != nil {
		return nil, err
	}

	var writeErr error
	keep := func(err error) {
		if err != nil && writeErr == nil {
			writeErr = err
		}
	}
	if in.hasAuth {
		keep(s.writeLocked(ctx, storage.KeyAuth, in.auth))
	}
	if in.hasProfile {
		keep(s.writeLocked(ctx, storage.KeyProfile, in.profile))
	}
	if in.hasPrefs {
		keep(s.writeLocked(ctx, storage.KeyPrefs, in.prefs))
	}
	if writeErr != nil {
		return nil, writeErr
	}

	s.logger.Info("imported data", zap.Strings("keys", in.applied))
	return &models.ImportResult{Applied: in.applied}, nil
}

// Clear resets every key: no session, no profile, no boards or tasks and
// default preferences.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, err := range []error{
		s.writeLocked(ctx, storage.KeyAuth, (*string)(nil)),
		s.writeLocked(ctx, storage.KeyProfile, (*authmodels.Profile)(nil)),
		s.tasks.Clear(ctx),
		s.writeLocked(ctx, storage.KeyPrefs, models.DefaultPrefs()),
	} {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		s.logger.Info("cleared all local data")
	}
	return firstErr
}

func unwrapImport(raw []byte) (models.ImportData, error) {
	var top models.ImportData
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, apperrors.BadRequest("invalid import format: expected a JSON object")
	}
	inner, ok := top["data"]
	if !ok || isNull(inner) {
		return top, nil
	}
	var data models.ImportData
	if err := json.Unmarshal(inner, &data); err != nil || data == nil {
		return nil, apperrors.BadRequest("invalid import format: data must be a JSON object")
	}
	return data, nil
}

func decodeImport(data models.ImportData) (*decodedImport, error) {
	in := &decodedImport{applied: []string{}}

	if v, ok := data["auth"]; ok {
		in.hasAuth = true
		in.auth = decodeToken(v)
		in.applied = append(in.applied, "auth")
	}
	if v, ok := data["profile"]; ok {
		in.hasProfile = true
		if err := json.Unmarshal(v, &in.profile); err != nil {
			return nil, apperrors.ValidationError("profile", "must be an object or null")
		}
		in.applied = append(in.applied, "profile")
	}
	if v, ok := data["boards"]; ok {
		in.boards = []taskmodels.Board{}
		if err := json.Unmarshal(v, &in.boards); err != nil {
			return nil, apperrors.ValidationError("boards", "must be an array of boards")
		}
		if in.boards == nil {
			in.boards = []taskmodels.Board{}
		}
		in.applied = append(in.applied, "boards")
	}
	if v, ok := data["tasks"]; ok {
		in.tasks = []taskmodels.Task{}
		if err := json.Unmarshal(v, &in.tasks); err != nil {
			return nil, apperrors.ValidationError("tasks", "must be an array of tasks")
		}
		if in.tasks == nil {
			in.tasks = []taskmodels.Task{}
		}
		in.applied = append(in.applied, "tasks")
	}
	if v, ok := data["prefs"]; ok {
		in.hasPrefs = true
		in.prefs = models.DefaultPrefs()
		if err := json.Unmarshal(v, &in.prefs); err != nil {
			return nil, apperrors.ValidationError("prefs", "must be an object")
		}
		in.applied = append(in.applied, "prefs")
	}
	return in, nil
}

// decodeToken keeps a non-empty string token. Anything else, including the
// boolean flag older exports carry, means logged out.
func decodeToken(v json.RawMessage) *string {
	var tok string
	if err := json.Unmarshal(v, &tok); err != nil || strings.TrimSpace(tok) == "" {
		return nil
	}
	return &tok
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (s *Service) auth(ctx context.Context) *string {
	if s.cache != nil {
		return cache.As[*string](s.cache.Get(ctx, storage.KeyAuth), nil)
	}
	return storage.Read[*string](ctx, s.store, storage.KeyAuth, nil)
}

func (s *Service) profile(ctx context.Context) *authmodels.Profile {
	if s.cache != nil {
		return cache.As[*authmodels.Profile](s.cache.Get(ctx, storage.KeyProfile), nil)
	}
	return storage.Read[*authmodels.Profile](ctx, s.store, storage.KeyProfile, nil)
}

// writeLocked persists value and mirrors it into the cache without
// revalidation, even when the write fails.
func (s *Service) writeLocked(ctx context.Context, key string, value any) error {
	err := s.store.Write(ctx, key, value)
	if s.cache != nil {
		s.cache.Mutate(ctx, key, value, false)
	}
	return err
}

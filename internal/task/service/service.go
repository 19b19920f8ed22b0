package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/cache"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/events/bus"
	"github.com/shifa-s11/board-task/internal/storage"
	"github.com/shifa-s11/board-task/internal/task/models"
)

// Clock returns the current time.
type Clock func() time.Time

// IDGenerator returns a fresh id with the given prefix.
type IDGenerator func(prefix string) string

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.now = clock
	}
}

// WithIDGenerator overrides board and task id generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

func defaultID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}

// Service owns the board and task collections.
//
// Every mutation writes the whole collection through the storage adapter,
// swaps the in-memory copy, pushes the new value into the cache without
// revalidation and then publishes a domain event. Mutations are serialized
// by mu; cache and event handlers run while it is held and must not call
// back into the Service.
type Service struct {
	store    *storage.Adapter
	cache    *cache.Cache
	eventBus bus.EventBus
	logger   *logger.Logger
	now      Clock
	newID    IDGenerator

	mu        sync.RWMutex
	boards    []models.Board
	tasks     []models.Task
	lastStamp time.Time
}

// NewService creates a task service and loads the persisted collections.
// c and eventBus may be nil.
func NewService(store *storage.Adapter, c *cache.Cache, eventBus bus.EventBus, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		store:    store,
		cache:    c,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "task-service")),
		now:      time.Now,
		newID:    defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(context.Background())
	return s
}

// load reads both collections. Tasks with a status outside the column set, or
// whose board no longer exists, are dropped, and the cleaned collection is
// written back so storage, cache and memory agree.
func (s *Service) load(ctx context.Context) {
	boards := storage.Read(ctx, s.store, storage.KeyBoards, []models.Board{})
	tasks := storage.Read(ctx, s.store, storage.KeyTasks, []models.Task{})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = boards
	clean := s.sanitizeTasks(boards, tasks)
	if len(clean) == len(tasks) {
		s.tasks = clean
		return
	}
	if err := s.commitTasks(ctx, clean); err != nil {
		s.logger.WithError(err).Warn("failed to persist cleaned tasks",
			zap.Int("dropped", len(tasks)-len(clean)))
	}
}

func (s *Service) sanitizeTasks(boards []models.Board, tasks []models.Task) []models.Task {
	known := boardIDs(boards)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Status.Valid() {
			s.logger.WithTaskID(t.ID).Warn("dropping stored task with unknown status",
				zap.String("status", string(t.Status)))
			continue
		}
		if _, ok := known[t.BoardID]; !ok {
			s.logger.WithTaskID(t.ID).WithBoardID(t.BoardID).Warn("dropping stored task without board")
			continue
		}
		out = append(out, t)
	}
	return out
}

// timestamp returns the current time at millisecond precision, nudged one
// millisecond past the previous stamp when the clock has not moved on, so
// stamps issued by one Service strictly increase. s.mu must be held.
func (s *Service) timestamp() string {
	t := s.now().UTC().Truncate(time.Millisecond)
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = t
	return models.FormatTime(t)
}

// commitBoards persists next, swaps it in and mirrors it into the cache.
// The swap and the cache update happen even when the write fails.
// s.mu must be held.
func (s *Service) commitBoards(ctx context.Context, next []models.Board) error {
	err := s.store.Write(ctx, storage.KeyBoards, next)
	s.boards = next
	s.mirror(ctx, storage.KeyBoards, cloneBoards(next))
	return err
}

// commitTasks is commitBoards for the task collection. s.mu must be held.
func (s *Service) commitTasks(ctx context.Context, next []models.Task) error {
	err := s.store.Write(ctx, storage.KeyTasks, next)
	s.tasks = next
	s.mirror(ctx, storage.KeyTasks, cloneTasks(next))
	return err
}

func (s *Service) mirror(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	s.cache.Mutate(ctx, key, value, false)
}

func boardIDs(boards []models.Board) map[string]struct{} {
	ids := make(map[string]struct{}, len(boards))
	for _, b := range boards {
		ids[b.ID] = struct{}{}
	}
	return ids
}

func cloneBoards(in []models.Board) []models.Board {
	out := make([]models.Board, len(in))
	copy(out, in)
	return out
}

func cloneTasks(in []models.Task) []models.Task {
	out := make([]models.Task, len(in))
	copy(out, in)
	return out
}

// Package service implements the mock login flow: an email/password step that
// records the email on the local profile, followed by a fixed one-time code
// that stores a placeholder session token. Nothing here is secure.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/auth/models"
	"github.com/shifa-s11/board-task/internal/cache"
	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/common/validation"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/events/bus"
	"github.com/shifa-s11/board-task/internal/storage"
)

// MockOTP is the only code VerifyOTP accepts.
const MockOTP = "123456"

const tokenPrefix = "mock-token-"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to mint tokens.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.now = clock
	}
}

// Service owns the auth.isAuthenticated and profile keys.
type Service struct {
	store    *storage.Adapter
	cache    *cache.Cache
	eventBus bus.EventBus
	logger   *logger.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// NewService creates an auth service. c and eventBus may be nil.
func NewService(store *storage.Adapter, c *cache.Cache, eventBus bus.EventBus, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		store:    store,
		cache:    c,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "auth-service")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loginFields struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpFields struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Login checks the credentials' shape and merges the email into the stored
// profile. Any well-formed email/password pair is accepted.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(loginFields{Email: email, Password: password}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.profileLocked(ctx)
	if profile == nil {
		profile = &models.Profile{}
	}
	profile.Email = email
	if err := s.writeLocked(ctx, storage.KeyProfile, profile); err != nil {
		return nil, err
	}

	s.logger.Info("login step accepted, otp sent", zap.String("email", email))
	return &models.LoginResult{OK: true, OTPSent: true, Email: email}, nil
}

// VerifyOTP completes the login. On success a placeholder token is stored
// under auth.isAuthenticated and pushed into the cache.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if err := validation.Struct(otpFields{Email: email, Code: code}); err != nil {
		return nil, err
	}
	if code != MockOTP {
		return nil, apperrors.Unauthorized("invalid OTP")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := fmt.Sprintf("%s%d", tokenPrefix, s.now().UnixMilli())
	if err := s.writeLocked(ctx, storage.KeyAuth, &token); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AuthLoggedIn, map[string]interface{}{"email": email})
	return &models.Session{OK: true, Token: token, Email: email}, nil
}

// Logout clears the stored token.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(ctx, storage.KeyAuth, (*string)(nil)); err != nil {
		return err
	}
	s.publish(ctx, events.AuthLoggedOut, nil)
	return nil
}

// Token returns the stored session token, or "" when logged out.
func (s *Service) Token(ctx context.Context) string {
	var tok *string
	if s.cache != nil {
		tok = cache.As[*string](s.cache.Get(ctx, storage.KeyAuth), nil)
	} else {
		tok = storage.Read[*string](ctx, s.store, storage.KeyAuth, nil)
	}
	if tok == nil {
		return ""
	}
	return *tok
}

// IsAuthenticated reports whether a token is stored.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Profile returns the stored profile, or nil when none was saved.
func (s *Service) Profile(ctx context.Context) *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(ctx)
}

// SaveProfile validates and replaces the stored profile.
func (s *Service) SaveProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Contact = strings.TrimSpace(p.Contact)
	p.Country = strings.TrimSpace(p.Country)
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(ctx, storage.KeyProfile, &p); err != nil {
		return nil, err
	}
	out := p
	return &out, nil
}

// profileLocked returns a copy of the stored profile. s.mu must be held.
func (s *Service) profileLocked(ctx context.Context) *models.Profile {
	var p *models.Profile
	if s.cache != nil {
		p = cache.As[*models.Profile](s.cache.Get(ctx, storage.KeyProfile), nil)
	} else {
		p = storage.Read[*models.Profile](ctx, s.store, storage.KeyProfile, nil)
	}
	if p == nil {
		return nil
	}
	out := *p
	return &out
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

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, "auth-service", data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/auth/models"
	"github.com/shifa-s11/board-task/internal/cache"
	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/events/bus"
	"github.com/shifa-s11/board-task/internal/persistence"
	"github.com/shifa-s11/board-task/internal/storage"
)

type fixture struct {
	svc     *Service
	adapter *storage.Adapter
	cache   *cache.Cache
	events  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), log)
	c := persistence.NewCache(adapter, log)
	eb := bus.NewMemoryEventBus(log)
	t.Cleanup(eb.Close)

	f := &fixture{adapter: adapter, cache: c}
	_, err := eb.Subscribe("auth.*", func(_ context.Context, e *bus.Event) error {
		f.events = append(f.events, e.Type)
		return nil
	})
	require.NoError(t, err)

	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	f.svc = NewService(adapter, c, eb, log, WithClock(clock))
	return f
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{"missing email", "", "secret", "email"},
		{"malformed email", "not-an-email", "secret", "email"},
		{"missing password", "a@b.co", "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
	assert.Nil(t, f.svc.Profile(ctx), "failed logins write nothing")
}

func TestLoginMergesEmailIntoProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveProfile(ctx, models.Profile{
		Name: "Sam", Email: "old@example.com", Country: "NZ", Password: "hunter22",
	})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, " sam@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, &models.LoginResult{OK: true, OTPSent: true, Email: "sam@example.com"}, res)

	stored := storage.Read[*models.Profile](ctx, f.adapter, storage.KeyProfile, nil)
	require.NotNil(t, stored)
	assert.Equal(t, "sam@example.com", stored.Email)
	assert.Equal(t, "Sam", stored.Name, "other profile fields survive")
	assert.False(t, f.svc.IsAuthenticated(ctx), "login alone does not authenticate")
}

func TestVerifyOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var pushed []any
	_, sub := f.cache.Subscribe(ctx, storage.KeyAuth, func(_ string, v any) { pushed = append(pushed, v) })
	defer sub.Unsubscribe()

	_, err := f.svc.VerifyOTP(ctx, "sam@example.com", "12345")
	assert.True(t, apperrors.IsValidation(err), "short code")
	_, err = f.svc.VerifyOTP(ctx, "sam@example.com", "abcdef")
	assert.True(t, apperrors.IsValidation(err), "non-numeric code")
	_, err = f.svc.VerifyOTP(ctx, "", MockOTP)
	assert.True(t, apperrors.IsValidation(err), "missing email")
	_, err = f.svc.VerifyOTP(ctx, "sam@example.com", "654321")
	assert.True(t, apperrors.IsUnauthorized(err), "wrong code")
	assert.Empty(t, pushed)

	session, err := f.svc.VerifyOTP(ctx, "sam@example.com", MockOTP)
	require.NoError(t, err)
	assert.Equal(t, "mock-token-1700000000000", session.Token)
	assert.True(t, f.svc.IsAuthenticated(ctx))
	assert.Equal(t, session.Token, f.svc.Token(ctx))

	stored := storage.Read[*string](ctx, f.adapter, storage.KeyAuth, nil)
	require.NotNil(t, stored)
	assert.Equal(t, session.Token, *stored)
	require.Len(t, pushed, 1)

	require.NoError(t, f.svc.Logout(ctx))
	assert.False(t, f.svc.IsAuthenticated(ctx))
	assert.Nil(t, storage.Read[*string](ctx, f.adapter, storage.KeyAuth, nil))
	assert.Len(t, pushed, 2)

	assert.Equal(t, []string{events.AuthLoggedIn, events.AuthLoggedOut}, f.events)
}

func TestSaveProfileValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := models.Profile{Name: "Sam", Email: "sam@example.com", Country: "NZ", Password: "hunter22"}

	tests := []struct {
		name   string
		mutate func(p *models.Profile)
		field  string
	}{
		{"short name", func(p *models.Profile) { p.Name = "S" }, "name"},
		{"bad email", func(p *models.Profile) { p.Email = "sam" }, "email"},
		{"no country", func(p *models.Profile) { p.Country = "  " }, "country"},
		{"short password", func(p *models.Profile) { p.Password = "123" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := f.svc.SaveProfile(ctx, p)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	saved, err := f.svc.SaveProfile(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, valid, *saved)
	assert.Equal(t, &valid, f.svc.Profile(ctx))
}

func TestWorksWithoutCache(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), logger.Nop())
	svc := NewService(adapter, nil, nil, logger.Nop())

	_, err := svc.VerifyOTP(ctx, "sam@example.com", MockOTP)
	require.NoError(t, err)
	assert.True(t, svc.IsAuthenticated(ctx))
}

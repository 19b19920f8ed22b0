package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/common/logger"
)

type countingFetcher struct {
	values map[string]any
	calls  map[string]int
}

func newCountingFetcher(values map[string]any) *countingFetcher {
	return &countingFetcher{values: values, calls: make(map[string]int)}
}

func (f *countingFetcher) fetch(_ context.Context, key string) any {
	f.calls[key]++
	return f.values[key]
}

func TestSubscribeSeedsFromFetcherOnce(t *testing.T) {
	ctx := context.Background()
	f := newCountingFetcher(map[string]any{"boards": []string{"b1"}})
	c := New(f.fetch, logger.Nop())

	v1, s1 := c.Subscribe(ctx, "boards", func(string, any) {})
	v2, s2 := c.Subscribe(ctx, "boards", func(string, any) {})
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	assert.Equal(t, []string{"b1"}, v1)
	assert.Equal(t, []string{"b1"}, v2)
	assert.Equal(t, 1, f.calls["boards"], "second subscriber must reuse the cached value")
	assert.Equal(t, 2, c.Subscribers("boards"))
}

func TestMutateWithoutRevalidateSkipsFetch(t *testing.T) {
	ctx := context.Background()
	f := newCountingFetcher(map[string]any{"tasks": "persisted"})
	c := New(f.fetch, logger.Nop())

	var got []any
	_, sub := c.Subscribe(ctx, "tasks", func(key string, value any) {
		assert.Equal(t, "tasks", key)
		got = append(got, value)
	})
	defer sub.Unsubscribe()

	c.Mutate(ctx, "tasks", "optimistic", false)

	assert.Equal(t, []any{"optimistic"}, got)
	assert.Equal(t, "optimistic", c.Get(ctx, "tasks"))
	assert.Equal(t, 1, f.calls["tasks"], "optimistic mutate must not re-read persistence")
}

func TestMutateWithRevalidateRefetches(t *testing.T) {
	ctx := context.Background()
	f := newCountingFetcher(map[string]any{"tasks": "v1"})
	c := New(f.fetch, logger.Nop())

	require.Equal(t, "v1", c.Get(ctx, "tasks"))
	f.values["tasks"] = "v2"

	c.Mutate(ctx, "tasks", "ignored", true)
	assert.Equal(t, "v2", c.Get(ctx, "tasks"))

	f.values["tasks"] = "v3"
	c.Revalidate(ctx, "tasks")
	assert.Equal(t, "v3", c.Get(ctx, "tasks"))
}

func TestNoCrossKeyInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newCountingFetcher(map[string]any{"boards": "boards-v1", "tasks": "tasks-v1"})
	c := New(f.fetch, logger.Nop())

	boardNotifications := 0
	_, bs := c.Subscribe(ctx, "boards", func(string, any) { boardNotifications++ })
	defer bs.Unsubscribe()
	_, ts := c.Subscribe(ctx, "tasks", func(string, any) {})
	defer ts.Unsubscribe()

	c.Mutate(ctx, "tasks", "tasks-v2", false)

	assert.Equal(t, 0, boardNotifications)
	assert.Equal(t, "boards-v1", c.Get(ctx, "boards"))
	assert.Equal(t, 1, f.calls["boards"])
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	c := New(func(context.Context, string) any { return nil }, logger.Nop())

	calls := 0
	_, sub := c.Subscribe(ctx, "profile", func(string, any) { calls++ })
	c.Mutate(ctx, "profile", 1, false)
	sub.Unsubscribe()
	sub.Unsubscribe()
	c.Mutate(ctx, "profile", 2, false)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Subscribers("profile"))
}

func TestNotificationOrderFollowsSubscriptionOrder(t *testing.T) {
	ctx := context.Background()
	c := New(func(context.Context, string) any { return nil }, logger.Nop())

	var order []string
	_, a := c.Subscribe(ctx, "k", func(string, any) { order = append(order, "a") })
	_, b := c.Subscribe(ctx, "k", func(string, any) { order = append(order, "b") })
	defer a.Unsubscribe()
	defer b.Unsubscribe()

	c.Mutate(ctx, "k", "x", false)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{"k"}, c.Keys())
}

func TestAs(t *testing.T) {
	assert.Equal(t, 3, As[int](3, 0))
	assert.Equal(t, 7, As[int]("not an int", 7))
	assert.Nil(t, As[[]string](nil, nil))
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: 1, Title: "from db"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &first, PostTTL, fetch(&first)))
	assert.Equal(t, "from db", first.Title)
	assert.True(t, mr.Exists("post:1"))

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &second, PostTTL, fetch(&second)))
	assert.Equal(t, "from db", second.Title)
	assert.Equal(t, 1, calls)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)
	boom := errors.New("boom")

	var dest cachedPost
	err := Aside(context.Background(), PostKey(2), &dest, PostTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("post:2"))
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)
	calls := 0
	var dest cachedPost
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), PostKey(3), &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_RedisDownFallsBackToFetch(t *testing.T) {
	mr := withMiniredis(t)
	mr.Close()

	var dest cachedPost
	err := Aside(context.Background(), PostKey(4), &dest, time.Minute, func() error {
		dest.Title = "fresh"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", dest.Title)
}

func TestInvalidatePost(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set("post:5", `{"id":5}`))

	InvalidatePost(context.Background(), 5)
	assert.False(t, mr.Exists("post:5"))
}

func TestKeyFamily(t *testing.T) {
	assert.Equal(t, "post", keyFamily(PostKey(9)))
	assert.Equal(t, "plain", keyFamily("plain"))
}

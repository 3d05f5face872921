package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	PostKeyPrefix = "post:%d"
	PostTTL       = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// Invalidate removes key from the cache. It is a no-op without Redis.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// keyFamily returns the prefix of key before the first ':' for metric labels.
func keyFamily(key string) string {
	family, _, _ := strings.Cut(key, ":")
	return family
}

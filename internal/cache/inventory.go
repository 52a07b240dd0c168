package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "profile:%s"
	TagsKey          = "tags:all"
)

const (
	ProfileTTL = 5 * time.Minute
	TagsTTL    = 10 * time.Minute
)

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagsKey)
}

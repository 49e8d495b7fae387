package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%s"
	CourseKeyPrefix = "course:%s"
	PostKeyPrefix   = "post:%s"
	feedVersionKey  = "feed:version"
	feedPagePrefix  = "feed:v%d:limit=%d:offset=%d"
)

const (
	UserTTL   = 5 * time.Minute
	CourseTTL = 10 * time.Minute
	PostTTL   = 30 * time.Minute
	FeedTTL   = 2 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CourseKey(courseID string) string {
	return fmt.Sprintf(CourseKeyPrefix, courseID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey builds the cache key for one page of the posts feed. The key
// embeds the current feed version, so bumping the version orphans every
// cached page at once; orphaned pages expire via TTL.
func FeedKey(ctx context.Context, limit, offset int) string {
	return fmt.Sprintf(feedPagePrefix, FeedVersion(ctx), limit, offset)
}

// FeedVersion returns the current feed invalidation token. Without Redis the
// version is constant, which is fine: there is nothing cached to invalidate.
func FeedVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, feedVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// InvalidateFeed bumps the feed version token. Consumers of the posts feed
// observe the new token on their next read instead of polling a refresh flag.
func InvalidateFeed(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, feedVersionKey)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCourse(ctx context.Context, courseID string) {
	Invalidate(ctx, CourseKey(courseID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}

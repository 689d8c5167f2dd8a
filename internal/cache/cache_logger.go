package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateReportCache drops a report's cached views and every aggregate derived from reports
func InvalidateReportCache(ctx context.Context, cm *CacheManager, id, reportID string) {
	keys := []string{"id:" + id}
	if reportID != "" {
		keys = append(keys, "rid:"+reportID)
	}
	SafeDelete(ctx, cm.Report, keys...)
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard*")
}

// InvalidateUserCache drops a cached user and the user aggregates
func InvalidateUserCache(ctx context.Context, cm *CacheManager, id string) {
	SafeDelete(ctx, cm.User, "id:"+id)
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard*")
}

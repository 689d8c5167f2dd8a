package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedReport struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestCacheHelper_SetGet(t *testing.T) {
	mr, client := newTestClient(t)
	helper := NewCacheHelper(client, ReportCacheConfig.Prefix)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedReport{ID: "1", Title: "Fire"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("report:id:1") {
		t.Fatal("expected prefixed key report:id:1 in redis")
	}

	var got cachedReport
	if err := helper.Get(ctx, "id:1", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Fire" {
		t.Errorf("Get() title = %q, want Fire", got.Title)
	}

	if err := helper.Get(ctx, "id:missing", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "report:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() without client should be a no-op, got %v", err)
	}
	var dest string
	if err := helper.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() error = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.InvalidatePattern(ctx, "*"); err != nil {
		t.Errorf("InvalidatePattern() error = %v", err)
	}

	calls := 0
	err := helper.CacheOrExecute(ctx, "k", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return "fetched", nil
	})
	if err != nil || dest != "fetched" || calls != 1 {
		t.Errorf("CacheOrExecute() = %v, dest %q, calls %d", err, dest, calls)
	}
}

func TestCacheHelper_InvalidationAfterFillWins(t *testing.T) {
	mr, client := newTestClient(t)
	helper := NewCacheHelper(client, ReportCacheConfig.Prefix)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		var dest cachedReport
		if err := helper.CacheOrExecute(ctx, "id:9", &dest, time.Minute, func() (interface{}, error) {
			return &cachedReport{ID: "9", Title: "stale"}, nil
		}); err != nil {
			t.Fatalf("CacheOrExecute() error = %v", err)
		}
		if err := helper.Delete(ctx, "id:9"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if mr.Exists("report:id:9") {
			t.Fatalf("iteration %d: fill landed after invalidation", i)
		}
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	mr, client := newTestClient(t)
	helper := NewCacheHelper(client, ReportCacheConfig.Prefix)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return &cachedReport{ID: "7", Title: "Theft"}, nil
	}

	var first cachedReport
	if err := helper.CacheOrExecute(ctx, "id:7", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if first.Title != "Theft" || calls != 1 {
		t.Fatalf("first call = %+v, calls %d", first, calls)
	}

	// the value is in redis as soon as the call returns
	if !mr.Exists("report:id:7") {
		t.Fatal("value was not written back to redis")
	}

	var second cachedReport
	if err := helper.CacheOrExecute(ctx, "id:7", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1 (cache hit)", calls)
	}

	fetchErr := errors.New("boom")
	var dest cachedReport
	err := helper.CacheOrExecute(ctx, "id:8", &dest, time.Minute, func() (interface{}, error) { return nil, fetchErr })
	if !errors.Is(err, fetchErr) {
		t.Errorf("CacheOrExecute() error = %v, want wrapped fetch error", err)
	}
}

func TestInvalidateReportCache(t *testing.T) {
	mr, client := newTestClient(t)
	cm := NewCacheManager(client)
	ctx := context.Background()

	_ = cm.Report.Set(ctx, "id:abc", cachedReport{ID: "abc"}, time.Minute)
	_ = cm.Report.Set(ctx, "rid:REP001", cachedReport{ID: "abc"}, time.Minute)
	_ = cm.Report.Set(ctx, "id:other", cachedReport{ID: "other"}, time.Minute)
	_ = cm.Stats.Set(ctx, "dashboard", map[string]int{"total": 1}, time.Minute)

	InvalidateReportCache(ctx, cm, "abc", "REP001")

	for _, key := range []string{"report:id:abc", "report:rid:REP001", "stats:dashboard"} {
		if mr.Exists(key) {
			t.Errorf("key %s should have been invalidated", key)
		}
	}
	if !mr.Exists("report:id:other") {
		t.Error("unrelated report key should survive")
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	_, client := newTestClient(t)
	if err := NewCacheManager(client).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := NewCacheManager(nil).HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() without client = %v, want ErrCacheNotAvailable", err)
	}
}

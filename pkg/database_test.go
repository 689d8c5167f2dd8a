package pkg

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/SAP-F-2025/crime-report-service/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(&config.Config{RedisURL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	defer client.Close()

	if _, err := NewRedisClient(&config.Config{RedisURL: "not a url"}); err == nil {
		t.Error("NewRedisClient() with a bad url should fail")
	}
}

package cache

import (
	"context"
	"testing"
	"time"
)

func TestRedisCacheUnreachableIsMiss(t *testing.T) {
	c := NewRedisCache(RedisOptions{Addr: "127.0.0.1:1"})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail")
	}
	if _, ok := c.Get(ctx, "prediction:abc"); ok {
		t.Fatalf("unreachable redis must behave as a miss")
	}
	if err := c.Set(ctx, "prediction:abc", "{}", time.Minute); err == nil {
		t.Fatalf("expected set to fail")
	}
}

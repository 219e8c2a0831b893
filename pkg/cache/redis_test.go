package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	data, hit, err := c.Get(ctx, "missing")
	if err != nil || hit || data != nil {
		t.Errorf("Get(missing) = %q, %v, %v; want clean miss", data, hit, err)
	}

	if err := c.Set(ctx, "artifact:svg", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err = c.Get(ctx, "artifact:svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(hit) = %q, %v, %v", data, hit, err)
	}
	if raw, err := mr.Get("artifact:svg"); err != nil || raw != "<svg/>" {
		t.Errorf("stored value = %q, %v", raw, err)
	}

	if err := c.Delete(ctx, "artifact:svg"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if mr.Exists("artifact:svg") {
		t.Error("key present in redis after Delete")
	}
	if _, hit, _ := c.Get(ctx, "artifact:svg"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "artifact:svg"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	tests := []struct {
		key string
		ttl time.Duration
	}{
		{"diagram:short", time.Minute},
		{"diagram:week", 168 * time.Hour},
		{"diagram:forever", 0},
	}
	for _, tt := range tests {
		if err := c.Set(ctx, tt.key, []byte("{}"), tt.ttl); err != nil {
			t.Fatalf("Set(%s) error: %v", tt.key, err)
		}
		if got := mr.TTL(tt.key); got != tt.ttl {
			t.Errorf("TTL(%s) = %v, want %v", tt.key, got, tt.ttl)
		}
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, err := c.Get(ctx, "diagram:short"); hit || err != nil {
		t.Errorf("Get(expired) = hit %v, err %v; want miss", hit, err)
	}
	if _, hit, _ := c.Get(ctx, "diagram:week"); !hit {
		t.Error("unexpired entry should hit")
	}
	if _, hit, _ := c.Get(ctx, "diagram:forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestRedisCacheServerError(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	mr.SetError("ERR backend unavailable")
	if _, hit, err := c.Get(ctx, "k"); err == nil || hit {
		t.Errorf("Get with server error = hit %v, err %v; want error", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err == nil {
		t.Error("Set with server error should fail")
	}
	if err := c.Delete(ctx, "k"); err == nil {
		t.Error("Delete with server error should fail")
	}
}

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := Open(ctx, Options{Backend: BackendRedis, RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatalf("Open(redis) error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*RedisCache); !ok {
		t.Fatalf("Open(redis) = %T", c)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}

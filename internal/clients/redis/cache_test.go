package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type cached struct {
	Level string  `json:"level"`
	Avg   float64 `json:"avg"`
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got cached
	if ok, err := c.GetJSON(ctx, "missing", &got); err != nil || ok {
		t.Fatalf("GetJSON(missing): ok=%v err=%v", ok, err)
	}
	if err := c.SetJSON(ctx, "rec:1", cached{Level: "hard", Avg: 82.5}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if ok, err := c.GetJSON(ctx, "rec:1", &got); err != nil || !ok || got.Level != "hard" || got.Avg != 82.5 {
		t.Fatalf("GetJSON: ok=%v err=%v got=%+v", ok, err, got)
	}
	if err := c.Delete(ctx, "rec:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := c.GetJSON(ctx, "rec:1", &got); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache().(*memoryCache)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	if err := c.SetJSON(ctx, "stats", 42, 30*time.Second); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var n int
	if ok, _ := c.GetJSON(ctx, "stats", &n); !ok || n != 42 {
		t.Fatalf("expected fresh hit, ok=%v n=%d", ok, n)
	}
	now = now.Add(31 * time.Second)
	if ok, _ := c.GetJSON(ctx, "stats", &n); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestNewCacheWithoutAddrUsesMemory(t *testing.T) {
	log, _ := logger.New("test")
	c, err := NewCache(log, "", "")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if _, ok := c.(*memoryCache); !ok {
		t.Fatalf("expected memory cache, got %T", c)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	log, _ := logger.New("test")
	c, err := NewCache(log, addr, "adaptivequiz-test:")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

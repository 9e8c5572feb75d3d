package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/relfetch/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v err %v, want hit", hit, err)
	}
	if string(data) != "v" {
		t.Errorf("Get = %q, want %q", data, "v")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestMemoryCacheCopiesInput(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	data, _, _ := c.Get(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("stored value changed with caller buffer: %q", data)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newMemoryCache(func() time.Time { return now })

	_ = c.Set(ctx, "short", []byte("1"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("2"), 0)

	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry within TTL should hit")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry past TTL should miss")
	}
	if c.Len() != 1 {
		t.Errorf("expired entry should be removed on read, len = %d", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry with zero TTL should never expire")
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newMemoryCache(func() time.Time { return now })

	for i := 0; i < sweepEvery-1; i++ {
		_ = c.Set(ctx, fmt.Sprintf("old-%d", i), []byte("x"), time.Second)
	}
	now = now.Add(time.Minute)
	_ = c.Set(ctx, "fresh", []byte("y"), time.Hour)

	if c.Len() != 1 {
		t.Errorf("sweep should leave only the fresh entry, len = %d", c.Len())
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = c.Set(ctx, key, []byte(key), time.Hour)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("k%d", i)
		if data, hit, _ := c.Get(ctx, key); !hit || string(data) != key {
			t.Errorf("Get(%s) = %q, %v", key, data, hit)
		}
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := "https://api.github.com/repos/o/r/commits?path=a&since=2026-01-01T00:00:00Z"
	key := k.HTTPKey("GET", base)
	if !strings.HasPrefix(key, "http:") {
		t.Errorf("HTTPKey unexpected prefix: %s", key)
	}

	if k.HTTPKey("get", base) != key {
		t.Error("method should be case-insensitive")
	}
	if k.HTTPKey("HEAD", base) == key {
		t.Error("different methods should produce different keys")
	}

	reordered := "https://api.github.com/repos/o/r/commits?since=2026-01-01T00:00:00Z&path=a"
	if k.HTTPKey("GET", reordered) != key {
		t.Error("query parameter order should not change the key")
	}

	other := "https://api.github.com/repos/o/r/commits?path=b&since=2026-01-01T00:00:00Z"
	if k.HTTPKey("GET", other) == key {
		t.Error("different queries should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api.github.com:")

	key := scoped.HTTPKey("GET", "https://api.github.com/repos/o/r/releases")
	want := "api.github.com:" + inner.HTTPKey("GET", "https://api.github.com/repos/o/r/releases")
	if key != want {
		t.Errorf("ScopedKeyer HTTPKey = %s, want %s", key, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("GET", "https://example.com")
	if !strings.HasPrefix(key, "prefix:http:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestNewRedisCacheErrorsAreCoded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "not a redis url"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad url: error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0"); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("unreachable server: error = %v, want %s", err, errors.ErrCodeNetwork)
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		ttl   time.Duration
	}{
		{
			name:  "store and retrieve string",
			key:   "test-key-1",
			value: "test-value",
			ttl:   1 * time.Minute,
		},
		{
			name: "store and retrieve product list",
			key:  "catalog:Batteries",
			value: []domain.Product{
				{ID: 5, Name: "HP 510 4-Cell Battery"},
			},
			ttl: 1 * time.Minute,
		},
		{
			name:  "store with short TTL",
			key:   "test-key-3",
			value: "expires-soon",
			ttl:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				_, err := cache.Get(ctx, tt.key)
				if !errors.Is(err, domain.ErrCacheMiss) {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			switch want := tt.value.(type) {
			case string:
				if got != want {
					t.Errorf("Get() = %v, want %v", got, want)
				}
			case []domain.Product:
				products, ok := got.([]domain.Product)
				if !ok || len(products) != len(want) || products[0].ID != want[0].ID {
					t.Errorf("Get() = %#v, want %#v", got, want)
				}
			}
		})
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, "value", 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key := "exists-test"

	exists, err := cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, key, "value", 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	exists, _ = cache.Exists(ctx, key)
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	shortKey := "short-ttl"
	if err := cache.Set(ctx, shortKey, "value", 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	exists, _ = cache.Exists(ctx, shortKey)
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 for empty cache", size)
	}

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if err := cache.Set(ctx, key, i, 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if size := cache.Size(); size != 4 {
		t.Errorf("Size() = %d, want 4 after delete", size)
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
	if _, err := cache.Get(ctx, "b"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get(b) after clear error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Sweeper(t *testing.T) {
	cache := NewMemoryCache(5 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "stale", "value", time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, "fresh", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for cache.Size() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1 after sweep", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(0)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, id, 1*time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

package cache

import (
	"context"
	"testing"
	"time"
)

func TestLocalCache(t *testing.T) {
	config := LocalConfig{
		MaxSize:           100,
		DefaultExpiration: 5 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}

	cache := NewLocalCache(config)
	defer cache.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, "user:912345678", []byte(`{"nombre":"Ana"}`), time.Minute)
		if err != nil {
			t.Errorf("Failed to set cache: %v", err)
		}

		if got, exists := cache.Get(ctx, "user:912345678"); !exists {
			t.Error("Cache value not found")
		} else if string(got) != `{"nombre":"Ana"}` {
			t.Errorf("Unexpected value: %s", got)
		}
	})

	t.Run("Expired entry", func(t *testing.T) {
		if err := cache.Set(ctx, "expired", []byte("x"), -time.Minute); err != nil {
			t.Errorf("Failed to set cache: %v", err)
		}
		// DefaultExpiration applies when the caller passes a non-positive TTL,
		// so force a zero-default config for this case.
		short := NewLocalCache(LocalConfig{MaxSize: 10})
		defer short.Close()
		_ = short.Set(ctx, "k", []byte("v"), time.Nanosecond)
		time.Sleep(2 * time.Millisecond)
		if _, exists := short.Get(ctx, "k"); exists {
			t.Error("Expected entry to expire")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = cache.Set(ctx, "gone", []byte("v"), time.Minute)
		if err := cache.Delete(ctx, "gone"); err != nil {
			t.Errorf("Failed to delete: %v", err)
		}
		if cache.Exists(ctx, "gone") {
			t.Error("Key still present after delete")
		}
	})
}

func TestGoCache(t *testing.T) {
	cache := NewGoCache(LocalConfig{DefaultExpiration: time.Minute, CleanupInterval: time.Minute})
	defer cache.Close()

	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}
	if got, exists := cache.Get(ctx, "k"); !exists || string(got) != "v" {
		t.Errorf("Expected v, got %q (exists=%v)", got, exists)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if cache.Exists(ctx, "k") {
		t.Error("Key survived Clear")
	}
}

func TestFactory(t *testing.T) {
	c, err := NewCache(Config{Type: "local"})
	if err != nil {
		t.Fatalf("Failed to build local cache: %v", err)
	}
	c.Close()

	if _, err := NewCache(Config{Type: "bogus"}); err == nil {
		t.Error("Expected error for unsupported type")
	}
}

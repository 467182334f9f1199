package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/bankrecon/internal/usecase"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != "bar" {
		t.Fatalf("expected bar, got %s", val)
	}
}

func TestCacheMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	_, err := NewCache(client).Get(context.Background(), "missing")
	if !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key"); !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected key to be deleted, got %v", err)
	}
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "short", []byte("v"), time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

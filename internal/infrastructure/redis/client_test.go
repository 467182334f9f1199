package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), url)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestNewClientWithConfigAppliesOptions(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClientWithConfig(context.Background(), ClientConfig{
		URL:         fmt.Sprintf("redis://%s", s.Addr()),
		DialTimeout: 2 * time.Second,
		PoolSize:    3,
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if client.Options().PoolSize != 3 {
		t.Fatalf("expected pool size 3, got %d", client.Options().PoolSize)
	}
	if client.Options().DialTimeout != 2*time.Second {
		t.Fatalf("expected dial timeout 2s, got %s", client.Options().DialTimeout)
	}
}

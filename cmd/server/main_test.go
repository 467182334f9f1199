package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/infrastructure/config"
)

func TestImportDefaults(t *testing.T) {
	cfg := &config.Config{ImportMode: "per_line", ImportCounterpartAccount: "5121", ImportDelimiter: ","}

	got, err := importDefaults(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mode != domain.ModePerLine || got.CounterpartAccount != "5121" || got.Delimiter != ',' {
		t.Fatalf("unexpected defaults %+v", got)
	}

	cfg.ImportMode = "weekly"
	if _, err := importDefaults(cfg); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: 2 * time.Second,
		HTTPIdleTimeout:  3 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())

	if srv.Addr != ":9090" {
		t.Fatalf("expected :9090, got %s", srv.Addr)
	}
	if srv.ReadTimeout != time.Second || srv.WriteTimeout != 2*time.Second || srv.IdleTimeout != 3*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
}

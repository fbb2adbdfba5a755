package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/asquebay/bird-events-service/internal/config"
)

func TestNewServerUsesConfiguredTimeouts(t *testing.T) {
	cfg := config.HTTPServer{
		Port:         ":0",
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 7 * time.Second,
		IdleTimeout:  time.Minute,
	}
	s := NewServer(cfg, http.NotFoundHandler())

	hs := s.httpServer
	if hs.Addr != ":0" {
		t.Errorf("Addr = %q", hs.Addr)
	}
	if hs.ReadTimeout != 3*time.Second || hs.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("read timeouts = %v / %v", hs.ReadTimeout, hs.ReadHeaderTimeout)
	}
	if hs.WriteTimeout != 7*time.Second {
		t.Errorf("WriteTimeout = %v", hs.WriteTimeout)
	}
	if hs.IdleTimeout != time.Minute {
		t.Errorf("IdleTimeout = %v", hs.IdleTimeout)
	}
}

func TestServerRunStopsOnShutdown(t *testing.T) {
	s := NewServer(config.HTTPServer{Port: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}, http.NotFoundHandler())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Run returned %v, want ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestHTTPServer_ShutdownWithoutStart(t *testing.T) {
	s := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() without Start() error = %v", err)
	}
}

func TestHTTPServer_StartAndShutdown(t *testing.T) {
	sc, _ := newTestServerContext(t)

	s := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), false)
	s.SetHealthChecker(NewHealthChecker(sc))

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start("127.0.0.1:0"); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("server error: %v", err)
		}
	case <-time.After(2 * time.Second):
		// Server shut down cleanly
	}
}

package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// Listen binds addr and serves the hub in the background. The returned
// server is shut down by the caller.
func Listen(addr string, h *Hub) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("stream: listening on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: h.Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream: server stopped", "error", err)
		}
	}()
	slog.Info("stream: serving snapshots", "addr", ln.Addr().String(), "path", "/ws")
	return srv, nil
}

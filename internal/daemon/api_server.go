package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"workbench/internal/logging"
)

// apiServer hosts the station HTTP handler. WriteTimeout stays unset so the
// SSE streams are not cut off; stop cancels the request base context to end
// them instead.
type apiServer struct {
	bind    string
	logger  *slog.Logger
	handler http.Handler

	mu         sync.Mutex
	server     *http.Server
	listener   net.Listener
	cancelBase context.CancelFunc
}

func newAPIServer(bind string, handler http.Handler, logger *slog.Logger) *apiServer {
	bind = strings.TrimSpace(bind)
	if bind == "" || handler == nil {
		return nil
	}
	return &apiServer{
		bind:    bind,
		logger:  logging.NewComponentLogger(logger, "api-server"),
		handler: handler,
	}
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	baseCtx, cancelBase := context.WithCancel(context.Background())
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	s.mu.Lock()
	s.server = server
	s.listener = listener
	s.cancelBase = cancelBase
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server stopped unexpectedly", "api_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "restart the daemon"),
				logging.String(logging.FieldImpact, "the operator UI loses its backend"))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return
	}
	s.cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Debug("api server shutdown", logging.Error(err))
		_ = s.server.Close()
	}
	s.listener = nil
	s.server = nil
}

func (s *apiServer) address() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultHandlerTimeout = 5 * time.Second

type HTTPServer struct {
	httpServer *http.Server
}

// NewHTTPServer wraps handler with a timeout; zero timeout means 5s.
func NewHTTPServer(
	addr string, handler http.Handler, timeout time.Duration,
) HTTPServer {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	handler = http.TimeoutHandler(handler, timeout, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()

	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"hospital-ai/config"
)

const shutdownGrace = 10 * time.Second

// Run serves handler on cfg.Addr() until ctx is cancelled, then drains
// in-flight requests for up to shutdownGrace.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	return Serve(ctx, ln, newHTTPServer(cfg, handler))
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	// Leave room for the model call, which is bounded by LLMTimeout.
	writeTimeout := cfg.LLMTimeout + 10*time.Second
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Serve runs srv on ln with graceful shutdown tied to ctx.
func Serve(ctx context.Context, ln net.Listener, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

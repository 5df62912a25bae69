package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/internal/server"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve detection, reports and extracts over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET  /healthz
  GET  /metrics
  POST /v1/detect
  POST /v1/analyze?granularity=week&top_n=5&currency=USD
  POST /v1/export?format=csv|xlsx

Files are sent as multipart field "file" or as the raw body with an
X-Filename header.`,
		Example: `  salescope serve --listen :9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := a.cfg.Params()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			clock := clockwork.NewRealClock()
			cache := engine.NewTTLCache(a.cfg.CacheTTL, clock)
			eng := engine.New(
				engine.WithLogger(a.logger),
				engine.WithClock(clock),
				engine.WithCache(cache),
			)
			go expireLoop(ctx, clock, cache, a.cfg.CacheTTL, a.logger)

			srv := server.New(eng, server.Options{
				Listen:         a.cfg.Listen,
				MaxUploadBytes: a.cfg.MaxUploadBytes,
				Infer:          a.cfg.InferOptions(),
				Defaults:       params,
			}, a.logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().String("listen", "", "Listen address (default :8080)")
	return cmd
}

// expireLoop drops stale series from the cache once per TTL.
func expireLoop(ctx context.Context, clock clockwork.Clock, cache *engine.TTLCache, ttl time.Duration, logger *slog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := clock.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := cache.Expire(); n > 0 {
				logger.Debug("cache: expired series", "count", n)
			}
		}
	}
}

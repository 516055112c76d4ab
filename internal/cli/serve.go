package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurante/internal/config"
	"github.com/iliyamo/restaurante/internal/repository"
	"github.com/iliyamo/restaurante/internal/router"
	queue_publisher "github.com/iliyamo/restaurante/internal/service"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rootOpts)
		},
	}
}

func serve(parent context.Context, opts *RootOptions) error {
	log := opts.logger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openMigrated(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if n, err := repository.NewTokenRepo(db).PurgeExpired(ctx, time.Now()); err != nil {
		log.Warn("purge revoked tokens failed", "error", err)
	} else if n > 0 {
		log.Info("purged expired revoked tokens", "count", n)
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Info("redis unavailable, rate limiting disabled")
	}

	events, err := queue_publisher.New(cfg)
	if err != nil {
		return err
	}
	defer events.Close()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(router.Deps{
			Cfg:       cfg,
			RateLimit: config.LoadRateLimitConfig(),
			DB:        db,
			Redis:     rdb,
			Events:    events,
			Logger:    log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "env", cfg.Env, "auth_required", cfg.AuthRequired, "events", cfg.EventsBroker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

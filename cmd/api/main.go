package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/ostvik/league-hub/internal/app"
	"github.com/ostvik/league-hub/internal/config"
	"github.com/ostvik/league-hub/internal/observability"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	var wg conc.WaitGroup

	wg.Go(func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	})

	wg.Go(func() {
		runInviteSweeper(ctx, cfg, application, logger)
	})

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	wg.Wait()

	if err := application.Close(); err != nil {
		logger.Error("close app", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof server", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	logger.Info("http server stopped")
}

// runInviteSweeper ticks at the configured interval and expires overdue
// pending invites. With the external scheduler enabled the tick enqueues
// a delayed callback to the internal job route instead, so exactly one
// replica performs the sweep.
func runInviteSweeper(ctx context.Context, cfg config.Config, application *app.App, logger *logging.Logger) {
	ticker := time.NewTicker(cfg.InviteSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if application.Scheduler != nil {
				dedupID := fmt.Sprintf("expire-invites-%d", now.UTC().Truncate(cfg.InviteSweepInterval).Unix())
				if err := application.Scheduler.Enqueue(ctx, "/v1/internal/jobs/expire-invites", nil, 0, dedupID); err != nil {
					logger.ErrorContext(ctx, "enqueue invite expiry job", "error", err)
				}
				continue
			}

			expired, err := application.InviteService.ExpireStale(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "expire stale invites", "error", err)
				continue
			}
			if expired > 0 {
				logger.InfoContext(ctx, "expired stale invites", "count", expired)
			}
		}
	}
}

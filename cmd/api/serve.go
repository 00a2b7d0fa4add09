package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/config"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/logging"
)

const shutdownTimeout = 15 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply schema migrations before serving")
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	if autoMigrate && a.db != nil {
		if err := a.db.Migrate(); err != nil {
			a.close()
			return err
		}
	}

	srvErr := make(chan error, 1)
	go func() {
		log.WithField("addr", a.http.Addr).Info("server starting")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-srvErr:
		if err != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if serr := a.scheduler.Shutdown(stopCtx); serr != nil {
				log.WithError(serr).Warn("auto-reply tasks still running at shutdown")
			}
			a.close()
			return errors.Wrap(err, "server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
	if err := a.scheduler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("auto-reply tasks still running at shutdown")
	}
	a.close()

	log.Info("server stopped")
	return nil
}

// Package cmd wires the pitstopd subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pitstop/sync/cli"
	"github.com/pitstop/sync/config"
	"github.com/pitstop/sync/internal/hub"
	"github.com/pitstop/sync/internal/mail"
	"github.com/pitstop/sync/internal/mirror"
	"github.com/pitstop/sync/internal/pidfile"
	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/internal/upload"
	"github.com/pitstop/sync/logging"
	"github.com/pitstop/sync/pkg/paths"
)

// NewServeCmd returns the serve command, the main entry point of the
// server.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sync server",
		Long:  "Run the booking back-office sync server in the foreground.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd, "pitstopd")

			cfg, cfgPath, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			applyLogLevel(cfg)

			pidPath := paths.PidFilePath()
			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Store, with state from the mirror when one exists, else
			// from the seed.
			st := state.New()
			var mir *mirror.Mirror
			restored := 0
			if cfg.Mirror.Path != "" {
				mir, err = mirror.Open(resolveMirrorPath(cfg.Mirror.Path))
				if err != nil {
					return fmt.Errorf("failed to open mirror: %w", err)
				}
				defer mir.Close()
				if cfg.Mirror.Restore {
					if restored, err = mir.Restore(st); err != nil {
						return fmt.Errorf("failed to restore mirror: %w", err)
					}
				}
			}
			if restored == 0 {
				if cfg.SeedFile != "" {
					if err := state.SeedFromFile(st, cfg.SeedFile); err != nil {
						return err
					}
				} else {
					state.Seed(st, state.DefaultSeed())
				}
			}

			// Collaborators.
			if mir != nil {
				go mir.Run(ctx, st, cfg.Mirror.FlushInterval.Std())
			}
			notifier := mail.NewNotifier(mail.NewSender(cfg.Mail), st)
			go notifier.Run(ctx)

			uploads, err := upload.NewStore(cfg.UploadDir)
			if err != nil {
				return err
			}

			// Hub and server.
			h := hub.New(st)
			go h.Run(ctx)
			srv := hub.NewServer(h, uploads)

			// Re-apply the log level when the config file changes.
			if cfgPath != "" {
				watcher, err := config.NewWatcher(cfgPath, func(next *config.Config) {
					applyLogLevel(next)
				})
				if err != nil {
					logger.WithError(err).Warn("Config watcher unavailable")
				} else {
					defer watcher.Close()
				}
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-stop
				logger.WithField("sig", sig).Info("Received stop signal")
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}
			}()

			logger.WithField("pid", os.Getpid()).Info("Starting pitstopd")
			if err := srv.ListenAndServe(cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func applyLogLevel(cfg *config.Config) {
	if cfg.Log.Level == "" {
		return
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return
	}
	logging.SetLevel(level)
}

// resolveMirrorPath keeps relative mirror paths under the data dir.
func resolveMirrorPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(paths.DataDir(), path)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amaumene/testenv/pkg/handlers"
	"github.com/amaumene/testenv/pkg/repository"
	"github.com/amaumene/testenv/pkg/services"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolved configuration over HTTP",
		Long: `serve exposes the resolved configuration, capabilities and endpoints as
JSON. Set TESTENV_API_KEY to require a key on the /api routes. With --db the
recorded run history is served under /api/runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.loadEnv()
			if err != nil {
				return err
			}
			cfg, err := resolve(env)
			if err != nil {
				return err
			}

			var (
				runs *services.RunService
				repo *repository.BoltRepository
			)
			if dbPath != "" {
				repo, err = repository.Open(dbPath)
				if err != nil {
					return err
				}
				defer repo.Close()
				runs = services.NewRunService(repo)
			}

			apiKey := env.String("TESTENV_API_KEY", "")
			if apiKey == "" {
				log.Warn("TESTENV_API_KEY not set, API routes are unauthenticated")
			}

			handler := handlers.NewHandler(cfg, runs, apiKey)
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.LoggingMiddleware(handler),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", addr).Info("Starting HTTP server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			return waitForShutdown(server, errCh)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "run history database to serve under /api/runs")
	return cmd
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// shuts the server down gracefully.
func waitForShutdown(server *http.Server, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("Received shutdown signal, initiating graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
		return err
	}
	log.Info("HTTP server shut down successfully")
	return nil
}

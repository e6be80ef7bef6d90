package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Germanaz0/phpconfar/internal/app"
	"github.com/Germanaz0/phpconfar/internal/metrics"
	transporthttp "github.com/Germanaz0/phpconfar/internal/transport/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the attendee HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startupCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			e, err := setup(startupCtx)
			if err != nil {
				return err
			}
			defer e.close()

			routerCfg := transporthttp.RouterConfig{
				Import:      app.ImportConfig{URLs: e.cfg.SourceURLs()},
				CORSOrigins: e.cfg.CORSOrigins,
				Logger:      e.logger,
				Ping:        e.ping,
			}
			if e.cfg.MetricsEnabled {
				routerCfg.Metrics = metrics.Handler(e.registry)
			}
			if len(routerCfg.Import.URLs) == 0 {
				e.logger.Printf("WARN: EVENBRITE_URL and EVENTIOZ_URL not set, import endpoint disabled")
			}

			server := &http.Server{
				Addr:              ":" + e.cfg.Port,
				Handler:           transporthttp.NewRouter(e.svc, routerCfg),
				ReadHeaderTimeout: 10 * time.Second,
			}
			e.logger.Printf("api listening on :%s (store=%s)", e.cfg.Port, e.cfg.StoreDriver)

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			stopCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-stopCtx.Done():
				e.logger.Printf("shutdown signal received, stopping server")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.logger.Printf("server shutdown error: %v", err)
			}
			e.logger.Printf("server stopped")
			return nil
		},
	}
}

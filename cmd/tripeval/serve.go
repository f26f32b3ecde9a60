package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/start-again-06/Travel-Agent-Voice-Based/cmd/tripeval/internal"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluator over HTTP",
	Long: `Start an HTTP server exposing POST /api/v1/evaluations and
POST /api/v1/reports. When metrics use the prometheus provider, the scrape
endpoint is mounted at server.metrics_path.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.address from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tel, err := setupTelemetry(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer tel.shutdown()

	runner, err := tel.newRunner(appConfig)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(runner, api.Options{
		Logger:         appLogger,
		MetricsHandler: tel.metrics.Handler(),
		MetricsPath:    appConfig.Server.MetricsPath,
		ReportTTL:      appConfig.Server.ReportTTL,
	})

	addr := serveAddr
	if addr == "" {
		addr = appConfig.Server.Address
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return internal.WrapError(internal.ExitError, "http server failed", err)
	case <-ctx.Done():
	}

	appLogger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return internal.WrapError(internal.ExitError, "http server shutdown failed", err)
	}
	return nil
}

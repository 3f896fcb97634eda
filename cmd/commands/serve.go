package commands

import (
	"ChartService/api"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Load the dataset and serve the chart API until interrupted.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5000, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	handler := api.NewAPIHandler(a.service, a.logger,
		api.WithCORS(a.cfg.CORS),
		api.WithRateLimit(a.cfg.RateLimit),
		api.WithPreviewLimits(a.cfg.Preview.DefaultLimit, a.cfg.Preview.MaxLimit),
	)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:        handler.SetupRoutes(),
		ReadTimeout:    a.cfg.Server.ReadTimeout,
		WriteTimeout:   a.cfg.Server.WriteTimeout,
		MaxHeaderBytes: a.cfg.Server.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		source, _ := a.store.Source()
		a.logger.Info("chart service starting",
			zap.Int("port", a.cfg.Server.Port),
			zap.String("dataset", source),
			zap.Bool("rate_limit", a.cfg.RateLimit.Enabled))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("received shutdown signal, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

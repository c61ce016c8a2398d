package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HerbHall/postreview/internal/config"
	"github.com/HerbHall/postreview/internal/llm"
	"github.com/HerbHall/postreview/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 5 * time.Second
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the review HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, logger)
		},
	}
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("postreview server starting",
		zap.String("version", version.Short()),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model()),
	)

	pipeline, provider, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	go func() {
		hctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		llm.ReportHealth(hctx, provider, cfg.LLM.Provider, logger.Named("llm"))
	}()

	a := newApp(cfg, pipeline, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()
	logger.Info("postreview server ready", zap.String("addr", cfg.Server.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("postreview server stopped")
	return <-errCh
}

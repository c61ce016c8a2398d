package main

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/HerbHall/postreview/internal/config"
	"github.com/HerbHall/postreview/internal/llm"
	"github.com/HerbHall/postreview/internal/review"
	"github.com/HerbHall/postreview/internal/server"
	"github.com/HerbHall/postreview/internal/tone"
	"github.com/HerbHall/postreview/internal/ws"
	pkgllm "github.com/HerbHall/postreview/pkg/llm"
	"go.uber.org/zap"
)

var errDraining = errors.New("server is shutting down")

// app is the composition root of the serve command.
type app struct {
	server   *server.Server
	streams  *ws.Handler
	draining atomic.Bool
	logger   *zap.Logger
}

// newPipeline builds the review pipeline on the configured completion provider.
func newPipeline(cfg *config.Config, logger *zap.Logger) (*review.Pipeline, pkgllm.Provider, error) {
	provider, err := llm.NewProvider(cfg.LLM, logger.Named("llm"))
	if err != nil {
		return nil, nil, err
	}
	client := llm.NewClient(provider, cfg.LLM, logger.Named("llm"))
	classifier := tone.NewClassifier(logger.Named("tone"))
	return review.NewPipeline(client, classifier, cfg.Review, logger.Named("review")), provider, nil
}

// newApp wires the pipeline into the HTTP and WebSocket surfaces.
func newApp(cfg *config.Config, pipeline *review.Pipeline, logger *zap.Logger) *app {
	a := &app{logger: logger}

	reviewHandler := review.NewHandler(pipeline, logger.Named("review"))
	a.streams = ws.NewHandler(pipeline, cfg.Server.CORSOrigins, logger.Named("ws"))

	ready := server.ReadinessChecker(func(context.Context) error {
		if a.draining.Load() {
			return errDraining
		}
		return nil
	})
	a.server = server.New(cfg.Server, logger, ready, reviewHandler, a.streams)
	return a
}

// shutdown marks the app not ready, closes open review streams, and drains
// in-flight HTTP requests.
func (a *app) shutdown(ctx context.Context) error {
	a.draining.Store(true)
	a.streams.Close()
	return a.server.Shutdown(ctx)
}

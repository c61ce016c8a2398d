// Package review runs the post review pipeline: local tone and limits
// analysis followed by two chained completion calls, one for suggestions
// and one for a rewrite that applies them.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/postreview/internal/platform"
	"github.com/HerbHall/postreview/internal/tone"
	pkgllm "github.com/HerbHall/postreview/pkg/llm"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prometheus pipeline metrics.
var (
	reviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postreview_review_total",
			Help: "Total number of reviews by outcome.",
		},
		[]string{"outcome"},
	)
	stageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postreview_review_stage_failures_total",
			Help: "Total number of failed pipeline stages.",
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(reviewsTotal)
	prometheus.MustRegister(stageFailuresTotal)
}

// Stage names a completion step of the pipeline.
type Stage string

const (
	StageSuggestions Stage = "suggestions"
	StageRevision    Stage = "revision"
)

// Status is the state of a stage reported to a ProgressFunc.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ProgressFunc observes stage transitions. It must not block.
type ProgressFunc func(stage Stage, status Status)

// Generator turns a prompt into completion text.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds the pipeline settings.
type Config struct {
	SuggestionCount int `mapstructure:"suggestion_count" yaml:"suggestion_count"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{SuggestionCount: 3}
}

// PipelineError reports the stage that failed a review. Err is the
// underlying provider error.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Cancelled() {
		return fmt.Sprintf("review %s stage cancelled: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("review %s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Code returns the provider error code of the failure, or "unknown".
func (e *PipelineError) Code() string {
	var pe *pkgllm.ProviderError
	if errors.As(e.Err, &pe) {
		return pe.Code
	}
	return "unknown"
}

// Timeout reports whether the stage failed because the provider call
// ran out of time.
func (e *PipelineError) Timeout() bool {
	return pkgllm.IsTimeoutError(e.Err)
}

// Cancelled reports whether the caller abandoned the review during the stage.
func (e *PipelineError) Cancelled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// Pipeline reviews posts. It holds only read-only collaborators and is safe
// for concurrent use.
type Pipeline struct {
	gen        Generator
	classifier *tone.Classifier
	cfg        Config
	logger     *zap.Logger
}

// NewPipeline creates a pipeline that sends prompts to gen.
func NewPipeline(gen Generator, classifier *tone.Classifier, cfg Config, logger *zap.Logger) *Pipeline {
	if cfg.SuggestionCount <= 0 {
		cfg.SuggestionCount = DefaultConfig().SuggestionCount
	}
	if classifier == nil {
		classifier = tone.NewClassifier(logger)
	}
	return &Pipeline{
		gen:        gen,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Review runs the full pipeline for req. Any completion failure aborts the
// review with a *PipelineError and no partial result.
func (p *Pipeline) Review(ctx context.Context, req Request) (*Result, error) {
	return p.ReviewWithProgress(ctx, req, nil)
}

// ReviewWithProgress is Review with stage transitions reported to progress.
// A nil progress is allowed.
func (p *Pipeline) ReviewWithProgress(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(Stage, Status) {}
	}
	start := time.Now()

	var (
		toneResult tone.Result
		limits     platform.Limits
		g          errgroup.Group
	)
	g.Go(func() error {
		toneResult = p.classifier.Classify(req.Text)
		return nil
	})
	g.Go(func() error {
		limits, _ = platform.Lookup(req.Platform)
		return nil
	})
	_ = g.Wait()

	suggestions, err := p.runStage(ctx, StageSuggestions, progress, func() (string, error) {
		return SuggestionsPrompt(req, limits, toneResult, p.cfg.SuggestionCount)
	})
	if err != nil {
		return nil, err
	}

	revised, err := p.runStage(ctx, StageRevision, progress, func() (string, error) {
		return RevisionPrompt(req, limits, suggestions)
	})
	if err != nil {
		return nil, err
	}

	reviewsTotal.WithLabelValues("success").Inc()
	p.logger.Info("review completed",
		zap.String("platform", req.Platform),
		zap.String("sentiment", string(toneResult.Sentiment)),
		zap.Int("text_length", len(req.Text)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Tone:        toneResult,
		Limitations: limits,
		Suggestions: suggestions,
		RevisedPost: revised,
	}, nil
}

// runStage builds one prompt and completes it, reporting progress and
// wrapping any failure in a *PipelineError for stage.
func (p *Pipeline) runStage(ctx context.Context, stage Stage, progress ProgressFunc, buildPrompt func() (string, error)) (string, error) {
	progress(stage, StatusStarted)

	out, err := func() (string, error) {
		prompt, err := buildPrompt()
		if err != nil {
			return "", err
		}
		p.logger.Debug("sending prompt", zap.String("stage", string(stage)), zap.String("prompt", prompt))
		return p.gen.Complete(ctx, prompt)
	}()
	if err != nil {
		progress(stage, StatusFailed)
		if errors.Is(err, context.Canceled) {
			reviewsTotal.WithLabelValues("cancelled").Inc()
			p.logger.Info("review cancelled by caller", zap.String("stage", string(stage)))
		} else {
			stageFailuresTotal.WithLabelValues(string(stage)).Inc()
			reviewsTotal.WithLabelValues("failed").Inc()
			p.logger.Warn("review stage failed", zap.String("stage", string(stage)), zap.Error(err))
		}
		return "", &PipelineError{Stage: stage, Err: err}
	}

	progress(stage, StatusCompleted)
	return out, nil
}

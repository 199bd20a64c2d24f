package main

import (
	"context"

	"github.com/pontoedu/apostila-review/internal/genai"
	"github.com/pontoedu/apostila-review/internal/linkcheck"
	"github.com/pontoedu/apostila-review/internal/resilience"
	"github.com/pontoedu/apostila-review/internal/review"
	"github.com/pontoedu/apostila-review/internal/store"
	"github.com/pontoedu/apostila-review/pkg/perplexity"
	"github.com/pontoedu/apostila-review/pkg/youtube"
)

// analysisEnv bundles the pipeline components a command needs.
type analysisEnv struct {
	generator genai.Generator
	analyzer  *linkcheck.Analyzer
	evaluator *review.Evaluator
	suggester *review.Suggester
}

// initAnalysis wires the link pipeline and the evaluator from config.
func initAnalysis() (*analysisEnv, error) {
	if err := cfg.RequireLinkAnalysis(); err != nil {
		return nil, err
	}

	generator, err := genai.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	fetchers := []linkcheck.Fetcher{
		linkcheck.NewVideoFetcher(youtube.NewClient(cfg.YouTube.APIKey,
			youtube.WithBaseURL(cfg.YouTube.BaseURL),
		)),
		linkcheck.NewSocialFetcher(),
		linkcheck.NewGenericFetcher(perplexity.NewClient(cfg.Perplexity.APIKey,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)),
		linkcheck.NewLocalFetcher(),
	}

	analyzer := linkcheck.NewAnalyzer(generator, fetchers,
		linkcheck.WithMaxConcurrent(cfg.Links.MaxConcurrent),
		linkcheck.WithRateLimit(cfg.Links.RatePerSec),
		linkcheck.WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay(),
			ShouldRetry:  resilience.IsTransient,
		}),
	)

	return &analysisEnv{
		generator: generator,
		analyzer:  analyzer,
		evaluator: review.NewEvaluator(generator),
		suggester: review.NewSuggester(generator),
	}, nil
}

// initStore opens the configured datastore and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
}

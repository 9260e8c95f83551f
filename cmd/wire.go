package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/enrich"
	"github.com/elenafy/ChefStacks-sub001/internal/orchestrator"
	"github.com/elenafy/ChefStacks-sub001/internal/preflight"
	"github.com/elenafy/ChefStacks-sub001/internal/store"
	"github.com/elenafy/ChefStacks-sub001/internal/videoextract"
	"github.com/elenafy/ChefStacks-sub001/internal/webextract"
	"github.com/elenafy/ChefStacks-sub001/pkg/anthropic"
	"github.com/elenafy/ChefStacks-sub001/pkg/memories"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
	"github.com/elenafy/ChefStacks-sub001/pkg/youtube"
)

// buildPipeline wires the orchestrator and its collaborators from process
// configuration. The returned cleanup closes the cache store.
func buildPipeline(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, func(), error) {
	yt := youtube.NewClient(cfg.YouTube.Key,
		youtube.WithBaseURL(cfg.YouTube.BaseURL),
		youtube.WithTimeout(time.Duration(cfg.YouTube.TimeoutSecs)*time.Second))

	classifier := buildClassifier(cfg, yt)

	mem := memories.NewClient(cfg.Memories.Key,
		memories.WithBaseURL(cfg.Memories.BaseURL),
		memories.WithRequestTimeout(time.Duration(cfg.Memories.RequestTimeout)*time.Second))
	video := videoextract.NewExtractor(mem, cfg)

	fetcher := pagefetch.NewClient(
		pagefetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		pagefetch.WithUserAgent(cfg.Fetch.UserAgent),
		pagefetch.WithRateLimit(cfg.Fetch.RequestsPerSec),
		pagefetch.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes))
	web := webextract.NewExtractor(fetcher)

	cache, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if cache != nil {
		if err := cache.Migrate(ctx); err != nil {
			cache.Close()
			return nil, nil, err
		}
		cleanup = func() { cache.Close() }
	}

	enricher := enrich.New(youtube.NewFrameCapture(yt), cfg.Enrich)

	return orchestrator.New(cfg, classifier, video, web, cache, enricher), cleanup, nil
}

func buildClassifier(cfg *config.Config, yt youtube.Client) *preflight.Classifier {
	rules := preflight.DefaultRules()
	if cfg.Preflight.RulesFile != "" {
		loaded, err := preflight.LoadRules(cfg.Preflight.RulesFile)
		if err != nil {
			zap.L().Warn("using default preflight rules",
				zap.String("file", cfg.Preflight.RulesFile),
				zap.Error(err))
		} else {
			rules = loaded
		}
	}

	var tiny preflight.TinyClassifier
	if cfg.Preflight.EnableTinyClassify && cfg.Anthropic.Key != "" {
		tiny = preflight.NewHaikuClassifier(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	}

	var sniffer preflight.TranscriptProvider
	if cfg.Preflight.EnableSniff {
		sniffer = yt
	}

	return preflight.NewClassifier(cfg.Preflight, rules, yt, sniffer, tiny)
}

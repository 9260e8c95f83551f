// Package orchestrator is the pipeline entry point: it routes a URL to the
// video or web extractor, gates video URLs behind the preflight classifier,
// and serves repeat requests from the cache when one is configured.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/preflight"
	"github.com/elenafy/ChefStacks-sub001/internal/store"
	"github.com/elenafy/ChefStacks-sub001/internal/videoextract"
)

// VideoExtractor is the video-path extractor.
type VideoExtractor interface {
	Extract(ctx context.Context, src model.SourceURL) (*model.FusedRecipe, error)
}

// WebExtractor is the web-path extractor.
type WebExtractor interface {
	Extract(ctx context.Context, pageURL string) (*model.FusedRecipe, error)
}

// PreflightGate evaluates whether a video URL is worth extracting.
type PreflightGate interface {
	Evaluate(ctx context.Context, src model.SourceURL) *preflight.Result
}

// StepEnricher attaches frame images to fused steps after video
// extraction. It only ever mutates Step.Image.
type StepEnricher interface {
	EnrichSteps(ctx context.Context, rec *model.FusedRecipe, videoID string) error
}

// Options control a single Extract call.
type Options struct {
	// SkipPreflight bypasses the gate. The caller sets it either for
	// trusted input or after a user confirms a borderline override.
	SkipPreflight bool
}

// Orchestrator routes and gates extraction requests. Construct once; safe
// for concurrent use.
type Orchestrator struct {
	cfg      *config.Config
	gate     PreflightGate
	video    VideoExtractor
	web      WebExtractor
	cache    store.Store  // nil disables caching
	enricher StepEnricher // nil disables step images
}

func New(cfg *config.Config, gate PreflightGate, video VideoExtractor, web WebExtractor, cache store.Store, enricher StepEnricher) *Orchestrator {
	return &Orchestrator{cfg: cfg, gate: gate, video: video, web: web, cache: cache, enricher: enricher}
}

// Extract runs the full pipeline for one URL and returns the fused recipe
// or a typed *Error.
func (o *Orchestrator) Extract(ctx context.Context, rawURL string, opts Options) (*model.FusedRecipe, error) {
	src, ok := model.ClassifyURL(rawURL)
	if !ok {
		return nil, newError(KindInvalidURL, "not a supported http(s) URL: "+rawURL, nil)
	}

	if rec := o.cached(ctx, src.Raw); rec != nil {
		zap.L().Info("orchestrator: cache hit", zap.String("url", src.Raw))
		return rec, nil
	}

	if src.Kind.IsVideo() && !opts.SkipPreflight && o.gate != nil {
		res := o.gate.Evaluate(ctx, src)
		if !res.Pass {
			zap.L().Info("orchestrator: preflight rejected",
				zap.String("url", src.Raw),
				zap.Int("score", res.Score),
				zap.Bool("override_allowed", res.AllowOverride))
			return nil, &Error{
				Kind:      KindPreflightRejected,
				Message:   res.Reason,
				Preflight: res,
			}
		}
	}

	var (
		rec *model.FusedRecipe
		err error
	)
	if src.Kind.IsVideo() {
		rec, err = o.video.Extract(ctx, src)
		if err != nil {
			return nil, o.mapVideoError(err)
		}
		// Enrichment only errors on cancellation; capture failures are
		// absorbed inside the enricher.
		if o.enricher != nil && src.Kind == model.KindVideoYouTube {
			if err := o.enricher.EnrichSteps(ctx, rec, src.VideoID); err != nil {
				return nil, newError(KindCancelled, "request cancelled", err)
			}
		}
	} else {
		rec, err = o.web.Extract(ctx, src.Raw)
		if err != nil {
			if ctx.Err() != nil {
				return nil, newError(KindCancelled, "request cancelled", ctx.Err())
			}
			return nil, newError(KindFetchFailed, "could not fetch page", err)
		}
	}

	rec.Debug.RunID = uuid.NewString()
	o.persist(ctx, src.Raw, rec)
	return rec, nil
}

func (o *Orchestrator) mapVideoError(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return newError(KindCancelled, "request cancelled", err)
	case errors.Is(err, videoextract.ErrUploadFailed):
		return newError(KindUploadFailed, "video could not be submitted for processing", err)
	case errors.Is(err, videoextract.ErrTimedOut):
		return newError(KindTimedOut, "video processing did not finish in time", err)
	case errors.Is(err, videoextract.ErrInvalidResponse):
		return newError(KindInvalidResponse, "video service returned an unusable answer", err)
	default:
		return newError(KindTransportError, "video service request failed", err)
	}
}

// cached returns a fresh copy from the cache, or nil. Cache faults are
// logged and treated as misses.
func (o *Orchestrator) cached(ctx context.Context, url string) *model.FusedRecipe {
	if o.cache == nil {
		return nil
	}
	rec, err := o.cache.GetRecipe(ctx, url)
	if err != nil {
		zap.L().Warn("orchestrator: cache read failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	if rec != nil {
		rec.Debug.CacheHit = true
	}
	return rec
}

func (o *Orchestrator) persist(ctx context.Context, url string, rec *model.FusedRecipe) {
	if o.cache == nil {
		return
	}
	ttl := time.Duration(o.cfg.Store.PageTTLHrs) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := o.cache.SetRecipe(ctx, url, rec, ttl); err != nil {
		zap.L().Warn("orchestrator: cache write failed", zap.String("url", url), zap.Error(err))
	}
}

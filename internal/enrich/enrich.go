// Package enrich attaches a frame capture to each fused step after
// extraction. Enrichment is strictly additive: it runs on the finished
// recipe, touches only Step.Image, and a failed capture leaves the step
// as it was.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
)

// FrameCapturer produces an image URL for a moment in a video.
type FrameCapturer interface {
	CaptureFrame(ctx context.Context, videoID string, atSeconds int) (string, error)
}

// Enricher adds step images in small bounded batches with a pause between
// batches, so the underlying media tool is never hammered.
type Enricher struct {
	capturer FrameCapturer
	batch    int
	pause    time.Duration
	limiter  *rate.Limiter
	timeout  time.Duration
}

func New(capturer FrameCapturer, cfg config.EnrichConfig) *Enricher {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 3
	}
	perSec := cfg.PerSecondCap
	if perSec <= 0 {
		perSec = 2
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Enricher{
		capturer: capturer,
		batch:    batch,
		pause:    time.Duration(cfg.PauseMillis) * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Limit(perSec), 1),
		timeout:  timeout,
	}
}

// EnrichSteps fills Image for every step that has a timestamp and no image
// yet. It mutates rec in place and only returns an error on cancellation;
// individual capture failures are logged and skipped.
func (e *Enricher) EnrichSteps(ctx context.Context, rec *model.FusedRecipe, videoID string) error {
	if videoID == "" || len(rec.Steps) == 0 {
		return nil
	}

	for start := 0; start < len(rec.Steps); start += e.batch {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		end := start + e.batch
		if end > len(rec.Steps) {
			end = len(rec.Steps)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			step := &rec.Steps[i]
			if step.Image != "" || step.TS <= 0 {
				continue
			}
			g.Go(func() error {
				if err := e.limiter.Wait(gctx); err != nil {
					return err
				}
				cctx, cancel := context.WithTimeout(gctx, e.timeout)
				defer cancel()

				img, err := e.capturer.CaptureFrame(cctx, videoID, step.TS)
				if err != nil {
					zap.L().Warn("enrich: frame capture failed",
						zap.String("video_id", videoID),
						zap.Int("step", step.Order),
						zap.Error(err))
					return nil
				}
				step.Image = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if e.pause > 0 && end < len(rec.Steps) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.pause):
			}
		}
	}
	return nil
}

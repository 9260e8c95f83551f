package memories

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/resilience"
)

const (
	defaultPollInterval    = 10 * time.Second
	defaultPollErrInterval = 5 * time.Second
	defaultPollCeiling     = 600 * time.Second
)

// ErrPollCeiling is returned when a task never reports ready video handles
// within the configured ceiling. Distinct from context cancellation.
var ErrPollCeiling = errors.New("memories: poll ceiling exceeded")

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	interval    time.Duration
	errInterval time.Duration
	ceiling     time.Duration
}

func defaultPollConfig() pollConfig {
	return pollConfig{
		interval:    defaultPollInterval,
		errInterval: defaultPollErrInterval,
		ceiling:     defaultPollCeiling,
	}
}

// WithPollInterval overrides the success-path poll interval. Non-positive
// values keep the default.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithPollErrInterval overrides the interval used after a transient poll
// error. Non-positive values keep the default.
func WithPollErrInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		if d > 0 {
			c.errInterval = d
		}
	}
}

// WithPollCeiling overrides the hard wall-clock ceiling on the whole wait.
// Non-positive values keep the default.
func WithPollCeiling(d time.Duration) PollOption {
	return func(c *pollConfig) {
		if d > 0 {
			c.ceiling = d
		}
	}
}

// WaitForReady polls PollStatus for taskID until at least one video handle
// is ready, the ceiling elapses (ErrPollCeiling), or ctx is cancelled
// (ctx.Err). Transient poll errors do not abort the wait; they switch the
// next sleep to the shorter error interval.
func WaitForReady(ctx context.Context, client Client, taskID string, opts ...PollOption) ([]string, error) {
	cfg := defaultPollConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	for {
		interval := cfg.interval

		status, err := client.PollStatus(ctx, taskID)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil && resilience.IsTransient(err):
			zap.L().Debug("memories: transient poll error, retrying sooner",
				zap.String("task_id", taskID),
				zap.Error(err),
			)
			interval = cfg.errInterval
		case err != nil:
			return nil, err
		default:
			if ready := status.Ready(); len(ready) > 0 {
				zap.L().Debug("memories: task ready",
					zap.String("task_id", taskID),
					zap.Int("videos", len(ready)),
					zap.Duration("waited", time.Since(start)),
				)
				return ready, nil
			}
		}

		if time.Since(start) >= cfg.ceiling {
			return nil, ErrPollCeiling
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

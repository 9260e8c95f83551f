package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
)

type capturerStub struct {
	mu       sync.Mutex
	calls    []int
	inflight int
	peak     int
	failAt   map[int]bool
}

func (c *capturerStub) CaptureFrame(_ context.Context, videoID string, atSeconds int) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, atSeconds)
	c.inflight++
	if c.inflight > c.peak {
		c.peak = c.inflight
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	if c.failAt[atSeconds] {
		return "", errors.New("frame grab failed")
	}
	return fmt.Sprintf("https://img.example.com/%s/%d.jpg", videoID, atSeconds), nil
}

func testEnrichConfig() config.EnrichConfig {
	return config.EnrichConfig{BatchSize: 3, PerSecondCap: 1000, PauseMillis: 0, TimeoutSecs: 5}
}

func recipeWithSteps(ts ...int) *model.FusedRecipe {
	rec := &model.FusedRecipe{}
	for i, t := range ts {
		rec.Steps = append(rec.Steps, model.Step{
			Order: i + 1,
			Text:  fmt.Sprintf("step %d", i+1),
			TS:    t,
			From:  model.ProvenanceMemoriesAI,
		})
	}
	return rec
}

func TestEnrichStepsFillsImages(t *testing.T) {
	fc := &capturerStub{}
	e := New(fc, testEnrichConfig())
	rec := recipeWithSteps(10, 45, 90, 160, 220)

	require.NoError(t, e.EnrichSteps(context.Background(), rec, "abc123def45"))

	for _, st := range rec.Steps {
		assert.NotEmpty(t, st.Image, "step %d", st.Order)
	}
	assert.Len(t, fc.calls, 5)
	assert.LessOrEqual(t, fc.peak, 3)
}

func TestEnrichStepsFailureLeavesImageEmpty(t *testing.T) {
	fc := &capturerStub{failAt: map[int]bool{45: true}}
	e := New(fc, testEnrichConfig())
	rec := recipeWithSteps(10, 45, 90)

	require.NoError(t, e.EnrichSteps(context.Background(), rec, "abc123def45"))

	assert.NotEmpty(t, rec.Steps[0].Image)
	assert.Empty(t, rec.Steps[1].Image)
	assert.NotEmpty(t, rec.Steps[2].Image)
}

func TestEnrichStepsSkipsStepsWithoutTimestamp(t *testing.T) {
	fc := &capturerStub{}
	e := New(fc, testEnrichConfig())
	rec := recipeWithSteps(10, 0, 90)
	rec.Steps[2].Image = "https://already.example.com/set.jpg"

	require.NoError(t, e.EnrichSteps(context.Background(), rec, "abc123def45"))

	assert.Len(t, fc.calls, 1)
	assert.Equal(t, 10, fc.calls[0])
	assert.Empty(t, rec.Steps[1].Image)
	assert.Equal(t, "https://already.example.com/set.jpg", rec.Steps[2].Image)
}

func TestEnrichStepsNoVideoIDIsNoOp(t *testing.T) {
	fc := &capturerStub{}
	e := New(fc, testEnrichConfig())
	rec := recipeWithSteps(10, 45)

	require.NoError(t, e.EnrichSteps(context.Background(), rec, ""))
	assert.Empty(t, fc.calls)
}

func TestEnrichStepsCancellation(t *testing.T) {
	fc := &capturerStub{}
	e := New(fc, testEnrichConfig())
	rec := recipeWithSteps(10, 45, 90)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.EnrichSteps(ctx, rec, "abc123def45")
	assert.ErrorIs(t, err, context.Canceled)
}

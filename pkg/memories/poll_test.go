package memories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned PollStatus outcomes in order, repeating the
// last one once the script runs out.
type scriptedClient struct {
	script []func() (*StatusResponse, error)
	calls  int
}

func (c *scriptedClient) Submit(_ context.Context, _ SubmitRequest) (*SubmitResponse, error) {
	return &SubmitResponse{TaskID: "task-1"}, nil
}

func (c *scriptedClient) PollStatus(_ context.Context, _ string) (*StatusResponse, error) {
	i := c.calls
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	c.calls++
	return c.script[i]()
}

func (c *scriptedClient) Chat(_ context.Context, _ ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Content: "{}"}, nil
}

func pending() (*StatusResponse, error) {
	return &StatusResponse{Videos: []VideoHandle{{VideoNo: "vid-1", Status: "UNPARSE"}}}, nil
}

func ready() (*StatusResponse, error) {
	return &StatusResponse{Videos: []VideoHandle{{VideoNo: "vid-1", Status: "PARSE"}}}, nil
}

func TestWaitForReadyEventuallyReady(t *testing.T) {
	client := &scriptedClient{script: []func() (*StatusResponse, error){pending, pending, ready}}

	vids, err := WaitForReady(context.Background(), client, "task-1",
		WithPollInterval(time.Millisecond),
		WithPollErrInterval(time.Millisecond),
		WithPollCeiling(time.Second),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"vid-1"}, vids)
	assert.Equal(t, 3, client.calls)
}

func TestWaitForReadyToleratesTransientErrors(t *testing.T) {
	transient := func() (*StatusResponse, error) {
		return nil, errors.New("read tcp: connection reset by peer")
	}
	client := &scriptedClient{script: []func() (*StatusResponse, error){pending, transient, ready}}

	vids, err := WaitForReady(context.Background(), client, "task-1",
		WithPollInterval(time.Millisecond),
		WithPollErrInterval(time.Millisecond),
		WithPollCeiling(time.Second),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"vid-1"}, vids)
}

func TestWaitForReadyFatalErrorAborts(t *testing.T) {
	fatal := func() (*StatusResponse, error) {
		return nil, errors.New("memories: HTTP 401: bad key")
	}
	client := &scriptedClient{script: []func() (*StatusResponse, error){fatal}}

	_, err := WaitForReady(context.Background(), client, "task-1",
		WithPollInterval(time.Millisecond),
		WithPollCeiling(time.Second),
	)

	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestWaitForReadyCeiling(t *testing.T) {
	client := &scriptedClient{script: []func() (*StatusResponse, error){pending}}

	interval := 20 * time.Millisecond
	ceiling := 90 * time.Millisecond

	start := time.Now()
	_, err := WaitForReady(context.Background(), client, "task-1",
		WithPollInterval(interval),
		WithPollErrInterval(interval),
		WithPollCeiling(ceiling),
	)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrPollCeiling)
	assert.GreaterOrEqual(t, elapsed, ceiling)
	assert.Less(t, elapsed, ceiling+2*interval)
}

func TestPollOptionsKeepDefaultsForNonPositive(t *testing.T) {
	cfg := defaultPollConfig()
	for _, opt := range []PollOption{
		WithPollInterval(0),
		WithPollErrInterval(-time.Second),
		WithPollCeiling(0),
	} {
		opt(&cfg)
	}

	assert.Equal(t, defaultPollInterval, cfg.interval)
	assert.Equal(t, defaultPollErrInterval, cfg.errInterval)
	assert.Equal(t, defaultPollCeiling, cfg.ceiling)
}

func TestWaitForReadyCancellation(t *testing.T) {
	client := &scriptedClient{script: []func() (*StatusResponse, error){pending}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := WaitForReady(ctx, client, "task-1",
		WithPollInterval(time.Second),
		WithPollCeiling(time.Minute),
	)

	require.ErrorIs(t, err, context.Canceled)
}

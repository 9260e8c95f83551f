package youtube

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
)

// FrameCapture derives a preview-frame URL for a moment in a video from the
// platform's fixed thumbnail set (hq1/hq2/hq3 cover the first, middle and
// last third of the video). Durations are fetched once per video and
// memoized, so enriching N steps costs one metadata call.
type FrameCapture struct {
	client Client

	mu        sync.Mutex
	durations map[string]int
}

// NewFrameCapture creates a frame capture backed by the metadata client.
func NewFrameCapture(client Client) *FrameCapture {
	return &FrameCapture{client: client, durations: make(map[string]int)}
}

// CaptureFrame returns the preview-frame URL nearest atSeconds. When the
// video duration is unavailable it falls back to the default thumbnail.
func (f *FrameCapture) CaptureFrame(ctx context.Context, videoID string, atSeconds int) (string, error) {
	if videoID == "" {
		return "", eris.New("youtube: frame capture needs a video id")
	}

	dur, err := f.duration(ctx, videoID)
	if err != nil {
		return "", err
	}
	if dur <= 0 || atSeconds < 0 {
		return ThumbnailURL(videoID), nil
	}

	frame := 1
	switch {
	case atSeconds*3 >= dur*2:
		frame = 3
	case atSeconds*3 >= dur:
		frame = 2
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hq%d.jpg", videoID, frame), nil
}

func (f *FrameCapture) duration(ctx context.Context, videoID string) (int, error) {
	f.mu.Lock()
	if dur, ok := f.durations[videoID]; ok {
		f.mu.Unlock()
		return dur, nil
	}
	f.mu.Unlock()

	md, err := f.client.VideoMetadata(ctx, videoID)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	f.durations[videoID] = md.DurationSecs
	f.mu.Unlock()
	return md.DurationSecs, nil
}

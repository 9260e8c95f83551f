// Package youtube provides a client for the YouTube Data API metadata the
// preflight classifier consumes, plus a best-effort transcript excerpt
// fetch. Every call here is cheap relative to video AI processing.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/youtube/v3"
	defaultTimedText = "https://video.google.com/timedtext"

	// CategoryHowToStyle is the platform category id for How-to & Style,
	// the category most cooking uploads land in.
	CategoryHowToStyle = "26"
)

// Metadata is the platform-provided video metadata used by preflight.
type Metadata struct {
	VideoID      string
	Title        string
	Description  string
	DurationSecs int
	CategoryID   string
	HasCaption   bool
}

// Client defines the metadata provider operations.
type Client interface {
	// VideoMetadata fetches snippet and content details for a video id.
	VideoMetadata(ctx context.Context, videoID string) (*Metadata, error)
	// TranscriptExcerpt returns up to maxChars of caption text, best-effort.
	// Errors here never gate extraction; callers treat them as "no excerpt".
	TranscriptExcerpt(ctx context.Context, videoID string, maxChars int) (string, error)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the Data API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithTimedTextURL overrides the caption endpoint.
func WithTimedTextURL(u string) Option {
	return func(c *httpClient) {
		c.timedTextURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey       string
	baseURL      string
	timedTextURL string
	http         *http.Client
}

// NewClient creates a metadata client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		timedTextURL: defaultTimedText,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			CategoryID  string `json:"categoryId"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
			Caption  string `json:"caption"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *httpClient) VideoMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: fetch metadata")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("youtube: HTTP %d: %s", resp.StatusCode, string(data))
	}

	var vr videosResponse
	if err := json.Unmarshal(data, &vr); err != nil {
		return nil, eris.Wrap(err, "youtube: decode response")
	}
	if len(vr.Items) == 0 {
		return nil, eris.Errorf("youtube: video %s not found", videoID)
	}

	item := vr.Items[0]
	secs, ok := ParseISO8601Duration(item.ContentDetails.Duration)
	if !ok {
		secs = 0
	}

	return &Metadata{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		DurationSecs: secs,
		CategoryID:   item.Snippet.CategoryID,
		HasCaption:   item.ContentDetails.Caption == "true",
	}, nil
}

func (c *httpClient) TranscriptExcerpt(ctx context.Context, videoID string, maxChars int) (string, error) {
	q := url.Values{}
	q.Set("lang", "en")
	q.Set("v", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.timedTextURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", eris.Wrap(err, "youtube: create transcript request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "youtube: fetch transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("youtube: transcript HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", eris.Wrap(err, "youtube: read transcript")
	}

	text := stripTimedText(string(data))
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

// ThumbnailURL derives the standard high-quality thumbnail URL for a video
// id. Purely computed, no network call.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}

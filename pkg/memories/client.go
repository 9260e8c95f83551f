// Package memories provides a client for the Memories video understanding
// API: submit a video URL for ingestion, poll the task until video handles
// are ready, then ask questions against the processed video.
package memories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/elenafy/ChefStacks-sub001/internal/resilience"
)

// Default base URL for the Memories serve API.
const defaultBaseURL = "https://api.memories.ai/serve/api/v1"

// Client defines the Memories API operations used by the pipeline.
type Client interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
	PollStatus(ctx context.Context, taskID string) (*StatusResponse, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// SubmitRequest is the body for POST /task/upload_url.
type SubmitRequest struct {
	URLs    []string `json:"urls"`
	Quality int      `json:"quality,omitempty"`
}

// SubmitResponse is the response from POST /task/upload_url.
type SubmitResponse struct {
	Code   string `json:"code"`
	TaskID string `json:"taskId"`
}

// StatusResponse is the response from GET /task/status/{id}.
type StatusResponse struct {
	Code   string        `json:"code"`
	Status string        `json:"status"`
	Videos []VideoHandle `json:"videos"`
}

// VideoHandle identifies one processed video within a task.
type VideoHandle struct {
	VideoNo string `json:"video_no"`
	Status  string `json:"status"`
}

// Ready returns the handles of videos the service reports as processed.
func (s *StatusResponse) Ready() []string {
	var out []string
	for _, v := range s.Videos {
		if v.Status == "" || v.Status == "PARSE" || v.Status == "READY" {
			out = append(out, v.VideoNo)
		}
	}
	return out
}

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	VideoNos  []string `json:"video_nos"`
	Prompt    string   `json:"prompt"`
	SessionID string   `json:"session_id"`
	UniqueID  string   `json:"unique_id"`
}

// ChatResponse is the response from POST /chat. Different service versions
// return the answer under different keys; Text resolves the union.
type ChatResponse struct {
	Code    string `json:"code"`
	Content string `json:"content"`
	Answer  string `json:"answer"`
	Data    *struct {
		Content string `json:"content"`
	} `json:"data"`
}

// Text returns the answer body regardless of which response variant the
// service produced, or "" when no variant carries one.
func (r *ChatResponse) Text() string {
	switch {
	case r.Content != "":
		return r.Content
	case r.Answer != "":
		return r.Answer
	case r.Data != nil:
		return r.Data.Content
	default:
		return ""
	}
}

// APIError is returned when the service responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("memories: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRequestTimeout overrides the per-request timeout. This is distinct
// from the overall polling ceiling; it bounds a single stalled call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Memories client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "/task/upload_url", req, &resp); err != nil {
		return nil, eris.Wrap(err, "memories: submit")
	}
	return &resp, nil
}

func (c *httpClient) PollStatus(ctx context.Context, taskID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, fmt.Sprintf("/task/status/%s", taskID), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("memories: poll status %s", taskID))
	}
	return &resp, nil
}

func (c *httpClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return nil, eris.Wrap(err, "memories: chat")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(data)}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(apiErr, resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/orchestrator"
	"github.com/elenafy/ChefStacks-sub001/internal/preflight"
)

type pipelineStub struct {
	rec     *model.FusedRecipe
	err     error
	lastURL string
	lastOpt orchestrator.Options
}

func (p *pipelineStub) Extract(_ context.Context, rawURL string, opts orchestrator.Options) (*model.FusedRecipe, error) {
	p.lastURL = rawURL
	p.lastOpt = opts
	return p.rec, p.err
}

func newTestServer(p Pipeline) *httptest.Server {
	s := NewServer(p, &config.Config{})
	return httptest.NewServer(s.Router())
}

func postExtract(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/extract", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&pipelineStub{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractEndpointSuccess(t *testing.T) {
	stub := &pipelineStub{rec: &model.FusedRecipe{
		Title: "Shakshuka",
		Ingredients: []model.Ingredient{
			{Text: "4 eggs", From: model.ProvenanceStructured},
		},
		Confidence: model.ConfidenceScores{Ingredients: 0.95},
	}}
	srv := newTestServer(stub)
	defer srv.Close()

	resp := postExtract(t, srv, map[string]any{
		"url":            "https://example.com/shakshuka",
		"skip_preflight": true,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec model.FusedRecipe
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "Shakshuka", rec.Title)
	assert.Equal(t, "https://example.com/shakshuka", stub.lastURL)
	assert.True(t, stub.lastOpt.SkipPreflight)
}

func TestExtractEndpointRejectsBadBody(t *testing.T) {
	stub := &pipelineStub{}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/extract", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postExtract(t, srv, map[string]any{"url": ""})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtractEndpointErrorStatuses(t *testing.T) {
	cases := []struct {
		kind orchestrator.ErrorKind
		want int
	}{
		{orchestrator.KindInvalidURL, http.StatusBadRequest},
		{orchestrator.KindPreflightRejected, http.StatusUnprocessableEntity},
		{orchestrator.KindTimedOut, http.StatusGatewayTimeout},
		{orchestrator.KindUploadFailed, http.StatusBadGateway},
		{orchestrator.KindTransportError, http.StatusBadGateway},
		{orchestrator.KindFetchFailed, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			srv := newTestServer(&pipelineStub{err: &orchestrator.Error{Kind: tc.kind, Message: "nope"}})
			defer srv.Close()

			resp := postExtract(t, srv, map[string]any{"url": "https://example.com/x"})
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tc.kind), body.Error.Kind)
		})
	}
}

func TestExtractEndpointPreflightPayload(t *testing.T) {
	res := &preflight.Result{
		Pass:          false,
		Borderline:    true,
		AllowOverride: true,
		Score:         35,
		Reason:        "borderline recipe signals",
	}
	srv := newTestServer(&pipelineStub{err: &orchestrator.Error{
		Kind:      orchestrator.KindPreflightRejected,
		Message:   res.Reason,
		Preflight: res,
	}})
	defer srv.Close()

	resp := postExtract(t, srv, map[string]any{"url": "https://www.youtube.com/watch?v=abc123def45"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Error.CanOverride)
	require.NotNil(t, body.Error.Preflight)
	assert.Equal(t, 35, body.Error.Preflight.Score)
}

package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/pkg/anthropic"
)

const tinySystemPrompt = `You judge whether a video is a cooking recipe from its title and description. Respond with a valid JSON object: {"isRecipe": <bool>, "confidence": <0.0-1.0>}`

const tinyUserPrompt = `Title: %s

Description (first 1500 chars):
%s`

// HaikuClassifier implements TinyClassifier with a single small-model call.
type HaikuClassifier struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewHaikuClassifier creates a tiny classifier backed by client.
func NewHaikuClassifier(client anthropic.Client, cfg config.AnthropicConfig) *HaikuClassifier {
	return &HaikuClassifier{client: client, cfg: cfg}
}

// Classify asks the model for a binary verdict. Any transport or parse
// failure surfaces as an error; the caller degrades by omitting the signal.
func (h *HaikuClassifier) Classify(ctx context.Context, title, description string) (bool, float64, error) {
	if len(description) > 1500 {
		description = description[:1500]
	}
	if h.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(h.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	resp, err := h.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     h.cfg.Model,
		MaxTokens: 64,
		System:    tinySystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(tinyUserPrompt, title, description)},
		},
	})
	if err != nil {
		return false, 0, err
	}

	var verdict struct {
		IsRecipe   bool    `json:"isRecipe"`
		Confidence float64 `json:"confidence"`
	}
	text := cleanJSON(resp.Text())
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return false, 0, eris.Wrap(err, "preflight: parse tiny verdict")
	}

	return verdict.IsRecipe, verdict.Confidence, nil
}

// cleanJSON strips markdown code fences models sometimes wrap JSON in.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// Package videoextract obtains a structured recipe for a video URL from the
// memories.ai video-understanding service: submit the URL, wait for the
// ingest task to finish, then ask for the recipe as JSON against the
// processed video handles.
package videoextract

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/fusion"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/memories"
	"github.com/elenafy/ChefStacks-sub001/pkg/youtube"
)

// Terminal outcomes of the extraction state machine. Callers distinguish
// them with errors.Is; none is retryable by this package itself.
var (
	ErrUploadFailed    = errors.New("videoextract: upload failed")
	ErrTimedOut        = errors.New("videoextract: processing timed out")
	ErrInvalidResponse = errors.New("videoextract: unusable service response")
)

// Extractor drives one submit/poll/chat cycle per call. Safe for concurrent
// use; all per-call state lives on the stack.
type Extractor struct {
	client   memories.Client
	cfg      *config.Config
	pollOpts []memories.PollOption
}

// NewExtractor creates a video extractor. Extra poll options are applied
// after the config-derived ones and win on conflict.
func NewExtractor(client memories.Client, cfg *config.Config, pollOpts ...memories.PollOption) *Extractor {
	return &Extractor{client: client, cfg: cfg, pollOpts: pollOpts}
}

// Extract runs the full cycle for one video. Cancellation of ctx surfaces
// as the context's own error so callers can tell user aborts from faults.
func (e *Extractor) Extract(ctx context.Context, src model.SourceURL) (*model.FusedRecipe, error) {
	start := time.Now()

	sub, err := e.client.Submit(ctx, memories.SubmitRequest{
		URLs:    []string{src.Raw},
		Quality: e.cfg.Memories.Quality,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, eris.Wrap(errors.Join(ErrUploadFailed, err), "videoextract: submit")
	}
	if sub.TaskID == "" {
		return nil, eris.Wrap(ErrUploadFailed, "videoextract: submit returned no task id")
	}

	zap.L().Info("videoextract: task submitted",
		zap.String("task_id", sub.TaskID),
		zap.String("url", src.Raw))

	opts := []memories.PollOption{
		memories.WithPollInterval(time.Duration(e.cfg.Memories.PollInterval) * time.Second),
		memories.WithPollErrInterval(time.Duration(e.cfg.Memories.PollErrInterval) * time.Second),
		memories.WithPollCeiling(time.Duration(e.cfg.Memories.PollCeiling) * time.Second),
	}
	videoNos, err := memories.WaitForReady(ctx, e.client, sub.TaskID, append(opts, e.pollOpts...)...)
	switch {
	case errors.Is(err, memories.ErrPollCeiling):
		return nil, eris.Wrap(errors.Join(ErrTimedOut, err), "videoextract: wait for processing")
	case err != nil:
		return nil, err
	case len(videoNos) == 0:
		return nil, eris.Wrap(ErrInvalidResponse, "videoextract: task ready with no video handles")
	}

	chat, err := e.client.Chat(ctx, memories.ChatRequest{
		VideoNos:  videoNos,
		Prompt:    recipePromptV1,
		SessionID: uuid.NewString(),
		UniqueID:  uuid.NewString(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, eris.Wrap(err, "videoextract: chat")
	}

	fields, err := parseRecipePayload(chat.Text())
	if err != nil {
		return nil, err
	}

	if fields.Image == "" && src.Kind == model.KindVideoYouTube && src.VideoID != "" {
		// Best effort; a missing thumbnail never fails the extraction.
		fields.Image = youtube.ThumbnailURL(src.VideoID)
	}

	rec := fusion.Fuse([]*model.PartialFields{fields}, model.ExtractionDebug{
		Layer:    "memories-ai",
		Attempts: []string{"memories-ai"},
	})

	zap.L().Info("videoextract: extraction complete",
		zap.String("task_id", sub.TaskID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.Int("steps", len(rec.Steps)))
	return rec, nil
}

package preflight

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/youtube"
)

// MetadataProvider supplies platform metadata for a video id.
type MetadataProvider interface {
	VideoMetadata(ctx context.Context, videoID string) (*youtube.Metadata, error)
}

// TranscriptProvider supplies a best-effort transcript excerpt.
type TranscriptProvider interface {
	TranscriptExcerpt(ctx context.Context, videoID string, maxChars int) (string, error)
}

// TinyClassifier gives a fast binary is-this-a-recipe verdict.
type TinyClassifier interface {
	Classify(ctx context.Context, title, description string) (isRecipe bool, confidence float64, err error)
}

// Classifier is the preflight gate. Construct once with process
// configuration; safe for concurrent use.
type Classifier struct {
	cfg     config.PreflightConfig
	rules   *Rules
	meta    MetadataProvider
	sniffer TranscriptProvider // optional
	tiny    TinyClassifier     // optional
}

// NewClassifier creates a preflight classifier. sniffer and tiny may be nil;
// the corresponding signals are then omitted from the breakdown.
func NewClassifier(cfg config.PreflightConfig, rules *Rules, meta MetadataProvider, sniffer TranscriptProvider, tiny TinyClassifier) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{cfg: cfg, rules: rules, meta: meta, sniffer: sniffer, tiny: tiny}
}

// transcriptExcerptChars bounds how much caption text the sniffer samples.
const transcriptExcerptChars = 2000

// Evaluate scores src before any expensive processing. It never fails:
// missing metadata and optional-signal timeouts degrade the score instead
// of aborting.
func (c *Classifier) Evaluate(ctx context.Context, src model.SourceURL) *Result {
	res := &Result{}

	md, err := c.meta.VideoMetadata(ctx, src.VideoID)
	if err != nil {
		zap.L().Warn("preflight: metadata fetch failed, degrading",
			zap.String("video_id", src.VideoID),
			zap.Error(err),
		)
		md = &youtube.Metadata{VideoID: src.VideoID}
	}

	text := md.Title + "\n" + md.Description

	res.Checks.Duration = c.checkDuration(md.DurationSecs)
	res.Checks.Category = c.checkCategory(md.CategoryID)
	res.Checks.Caption = c.checkCaption(md.HasCaption)
	res.Checks.Topic = c.checkTopics(text)
	res.Checks.Patterns = c.checkPatterns(text)
	res.Checks.AntiSignals = c.checkAntiSignals(text)

	res.Score = res.Checks.Category.Score +
		res.Checks.Caption.Score +
		res.Checks.Topic.Score +
		res.Checks.Patterns.Score +
		res.Checks.AntiSignals.Score

	if c.cfg.EnableSniff && c.sniffer != nil && md.HasCaption {
		if sniff := c.runSniff(ctx, src.VideoID); sniff != nil {
			res.TranscriptSniff = sniff
			res.Score += sniff.Score
		}
	}
	if c.cfg.EnableTinyClassify && c.tiny != nil {
		if verdict := c.runTiny(ctx, md.Title, md.Description); verdict != nil {
			res.TinyClassifier = verdict
			res.Score += verdict.Score
		}
	}

	c.aggregate(res)

	zap.L().Info("preflight: evaluated",
		zap.String("video_id", src.VideoID),
		zap.Int("score", res.Score),
		zap.Bool("pass", res.Pass),
		zap.Bool("borderline", res.Borderline),
		zap.String("reason", res.Reason),
	)

	return res
}

// aggregate applies the duration veto and the two thresholds, and attaches
// the user message.
func (c *Classifier) aggregate(res *Result) {
	if !res.Checks.Duration.Pass {
		// Veto dominates the additive score and is never overridable.
		res.Pass = false
		res.Borderline = false
		res.AllowOverride = false
		res.Reason = res.Checks.Duration.Reason
		res.UserMessage = durationMessage(res.Checks.Duration)
		return
	}

	switch {
	case res.Score >= c.cfg.PassThreshold:
		res.Pass = true
		res.Reason = "content signals indicate a recipe"
		res.UserMessage = passMessage()
	case res.Score >= c.cfg.BorderlineThreshold:
		res.Pass = false
		res.Borderline = true
		res.AllowOverride = true
		res.Reason = "weak recipe signals; override available"
		res.UserMessage = borderlineMessage(res)
	default:
		res.Pass = false
		res.Reason = "no meaningful recipe signals found"
		res.UserMessage = rejectMessage(res)
	}
}

func (c *Classifier) runSniff(ctx context.Context, videoID string) *TranscriptSniff {
	timeout := time.Duration(c.cfg.SniffTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	excerpt, err := c.sniffer.TranscriptExcerpt(sctx, videoID, transcriptExcerptChars)
	if err != nil || excerpt == "" {
		// Timeouts and absent captions skip silently.
		zap.L().Debug("preflight: transcript sniff skipped",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		return nil
	}

	return c.sniffTranscript(excerpt)
}

func (c *Classifier) runTiny(ctx context.Context, title, description string) *Verdict {
	timeout := time.Duration(c.cfg.SniffTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	isRecipe, confidence, err := c.tiny.Classify(tctx, title, description)
	if err != nil {
		zap.L().Debug("preflight: tiny classifier skipped", zap.Error(err))
		return nil
	}

	confidence = math.Max(0, math.Min(1, confidence))
	weighted := int(math.Round(c.cfg.TinyClassifyWeight * confidence))
	if !isRecipe {
		weighted = -weighted
	}

	return &Verdict{IsRecipe: isRecipe, Confidence: confidence, Score: weighted}
}

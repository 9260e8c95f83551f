// Package preflight decides, cheaply, whether a video URL is worth expensive
// extraction. It scores platform metadata with a weighted, veto-capable rule
// set and optionally samples a transcript excerpt and a tiny text classifier.
package preflight

// Result is the outcome of a preflight evaluation for one video URL. It is
// produced once and never mutated; the orchestrator uses it to gate or
// annotate the request.
type Result struct {
	Pass            bool             `json:"pass"`
	Score           int              `json:"score"`
	Reason          string           `json:"reason"`
	Borderline      bool             `json:"borderline"`
	AllowOverride   bool             `json:"allow_override"`
	Checks          ChecksBreakdown  `json:"checks"`
	TranscriptSniff *TranscriptSniff `json:"transcript_sniff,omitempty"`
	TinyClassifier  *Verdict         `json:"tiny_classifier,omitempty"`
	UserMessage     UserMessage      `json:"user_message"`
}

// ChecksBreakdown itemizes every sub-check's contribution.
type ChecksBreakdown struct {
	Duration    DurationCheck   `json:"duration"`
	Category    CategoryCheck   `json:"category"`
	Caption     CaptionCheck    `json:"caption"`
	Topic       TopicCheck      `json:"topic"`
	Patterns    PatternCheck    `json:"patterns"`
	AntiSignals AntiSignalCheck `json:"anti_signals"`
}

// DurationCheck reports the hard duration gate. A failing duration vetoes
// the whole preflight regardless of the additive score.
type DurationCheck struct {
	Pass   bool   `json:"pass"`
	Value  int    `json:"value"`
	Reason string `json:"reason"`
}

// CategoryCheck reports the platform category score.
type CategoryCheck struct {
	Score      int    `json:"score"`
	CategoryID string `json:"category_id"`
}

// CaptionCheck reports the caption availability score.
type CaptionCheck struct {
	Score      int  `json:"score"`
	HasCaption bool `json:"has_caption"`
}

// TopicCheck reports cooking-topic keyword matches in title/description.
type TopicCheck struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched,omitempty"`
}

// PatternCheck reports recipe-phrase regex hits.
type PatternCheck struct {
	Score   int      `json:"score"`
	Hits    int      `json:"hits"`
	Matched []string `json:"matched,omitempty"`
}

// AntiSignalCheck reports phrases associated with non-recipe content. Score
// is zero or negative.
type AntiSignalCheck struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched,omitempty"`
}

// TranscriptSniff buckets transcript tokens into recipe-indicative classes.
type TranscriptSniff struct {
	Quantities   []string `json:"quantities,omitempty"`
	CookingVerbs []string `json:"cooking_verbs,omitempty"`
	TimesTemps   []string `json:"times_temps,omitempty"`
	Score        int      `json:"score"`
}

// Verdict is the tiny classifier's binary opinion.
type Verdict struct {
	IsRecipe   bool    `json:"is_recipe"`
	Confidence float64 `json:"confidence"`
	Score      int     `json:"score"`
}

// UserMessage is the human-facing explanation attached to every outcome.
type UserMessage struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
	CanRetry    bool     `json:"can_retry"`
}

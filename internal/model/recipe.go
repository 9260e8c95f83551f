// Package model defines the core data types shared by the extraction
// pipeline. All other internal packages depend on model; model depends on
// nothing outside the standard library.
package model

// Ingredient is a single recipe ingredient with optional parsed quantity.
type Ingredient struct {
	Text string     `json:"text"`
	Qty  string     `json:"qty,omitempty"`
	Unit string     `json:"unit,omitempty"`
	From Provenance `json:"from"`
	TS   int        `json:"ts,omitempty"` // seconds into the video, 0 if unknown
}

// Step is a single instruction step. Order is 1-based and contiguous after
// fusion.
type Step struct {
	Order int        `json:"order"`
	Text  string     `json:"text"`
	Image string     `json:"image,omitempty"`
	From  Provenance `json:"from"`
	TS    int        `json:"ts,omitempty"`
}

// Times holds optional prep/cook/total durations in minutes. Zero means
// unknown; the JSON form omits unknown fields.
type Times struct {
	PrepMin  int `json:"prep_min,omitempty"`
	CookMin  int `json:"cook_min,omitempty"`
	TotalMin int `json:"total_min,omitempty"`
}

// Empty reports whether no time field is set.
func (t Times) Empty() bool {
	return t.PrepMin == 0 && t.CookMin == 0 && t.TotalMin == 0
}

// ConfidenceScores carries one score per recipe section, each in [0,1].
type ConfidenceScores struct {
	Ingredients float64 `json:"ingredients"`
	Steps       float64 `json:"steps"`
	Times       float64 `json:"times"`
	ProTips     float64 `json:"pro_tips,omitempty"`
}

// ExtractionDebug is an append-only audit trail of the extraction. It never
// influences scoring; it exists for observability and test assertions.
type ExtractionDebug struct {
	RunID              string   `json:"run_id,omitempty"`
	Layer              string   `json:"layer"`
	Attempts           []string `json:"attempts"`
	UsedNotes          bool     `json:"used_notes,omitempty"`
	HasStructuredData  bool     `json:"has_structured_data,omitempty"`
	StructuredDataType string   `json:"structured_data_type,omitempty"`
	CacheHit           bool     `json:"cache_hit,omitempty"`
}

// FusedRecipe is the final output of the extraction pipeline. The caller
// owns it; the pipeline keeps no reference after returning.
type FusedRecipe struct {
	Title       string           `json:"title"`
	Ingredients []Ingredient     `json:"ingredients"`
	Steps       []Step           `json:"steps"`
	Times       Times            `json:"times"`
	Servings    int              `json:"servings,omitempty"`
	ProTips     []string         `json:"pro_tips,omitempty"`
	Image       string           `json:"image,omitempty"`
	Confidence  ConfidenceScores `json:"confidence"`
	Debug       ExtractionDebug  `json:"debug"`
}

// PartialFields is the unit of output a single extraction layer emits.
// Any field may be absent; the fusion engine reconciles overlapping fields
// across layers by provenance priority.
type PartialFields struct {
	Source      Provenance
	Title       string
	Ingredients []Ingredient
	Steps       []Step
	Times       Times
	Servings    int
	ProTips     []string
	Image       string
}

// IsEmpty reports whether the layer produced nothing usable.
func (p *PartialFields) IsEmpty() bool {
	return p == nil ||
		(p.Title == "" && len(p.Ingredients) == 0 && len(p.Steps) == 0 &&
			p.Times.Empty() && p.Servings == 0 && len(p.ProTips) == 0)
}

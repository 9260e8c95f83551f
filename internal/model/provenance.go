package model

// Provenance tags which extraction layer produced a field. It is used both
// for conflict resolution during fusion and for section confidence scoring.
type Provenance string

const (
	// ProvenanceStructured marks fields read from machine-readable recipe
	// markup (JSON-LD schema.org/Recipe) on the source page.
	ProvenanceStructured Provenance = "structured"
	// ProvenanceMemoriesAI marks fields produced by the video understanding
	// service.
	ProvenanceMemoriesAI Provenance = "memories-ai"
	// ProvenanceNotes marks fields parsed from the author-provided
	// description (recipe section, timestamped lines).
	ProvenanceNotes Provenance = "notes"
	// ProvenanceParsed marks fields recovered by heuristic parsing of
	// unstructured page text.
	ProvenanceParsed Provenance = "parsed"
	// ProvenanceTranscript marks fields inferred from a transcript excerpt.
	ProvenanceTranscript Provenance = "transcript"
)

// provenancePriority orders provenance tags for conflict resolution.
// Higher wins.
var provenancePriority = map[Provenance]int{
	ProvenanceStructured: 5,
	ProvenanceMemoriesAI: 4,
	ProvenanceNotes:      3,
	ProvenanceParsed:     2,
	ProvenanceTranscript: 1,
}

// Priority returns the conflict-resolution rank of p. Unknown tags rank
// below every defined tag.
func (p Provenance) Priority() int {
	return provenancePriority[p]
}

// Valid reports whether p is one of the defined provenance tags.
func (p Provenance) Valid() bool {
	_, ok := provenancePriority[p]
	return ok
}

// AllProvenances returns the defined tags in descending priority order.
func AllProvenances() []Provenance {
	return []Provenance{
		ProvenanceStructured,
		ProvenanceMemoriesAI,
		ProvenanceNotes,
		ProvenanceParsed,
		ProvenanceTranscript,
	}
}

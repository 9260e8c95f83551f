package fusion

import "github.com/elenafy/ChefStacks-sub001/internal/model"

// tierBase maps a provenance tier to the base confidence of a section it
// supplied. Values are fixed so scores are reproducible across runs.
var tierBase = map[model.Provenance]float64{
	model.ProvenanceStructured: 0.95,
	model.ProvenanceMemoriesAI: 0.85,
	model.ProvenanceNotes:      0.70,
	model.ProvenanceParsed:     0.45,
	model.ProvenanceTranscript: 0.30,
}

// agreementBonus is added once per section when a second layer independently
// produced a compatible value for it.
const agreementBonus = 0.05

func scoreSections(rec *model.FusedRecipe, parts []*model.PartialFields) model.ConfidenceScores {
	var scores model.ConfidenceScores

	if len(rec.Ingredients) > 0 {
		base := tierBase[majorityProvenance(ingredientProvenances(rec.Ingredients))]
		scores.Ingredients = clamp(base + listAgreement(parts, func(p *model.PartialFields) int { return len(p.Ingredients) }))
	}
	if len(rec.Steps) > 0 {
		base := tierBase[majorityProvenance(stepProvenances(rec.Steps))]
		scores.Steps = clamp(base + listAgreement(parts, func(p *model.PartialFields) int { return len(p.Steps) }))
	}
	if !rec.Times.Empty() {
		w := winner(parts, func(p *model.PartialFields) bool { return !p.Times.Empty() })
		if w != nil {
			scores.Times = clamp(tierBase[w.Source] + timesAgreement(parts))
		}
	}
	if len(rec.ProTips) > 0 {
		w := winner(parts, func(p *model.PartialFields) bool { return len(p.ProTips) > 0 })
		if w != nil {
			scores.ProTips = clamp(tierBase[w.Source])
		}
	}

	return scores
}

// majorityProvenance returns the tag supplying the most items, breaking ties
// by priority.
func majorityProvenance(tags []model.Provenance) model.Provenance {
	counts := make(map[model.Provenance]int)
	for _, tag := range tags {
		counts[tag]++
	}

	var best model.Provenance
	for tag, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && tag.Priority() > best.Priority()) {
			best = tag
		}
	}
	return best
}

// listAgreement awards the bonus when two distinct layers produced lists of
// identical length for the same section.
func listAgreement(parts []*model.PartialFields, count func(*model.PartialFields) int) float64 {
	var lengths []int
	for _, p := range parts {
		if n := count(p); n > 0 {
			lengths = append(lengths, n)
		}
	}
	for i := 0; i < len(lengths); i++ {
		for j := i + 1; j < len(lengths); j++ {
			if lengths[i] == lengths[j] {
				return agreementBonus
			}
		}
	}
	return 0
}

// timesAgreement awards the bonus when two distinct layers agree on any
// individual time field.
func timesAgreement(parts []*model.PartialFields) float64 {
	for i := 0; i < len(parts); i++ {
		for j := i + 1; j < len(parts); j++ {
			a, b := parts[i].Times, parts[j].Times
			if (a.PrepMin > 0 && a.PrepMin == b.PrepMin) ||
				(a.CookMin > 0 && a.CookMin == b.CookMin) ||
				(a.TotalMin > 0 && a.TotalMin == b.TotalMin) {
				return agreementBonus
			}
		}
	}
	return 0
}

func ingredientProvenances(in []model.Ingredient) []model.Provenance {
	out := make([]model.Provenance, len(in))
	for i, ing := range in {
		out[i] = ing.From
	}
	return out
}

func stepProvenances(in []model.Step) []model.Provenance {
	out := make([]model.Provenance, len(in))
	for i, st := range in {
		out[i] = st.From
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

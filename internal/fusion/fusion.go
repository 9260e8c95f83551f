// Package fusion reconciles partial recipe fields from multiple extraction
// layers into one normalized recipe. Conflicts resolve by provenance
// priority; section confidence is a deterministic function of the winning
// tier and cross-layer agreement, so identical inputs always fuse
// identically.
package fusion

import (
	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
)

// Fuse merges layer outputs (in any order) into a FusedRecipe. Higher
// provenance priority overwrites lower; partial values are never averaged
// or interleaved. Steps are renumbered 1..N regardless of the order values
// contributing layers reported.
func Fuse(parts []*model.PartialFields, debug model.ExtractionDebug) *model.FusedRecipe {
	rec := &model.FusedRecipe{Debug: debug}

	var usable []*model.PartialFields
	for _, p := range parts {
		if p.IsEmpty() {
			continue
		}
		usable = append(usable, p)
	}

	rec.Title = resolveString(usable, func(p *model.PartialFields) string { return p.Title })
	rec.Image = resolveString(usable, func(p *model.PartialFields) string { return p.Image })
	rec.Servings = resolveInt(usable, func(p *model.PartialFields) int { return p.Servings })

	rec.Times.PrepMin = resolveInt(usable, func(p *model.PartialFields) int { return p.Times.PrepMin })
	rec.Times.CookMin = resolveInt(usable, func(p *model.PartialFields) int { return p.Times.CookMin })
	rec.Times.TotalMin = resolveInt(usable, func(p *model.PartialFields) int { return p.Times.TotalMin })

	if w := winner(usable, func(p *model.PartialFields) bool { return len(p.Ingredients) > 0 }); w != nil {
		rec.Ingredients = append([]model.Ingredient(nil), w.Ingredients...)
	}
	if w := winner(usable, func(p *model.PartialFields) bool { return len(p.Steps) > 0 }); w != nil {
		rec.Steps = append([]model.Step(nil), w.Steps...)
	}
	if w := winner(usable, func(p *model.PartialFields) bool { return len(p.ProTips) > 0 }); w != nil {
		rec.ProTips = append([]string(nil), w.ProTips...)
	}

	// Contiguity invariant: 1..N in source order.
	for i := range rec.Steps {
		rec.Steps[i].Order = i + 1
	}

	rec.Confidence = scoreSections(rec, usable)

	zap.L().Debug("fusion: merged layers",
		zap.Int("layers", len(usable)),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.Int("steps", len(rec.Steps)),
		zap.Float64("conf_ingredients", rec.Confidence.Ingredients),
		zap.Float64("conf_steps", rec.Confidence.Steps),
	)

	return rec
}

// winner returns the highest-priority part for which has reports a value.
func winner(parts []*model.PartialFields, has func(*model.PartialFields) bool) *model.PartialFields {
	var best *model.PartialFields
	for _, p := range parts {
		if !has(p) {
			continue
		}
		if best == nil || p.Source.Priority() > best.Source.Priority() {
			best = p
		}
	}
	return best
}

func resolveString(parts []*model.PartialFields, get func(*model.PartialFields) string) string {
	w := winner(parts, func(p *model.PartialFields) bool { return get(p) != "" })
	if w == nil {
		return ""
	}
	return get(w)
}

func resolveInt(parts []*model.PartialFields, get func(*model.PartialFields) int) int {
	w := winner(parts, func(p *model.PartialFields) bool { return get(p) > 0 })
	if w == nil {
		return 0
	}
	return get(w)
}

package webextract

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
	"github.com/elenafy/ChefStacks-sub001/pkg/youtube"
)

// structuredLayer reads schema.org/Recipe JSON-LD embedded in the page.
// A well-formed Recipe node is authoritative for every field it carries.
// Malformed blocks are skipped, never fatal.
type structuredLayer struct{}

func (l *structuredLayer) Name() string { return "structured" }

func (l *structuredLayer) Extract(page *pagefetch.Page) *model.PartialFields {
	node := findRecipeNode(page.StructuredData)
	if node == nil {
		return nil
	}

	out := &model.PartialFields{Source: model.ProvenanceStructured}
	out.Title = asString(node["name"])
	out.Image = imageURL(node["image"])
	out.Servings = parseYield(node["recipeYield"])

	out.Times.PrepMin = isoMinutes(node["prepTime"])
	out.Times.CookMin = isoMinutes(node["cookTime"])
	out.Times.TotalMin = isoMinutes(node["totalTime"])

	for _, raw := range asSlice(node["recipeIngredient"]) {
		text := strings.TrimSpace(asString(raw))
		if text == "" {
			continue
		}
		out.Ingredients = append(out.Ingredients, model.Ingredient{
			Text: text,
			From: model.ProvenanceStructured,
		})
	}

	for i, text := range instructionTexts(node["recipeInstructions"]) {
		out.Steps = append(out.Steps, model.Step{
			Order: i + 1,
			Text:  text,
			From:  model.ProvenanceStructured,
		})
	}

	if out.IsEmpty() {
		return nil
	}
	return out
}

// findRecipeNode scans every JSON-LD block for the first schema.org Recipe
// node, looking inside @graph wrappers and top-level arrays.
func findRecipeNode(blocks []string) map[string]any {
	for _, block := range blocks {
		var doc any
		if err := json.Unmarshal([]byte(block), &doc); err != nil {
			zap.L().Debug("webextract: skip malformed JSON-LD", zap.Error(err))
			continue
		}
		if node := recipeIn(doc); node != nil {
			return node
		}
	}
	return nil
}

func recipeIn(doc any) map[string]any {
	switch v := doc.(type) {
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return recipeIn(graph)
		}
	case []any:
		for _, item := range v {
			if node := recipeIn(item); node != nil {
				return node
			}
		}
	}
	return nil
}

// isRecipeType handles both "@type": "Recipe" and "@type": ["Recipe", ...].
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// instructionTexts flattens recipeInstructions: plain strings, HowToStep
// nodes, and HowToSection nodes with nested itemListElement.
func instructionTexts(v any) []string {
	var out []string
	var walk func(any)
	walk = func(node any) {
		switch n := node.(type) {
		case string:
			if s := strings.TrimSpace(n); s != "" {
				out = append(out, s)
			}
		case []any:
			for _, item := range n {
				walk(item)
			}
		case map[string]any:
			switch asString(n["@type"]) {
			case "HowToSection":
				walk(n["itemListElement"])
			default:
				if s := strings.TrimSpace(asString(n["text"])); s != "" {
					out = append(out, s)
				} else if s := strings.TrimSpace(asString(n["name"])); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	walk(v)
	return out
}

func imageURL(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case []any:
		if len(n) > 0 {
			return imageURL(n[0])
		}
	case map[string]any:
		return asString(n["url"])
	}
	return ""
}

// parseYield accepts "4 servings", "4", 4.0, or an array of those.
func parseYield(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		for _, field := range strings.Fields(n) {
			if i, err := strconv.Atoi(field); err == nil {
				return i
			}
		}
	case []any:
		for _, item := range n {
			if y := parseYield(item); y > 0 {
				return y
			}
		}
	}
	return 0
}

func isoMinutes(v any) int {
	s := asString(v)
	if s == "" {
		return 0
	}
	secs, ok := youtube.ParseISO8601Duration(s)
	if !ok || secs <= 0 {
		return 0
	}
	mins := secs / 60
	if mins == 0 {
		mins = 1
	}
	return mins
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asSlice(v any) []any {
	switch n := v.(type) {
	case []any:
		return n
	case string:
		return []any{n}
	}
	return nil
}

func structuredType(page *pagefetch.Page) string {
	if findRecipeNode(page.StructuredData) != nil {
		return "Recipe"
	}
	return ""
}

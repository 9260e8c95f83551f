package webextract

import (
	"regexp"
	"strings"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
)

// genericLayer is the last resort: heuristic parsing of unstructured page
// text. It looks for a run of quantity-leading lines (ingredients) and for
// numbered or imperative paragraphs (steps). Output is tagged parsed and
// scores accordingly low downstream.
type genericLayer struct{}

const (
	maxGenericIngredients = 40
	maxGenericSteps       = 30
	minStepLen            = 25
)

var (
	quantityLineRe = regexp.MustCompile(`(?i)^\d+(?:[./]\d+)?\s*(?:g|kg|ml|l|oz|lb|lbs|cup|cups|tbsp|tsp|tablespoons?|teaspoons?|cloves?|cans?|sticks?|pinch|slices?)\b`)
	numberedStepRe = regexp.MustCompile(`(?i)^(?:step\s*)?\d{1,2}[.)]\s+(.+)$`)

	imperativeVerbs = []string{
		"add", "bake", "beat", "blend", "boil", "bring", "chop", "combine",
		"cook", "cover", "cut", "drain", "fold", "fry", "heat", "knead",
		"melt", "mix", "pour", "preheat", "remove", "rest", "roast", "season",
		"serve", "simmer", "slice", "stir", "toss", "whisk",
	}
)

func (l *genericLayer) Name() string { return "generic" }

func (l *genericLayer) Extract(page *pagefetch.Page) *model.PartialFields {
	lines := splitLines(pagefetch.VisibleText(page.HTML))
	if len(lines) == 0 {
		return nil
	}

	out := &model.PartialFields{Source: model.ProvenanceParsed}
	for _, line := range lines {
		if len(out.Ingredients) >= maxGenericIngredients {
			break
		}
		if quantityLineRe.MatchString(line) {
			out.Ingredients = append(out.Ingredients, model.Ingredient{
				Text: line,
				From: model.ProvenanceParsed,
			})
		}
	}

	order := 0
	for _, line := range lines {
		if order >= maxGenericSteps {
			break
		}
		text, ok := stepCandidate(line)
		if !ok {
			continue
		}
		order++
		out.Steps = append(out.Steps, model.Step{
			Order: order,
			Text:  text,
			From:  model.ProvenanceParsed,
		})
	}

	if out.IsEmpty() {
		return nil
	}
	return out
}

func stepCandidate(line string) (string, bool) {
	if loc := numberedStepRe.FindStringSubmatchIndex(line); loc != nil {
		text := strings.TrimSpace(line[loc[2]:loc[3]])
		if len(text) >= minStepLen {
			return text, true
		}
		return "", false
	}
	if len(line) < minStepLen || quantityLineRe.MatchString(line) {
		return "", false
	}
	first := strings.ToLower(strings.Fields(line)[0])
	for _, verb := range imperativeVerbs {
		if first == verb {
			return line, true
		}
	}
	return "", false
}

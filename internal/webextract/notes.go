package webextract

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/timestamp"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
)

// notesLayer parses author-written video descriptions. Creators who share
// recipes in their notes tend to follow a loose convention: a shouty
// "*** RECIPE ***" header, bullet lines for ingredients, "@MM:SS" markers
// pointing at the step in the video, and a leading-timestamp chapter list.
type notesLayer struct{}

const minContextLineLen = 20

var (
	sectionMarkerRe = regexp.MustCompile(`(?i)^\s*\*{2,}\s*([A-Z][A-Z ]*?)\s*\*{2,}\s*$`)
	recipeHeaderRe  = regexp.MustCompile(`(?i)^\s*(?:\*{2,}\s*)?RECIPE\s*:?(?:\s*\*{2,})?\s*$`)
	inlineTimeRe    = regexp.MustCompile(`@((?:\d{1,2}:)?\d{1,2}:\d{2})\b`)
	leadingTimeRe   = regexp.MustCompile(`^((?:\d{1,2}:)?\d{1,2}:\d{2})\s+(.+)$`)
	urlRe           = regexp.MustCompile(`https?://\S+`)

	bulletPrefixes = []string{"▪", "•", "-", "*"}

	terminatorWords = []string{"disclaimer", "affiliate", "sponsored", "subscribe", "follow me", "business inquiries"}

	titleCaser = cases.Title(language.English)
)

type chapter struct {
	Seconds int
	Title   string
}

func (l *notesLayer) Name() string { return "notes" }

func (l *notesLayer) Extract(page *pagefetch.Page) *model.PartialFields {
	text := page.Description
	if !hasNotesSignal(text) {
		text = pagefetch.VisibleText(page.HTML)
	}
	if text == "" {
		return nil
	}
	lines := splitLines(text)

	out := &model.PartialFields{Source: model.ProvenanceNotes}
	out.Ingredients = parseIngredientSection(lines)
	out.Steps = alignWithChapters(parseTimestampedSteps(lines), parseChapters(lines))

	if len(out.Steps) > 0 {
		out.Title = deriveTitle(out.Steps[0].Text, page.Title)
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

func hasNotesSignal(text string) bool {
	for _, line := range splitLines(text) {
		if recipeHeaderRe.MatchString(line) || inlineTimeRe.MatchString(line) {
			return true
		}
	}
	return false
}

// parseIngredientSection collects bullet lines after the recipe header and
// stops at the next section marker, a terminator phrase, or end of text.
func parseIngredientSection(lines []string) []model.Ingredient {
	var out []model.Ingredient
	inSection := false
	for _, line := range lines {
		if !inSection {
			if recipeHeaderRe.MatchString(line) {
				inSection = true
			}
			continue
		}
		if isSectionTerminator(line) {
			break
		}
		text, ok := stripBullet(line)
		if !ok || text == "" {
			continue
		}
		out = append(out, model.Ingredient{Text: text, From: model.ProvenanceNotes})
	}
	return out
}

func isSectionTerminator(line string) bool {
	if sectionMarkerRe.MatchString(line) && !recipeHeaderRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, word := range terminatorWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func stripBullet(line string) (string, bool) {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

// parseTimestampedSteps turns every "@MM:SS"-marked line into a step,
// pulling up to two supporting sentences from the two lines either side.
// Steps come back sorted by ascending timestamp.
func parseTimestampedSteps(lines []string) []model.Step {
	var out []model.Step
	for i, line := range lines {
		m := inlineTimeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		secs, ok := timestamp.Parse(m[1])
		if !ok {
			continue
		}

		title := strings.TrimSpace(inlineTimeRe.ReplaceAllString(line, ""))
		title = strings.Trim(title, " -–:")
		text := title
		for _, extra := range contextSentences(lines, i, 2) {
			text += " " + extra
		}

		out = append(out, model.Step{
			Text: strings.TrimSpace(text),
			From: model.ProvenanceNotes,
			TS:   secs,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TS < out[j].TS })
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// contextSentences returns up to max supporting lines from the window around
// idx, skipping other timestamped lines, URLs, and very short lines.
func contextSentences(lines []string, idx, max int) []string {
	var out []string
	for off := -2; off <= 2 && len(out) < max; off++ {
		if off == 0 {
			continue
		}
		j := idx + off
		if j < 0 || j >= len(lines) {
			continue
		}
		line := lines[j]
		if inlineTimeRe.MatchString(line) || leadingTimeRe.MatchString(line) {
			continue
		}
		if urlRe.MatchString(line) || len(line) < minContextLineLen || isSectionTerminator(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseChapters reads the leading-timestamp chapter list. Duplicate
// timestamps keep the first occurrence.
func parseChapters(lines []string) []chapter {
	var out []chapter
	seen := make(map[int]bool)
	for _, line := range lines {
		m := leadingTimeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		secs, ok := timestamp.Parse(m[1])
		if !ok || seen[secs] {
			continue
		}
		seen[secs] = true
		out = append(out, chapter{Seconds: secs, Title: strings.TrimSpace(m[2])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seconds < out[j].Seconds })
	return out
}

// alignWithChapters backfills a step whose own line carried no usable text
// with the title of the chapter covering its timestamp.
func alignWithChapters(steps []model.Step, chapters []chapter) []model.Step {
	if len(chapters) == 0 {
		return steps
	}
	for i, st := range steps {
		if st.Text != "" {
			continue
		}
		for j := len(chapters) - 1; j >= 0; j-- {
			if chapters[j].Seconds <= st.TS {
				steps[i].Text = chapters[j].Title
				break
			}
		}
	}
	return steps
}

// deriveTitle takes the first clause of the first step, falling back to the
// page title when the clause is too short to stand alone.
func deriveTitle(firstStep, pageTitle string) string {
	clause := firstStep
	for _, sep := range []string{".", ",", ";", "!"} {
		if i := strings.Index(clause, sep); i > 0 {
			clause = clause[:i]
		}
	}
	clause = strings.TrimSpace(clause)
	if len(clause) < 4 {
		return cleanPageTitle(pageTitle)
	}
	return titleCaser.String(strings.ToLower(clause))
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

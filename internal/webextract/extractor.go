// Package webextract turns a fetched recipe web page into a FusedRecipe by
// running an ordered chain of extraction layers, cheapest signal first.
// Layers only run while some field category is still unsatisfied, and every
// layer actually invoked is recorded in the result's debug trail.
package webextract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/fusion"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
)

// Layer is one extraction strategy over a fetched page. A layer that finds
// nothing returns an empty PartialFields and no error; errors are reserved
// for malformed input a layer could not even attempt.
type Layer interface {
	Name() string
	Extract(page *pagefetch.Page) *model.PartialFields
}

// Extractor runs the layer chain over fetched pages.
type Extractor struct {
	fetcher pagefetch.Client
	layers  []Layer
}

// NewExtractor wires the default chain: structured data, then author notes,
// then generic text heuristics.
func NewExtractor(fetcher pagefetch.Client) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		layers:  []Layer{&structuredLayer{}, &notesLayer{}, &genericLayer{}},
	}
}

// NewExtractorWithLayers builds an extractor over a custom chain. Layer
// order is significant: earlier layers win conflicts via provenance.
func NewExtractorWithLayers(fetcher pagefetch.Client, layers ...Layer) *Extractor {
	return &Extractor{fetcher: fetcher, layers: layers}
}

// Extract fetches the page and runs the layer chain. Fetch failures abort;
// layer misses do not.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*model.FusedRecipe, error) {
	page, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, eris.Wrap(err, "webextract: fetch page")
	}
	return e.ExtractFromPage(page), nil
}

// ExtractFromPage runs the chain over an already-fetched page.
func (e *Extractor) ExtractFromPage(page *pagefetch.Page) *model.FusedRecipe {
	debug := model.ExtractionDebug{
		HasStructuredData: len(page.StructuredData) > 0,
	}

	var parts []*model.PartialFields
	sat := satisfaction{}
	for _, layer := range e.layers {
		if sat.complete() {
			break
		}
		debug.Attempts = append(debug.Attempts, layer.Name())

		fields := layer.Extract(page)
		if fields == nil || fields.IsEmpty() {
			zap.L().Debug("webextract: layer yielded nothing", zap.String("layer", layer.Name()))
			continue
		}
		if debug.Layer == "" {
			debug.Layer = layer.Name()
		}
		switch fields.Source {
		case model.ProvenanceStructured:
			debug.StructuredDataType = structuredType(page)
		case model.ProvenanceNotes:
			debug.UsedNotes = true
		}
		sat.absorb(fields)
		parts = append(parts, fields)
	}

	rec := fusion.Fuse(parts, debug)
	if rec.Title == "" {
		rec.Title = cleanPageTitle(page.Title)
	}
	return rec
}

// satisfaction tracks which field categories some layer has already filled.
// Categories are independent: structured data may satisfy times but not
// steps, leaving later layers to fill steps only.
type satisfaction struct {
	ingredients bool
	steps       bool
	times       bool
	servings    bool
}

func (s *satisfaction) absorb(p *model.PartialFields) {
	s.ingredients = s.ingredients || len(p.Ingredients) > 0
	s.steps = s.steps || len(p.Steps) > 0
	s.times = s.times || !p.Times.Empty()
	s.servings = s.servings || p.Servings > 0
}

func (s *satisfaction) complete() bool {
	return s.ingredients && s.steps && s.times && s.servings
}

var titleSuffixes = []string{" - YouTube", " | YouTube", " - TikTok", " | TikTok"}

func cleanPageTitle(title string) string {
	for _, suf := range titleSuffixes {
		title = strings.TrimSuffix(title, suf)
	}
	return strings.TrimSpace(title)
}

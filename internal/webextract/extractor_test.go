package webextract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/pagefetch"
)

type fetchStub struct {
	page *pagefetch.Page
	err  error
}

func (f *fetchStub) Fetch(_ context.Context, _ string) (*pagefetch.Page, error) {
	return f.page, f.err
}

const recipeJSONLD = `{
  "@context": "https://schema.org",
  "@graph": [{
    "@type": "Recipe",
    "name": "Shakshuka",
    "recipeYield": "2 servings",
    "prepTime": "PT10M",
    "cookTime": "PT20M",
    "totalTime": "PT30M",
    "image": {"@type": "ImageObject", "url": "https://example.com/shakshuka.jpg"},
    "recipeIngredient": [
      "2 tbsp olive oil",
      "1 onion, diced",
      "1 red pepper",
      "400g crushed tomatoes",
      "4 eggs"
    ],
    "recipeInstructions": [
      {"@type": "HowToStep", "text": "Soften the onion and pepper in oil."},
      {"@type": "HowToStep", "text": "Add tomatoes and simmer ten minutes."},
      {"@type": "HowToStep", "text": "Crack in the eggs."},
      {"@type": "HowToStep", "text": "Cover and cook until just set."}
    ]
  }]
}`

const notesDescription = `My favourite weeknight curry, full recipe below!
*** RECIPE ***
▪ 2 tbsp neutral oil
▪ 1 large onion
▪ 2 cloves garlic
▪ 400g chickpeas
▪ 1 can coconut milk
▪ 1 tbsp curry powder
*** LINKS ***
Some of these are affiliate links.
Simmer everything in the coconut milk @0:30
Saute the onion until deeply golden @01:10
Add the spices and chickpeas @03:45`

func TestExtractStructuredPage(t *testing.T) {
	page := &pagefetch.Page{
		URL:            "https://example.com/shakshuka",
		Title:          "Shakshuka recipe",
		HTML:           "<html><body>Shakshuka</body></html>",
		StructuredData: []string{recipeJSONLD},
	}
	ex := NewExtractor(&fetchStub{page: page})

	rec, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)

	assert.Equal(t, "Shakshuka", rec.Title)
	assert.Equal(t, "https://example.com/shakshuka.jpg", rec.Image)
	assert.Equal(t, 2, rec.Servings)
	assert.Equal(t, 10, rec.Times.PrepMin)
	assert.Equal(t, 20, rec.Times.CookMin)
	assert.Equal(t, 30, rec.Times.TotalMin)

	require.Len(t, rec.Ingredients, 5)
	for _, ing := range rec.Ingredients {
		assert.Equal(t, model.ProvenanceStructured, ing.From)
	}
	require.Len(t, rec.Steps, 4)
	for i, st := range rec.Steps {
		assert.Equal(t, i+1, st.Order)
		assert.Equal(t, model.ProvenanceStructured, st.From)
	}

	assert.InDelta(t, 0.95, rec.Confidence.Ingredients, 1e-9)
	assert.InDelta(t, 0.95, rec.Confidence.Steps, 1e-9)

	// All categories satisfied, so later layers never ran.
	assert.Equal(t, []string{"structured"}, rec.Debug.Attempts)
	assert.Equal(t, "structured", rec.Debug.Layer)
	assert.True(t, rec.Debug.HasStructuredData)
	assert.Equal(t, "Recipe", rec.Debug.StructuredDataType)
}

func TestExtractStructuredPageDeterministic(t *testing.T) {
	page := &pagefetch.Page{
		URL:            "https://example.com/shakshuka",
		Title:          "Shakshuka recipe",
		StructuredData: []string{recipeJSONLD},
	}
	ex := NewExtractor(&fetchStub{page: page})

	a, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)
	b, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractNotesOnlyPage(t *testing.T) {
	page := &pagefetch.Page{
		URL:         "https://www.youtube.com/watch?v=abc123def45",
		Title:       "Chickpea curry - YouTube",
		Description: notesDescription,
		HTML:        "<html><body></body></html>",
	}
	ex := NewExtractor(&fetchStub{page: page})

	rec, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)

	require.Len(t, rec.Ingredients, 6)
	for _, ing := range rec.Ingredients {
		assert.Equal(t, model.ProvenanceNotes, ing.From)
	}

	require.Len(t, rec.Steps, 3)
	prev := -1
	for i, st := range rec.Steps {
		assert.Equal(t, i+1, st.Order)
		assert.Equal(t, model.ProvenanceNotes, st.From)
		assert.Greater(t, st.TS, prev)
		prev = st.TS
	}
	assert.Contains(t, rec.Steps[0].Text, "Simmer everything")
	assert.Contains(t, rec.Steps[1].Text, "Saute the onion")
	assert.Contains(t, rec.Steps[2].Text, "Add the spices")

	assert.True(t, rec.Debug.UsedNotes)
	assert.Equal(t, "notes", rec.Debug.Layer)
	assert.Contains(t, rec.Debug.Attempts, "structured")
	assert.Contains(t, rec.Debug.Attempts, "notes")
}

func TestExtractMalformedStructuredDataFallsThrough(t *testing.T) {
	page := &pagefetch.Page{
		URL:            "https://www.youtube.com/watch?v=abc123def45",
		Title:          "Chickpea curry - YouTube",
		Description:    notesDescription,
		HTML:           "<html></html>",
		StructuredData: []string{`{"@type": "Recipe", "name": `},
	}
	ex := NewExtractor(&fetchStub{page: page})

	rec, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)

	assert.True(t, rec.Debug.HasStructuredData)
	assert.Empty(t, rec.Debug.StructuredDataType)
	assert.Equal(t, "notes", rec.Debug.Layer)
	assert.Len(t, rec.Ingredients, 6)
}

func TestExtractGenericFallback(t *testing.T) {
	page := &pagefetch.Page{
		URL:   "https://example.com/family-lasagna",
		Title: "Family lasagna",
		HTML: `<html><body>
<h1>Family lasagna</h1>
<li>500g beef mince</li>
<li>2 cups tomato passata</li>
<li>250g lasagna sheets</li>
<p>Preheat the oven to 180C and grease a baking dish.</p>
<p>Simmer the mince in passata until thick and rich.</p>
<p>Bake for forty minutes until golden on top.</p>
</body></html>`,
	}
	ex := NewExtractor(&fetchStub{page: page})

	rec, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)

	require.NotEmpty(t, rec.Ingredients)
	for _, ing := range rec.Ingredients {
		assert.Equal(t, model.ProvenanceParsed, ing.From)
	}
	require.NotEmpty(t, rec.Steps)
	for _, st := range rec.Steps {
		assert.Equal(t, model.ProvenanceParsed, st.From)
	}
	assert.Equal(t, []string{"structured", "notes", "generic"}, rec.Debug.Attempts)
	assert.Equal(t, "Family lasagna", rec.Title)
}

func TestExtractIngredientsOnlyNotesDepressesSteps(t *testing.T) {
	page := &pagefetch.Page{
		URL:   "https://www.youtube.com/watch?v=abc123def45",
		Title: "Quick pesto - YouTube",
		Description: `*** RECIPE ***
▪ 50g basil
▪ 30g pine nuts
▪ 50g parmesan`,
		HTML: "<html></html>",
	}
	ex := NewExtractor(&fetchStub{page: page})

	rec, err := ex.Extract(context.Background(), page.URL)
	require.NoError(t, err)

	assert.Len(t, rec.Ingredients, 3)
	assert.Empty(t, rec.Steps)
	assert.Zero(t, rec.Confidence.Steps)
	assert.Greater(t, rec.Confidence.Ingredients, 0.0)
}

func TestExtractFetchFailure(t *testing.T) {
	ex := NewExtractor(&fetchStub{err: eris.New("boom")})

	rec, err := ex.Extract(context.Background(), "https://example.com/x")
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page")
}

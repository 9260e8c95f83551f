package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecipe() *model.FusedRecipe {
	return &model.FusedRecipe{
		Title: "Shakshuka",
		Ingredients: []model.Ingredient{
			{Text: "4 eggs", From: model.ProvenanceStructured},
		},
		Steps: []model.Step{
			{Order: 1, Text: "Crack in the eggs.", From: model.ProvenanceStructured},
		},
		Confidence: model.ConfidenceScores{Ingredients: 0.95, Steps: 0.95},
	}
}

func TestSQLiteRecipeRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	got, err := s.GetRecipe(ctx, "https://example.com/shakshuka")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SetRecipe(ctx, "https://example.com/shakshuka", sampleRecipe(), time.Hour))

	got, err = s.GetRecipe(ctx, "https://example.com/shakshuka")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Shakshuka", got.Title)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, model.ProvenanceStructured, got.Ingredients[0].From)
	assert.InDelta(t, 0.95, got.Confidence.Steps, 1e-9)
}

func TestSQLiteSetRecipeOverwrites(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := sampleRecipe()
	require.NoError(t, s.SetRecipe(ctx, "https://example.com/x", first, time.Hour))

	second := sampleRecipe()
	second.Title = "Shakshuka v2"
	require.NoError(t, s.SetRecipe(ctx, "https://example.com/x", second, time.Hour))

	got, err := s.GetRecipe(ctx, "https://example.com/x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Shakshuka v2", got.Title)
}

func TestSQLiteExpiredEntryIsMiss(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetRecipe(ctx, "https://example.com/old", sampleRecipe(), -time.Minute))

	got, err := s.GetRecipe(ctx, "https://example.com/old")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

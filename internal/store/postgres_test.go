package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_GetRecipe_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT recipe FROM recipe_cache`).
		WithArgs("https://unknown.example.com/recipe").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetRecipe(context.Background(), "https://unknown.example.com/recipe")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecipe_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(sampleRecipe())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT recipe FROM recipe_cache`).
		WithArgs("https://example.com/shakshuka").
		WillReturnRows(pgxmock.NewRows([]string{"recipe"}).AddRow(payload))

	got, err := s.GetRecipe(context.Background(), "https://example.com/shakshuka")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Shakshuka", got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetRecipe(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO recipe_cache`).
		WithArgs(pgxmock.AnyArg(), "https://example.com/shakshuka", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetRecipe(context.Background(), "https://example.com/shakshuka", sampleRecipe(), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM recipe_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS recipe_cache`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

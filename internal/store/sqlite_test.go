package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gridpoint/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func resolvePlace(t *testing.T, name string, lat, lon float64) model.Place {
	t.Helper()
	p, err := model.PlaceInput{Name: name, Latitude: &lat, Longitude: &lon}.Resolve()
	require.NoError(t, err)
	return p
}

func TestSQLite_CreateAndGetPlace(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreatePlace(ctx, resolvePlace(t, "Office", -12.1234567, -123.1234567))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := st.GetPlace(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)
	assert.Equal(t, "FYGCMF89XH2", got.Code)
	assert.Equal(t, -12.12345, got.Latitude)
	assert.Equal(t, -123.12345, got.Longitude)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_GetPlace_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetPlace(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_GetPlaceByCode(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreatePlace(ctx, resolvePlace(t, "Corner", -89.99999, -179.99999))
	require.NoError(t, err)

	got, err := st.GetPlaceByCode(ctx, "#hg9p-jlhj-x69")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = st.GetPlaceByCode(ctx, "#DCCC-CCCC-CCC")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListPlaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"North office", "South office", "Warehouse"} {
		_, err := st.CreatePlace(ctx, resolvePlace(t, name, 10, 20))
		require.NoError(t, err)
	}

	all, err := st.ListPlaces(ctx, PlaceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	offices, err := st.ListPlaces(ctx, PlaceFilter{Name: "office"})
	require.NoError(t, err)
	assert.Len(t, offices, 2)

	page, err := st.ListPlaces(ctx, PlaceFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestSQLite_DeletePlace(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreatePlace(ctx, resolvePlace(t, "Temp", 1, 1))
	require.NoError(t, err)

	require.NoError(t, st.DeletePlace(ctx, created.ID))

	err = st.DeletePlace(ctx, created.ID)
	assert.True(t, eris.Is(err, ErrNotFound))

	_, err = st.GetPlace(ctx, created.ID)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_ImportPlaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	places := []model.Place{
		resolvePlace(t, "Alpha", 1, 1),
		resolvePlace(t, "Beta", 2, 2),
		resolvePlace(t, "Gamma", 3, 3),
	}
	n, err := st.ImportPlaces(ctx, places)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := st.ListPlaces(ctx, PlaceFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
	}

	beta, err := st.GetPlaceByCode(ctx, places[1].Code)
	require.NoError(t, err)
	assert.Equal(t, "Beta", beta.Name)

	n, err = st.ImportPlaces(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

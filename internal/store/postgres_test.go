package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gridpoint/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var placeRowColumns = []string{"id", "name", "code", "latitude", "longitude", "created_at"}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS places`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePlace(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO places \(id, name, code, latitude, longitude, geom, created_at\)`).
		WithArgs(pgxmock.AnyArg(), "Office", "FYGCMF89XH2", -12.12345, -123.12345, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := s.CreatePlace(context.Background(), model.Place{
		Name: "Office", Code: "FYGCMF89XH2", Latitude: -12.12345, Longitude: -123.12345,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPlace(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, code, latitude, longitude, created_at FROM places WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(placeRowColumns).
			AddRow("p1", "Office", "FYGCMF89XH2", -12.12345, -123.12345, now))

	p, err := s.GetPlace(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Office", p.Name)
	assert.Equal(t, -123.12345, p.Longitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPlace_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, code, latitude, longitude, created_at FROM places WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetPlace(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPlaceByCode_Normalizes(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM places WHERE code = \$1`).
		WithArgs("HG9PJLHJX69").
		WillReturnRows(pgxmock.NewRows(placeRowColumns).
			AddRow("p2", "Corner", "HG9PJLHJX69", -89.99999, -179.99999, now))

	p, err := s.GetPlaceByCode(context.Background(), "#hg9p-jlhj-x69")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListPlaces(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM places WHERE name ILIKE \$1 ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs("%off%", 5, 0).
		WillReturnRows(pgxmock.NewRows(placeRowColumns).
			AddRow("p1", "Office", "FYGCMF89XH2", -12.12345, -123.12345, now).
			AddRow("p3", "Back office", "DCCCCCCCCCC", 0.0, 0.0, now))

	places, err := s.ListPlaces(context.Background(), PlaceFilter{Name: "off", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, places, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListPlaces_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM places ORDER BY created_at DESC, id LIMIT \$1 OFFSET \$2`).
		WithArgs(DefaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows(placeRowColumns))

	places, err := s.ListPlaces(context.Background(), PlaceFilter{Offset: -3})
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeletePlace(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM places WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM places WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.DeletePlace(context.Background(), "p1"))

	err := s.DeletePlace(context.Background(), "p1")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportPlaces(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"places"}, importColumns).WillReturnResult(2)

	places := []model.Place{
		{Name: "Origin", Code: "DCCCCCCCCCC"},
		{Name: "New York", Code: "FKC8FC1C5V9", Latitude: 40.71277, Longitude: -74.00597},
	}
	n, err := s.ImportPlaces(context.Background(), places)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportPlaces_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.ImportPlaces(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

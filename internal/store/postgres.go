package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gridpoint/internal/db"
	"github.com/sells-group/gridpoint/internal/geo"
	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// geom holds EWKB (SRID 4326) so PostGIS can cast it with geom::geometry.
const postgresMigration = `
CREATE TABLE IF NOT EXISTS places (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	code       CHAR(11) NOT NULL,
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	geom       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_places_code ON places(code);
CREATE INDEX IF NOT EXISTS idx_places_name ON places(name);
`

const placeColumns = `id, name, code, latitude, longitude, created_at`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreatePlace(ctx context.Context, place model.Place) (*model.Place, error) {
	place.ID = uuid.New().String()
	place.CreatedAt = time.Now().UTC()

	wkb, err := geo.EncodeWKB(place.Coordinates())
	if err != nil {
		return nil, eris.Wrap(err, "postgres: encode place geometry")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO places (id, name, code, latitude, longitude, geom, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		place.ID, place.Name, place.Code, place.Latitude, place.Longitude, wkb, place.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert place")
	}

	zap.L().Debug("postgres: place created", zap.String("id", place.ID), zap.String("code", place.Code))
	return &place, nil
}

var importColumns = []string{"id", "name", "code", "latitude", "longitude", "geom", "created_at"}

func (s *PostgresStore) ImportPlaces(ctx context.Context, places []model.Place) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(places))
	for _, p := range places {
		wkb, err := geo.EncodeWKB(p.Coordinates())
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: encode geometry for %s", p.Name)
		}
		rows = append(rows, []any{uuid.New().String(), p.Name, p.Code, p.Latitude, p.Longitude, wkb, now})
	}

	n, err := db.CopyFrom(ctx, s.pool, "places", importColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import places")
	}
	zap.L().Info("postgres: places imported", zap.Int64("count", n))
	return n, nil
}

func (s *PostgresStore) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
	p, err := scanPlace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "place %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get place %s", id)
	}
	return p, nil
}

func (s *PostgresStore) GetPlaceByCode(ctx context.Context, code string) (*model.Place, error) {
	code = gpc.Normalize(code)
	row := s.pool.QueryRow(ctx,
		`SELECT `+placeColumns+` FROM places WHERE code = $1 ORDER BY created_at LIMIT 1`, code)
	p, err := scanPlace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "place with code %s", code)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get place by code %s", code)
	}
	return p, nil
}

func (s *PostgresStore) ListPlaces(ctx context.Context, filter PlaceFilter) ([]model.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places`
	var args []any
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += ` WHERE name ILIKE $1`
	}
	args = append(args, filter.limit(), filter.offset())
	if filter.Name != "" {
		query += ` ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list places")
	}
	defer rows.Close()

	var places []model.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan place")
		}
		places = append(places, *p)
	}
	return places, eris.Wrap(rows.Err(), "postgres: iterate places")
}

func (s *PostgresStore) DeletePlace(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete place %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "place %s", id)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS places (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	code       TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_places_code ON places(code);
CREATE INDEX IF NOT EXISTS idx_places_name ON places(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePlace(ctx context.Context, place model.Place) (*model.Place, error) {
	place.ID = uuid.New().String()
	place.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO places (id, name, code, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		place.ID, place.Name, place.Code, place.Latitude, place.Longitude, place.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert place")
	}
	return &place, nil
}

func (s *SQLiteStore) ImportPlaces(ctx context.Context, places []model.Place) (int64, error) {
	if len(places) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO places (id, name, code, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare import")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range places {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), p.Name, p.Code, p.Latitude, p.Longitude, now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import place %s", p.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import")
	}
	return int64(len(places)), nil
}

func (s *SQLiteStore) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, latitude, longitude, created_at FROM places WHERE id = ?`, id)
	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "place %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get place %s", id)
	}
	return p, nil
}

func (s *SQLiteStore) GetPlaceByCode(ctx context.Context, code string) (*model.Place, error) {
	code = gpc.Normalize(code)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, latitude, longitude, created_at FROM places WHERE code = ? ORDER BY created_at LIMIT 1`, code)
	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "place with code %s", code)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get place by code %s", code)
	}
	return p, nil
}

func (s *SQLiteStore) ListPlaces(ctx context.Context, filter PlaceFilter) ([]model.Place, error) {
	query := `SELECT id, name, code, latitude, longitude, created_at FROM places`
	var args []any
	if filter.Name != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+filter.Name+"%")
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), filter.offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list places")
	}
	defer rows.Close() //nolint:errcheck

	var places []model.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan place")
		}
		places = append(places, *p)
	}
	return places, eris.Wrap(rows.Err(), "sqlite: iterate places")
}

func (s *SQLiteStore) DeletePlace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete place %s", id)
	}
	return checkRowsAffected(res, "place", id)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPlace(row scannable) (*model.Place, error) {
	var p model.Place
	if err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

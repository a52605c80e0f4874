package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/internal/model"
)

// ErrNotFound is returned when a place does not exist.
var ErrNotFound = eris.New("not found")

// PlaceFilter specifies criteria for listing places.
type PlaceFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// DefaultListLimit caps ListPlaces when the filter leaves Limit unset.
const DefaultListLimit = 100

// Store persists named places keyed by their canonical Grid Point Code.
type Store interface {
	CreatePlace(ctx context.Context, place model.Place) (*model.Place, error)
	GetPlace(ctx context.Context, id string) (*model.Place, error)
	GetPlaceByCode(ctx context.Context, code string) (*model.Place, error)
	ListPlaces(ctx context.Context, filter PlaceFilter) ([]model.Place, error)
	DeletePlace(ctx context.Context, id string) error
	// ImportPlaces bulk-inserts places, assigning IDs and timestamps, and
	// returns the number written.
	ImportPlaces(ctx context.Context, places []model.Place) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func (f PlaceFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func (f PlaceFilter) offset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

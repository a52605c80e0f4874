package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/pkg/gpc"
)

// ErrNameRequired is returned when a place has a blank name.
var ErrNameRequired = eris.New("place name is required")

// ErrMissingLocation is returned when a place has neither a code nor a full
// coordinate pair.
var ErrMissingLocation = eris.New("place requires a code or latitude and longitude")

// Place is a named location stored under its canonical Grid Point Code.
type Place struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Code      string    `json:"code" yaml:"code"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Coordinates returns the place position.
func (p Place) Coordinates() gpc.Coordinates {
	return gpc.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// FormattedCode returns the code as #XXXX-XXXX-XXX.
func (p Place) FormattedCode() string {
	return gpc.FormatCode(p.Code)
}

// PlaceInput is a request to save a place. Code takes precedence over the
// coordinates when both are set.
type PlaceInput struct {
	Name      string   `json:"name"`
	Code      string   `json:"code,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Resolve validates the input and fills both the canonical code and the
// truncated coordinates it decodes to.
func (in PlaceInput) Resolve() (Place, error) {
	p := Place{Name: strings.TrimSpace(in.Name)}
	if p.Name == "" {
		return Place{}, ErrNameRequired
	}

	code := in.Code
	if strings.TrimSpace(code) == "" {
		if in.Latitude == nil || in.Longitude == nil {
			return Place{}, ErrMissingLocation
		}
		var err error
		code, err = gpc.EncodeWithFormat(*in.Latitude, *in.Longitude, false)
		if err != nil {
			return Place{}, err
		}
	}

	c, err := gpc.Decode(code)
	if err != nil {
		return Place{}, err
	}
	p.Code = gpc.Normalize(code)
	p.Latitude = c.Latitude
	p.Longitude = c.Longitude
	return p, nil
}

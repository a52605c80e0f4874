// Package batch converts spreadsheets of coordinates or Grid Point Codes in
// bulk. Rows are converted independently; a bad row is marked, never fatal.
package batch

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

// Mode selects the conversion direction.
type Mode string

const (
	ModeAuto   Mode = "auto"   // decode rows with a code, encode the rest
	ModeEncode Mode = "encode" // coordinates -> code
	ModeDecode Mode = "decode" // code -> coordinates
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeEncode, ModeDecode:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", eris.Errorf("batch: unknown mode %q", s)
	}
}

// Record is one input row and, after Run, its conversion result.
type Record struct {
	Row       int        `json:"row"`
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Code      string     `json:"code,omitempty"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Error     string     `json:"error,omitempty"`
	Reason    gpc.Reason `json:"reason,omitempty"`

	rawLatitude  string
	rawLongitude string
}

// NewCoordinateRecord builds an input row holding raw coordinate text.
func NewCoordinateRecord(row int, id, name, lat, lon string) Record {
	return Record{Row: row, ID: id, Name: name, rawLatitude: lat, rawLongitude: lon}
}

// NewCodeRecord builds an input row holding a code.
func NewCodeRecord(row int, id, name, code string) Record {
	return Record{Row: row, ID: id, Name: name, Code: code}
}

// OK reports whether the row converted without error.
func (r Record) OK() bool { return r.Error == "" }

// Coordinates returns the row position.
func (r Record) Coordinates() gpc.Coordinates {
	return gpc.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Places converts the successful records for the places registry. A row
// without a name is named by its ID, then by its code.
func Places(records []Record) []model.Place {
	var places []model.Place
	for _, r := range records {
		if !r.OK() {
			continue
		}
		name := r.Name
		if name == "" {
			name = r.ID
		}
		code := gpc.Normalize(r.Code)
		if name == "" {
			name = gpc.FormatCode(code)
		}
		places = append(places, model.Place{
			Name:      name,
			Code:      code,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return places
}

func (r *Record) fail(err error) {
	r.Error = err.Error()
	r.Reason = gpc.ReasonOf(err)
}

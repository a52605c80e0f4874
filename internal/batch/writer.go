package batch

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/internal/geo"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
	FormatShp     Format = "shp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatGeoJSON, FormatShp:
		return f, nil
	default:
		return "", eris.Errorf("batch: unknown format %q", s)
	}
}

// FormatFromPath guesses the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return ParseFormat(ext)
}

var csvHeader = []string{"row", "id", "name", "latitude", "longitude", "code", "error"}

// WriteCSV writes every record, failed rows included.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "batch: write csv header")
	}
	for _, r := range records {
		lat, lon := "", ""
		if r.OK() {
			lat = strconv.FormatFloat(r.Latitude, 'f', -1, 64)
			lon = strconv.FormatFloat(r.Longitude, 'f', -1, 64)
		}
		row := []string{strconv.Itoa(r.Row), r.ID, r.Name, lat, lon, r.Code, r.Error}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "batch: write csv row %d", r.Row)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "batch: flush csv")
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []Record{}
	}
	return eris.Wrap(enc.Encode(records), "batch: write json")
}

// WriteGeoJSON writes successful records as a point FeatureCollection.
func WriteGeoJSON(w io.Writer, records []Record) error {
	fc := geo.FeatureCollection()
	for _, r := range records {
		if !r.OK() {
			continue
		}
		props := map[string]any{"row": r.Row}
		if r.ID != "" {
			props["id"] = r.ID
		}
		if r.Name != "" {
			props["name"] = r.Name
		}
		fc.Append(geo.Feature(r.Code, r.Coordinates(), props))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "batch: marshal geojson")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "batch: write geojson")
	}
	return nil
}

// Shapefile attribute columns. DBF names are limited to 10 characters.
var shpFields = []shp.Field{
	shp.StringField("ID", 64),
	shp.StringField("NAME", 128),
	shp.StringField("CODE", 16),
	shp.FloatField("LAT", 12, 5),
	shp.FloatField("LON", 13, 5),
}

// WriteShapefile writes successful records as a point shapefile at path
// (with sibling .shx and .dbf files).
func WriteShapefile(path string, records []Record) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "batch: create shapefile %s", path)
	}
	if err := w.SetFields(shpFields); err != nil {
		w.Close()
		return eris.Wrap(err, "batch: set shapefile fields")
	}

	for _, r := range records {
		if !r.OK() {
			continue
		}
		n := int(w.Write(&shp.Point{X: r.Longitude, Y: r.Latitude}))
		attrs := []any{
			clip(r.ID, 64),
			clip(r.Name, 128),
			clip(r.Code, 16),
			r.Latitude,
			r.Longitude,
		}
		for i, v := range attrs {
			if err := w.WriteAttribute(n, i, v); err != nil {
				w.Close()
				return eris.Wrapf(err, "batch: write attribute row %d", r.Row)
			}
		}
	}
	w.Close()

	// go-shp names the attribute table "<base>dbf", without the dot.
	base := shpBase(path)
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return eris.Wrap(err, "batch: rename shapefile attributes")
	}
	return nil
}

func shpBase(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".shp") {
		return path[:len(path)-4]
	}
	return path
}

// WriteFile writes records to path in the given format.
func WriteFile(path string, format Format, records []Record) error {
	if format == FormatShp {
		return WriteShapefile(path, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create %s", path)
	}
	if err := Write(f, format, records); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "batch: close output")
}

// Write streams records in a text format. Shapefiles need a path; use
// WriteShapefile.
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatGeoJSON:
		return WriteGeoJSON(w, records)
	case FormatShp:
		return eris.New("batch: shapefile output requires a file path")
	default:
		return eris.Errorf("batch: unknown format %q", format)
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Output formats shared by the single-value commands.
const (
	outputText    = "text"
	outputJSON    = "json"
	outputYAML    = "yaml"
	outputGeoJSON = "geojson"
)

// render writes v in the requested format; text mode prints the text line.
func render(w io.Writer, format, text string, v any) error {
	switch format {
	case "", outputText:
		_, err := fmt.Fprintln(w, text)
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		return eris.Errorf("unsupported output format: %s", format)
	}
}

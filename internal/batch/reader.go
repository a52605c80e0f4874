package batch

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// columnAliases maps accepted header names to record fields.
var columnAliases = map[string]string{
	"id":        "id",
	"name":      "name",
	"latitude":  "latitude",
	"lat":       "latitude",
	"longitude": "longitude",
	"lon":       "longitude",
	"lng":       "longitude",
	"long":      "longitude",
	"code":      "code",
	"gpc":       "code",
}

// ReadOptions tunes ReadFile.
type ReadOptions struct {
	// Sheet names the worksheet of an .xlsx input. Empty selects the first.
	Sheet string
	// Charset is the WHATWG encoding label of a .csv input. Empty means UTF-8.
	Charset string
}

// ReadFile loads records from a .csv or .xlsx file.
func ReadFile(path string, opts ReadOptions) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, opts.Sheet)
	case ".csv", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "batch: open csv")
		}
		defer f.Close()
		r, err := decodeCharset(f, opts.Charset)
		if err != nil {
			return nil, err
		}
		return ReadCSV(r)
	default:
		return nil, eris.Errorf("batch: unsupported input extension %q", filepath.Ext(path))
	}
}

// ReadCSV loads records from CSV with a header row.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}
	return parseRows(rows)
}

// ReadXLSX loads records from a worksheet. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheetName string) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("batch: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("batch: xlsx has no sheets")
		}
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cellValue(cell)
		}
		rows = append(rows, cells)
	}
	return parseRows(rows)
}

// cellValue returns the stored value of numeric cells so a display format
// such as "0.00" never rounds a coordinate.
func cellValue(cell *xlsx.Cell) string {
	if cell.Type() == xlsx.CellTypeNumeric {
		if v, err := cell.Float(); err == nil {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return cell.Value
	}
	return cell.String()
}

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

func parseRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, eris.New("batch: input is empty")
	}

	colIdx := make(map[string]int)
	for i, col := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			if _, dup := colIdx[field]; !dup {
				colIdx[field] = i
			}
		}
	}

	_, hasLat := colIdx["latitude"]
	_, hasLon := colIdx["longitude"]
	_, hasCode := colIdx["code"]
	if !hasCode && !(hasLat && hasLon) {
		return nil, eris.New("batch: header needs a code column or latitude and longitude columns")
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, Record{
			Row:          i + 2, // 1-based, after the header
			ID:           getCol(row, colIdx, "id"),
			Name:         getCol(row, colIdx, "name"),
			Code:         getCol(row, colIdx, "code"),
			rawLatitude:  getCol(row, colIdx, "latitude"),
			rawLongitude: getCol(row, colIdx, "longitude"),
		})
	}
	return records, nil
}

func getCol(row []string, colIdx map[string]int, field string) string {
	i, ok := colIdx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

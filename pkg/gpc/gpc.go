// Package gpc converts between latitude/longitude pairs and Grid Point Codes,
// fixed-length base-27 strings such as "#HG9K-PCVH-DPV".
//
// Coordinates are kept to 5 fractional digits per axis. Extra digits are
// truncated toward zero, so Decode(Encode(lat, lon)) returns the input exactly
// whenever it already had 5 or fewer fractional digits.
package gpc

import "strings"

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// CodeLength is the number of base-27 digits in an unformatted code.
	CodeLength = 11

	// MinPoint is the smallest packed point (table index 1, zero fraction).
	MinPoint uint64 = 10_000_000_000
	// MaxPoint is the largest packed point (last table index, all nines).
	MaxPoint uint64 = 648_009_999_999_999
	// Eleven is added before base-27 encoding so every point needs exactly
	// CodeLength digits. MinPoint+Eleven == 27^10.
	Eleven uint64 = 205_881_132_094_649

	latBands  = 180
	longBands = 360

	pointBase     uint64 = 10_000_000_000
	fractionScale        = 100_000.0
)

// latLongTable indexes (latitude band, longitude band) pairs.
var latLongTable = NewTable(latBands, longBands, true)

// Encode returns the formatted code (#XXXX-XXXX-XXX) for a coordinate pair.
func Encode(latitude, longitude float64) (string, error) {
	return EncodeWithFormat(latitude, longitude, true)
}

// EncodeWithFormat returns the code for a coordinate pair, formatted or as the
// bare 11 characters.
func EncodeWithFormat(latitude, longitude float64, formatted bool) (string, error) {
	if v := IsValidCoordinates(latitude, longitude); !v.Valid {
		return "", &CoordinateError{Reason: v.Reason}
	}

	point, err := getPoint(latitude, longitude)
	if err != nil {
		return "", err
	}

	code := encodePoint(point + Eleven)
	if formatted {
		code = FormatCode(code)
	}
	return code, nil
}

// IsValidCoordinates reports whether both axes lie strictly inside their
// ranges. NaN is rejected.
func IsValidCoordinates(latitude, longitude float64) Validation {
	if !(latitude > MinLatitude && latitude < MaxLatitude) {
		return invalid(ReasonLatitude)
	}
	if !(longitude > MinLongitude && longitude < MaxLongitude) {
		return invalid(ReasonLongitude)
	}
	return valid()
}

// Decode parses a formatted or unformatted code. Separators, whitespace and
// letter case are ignored.
func Decode(code string) (Coordinates, error) {
	point, v := parse(code)
	if !v.Valid {
		return Coordinates{}, &CodeError{Reason: v.Reason}
	}
	return getCoordinates(point)
}

// IsValidCode runs the same checks as Decode without building coordinates.
func IsValidCode(code string) Validation {
	_, v := parse(code)
	return v
}

func parse(code string) (uint64, Validation) {
	if strings.TrimSpace(code) == "" {
		return 0, invalid(ReasonNull)
	}
	clean := Normalize(code)
	if v := validateCode(clean); !v.Valid {
		return 0, v
	}
	return toPoint(decodeToPoint(clean))
}

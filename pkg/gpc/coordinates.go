package gpc

import "strconv"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Equal compares both axes with exact float equality.
func (c Coordinates) Equal(o Coordinates) bool {
	return c.Latitude == o.Latitude && c.Longitude == o.Longitude
}

// String renders "lat,lon" with the shortest exact representation.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

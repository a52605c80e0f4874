package gpc

import (
	"github.com/shopspring/decimal"
)

// split7 holds one axis as [sign, whole degrees, d1..d5].
type split7 [7]int

const (
	sgn   = 0
	whole = 1
	frac1 = 2
)

var ten = decimal.NewFromInt(10)

// splitTo7 truncates a coordinate to 5 fractional digits. The fraction is taken
// from the shortest decimal form of the float so values such as 123.1234567
// yield 12345 rather than drifting through binary rounding.
func splitTo7(coordinate float64) split7 {
	var s split7
	s[sgn] = 1
	if coordinate < 0 {
		s[sgn] = -1
	}

	abs := decimal.NewFromFloat(coordinate).Abs()
	intPart := abs.Truncate(0)
	s[whole] = int(intPart.IntPart())

	fraction := abs.Sub(intPart)
	for i := frac1; i < len(s); i++ {
		fraction = fraction.Mul(ten)
		digit := fraction.Truncate(0)
		s[i] = int(digit.IntPart())
		fraction = fraction.Sub(digit)
	}
	return s
}

// band folds sign into the whole-degree slot: even for positive, odd for negative.
func (s split7) band() int {
	b := s[whole] * 2
	if s[sgn] == -1 {
		b++
	}
	return b
}

// fromBand is the inverse of band.
func fromBand(b int) split7 {
	var s split7
	s[sgn] = 1
	if b%2 != 0 {
		s[sgn] = -1
	}
	s[whole] = b / 2
	return s
}

// value reassembles the truncated coordinate.
func (s split7) value() float64 {
	scaled := 0
	for i := whole; i < len(s); i++ {
		scaled = scaled*10 + s[i]
	}
	return float64(scaled) / fractionScale * float64(s[sgn])
}

// getPoint packs two split coordinates: table index (1-based) above 10^10,
// interleaved fractional digits below it.
func getPoint(latitude, longitude float64) (uint64, error) {
	lat7 := splitTo7(latitude)
	long7 := splitTo7(longitude)

	idx, err := latLongTable.IndexOf(lat7.band(), long7.band())
	if err != nil {
		return 0, err
	}

	point := uint64(idx+1) * pointBase
	power := pointBase / 10
	for i := frac1; i < len(lat7); i++ {
		point += uint64(lat7[i]) * power
		power /= 10
		point += uint64(long7[i]) * power
		power /= 10
	}
	return point, nil
}

// getCoordinates unpacks a point produced by getPoint.
func getCoordinates(point uint64) (Coordinates, error) {
	idx := int(point / pointBase)
	fractional := point % pointBase

	latBand, longBand, err := latLongTable.ElementsAt(idx - 1)
	if err != nil {
		return Coordinates{}, err
	}
	lat7 := fromBand(latBand)
	long7 := fromBand(longBand)

	power := pointBase / 10
	for i := frac1; i < len(lat7); i++ {
		lat7[i] = int(fractional / power % 10)
		power /= 10
		long7[i] = int(fractional / power % 10)
		power /= 10
	}

	return Coordinates{Latitude: lat7.value(), Longitude: long7.value()}, nil
}

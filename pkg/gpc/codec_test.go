package gpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTo7(t *testing.T) {
	tests := []struct {
		in   float64
		want split7
	}{
		{0, split7{1, 0, 0, 0, 0, 0, 0}},
		{-0.00001, split7{-1, 0, 0, 0, 0, 0, 1}},
		{-123.1234567, split7{-1, 123, 1, 2, 3, 4, 5}},
		{89.99999, split7{1, 89, 9, 9, 9, 9, 9}},
		{0.1, split7{1, 0, 1, 0, 0, 0, 0}},
		{1e-7, split7{1, 0, 0, 0, 0, 0, 0}},
		{179.99999999, split7{1, 179, 9, 9, 9, 9, 9}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitTo7(tt.in), "splitTo7(%v)", tt.in)
	}
}

func TestBand(t *testing.T) {
	for b := 0; b < 360; b++ {
		assert.Equal(t, b, fromBand(b).band())
	}
	assert.Equal(t, 247, splitTo7(-123.5).band())
	assert.Equal(t, 24, splitTo7(12.5).band())
}

func TestGetPoint(t *testing.T) {
	p, err := getPoint(0, 0)
	require.NoError(t, err)
	assert.Equal(t, MinPoint, p)

	p, err = getPoint(-89.99999, -179.99999)
	require.NoError(t, err)
	assert.Equal(t, MaxPoint, p)

	p, err = getPoint(-12.12345, -123.12345)
	require.NoError(t, err)
	assert.Equal(t, uint64(328_761_122_334_455), p)
}

func TestGetCoordinates(t *testing.T) {
	c, err := getCoordinates(328_761_122_334_455)
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: -12.12345, Longitude: -123.12345}, c)

	_, err = getCoordinates(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPointCodec_RoundTrip(t *testing.T) {
	points := []uint64{
		0, 1, 26, 27, 728, 729,
		MinPoint + Eleven,
		MaxPoint + Eleven,
		5_559_060_566_555_522, // 27^11 - 1
	}
	for _, p := range points {
		assert.Equal(t, p, decodeToPoint(encodePoint(p)), "point %d", p)
	}
	assert.Equal(t, "DCCCCCCCCCC", encodePoint(MinPoint+Eleven))
	assert.Equal(t, "99999999999", encodePoint(5_559_060_566_555_522))
	assert.Equal(t, "", encodePoint(0))
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "#HG9P-JLHJ-X69", FormatCode("HG9PJLHJX69"))
	assert.Equal(t, "SHORT", FormatCode("SHORT"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "HG9PJLHJX69", Normalize(" #hg9p-JLHJ x69\n"))
	assert.Equal(t, "", Normalize("#- -"))
}

func TestToPoint(t *testing.T) {
	p, v := toPoint(MinPoint + Eleven)
	assert.True(t, v.Valid)
	assert.Equal(t, MinPoint, p)

	_, v = toPoint(MaxPoint + Eleven + 1)
	assert.Equal(t, ReasonRange, v.Reason)

	_, v = toPoint(Eleven)
	assert.Equal(t, ReasonRange, v.Reason)
}

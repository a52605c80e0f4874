package gpc

const (
	// Alphabet is the base-27 digit set; 'C' is zero.
	Alphabet = "CDFGHJKLMNPRTVWXY0123456789"
	base     = uint64(len(Alphabet))
)

var alphabetIndex [256]int8

func init() {
	for i := range alphabetIndex {
		alphabetIndex[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		alphabetIndex[Alphabet[i]] = int8(i)
	}
}

// encodePoint writes p in base 27 without padding.
func encodePoint(p uint64) string {
	var buf [16]byte
	i := len(buf)
	for p > 0 {
		i--
		buf[i] = Alphabet[p%base]
		p /= base
	}
	return string(buf[i:])
}

// decodeToPoint reads a base-27 string. The caller must have checked the
// character set.
func decodeToPoint(code string) uint64 {
	var p uint64
	for i := 0; i < len(code); i++ {
		p = p*base + uint64(alphabetIndex[code[i]])
	}
	return p
}

func inAlphabet(c byte) bool {
	return alphabetIndex[c] >= 0
}

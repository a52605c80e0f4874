package gpc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	prefix    = '#'
	separator = '-'
)

// FormatCode renders an 11-character code as #XXXX-XXXX-XXX. Input of any
// other length is returned unchanged.
func FormatCode(code string) string {
	if len(code) != CodeLength {
		return code
	}
	var b strings.Builder
	b.Grow(CodeLength + 3)
	b.WriteByte(prefix)
	b.WriteString(code[:4])
	b.WriteByte(separator)
	b.WriteString(code[4:8])
	b.WriteByte(separator)
	b.WriteString(code[8:])
	return b.String()
}

// Normalize strips whitespace, '-' and '#' and upper-cases the rest.
func Normalize(code string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == prefix || r == separator || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
	return strings.ToUpper(stripped)
}

// validateCode checks the length and character set of a normalized code.
func validateCode(code string) Validation {
	if utf8.RuneCountInString(code) != CodeLength {
		return invalid(ReasonLength)
	}
	for i := 0; i < len(code); i++ {
		if !inAlphabet(code[i]) {
			return invalid(ReasonChar)
		}
	}
	return valid()
}

// toPoint removes the offset from an encoded value, rejecting values whose
// point would fall outside [MinPoint, MaxPoint].
func toPoint(encoded uint64) (uint64, Validation) {
	if encoded < MinPoint+Eleven || encoded-Eleven > MaxPoint {
		return 0, invalid(ReasonRange)
	}
	return encoded - Eleven, valid()
}

package normalization

import (
	"strings"
)

// NormalizeTerm produces the canonical lookup key for a raw clinical string:
// case-folded and stripped of surrounding whitespace. Every key inserted into
// or queried against a vocabulary lookup goes through this.
func NormalizeTerm(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeTermPtr treats a nil pointer as an absent value, which normalizes
// to the empty string.
func NormalizeTermPtr(input *string) string {
	if input == nil {
		return ""
	}
	return NormalizeTerm(*input)
}

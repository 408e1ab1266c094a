package usecase

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize canonicalizes text for catalog comparison: lowercase, with every
// whitespace rune, hyphen, forward slash and comma removed. Nothing else changes,
// so normalizing twice gives the same result as normalizing once.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(dropSeparator, strings.ToLower(s))
}

func dropSeparator(r rune) rune {
	switch r {
	case '-', '/', ',':
		return -1
	}
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

// NormalizeValue is Normalize for loosely typed column values.
// nil and nil pointers become "".
func NormalizeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return Normalize(val)
	case *string:
		if val == nil {
			return ""
		}
		return Normalize(*val)
	case *float64:
		if val == nil {
			return ""
		}
		return Normalize(fmt.Sprint(*val))
	case *int:
		if val == nil {
			return ""
		}
		return Normalize(fmt.Sprint(*val))
	case *bool:
		if val == nil {
			return ""
		}
		return Normalize(fmt.Sprint(*val))
	default:
		return Normalize(fmt.Sprint(val))
	}
}

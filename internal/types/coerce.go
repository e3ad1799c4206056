package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// LOOSE-VALUE COERCION UTILITIES
// =============================================================================
//
// Model-emitted JSON does not reliably honor types: booleans arrive as
// strings, lists arrive as scalars or vanish entirely, numbers arrive as
// floats. These helpers coerce interface{} values decoded from such JSON
// into the domain types without bare type assertions that panic on mismatch.

// CoerceString extracts a string from a decoded JSON value.
// Non-string scalars are formatted; nil becomes "".
func CoerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CoerceStringList extracts a string list from a decoded JSON value.
// Missing or non-list values become an empty list, not an error; a bare
// string becomes a single-element list.
func CoerceStringList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s := strings.TrimSpace(CoerceString(item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case string:
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			return []string{trimmed}
		}
		return []string{}
	default:
		return []string{}
	}
}

// CoerceBool extracts a boolean using truthy semantics rather than a strict
// type check. Recognized true spellings: true, "true", "yes", "y", "1",
// "incumbent", and any nonzero number.
func CoerceBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "incumbent":
			return true
		}
		return false
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

package rivals

// findJSONRegions scans the input for top-level JSON array and object
// candidates. It handles nested brackets and string escaping to correctly
// identify boundaries, using a byte-level state machine rather than regex.
//
// Note: It is safe to iterate bytes for ASCII delimiters ([, ], {, }, ", \)
// because UTF-8 encoding guarantees that ASCII bytes never appear as part of
// a multi-byte sequence.
func findJSONRegions(s string) []string {
	var regions []string
	var depth int
	var start int = -1
	var inString bool
	var escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		// Handle escape sequences inside strings
		if escape {
			escape = false
			continue
		}

		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		// Not in string
		if b == '"' {
			inString = true
			continue
		}

		switch b {
		case '[', '{':
			if depth == 0 {
				start = i
			}
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					regions = append(regions, s[start:i+1])
					start = -1
				}
			}
		}
	}

	return regions
}

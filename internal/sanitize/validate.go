package sanitize

// IsValidPayload reports whether a value is built purely from JSON-safe
// shapes: null, string, number, boolean, arrays of valid values and plain
// string-keyed objects of valid values. Anything else (time.Time, structs,
// functions, channels...) fails. The gate runs before sanitization on
// every authenticated content write; a rejected payload never reaches the
// sanitizer or the store.
//
// Values decoded from JSON always pass by construction; the check matters
// for programmatic callers handing in arbitrary Go values.
func IsValidPayload(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool, string, float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	case []any:
		for _, e := range t {
			if !IsValidPayload(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !IsValidPayload(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

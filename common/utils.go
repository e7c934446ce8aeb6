package common

import "strings"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SplitObjectNames parses a comma-separated object-name string into an ordered
// list of trimmed, non-empty names. Duplicates are kept: re-baking the same
// object twice in one list is two independent attempts, not deduplicated.
//
// Parameters:
//   - list: the comma-separated name string, e.g. "Floor, Ceiling,Cube"
//
// Returns:
//   - []string: the ordered names, empty entries dropped
func SplitObjectNames(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

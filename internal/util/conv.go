package util

import "strconv"

// ParsePositiveInt parses s as a positive integer, falling back when
// the value is missing, malformed or not positive. Used for page and
// limit query parameters.
func ParsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

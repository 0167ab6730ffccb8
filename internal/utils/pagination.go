// Package utils provides small, generic helpers shared across layers.
// Nothing here knows about modes, records, or HTTP.
package utils

import "strconv"

// AtoiDefault converts a string to an int, returning def when the string is
// empty or not a valid integer. The history endpoint uses it to read the
// limit and offset query parameters without failing the request on junk
// values; the service layer applies its own clamping afterwards.
//
// Example:
//
//	limit := utils.AtoiDefault(c.Query("limit"), 0)   // "25" -> 25
//	offset := utils.AtoiDefault(c.Query("offset"), 0) // ""   -> 0, "x" -> 0
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

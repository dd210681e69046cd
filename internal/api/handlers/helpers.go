package handlers

import (
	"regexp"
	"strconv"
	"strings"
)

var playerNameRe = regexp.MustCompile(`^[\p{L}\p{N} _.\-]{1,32}$`)

// normalizePlayerName trims and validates a display name. Empty input
// becomes "guest"; invalid input returns "".
func normalizePlayerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "guest"
	}
	if !playerNameRe.MatchString(name) {
		return ""
	}
	return name
}

// parseLimit reads a positive page size, clamped to max.
func parseLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

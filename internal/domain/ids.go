package domain

import (
	"strconv"
	"strings"
)

// NextID allocates an identifier for a new record: 1 for an empty list,
// otherwise one more than the largest key. Keys that do not parse as
// integers count as 0.
func NextID[T any](items []T, key func(T) string) int {
	if len(items) == 0 {
		return 1
	}
	highest := parseKey(key(items[0]))
	for _, item := range items[1:] {
		if n := parseKey(key(item)); n > highest {
			highest = n
		}
	}
	return highest + 1
}

func parseKey(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Package chart inspects chart description files produced by the target
// layout tool.
package chart

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CountPages counts occurrences of the page-terminator marker in the chart
// description file at path. A description with no markers still describes a
// single page, so the count floors at 1.
func CountPages(path, marker string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read chart description: %w", err)
	}
	if marker == "" {
		return 1, nil
	}
	count := strings.Count(string(data), marker)
	if count < 1 {
		return 1, nil
	}
	return count, nil
}

// ParsePageOverride parses an operator-supplied page-count override. An
// empty string means no override. Anything that is not a non-negative
// integer is rejected.
func ParsePageOverride(value string) (int, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("page count override must be a non-negative integer, got %q", value)
	}
	return n, true, nil
}

// ResolvePageCount combines detection and override: the override, when
// present, replaces the detected count exactly.
func ResolvePageCount(path, marker, override string) (int, error) {
	if n, ok, err := ParsePageOverride(override); err != nil {
		return 0, err
	} else if ok {
		return n, nil
	}
	return CountPages(path, marker)
}

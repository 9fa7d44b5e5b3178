package utils

import (
	"strconv"
	"strings"
)

// ParseQueryList handles both repeated and comma-separated query params.
// Example:
//
//	?status=Active,Inactive   → ["Active","Inactive"]
//	?status=Active&status=Inactive  → ["Active","Inactive"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]

	if len(values) == 0 {
		return nil
	}

	// If single value contains commas, split it
	if len(values) == 1 && strings.Contains(values[0], ",") {
		parts := strings.Split(values[0], ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	// Otherwise return the values as-is
	cleaned := make([]string, len(values))
	for i, v := range values {
		cleaned[i] = strings.TrimSpace(v)
	}
	return cleaned
}

// ParseIDList is ParseQueryList for the numeric foreign-key filters
// (?poleId=3,7). Values that do not parse as integers are dropped.
func ParseIDList(q map[string][]string, key string) []int {
	var ids []int
	for _, v := range ParseQueryList(q, key) {
		if id, err := strconv.Atoi(v); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

package domain

import (
	"fmt"
	"strings"
)

// Priority ranks how much the owner wants an item.
type Priority string

// Priority constants define the allowed item priorities.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ValidPriorities returns the set of valid priorities, highest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValidPriority checks whether p is one of the known priorities.
func IsValidPriority(p Priority) bool {
	for _, v := range ValidPriorities() {
		if v == p {
			return true
		}
	}
	return false
}

// ParsePriority resolves a priority name case-insensitively ("high" -> High).
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range ValidPriorities() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (want High, Medium or Low)", s)
}

func (p Priority) String() string { return string(p) }

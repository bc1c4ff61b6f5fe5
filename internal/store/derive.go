package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/utafrali/wishlist/internal/domain"
)

// Matches reports whether item satisfies every set filter. Comparison is exact
// and case-sensitive; an empty filter field matches everything.
func Matches(item domain.Item, filters domain.FilterOptions) bool {
	if filters.Source != "" && item.Source != filters.Source {
		return false
	}
	if filters.Category != "" && item.Category != filters.Category {
		return false
	}
	if filters.Priority != "" && item.Priority != filters.Priority {
		return false
	}
	return true
}

// Filter returns the items matching filters in their original order.
func Filter(items []domain.Item, filters domain.FilterOptions) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

// ParsePrice reads a string-encoded price as a decimal number; exponent
// notation is accepted. Anything that does not parse to a finite decimal
// number, hex floats included, counts as 0.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if isHexLiteral(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// SumPrices adds up the parsed price of every item.
func SumPrices(items []domain.Item) float64 {
	var total float64
	for _, item := range items {
		total += ParsePrice(item.Price)
	}
	return total
}

// DistinctSources lists each source once, in order of first appearance.
func DistinctSources(items []domain.Item) []string {
	return distinct(items, func(i domain.Item) string { return i.Source })
}

// DistinctCategories lists each category once, in order of first appearance.
func DistinctCategories(items []domain.Item) []string {
	return distinct(items, func(i domain.Item) string { return i.Category })
}

func distinct(items []domain.Item, key func(domain.Item) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

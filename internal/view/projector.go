// Package view computes the visible subset of the product list from the
// current search term and category filter. It holds no state: the projection
// is a pure function of its inputs and recomputes on every read.
package view

import (
	"strings"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
)

// Project returns the products matching the given filters, preserving the
// relative order of list.
//
// The category filter is applied first as a case-sensitive exact match; an
// empty categoryFilter means no category restriction (not "items without a
// category"). The search term is then applied as a case-insensitive substring
// match against title or description; an empty (or all-whitespace) term skips
// that pass entirely. Products with missing title or description match as if
// those fields were empty strings.
func Project(list []domain.Product, searchTerm, categoryFilter string) []domain.Product {
	filtered := list
	if categoryFilter != "" {
		filtered = filterCategory(filtered, categoryFilter)
	}

	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return filtered
	}

	query := strings.ToLower(term)
	matched := make([]domain.Product, 0, len(filtered))
	for _, p := range filtered {
		if matchesQuery(p, query) {
			matched = append(matched, p)
		}
	}
	return matched
}

func filterCategory(list []domain.Product, category string) []domain.Product {
	matched := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}

func matchesQuery(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}

// Categories returns the distinct categories present in list, in first-seen
// order. Products without a category are skipped.
func Categories(list []domain.Product) []string {
	seen := make(map[string]struct{}, len(list))
	categories := make([]string, 0, len(list))
	for _, p := range list {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

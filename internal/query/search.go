package query

import (
	"slices"
	"strings"

	"github.com/lintindex/rules-index/internal/domain"
)

// NormalizeSearch trims and lower-cases free-text search input
func NormalizeSearch(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Search keeps the records whose id, package, description or category contains
// the search text, case-insensitively. Blank text keeps everything.
func Search(records []domain.RuleRecord, text string) []domain.RuleRecord {
	q := NormalizeSearch(text)
	if q == "" {
		return slices.Clone(records)
	}

	out := make([]domain.RuleRecord, 0, len(records))
	for i := range records {
		if Matches(&records[i], q) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether the record matches an already normalized query
func Matches(record *domain.RuleRecord, normalized string) bool {
	if normalized == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.ID), normalized) ||
		strings.Contains(strings.ToLower(record.Package), normalized) ||
		strings.Contains(strings.ToLower(record.DescriptionText()), normalized) ||
		strings.Contains(strings.ToLower(record.CategoryName()), normalized)
}

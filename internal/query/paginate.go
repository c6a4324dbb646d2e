package query

import (
	"slices"

	"github.com/lintindex/rules-index/internal/domain"
)

// Paginate returns the 1-based page of size pageSize. Pages past the end, and
// non-positive page or size values, yield an empty slice; nothing is clamped.
func Paginate(records []domain.RuleRecord, page, pageSize int) []domain.RuleRecord {
	if page < 1 || pageSize < 1 {
		return []domain.RuleRecord{}
	}

	// compare page counts before multiplying so huge pages cannot overflow
	pages := len(records) / pageSize
	if len(records)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return []domain.RuleRecord{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(records))

	return slices.Clone(records[start:end])
}

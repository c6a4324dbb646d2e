package query

import (
	"github.com/lintindex/rules-index/internal/domain"
)

// Filters holds the column filters; an empty value leaves that column unfiltered
type Filters struct {
	Type     string
	Fixable  string
	Category string
}

// IsZero reports whether no filter is set
func (f Filters) IsZero() bool {
	return f.Type == "" && f.Fixable == "" && f.Category == ""
}

// Match applies every set filter. Fixable "none" selects rules without a fixable kind.
func (f Filters) Match(record *domain.RuleRecord) bool {
	if f.Type != "" && record.TypeName() != f.Type {
		return false
	}

	switch f.Fixable {
	case "":
	case domain.FixableNone:
		if record.FixableKind() != "" {
			return false
		}
	default:
		if record.FixableKind() != f.Fixable {
			return false
		}
	}

	if f.Category != "" && record.CategoryName() != f.Category {
		return false
	}

	return true
}

// Filter keeps the records accepted by every set filter
func Filter(records []domain.RuleRecord, filters Filters) []domain.RuleRecord {
	if filters.IsZero() {
		return append(make([]domain.RuleRecord, 0, len(records)), records...)
	}

	out := make([]domain.RuleRecord, 0, len(records))
	for i := range records {
		if filters.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

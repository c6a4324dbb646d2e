package query

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/lintindex/rules-index/internal/domain"
)

// ErrUnknownColumn is returned when sorting by a column records do not have
var ErrUnknownColumn = errors.New("unknown sort column")

type keyedRecord struct {
	key    []byte
	record domain.RuleRecord
}

// Sort returns a stably sorted copy of records ordered by the string form of
// column. Direction "desc" reverses the comparison; ties keep input order.
func Sort(records []domain.RuleRecord, column, direction string) ([]domain.RuleRecord, error) {
	if !slices.Contains(domain.SortableColumns, column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	collator := NewCollator()
	items := make([]keyedRecord, len(records))
	for i := range records {
		value, _ := records[i].Field(column)
		items[i] = keyedRecord{key: collator.Key(value), record: records[i]}
	}

	desc := direction == domain.SortDesc
	slices.SortStableFunc(items, func(a, b keyedRecord) int {
		if desc {
			return bytes.Compare(b.key, a.key)
		}
		return bytes.Compare(a.key, b.key)
	})

	out := make([]domain.RuleRecord, len(items))
	for i := range items {
		out[i] = items[i].record
	}
	return out, nil
}

// SortByID returns records ordered by id ascending
func SortByID(records []domain.RuleRecord) []domain.RuleRecord {
	// id is always a sortable column
	out, _ := Sort(records, domain.ColumnID, domain.SortAsc)
	return out
}

// SortStrings returns a collation-ordered copy of values
func SortStrings(values []string) []string {
	collator := NewCollator()
	out := slices.Clone(values)
	slices.SortStableFunc(out, collator.Compare)
	return out
}

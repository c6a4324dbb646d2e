package query

import (
	"github.com/lintindex/rules-index/internal/domain"
)

// Run applies search, filters, sort and pagination to records in that order.
// Total counts the records left after filtering, before pagination.
func Run(records []domain.RuleRecord, params domain.QueryParams) (*domain.QueryResult, error) {
	column := params.SortColumn
	if column == "" {
		column = domain.ColumnID
	}
	direction := params.SortDirection
	if direction == "" {
		direction = domain.SortAsc
	}

	matched := Search(records, params.Search)
	matched = Filter(matched, Filters{
		Type:     params.TypeFilter,
		Fixable:  params.FixableFilter,
		Category: params.CategoryFilter,
	})

	sorted, err := Sort(matched, column, direction)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResult{
		Records:  Paginate(sorted, params.Page, params.PageSize),
		Total:    len(sorted),
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

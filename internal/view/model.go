package view

import (
	"encoding/json"
	"fmt"

	"github.com/lintindex/rules-index/internal/domain"
)

// Empty state messages
const (
	EmptyCatalog   = "No rules loaded."
	EmptySearch    = "No rules match your search. Try a different query or clear the filter."
	EmptyNoResults = "No rules to display."
)

// Page is the data of the full rules page
type Page struct {
	Title      string
	Header     string
	Search     string
	ScriptPath string
	Table      Table
}

// Table is the data of the swappable table fragment
type Table struct {
	State      State
	StateJSON  string
	Columns    []Column
	Rows       []Row
	Empty      string
	Pagination Pagination
}

// Column describes one table header cell
type Column struct {
	Key      string
	Title    string
	Sortable bool
	Sorted   bool
	Dir      string
	Filter   *ColumnFilter
}

// ColumnFilter is the popover of a filterable column
type ColumnFilter struct {
	Event   EventKind
	Value   string
	Active  bool
	Options []domain.FilterOption
}

// Row is one rendered rule
type Row struct {
	ID             string
	URL            string
	Deprecated     bool
	Type           string
	TypeColor      string
	Fixable        string
	HasSuggestions bool
	Category       string
	Package        string
	Description    string
}

// Pagination holds the footer of the table
type Pagination struct {
	Text      string
	Page      int
	PageCount int
	Links     []PageLink
	Prev      int
	Next      int
	PageSize  int
	PageSizes []int
}

// PageLink is one page button; Gap marks an ellipsis
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// Header returns the subtitle. A nil pluginCount comes from a legacy catalog file.
func Header(ruleCount int, pluginCount *int) string {
	if pluginCount == nil {
		return fmt.Sprintf("%d rules from ESLint core and installed plugins, with links to documentation", ruleCount)
	}
	noun := "plugins"
	if *pluginCount == 1 {
		noun = "plugin"
	}
	return fmt.Sprintf("%d rules from %d %s (ESLint core + installed), with links to documentation", ruleCount, *pluginCount, noun)
}

// EmptyMessage returns the text shown when the visible page has no rows
func EmptyMessage(catalogSize int, state State, result *domain.QueryResult) string {
	switch {
	case len(result.Records) > 0:
		return ""
	case catalogSize == 0:
		return EmptyCatalog
	case state.HasActiveSearch():
		return EmptySearch
	default:
		return EmptyNoResults
	}
}

// PaginationText returns "<from>–<to> of <total> rules", or "" when the visible
// page is empty
func PaginationText(result *domain.QueryResult) string {
	if result.Total == 0 || len(result.Records) == 0 {
		return ""
	}
	return fmt.Sprintf("%d–%d of %d rules", result.From(), result.To(), result.Total)
}

// TypeColor maps a rule type to its badge colour
func TypeColor(ruleType string) string {
	switch ruleType {
	case domain.RuleTypeProblem:
		return "red"
	case domain.RuleTypeSuggestion:
		return "blue"
	default:
		return "gray"
	}
}

// BuildTable assembles the table fragment for state and its query result
func BuildTable(state State, result *domain.QueryResult, facets domain.Facets, catalogSize int) Table {
	rows := make([]Row, 0, len(result.Records))
	for i := range result.Records {
		rows = append(rows, newRow(&result.Records[i]))
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		encoded = []byte("{}")
	}

	return Table{
		State:      state,
		StateJSON:  string(encoded),
		Columns:    columns(state, facets),
		Rows:       rows,
		Empty:      EmptyMessage(catalogSize, state, result),
		Pagination: buildPagination(result),
	}
}

// BuildPage assembles the full page
func BuildPage(title string, catalog domain.Catalog, table Table, scriptPath string) Page {
	return Page{
		Title:      title,
		Header:     Header(len(catalog.Rules), catalog.PluginCount),
		Search:     table.State.Search,
		ScriptPath: scriptPath,
		Table:      table,
	}
}

func newRow(r *domain.RuleRecord) Row {
	return Row{
		ID:             r.ID,
		URL:            r.URL,
		Deprecated:     r.Deprecated,
		Type:           r.TypeName(),
		TypeColor:      TypeColor(r.TypeName()),
		Fixable:        r.FixableKind(),
		HasSuggestions: r.HasSuggestions,
		Category:       r.CategoryName(),
		Package:        r.Package,
		Description:    r.DescriptionText(),
	}
}

func columns(state State, facets domain.Facets) []Column {
	cols := []Column{
		{Key: domain.ColumnID, Title: "Rule", Sortable: true},
		{Key: domain.ColumnType, Title: "Type", Sortable: true, Filter: &ColumnFilter{Event: EventType, Value: state.Type, Options: facets.Types}},
		{Key: domain.ColumnFixable, Title: "Fixable", Sortable: true, Filter: &ColumnFilter{Event: EventFixable, Value: state.Fixable, Options: facets.Fixable}},
		{Key: domain.ColumnCategory, Title: "Category", Sortable: true, Filter: &ColumnFilter{Event: EventCategory, Value: state.Category, Options: facets.Categories}},
		{Key: domain.ColumnPackage, Title: "Package", Sortable: true},
		{Key: domain.ColumnDescription, Title: "Description"},
	}
	for i := range cols {
		if cols[i].Key == state.Sort {
			cols[i].Sorted = true
			cols[i].Dir = state.Dir
		}
		if f := cols[i].Filter; f != nil {
			f.Active = f.Value != ""
		}
	}
	return cols
}

func buildPagination(result *domain.QueryResult) Pagination {
	count := result.PageCount()
	p := Pagination{
		Text:      PaginationText(result),
		Page:      result.Page,
		PageCount: count,
		Links:     pageLinks(result.Page, count),
		PageSize:  result.PageSize,
		PageSizes: domain.PageSizeOptions,
	}
	if result.Page > 1 && count > 0 {
		p.Prev = min(result.Page-1, count)
	}
	if result.Page < count {
		p.Next = result.Page + 1
	}
	return p
}

// pageLinks lists the first and last pages plus a window around current
func pageLinks(current, count int) []PageLink {
	const window = 1
	var links []PageLink
	last := 0
	for n := 1; n <= count; n++ {
		if n != 1 && n != count && (n < current-window || n > current+window) {
			continue
		}
		if last != 0 && n-last > 1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: n, Current: n == current})
		last = n
	}
	return links
}

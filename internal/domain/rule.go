package domain

import (
	"strconv"
	"time"
)

// Rule types reported by rule metadata
const (
	RuleTypeProblem    = "problem"
	RuleTypeSuggestion = "suggestion"
	RuleTypeLayout     = "layout"
)

// Fixable kinds reported by rule metadata
const (
	FixableCode       = "code"
	FixableWhitespace = "whitespace"
	// FixableNone is a filter value only; it selects rules without a fixable kind
	FixableNone = "none"
)

// RuleRecord is one entry of the rules catalog
// @Description Lint rule metadata record
type RuleRecord struct {
	ID             string  `json:"id" yaml:"id" validate:"required" example:"depend/ban-dependencies"`
	Package        string  `json:"package" yaml:"package" validate:"required" example:"eslint-plugin-depend"`
	URL            string  `json:"url" yaml:"url" example:"https://github.com/es-tooling/eslint-plugin-depend"`
	Description    *string `json:"description" yaml:"description" example:"Bans a list of dependencies from being used"`
	Deprecated     bool    `json:"deprecated" yaml:"deprecated" example:"false"`
	Type           *string `json:"type" yaml:"type" example:"problem" enums:"problem,suggestion,layout"`
	Fixable        *string `json:"fixable" yaml:"fixable" example:"code" enums:"code,whitespace"`
	HasSuggestions bool    `json:"hasSuggestions" yaml:"hasSuggestions" example:"false"`
	Category       *string `json:"category" yaml:"category" example:"Best Practices"`
}

// Columns that the query pipeline can sort by
const (
	ColumnID             = "id"
	ColumnPackage        = "package"
	ColumnURL            = "url"
	ColumnDescription    = "description"
	ColumnDeprecated     = "deprecated"
	ColumnType           = "type"
	ColumnFixable        = "fixable"
	ColumnHasSuggestions = "hasSuggestions"
	ColumnCategory       = "category"
)

// SortableColumns lists every column accepted as a sort key
var SortableColumns = []string{
	ColumnID,
	ColumnPackage,
	ColumnType,
	ColumnFixable,
	ColumnCategory,
	ColumnDescription,
	ColumnURL,
	ColumnDeprecated,
	ColumnHasSuggestions,
}

// Field returns the string form of a column value, "" for null.
// The second result is false for unknown columns.
func (r *RuleRecord) Field(column string) (string, bool) {
	switch column {
	case ColumnID:
		return r.ID, true
	case ColumnPackage:
		return r.Package, true
	case ColumnURL:
		return r.URL, true
	case ColumnDescription:
		return deref(r.Description), true
	case ColumnDeprecated:
		return strconv.FormatBool(r.Deprecated), true
	case ColumnType:
		return deref(r.Type), true
	case ColumnFixable:
		return deref(r.Fixable), true
	case ColumnHasSuggestions:
		return strconv.FormatBool(r.HasSuggestions), true
	case ColumnCategory:
		return deref(r.Category), true
	}
	return "", false
}

// DescriptionText returns the description or "" when absent
func (r *RuleRecord) DescriptionText() string { return deref(r.Description) }

// TypeName returns the rule type or "" when absent
func (r *RuleRecord) TypeName() string { return deref(r.Type) }

// FixableKind returns the fixable kind or "" when the rule is not auto-fixable
func (r *RuleRecord) FixableKind() string { return deref(r.Fixable) }

// CategoryName returns the category or "" when absent
func (r *RuleRecord) CategoryName() string { return deref(r.Category) }

// StringPtr returns nil for the empty string, otherwise a pointer to s
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Catalog is the full rule listing produced by one extraction run.
// PluginCount is nil when the catalog was read from the legacy bare-array format.
type Catalog struct {
	Rules       []RuleRecord `json:"rules" yaml:"rules"`
	PluginCount *int         `json:"pluginCount,omitempty" yaml:"pluginCount,omitempty"`
}

// Packages returns the distinct package names in first-seen order
func (c *Catalog) Packages() []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for i := range c.Rules {
		name := c.Rules[i].Package
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Page size defaults
const (
	DefaultPageSize = 25
	DefaultPage     = 1
)

// PageSizeOptions are the page sizes offered by the table
var PageSizeOptions = []int{10, 25, 50, 100}

// QueryParams is the input tuple of the query pipeline
// @Description Search, filter, sort and pagination inputs
type QueryParams struct {
	Search         string `json:"q" query:"q" validate:"max=256" example:"depend"`
	TypeFilter     string `json:"type" query:"type" validate:"omitempty,oneof=problem suggestion layout" example:"problem"`
	FixableFilter  string `json:"fixable" query:"fixable" validate:"omitempty,oneof=code whitespace none" example:"none"`
	CategoryFilter string `json:"category" query:"category" validate:"max=256" example:""`
	SortColumn     string `json:"sort" query:"sort" validate:"omitempty,sort_column" example:"id"`
	SortDirection  string `json:"dir" query:"dir" validate:"omitempty,oneof=asc desc" example:"asc"`
	Page           int    `json:"page" query:"page" validate:"min=1" example:"1"`
	PageSize       int    `json:"pageSize" query:"pageSize" validate:"min=1,max=1000" example:"25"`
}

// DefaultQueryParams returns the inputs of a freshly opened table
func DefaultQueryParams() QueryParams {
	return QueryParams{
		SortColumn:    ColumnID,
		SortDirection: SortAsc,
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
	}
}

// QueryResult is the visible page of records plus the size of the full match set
// @Description Visible page of rules
type QueryResult struct {
	Records  []RuleRecord `json:"records"`
	Total    int          `json:"total" example:"60"`
	Page     int          `json:"page" example:"1"`
	PageSize int          `json:"pageSize" example:"25"`
}

// From returns the 1-based index of the first visible record, 0 when the page is empty
func (r *QueryResult) From() int {
	if len(r.Records) == 0 {
		return 0
	}
	return (r.Page-1)*r.PageSize + 1
}

// To returns the 1-based index of the last visible record, 0 when the page is empty
func (r *QueryResult) To() int {
	if len(r.Records) == 0 {
		return 0
	}
	return r.From() + len(r.Records) - 1
}

// PageCount returns the number of pages needed for Total records
func (r *QueryResult) PageCount() int {
	if r.PageSize <= 0 || r.Total == 0 {
		return 0
	}
	return (r.Total + r.PageSize - 1) / r.PageSize
}

// FilterOption is a value/label pair offered by a column filter
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Facets holds the options of every column filter
type Facets struct {
	Types      []FilterOption `json:"types"`
	Fixable    []FilterOption `json:"fixable"`
	Categories []FilterOption `json:"categories"`
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status    string         `json:"status"` // "healthy", "unhealthy", "degraded"
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Health status constants
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusDegraded  = "degraded"
)

// SystemHealth represents overall system health
type SystemHealth struct {
	Status     string                  `json:"status"`
	Timestamp  time.Time               `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
	Metrics    map[string]any          `json:"metrics,omitempty"`
	Uptime     time.Duration           `json:"uptime"`
}

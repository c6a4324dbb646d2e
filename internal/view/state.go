// Package view holds the table state machine, the render model and the
// embedded templates and client script of the rules page.
package view

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lintindex/rules-index/internal/domain"
)

// EventKind names the input that changed
type EventKind string

// Table events
const (
	EventSearch   EventKind = "search"
	EventType     EventKind = "type"
	EventFixable  EventKind = "fixable"
	EventCategory EventKind = "category"
	EventSort     EventKind = "sort"
	EventPage     EventKind = "page"
	EventPageSize EventKind = "pageSize"
)

// Sentinel errors
var (
	ErrUnknownEvent = errors.New("unknown table event")
	ErrInvalidEvent = errors.New("invalid table event value")
)

// State is the full input tuple of the table
type State struct {
	Search   string `json:"q"`
	Type     string `json:"type"`
	Fixable  string `json:"fixable"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
	Dir      string `json:"dir"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Event is one user input. An empty Value clears a filter.
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value"`
}

// NewState returns the state of a freshly opened table
func NewState(pageSize int) State {
	if !slices.Contains(domain.PageSizeOptions, pageSize) {
		pageSize = domain.DefaultPageSize
	}
	return State{
		Sort:     domain.ColumnID,
		Dir:      domain.SortAsc,
		Page:     domain.DefaultPage,
		PageSize: pageSize,
	}
}

// Normalize fills missing or out-of-range fields from defaults
func (s State) Normalize(defaultPageSize int) State {
	defaults := NewState(defaultPageSize)
	if !slices.Contains(domain.SortableColumns, s.Sort) {
		s.Sort = defaults.Sort
	}
	if s.Dir != domain.SortAsc && s.Dir != domain.SortDesc {
		s.Dir = defaults.Dir
	}
	if s.Page < 1 {
		s.Page = defaults.Page
	}
	if !slices.Contains(domain.PageSizeOptions, s.PageSize) {
		s.PageSize = defaults.PageSize
	}
	return s
}

// Apply returns the state after e. Every change except a page change
// sends the table back to page 1.
func (s State) Apply(e Event) (State, error) {
	switch e.Kind {
	case EventSearch:
		s.Search = e.Value
	case EventType:
		if e.Value != "" && !slices.Contains([]string{domain.RuleTypeProblem, domain.RuleTypeSuggestion, domain.RuleTypeLayout}, e.Value) {
			return s, fmt.Errorf("%w: type %q", ErrInvalidEvent, e.Value)
		}
		s.Type = e.Value
	case EventFixable:
		if e.Value != "" && !slices.Contains([]string{domain.FixableCode, domain.FixableWhitespace, domain.FixableNone}, e.Value) {
			return s, fmt.Errorf("%w: fixable %q", ErrInvalidEvent, e.Value)
		}
		s.Fixable = e.Value
	case EventCategory:
		s.Category = strings.TrimSpace(e.Value)
	case EventSort:
		if !slices.Contains(domain.SortableColumns, e.Value) {
			return s, fmt.Errorf("%w: sort column %q", ErrInvalidEvent, e.Value)
		}
		if s.Sort == e.Value {
			s.Dir = toggle(s.Dir)
		} else {
			s.Sort = e.Value
			s.Dir = domain.SortAsc
		}
	case EventPage:
		page, err := strconv.Atoi(e.Value)
		if err != nil || page < 1 {
			return s, fmt.Errorf("%w: page %q", ErrInvalidEvent, e.Value)
		}
		s.Page = page
		return s, nil
	case EventPageSize:
		size, err := strconv.Atoi(e.Value)
		if err != nil || !slices.Contains(domain.PageSizeOptions, size) {
			return s, fmt.Errorf("%w: page size %q", ErrInvalidEvent, e.Value)
		}
		s.PageSize = size
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}

	s.Page = domain.DefaultPage
	return s, nil
}

// Params converts the state to pipeline inputs
func (s State) Params() domain.QueryParams {
	return domain.QueryParams{
		Search:         s.Search,
		TypeFilter:     s.Type,
		FixableFilter:  s.Fixable,
		CategoryFilter: s.Category,
		SortColumn:     s.Sort,
		SortDirection:  s.Dir,
		Page:           s.Page,
		PageSize:       s.PageSize,
	}
}

// HasActiveSearch reports whether the search text is non-blank
func (s State) HasActiveSearch() bool {
	return strings.TrimSpace(s.Search) != ""
}

func toggle(dir string) string {
	if dir == domain.SortAsc {
		return domain.SortDesc
	}
	return domain.SortAsc
}

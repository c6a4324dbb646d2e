package query

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/domain"
)

// Type and fixable filter options in display order
var (
	typeOptions = []domain.FilterOption{
		{Value: "", Label: "Any type"},
		{Value: domain.RuleTypeProblem, Label: domain.RuleTypeProblem},
		{Value: domain.RuleTypeSuggestion, Label: domain.RuleTypeSuggestion},
		{Value: domain.RuleTypeLayout, Label: domain.RuleTypeLayout},
	}
	fixableOptions = []domain.FilterOption{
		{Value: "", Label: "Any"},
		{Value: domain.FixableCode, Label: domain.FixableCode},
		{Value: domain.FixableWhitespace, Label: domain.FixableWhitespace},
		{Value: domain.FixableNone, Label: "not fixable"},
	}
)

// Engine runs queries against the catalog held by a repository
type Engine struct {
	repository domain.CatalogRepository

	queries       atomic.Int64
	failures      atomic.Int64
	lastQueryNano atomic.Int64
}

// NewEngine creates an Engine reading from repository
func NewEngine(repository domain.CatalogRepository) *Engine {
	return &Engine{repository: repository}
}

// Query runs the pipeline over the current catalog snapshot
func (e *Engine) Query(ctx context.Context, params domain.QueryParams) (*domain.QueryResult, error) {
	select {
	case <-ctx.Done():
		return nil, domain.NewAppErrorWithCause(
			domain.ErrTimeout,
			"Query cancelled",
			408,
			ctx.Err(),
			nil,
		)
	default:
	}

	start := time.Now()
	e.queries.Add(1)

	catalog, err := e.repository.Catalog(ctx)
	if err != nil {
		e.failures.Add(1)
		return nil, err
	}

	result, err := Run(catalog.Rules, params)
	if err != nil {
		e.failures.Add(1)
		if errors.Is(err, ErrUnknownColumn) {
			return nil, domain.NewAppErrorWithCause(
				domain.ErrValidationFailed,
				"Unknown sort column",
				422,
				err,
				map[string]any{"fields": map[string]string{"sort": err.Error()}},
			)
		}
		return nil, err
	}

	elapsed := time.Since(start)
	e.lastQueryNano.Store(int64(elapsed))
	log.Debug().
		Str("q", params.Search).
		Int("total", result.Total).
		Int("page", result.Page).
		Dur("elapsed", elapsed).
		Msg("Query executed")

	return result, nil
}

// Facets returns the filter options; categories are the distinct trimmed
// non-empty category values in collation order
func (e *Engine) Facets(ctx context.Context) (domain.Facets, error) {
	catalog, err := e.repository.Catalog(ctx)
	if err != nil {
		return domain.Facets{}, err
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range catalog.Rules {
		category := strings.TrimSpace(catalog.Rules[i].CategoryName())
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		values = append(values, category)
	}

	categories := make([]domain.FilterOption, 0, len(values)+1)
	categories = append(categories, domain.FilterOption{Value: "", Label: "Any category"})
	for _, value := range SortStrings(values) {
		categories = append(categories, domain.FilterOption{Value: value, Label: value})
	}

	return domain.Facets{
		Types:      append([]domain.FilterOption(nil), typeOptions...),
		Fixable:    append([]domain.FilterOption(nil), fixableOptions...),
		Categories: categories,
	}, nil
}

// HealthCheck reports the engine healthy when its repository is
func (e *Engine) HealthCheck(ctx context.Context) domain.HealthStatus {
	repoHealth := e.repository.HealthCheck(ctx)

	status := domain.HealthStatusHealthy
	message := "Query engine is operating normally"
	if repoHealth.Status != domain.HealthStatusHealthy {
		status = domain.HealthStatusDegraded
		message = "Catalog issues detected"
	}

	return domain.HealthStatus{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"queries_total":   e.queries.Load(),
			"queries_failed":  e.failures.Load(),
			"catalog_status":  repoHealth.Status,
			"catalog_message": repoHealth.Message,
		},
		Timestamp: time.Now(),
	}
}

// GetStats returns query counters
func (e *Engine) GetStats(ctx context.Context) map[string]any {
	return map[string]any{
		"queries_total":      e.queries.Load(),
		"queries_failed":     e.failures.Load(),
		"last_query_time_ms": float64(e.lastQueryNano.Load()) / float64(time.Millisecond),
	}
}

package domain

import "context"

// CatalogRepository exposes the loaded, read-only rules catalog
type CatalogRepository interface {
	// Catalog returns the current snapshot; callers must not modify its rules
	Catalog(ctx context.Context) (Catalog, error)
	GetRuleByID(ctx context.Context, id string) (*RuleRecord, error)

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
	GetStats(ctx context.Context) map[string]any
}

// RuleQuerier runs the search, filter, sort and paginate pipeline
type RuleQuerier interface {
	Query(ctx context.Context, params QueryParams) (*QueryResult, error)
	Facets(ctx context.Context) (Facets, error)

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
	GetStats(ctx context.Context) map[string]any
}

// HealthChecker defines the interface for system health monitoring
type HealthChecker interface {
	CheckHealth(ctx context.Context) SystemHealth
	CheckComponent(ctx context.Context, component string) HealthStatus
}

// Validator defines the interface for input validation
type Validator interface {
	ValidateRecord(record *RuleRecord) error
	ValidateQuery(params *QueryParams) error
}

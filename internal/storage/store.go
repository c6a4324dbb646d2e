// Package storage holds the loaded rules catalog as an immutable snapshot.
package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/conflict"
	"github.com/lintindex/rules-index/internal/domain"
	"github.com/lintindex/rules-index/internal/loader"
)

// Store implements the CatalogRepository interface. Each load replaces the
// snapshot as a whole; readers never observe a partially loaded catalog.
type Store struct {
	mu       sync.RWMutex
	catalog  domain.Catalog
	index    map[string]int
	loaded   bool
	loadedAt time.Time

	conflicts  []domain.ConflictInfo
	loadErrors []domain.LoadError

	catalogLoader loader.CatalogLoader
	resolver      *conflict.Resolver
}

// NewStore creates a Store backed by catalogLoader
func NewStore(catalogLoader loader.CatalogLoader) *Store {
	return &Store{
		index:         make(map[string]int),
		catalogLoader: catalogLoader,
		resolver:      conflict.NewResolver(),
	}
}

// NewFileStore creates a Store reading the catalog file at path
func NewFileStore(path string, validator domain.Validator) *Store {
	return NewStore(loader.NewFileCatalogLoader(path, validator))
}

// NewMemoryStore creates a Store already holding catalog. Load is a no-op.
func NewMemoryStore(catalog domain.Catalog) *Store {
	s := NewStore(nil)
	s.replace(catalog, nil)
	return s
}

// Load reads the catalog from the backing loader. On failure the previous
// snapshot, if any, stays in place.
func (s *Store) Load(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return domain.NewAppErrorWithCause(
			domain.ErrTimeout,
			"Load cancelled",
			408,
			ctx.Err(),
			map[string]any{"operation": "load"},
		)
	default:
	}

	if s.catalogLoader == nil {
		return nil
	}

	catalog, loadErrors, err := s.catalogLoader.Load(ctx)
	if err != nil {
		if appErr, ok := domain.AsAppError(err); ok {
			return appErr
		}
		return domain.NewAppErrorWithCause(
			domain.ErrInternal,
			"Failed to load catalog",
			500,
			err,
			map[string]any{"source": s.catalogLoader.Source()},
		)
	}

	s.replace(catalog, loadErrors)

	log.Info().
		Str("source", s.catalogLoader.Source()).
		Int("rules", len(catalog.Rules)).
		Int("dropped", len(loadErrors)).
		Msg("Catalog loaded")

	return nil
}

// Reload reloads the catalog from storage
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) replace(catalog domain.Catalog, loadErrors []domain.LoadError) {
	rules, conflicts := s.resolver.ResolveConflictsWithInfo(catalog.Rules)
	for _, c := range conflicts {
		log.Warn().
			Str("rule_id", c.RuleID).
			Strs("packages", c.Packages).
			Str("active_package", c.ActivePackage).
			Msg("Duplicate rule id in catalog")
	}

	index := make(map[string]int, len(rules))
	for i := range rules {
		index[rules[i].ID] = i
	}

	snapshot := domain.Catalog{Rules: slices.Clip(rules), PluginCount: catalog.PluginCount}
	if snapshot.Rules == nil {
		snapshot.Rules = []domain.RuleRecord{}
	}

	s.mu.Lock()
	s.catalog = snapshot
	s.index = index
	s.conflicts = conflicts
	s.loadErrors = loadErrors
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// Catalog returns the current snapshot. The rules slice is shared and must
// not be modified.
func (s *Store) Catalog(ctx context.Context) (domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return domain.Catalog{}, notLoaded()
	}
	return s.catalog, nil
}

// GetRuleByID retrieves a record by its id
func (s *Store) GetRuleByID(ctx context.Context, id string) (*domain.RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, notLoaded()
	}

	i, exists := s.index[id]
	if !exists {
		return nil, domain.NewAppError(
			domain.ErrNotFound,
			"Rule not found",
			404,
			map[string]any{"id": id},
		)
	}

	record := s.catalog.Rules[i]
	return &record, nil
}

// Conflicts returns the duplicate ids dropped by the last load
func (s *Store) Conflicts() []domain.ConflictInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conflicts)
}

// GetLoadErrors returns the records dropped by the last load
func (s *Store) GetLoadErrors() []domain.LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.loadErrors)
}

// HealthCheck performs a health check on the catalog snapshot
func (s *Store) HealthCheck(ctx context.Context) domain.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	if !s.loaded {
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Catalog has not been loaded",
			Details:   map[string]any{"source": s.source()},
			Timestamp: now,
		}
	}

	status := domain.HealthStatusHealthy
	message := "Catalog is loaded"
	details := map[string]any{
		"rule_count": len(s.catalog.Rules),
		"source":     s.source(),
		"loaded_at":  s.loadedAt,
	}

	if len(s.catalog.Rules) == 0 {
		message = "Catalog is empty"
		details["empty"] = true
	} else if len(s.loadErrors) > 0 || len(s.conflicts) > 0 {
		status = domain.HealthStatusDegraded
		message = "Catalog loaded with dropped records"
		details["dropped_records"] = len(s.loadErrors)
		details["duplicate_ids"] = len(s.conflicts)
	}

	return domain.HealthStatus{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: now,
	}
}

// GetStats returns catalog statistics
func (s *Store) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typeCount := make(map[string]int)
	packageCount := make(map[string]int)
	fixable, deprecated := 0, 0
	for i := range s.catalog.Rules {
		record := &s.catalog.Rules[i]
		typeName := record.TypeName()
		if typeName == "" {
			typeName = "unknown"
		}
		typeCount[typeName]++
		packageCount[record.Package]++
		if record.FixableKind() != "" {
			fixable++
		}
		if record.Deprecated {
			deprecated++
		}
	}

	stats := map[string]any{
		"rule_count":       len(s.catalog.Rules),
		"package_count":    len(packageCount),
		"rule_types":       typeCount,
		"rule_packages":    packageCount,
		"fixable_rules":    fixable,
		"deprecated_rules": deprecated,
		"load_errors":      len(s.loadErrors),
		"duplicate_ids":    len(s.conflicts),
		"source":           s.source(),
	}
	if s.catalog.PluginCount != nil {
		stats["plugin_count"] = *s.catalog.PluginCount
	}

	return stats
}

func (s *Store) source() string {
	if s.catalogLoader == nil {
		return "memory"
	}
	return s.catalogLoader.Source()
}

func notLoaded() *domain.AppError {
	return domain.NewAppError(
		domain.ErrCatalogNotLoaded,
		"Catalog has not been loaded",
		503,
		nil,
	)
}

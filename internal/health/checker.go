package health

import (
	"context"
	"sync"
	"time"

	"github.com/lintindex/rules-index/internal/domain"
)

// Component names reported by the checker
const (
	ComponentCatalog = "catalog"
	ComponentQuery   = "query"
)

// SystemHealthChecker aggregates catalog and query engine health
type SystemHealthChecker struct {
	repository domain.CatalogRepository
	querier    domain.RuleQuerier

	timeout   time.Duration
	startTime time.Time

	// Cached so that probes do not recompute catalog stats on every request
	lastCheck   time.Time
	lastHealth  domain.SystemHealth
	cacheTTL    time.Duration
	healthMutex sync.Mutex
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(repository domain.CatalogRepository, querier domain.RuleQuerier) *SystemHealthChecker {
	return &SystemHealthChecker{
		repository: repository,
		querier:    querier,
		timeout:    5 * time.Second,
		cacheTTL:   10 * time.Second,
		startTime:  time.Now(),
	}
}

// SetCacheTTL changes how long a health result is reused
func (h *SystemHealthChecker) SetCacheTTL(ttl time.Duration) {
	h.healthMutex.Lock()
	defer h.healthMutex.Unlock()
	h.cacheTTL = ttl
	h.lastCheck = time.Time{}
}

// CheckHealth performs a system health check
func (h *SystemHealthChecker) CheckHealth(ctx context.Context) domain.SystemHealth {
	h.healthMutex.Lock()
	defer h.healthMutex.Unlock()

	if !h.lastCheck.IsZero() && time.Since(h.lastCheck) < h.cacheTTL {
		return h.lastHealth
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	now := time.Now()
	components := map[string]domain.HealthStatus{
		ComponentCatalog: h.repository.HealthCheck(checkCtx),
		ComponentQuery:   h.querier.HealthCheck(checkCtx),
	}

	overallStatus := domain.HealthStatusHealthy
	for _, status := range components {
		overallStatus = aggregateStatus(overallStatus, status.Status)
	}

	systemHealth := domain.SystemHealth{
		Status:     overallStatus,
		Timestamp:  now,
		Components: components,
		Metrics:    h.collectSystemMetrics(checkCtx),
		Uptime:     time.Since(h.startTime),
	}

	h.lastCheck = now
	h.lastHealth = systemHealth

	return systemHealth
}

// CheckComponent performs a health check on a specific component
func (h *SystemHealthChecker) CheckComponent(ctx context.Context, component string) domain.HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	switch component {
	case ComponentCatalog:
		return h.repository.HealthCheck(checkCtx)
	case ComponentQuery:
		return h.querier.HealthCheck(checkCtx)
	default:
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Unknown component",
			Timestamp: time.Now(),
			Details: map[string]any{
				"component": component,
				"error":     "Component not found",
			},
		}
	}
}

// aggregateStatus keeps the worse of two statuses: unhealthy > degraded > healthy
func aggregateStatus(current, componentStatus string) string {
	statusPriority := map[string]int{
		domain.HealthStatusHealthy:   0,
		domain.HealthStatusDegraded:  1,
		domain.HealthStatusUnhealthy: 2,
	}

	if statusPriority[componentStatus] > statusPriority[current] {
		return componentStatus
	}
	return current
}

func (h *SystemHealthChecker) collectSystemMetrics(ctx context.Context) map[string]any {
	metrics := make(map[string]any)

	if stats := h.repository.GetStats(ctx); stats != nil {
		metrics[ComponentCatalog] = stats
	}
	if stats := h.querier.GetStats(ctx); stats != nil {
		metrics[ComponentQuery] = stats
	}

	metrics["system"] = map[string]any{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now(),
	}

	return metrics
}

// IsHealthy returns true if the system is healthy
func (h *SystemHealthChecker) IsHealthy(ctx context.Context) bool {
	return h.CheckHealth(ctx).Status == domain.HealthStatusHealthy
}

package api

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/domain"
)

// Handlers contains the JSON API handlers
type Handlers struct {
	querier         domain.RuleQuerier
	repository      domain.CatalogRepository
	validator       domain.Validator
	healthChecker   domain.HealthChecker
	defaultPageSize int
	startTime       time.Time
}

// NewHandlers creates a new instance of API handlers
func NewHandlers(querier domain.RuleQuerier, repository domain.CatalogRepository, validator domain.Validator, healthChecker domain.HealthChecker, defaultPageSize int) *Handlers {
	if defaultPageSize <= 0 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &Handlers{
		querier:         querier,
		repository:      repository,
		validator:       validator,
		healthChecker:   healthChecker,
		defaultPageSize: defaultPageSize,
		startTime:       time.Now(),
	}
}

// ErrorResponse represents the standard error response format
// @Description Standard error response format
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Invalid input provided"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse represents the standard success response format
// @Description Standard success response format
type SuccessResponse struct {
	Status string `json:"status" example:"success"`
	Data   any    `json:"data"`
}

// HealthResponse represents the health check response
// @Description Health check response
type HealthResponse struct {
	Status     string                         `json:"status" example:"healthy"`
	Timestamp  string                         `json:"timestamp" example:"2025-01-01T12:00:00Z"`
	Components map[string]domain.HealthStatus `json:"components"`
	Uptime     float64                        `json:"uptime_seconds" example:"3600"`
}

// MetricsResponse represents the metrics response
// @Description System metrics response
type MetricsResponse struct {
	Catalog map[string]any `json:"catalog"`
	Query   map[string]any `json:"query"`
	Uptime  struct {
		Seconds   float64 `json:"seconds" example:"3600"`
		Timestamp string  `json:"timestamp" example:"2025-01-01T12:00:00Z"`
	} `json:"uptime"`
}

// ListRulesHandler handles GET /v1/rules requests
// @Summary      Query rules
// @Description  Searches, filters, sorts and paginates the rules catalog
// @Tags         Rules
// @Produce      json
// @Param        q         query string false "Case-insensitive search over id, package, description and category"
// @Param        type      query string false "Rule type" Enums(problem, suggestion, layout)
// @Param        fixable   query string false "Fixable kind; none selects rules that are not fixable" Enums(code, whitespace, none)
// @Param        category  query string false "Exact category"
// @Param        sort      query string false "Sort column" default(id)
// @Param        dir       query string false "Sort direction" Enums(asc, desc) default(asc)
// @Param        page      query int    false "1-based page" default(1)
// @Param        pageSize  query int    false "Records per page" default(25)
// @Success      200 {object} SuccessResponse{data=domain.QueryResult} "Visible page of rules"
// @Failure      400 {object} ErrorResponse "Malformed query string"
// @Failure      422 {object} ErrorResponse "Validation failed"
// @Failure      503 {object} ErrorResponse "Catalog not loaded"
// @Router       /v1/rules [get]
func (h *Handlers) ListRulesHandler(c *fiber.Ctx) error {
	params := domain.DefaultQueryParams()
	params.PageSize = h.defaultPageSize

	if err := c.QueryParser(&params); err != nil {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid query string",
			400,
			map[string]string{"error": err.Error()},
		).WithOperation(requestID(c), "rules_query_parsing"))
	}

	if err := h.validator.ValidateQuery(&params); err != nil {
		return h.sendAppError(c, err, "rules_query_validation")
	}

	result, err := h.querier.Query(c.Context(), params)
	if err != nil {
		return h.sendAppError(c, err, "rules_query")
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   result,
	})
}

// GetRuleHandler handles GET /v1/rules/{id} requests
// @Summary      Get a rule
// @Description  Returns one rule record; plugin rule ids contain a slash
// @Tags         Rules
// @Produce      json
// @Param        id path string true "Rule id, e.g. depend/ban-dependencies"
// @Success      200 {object} SuccessResponse{data=domain.RuleRecord} "Rule record"
// @Failure      404 {object} ErrorResponse "Rule not found"
// @Router       /v1/rules/{id} [get]
func (h *Handlers) GetRuleHandler(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("+"))
	if err != nil || id == "" {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid rule id",
			400,
			map[string]string{"id": c.Params("+")},
		).WithOperation(requestID(c), "rule_lookup"))
	}

	record, err := h.repository.GetRuleByID(c.Context(), id)
	if err != nil {
		return h.sendAppError(c, err, "rule_lookup")
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   record,
	})
}

// CatalogHandler handles GET /v1/catalog requests
// @Summary      Full catalog
// @Description  Returns the catalog payload exactly as the extractor writes it
// @Tags         Rules
// @Produce      json
// @Success      200 {object} domain.Catalog "Catalog"
// @Failure      503 {object} ErrorResponse "Catalog not loaded"
// @Router       /v1/catalog [get]
func (h *Handlers) CatalogHandler(c *fiber.Ctx) error {
	catalog, err := h.repository.Catalog(c.Context())
	if err != nil {
		return h.sendAppError(c, err, "catalog_read")
	}
	if catalog.Rules == nil {
		catalog.Rules = []domain.RuleRecord{}
	}
	return c.Status(200).JSON(catalog)
}

// FacetsHandler handles GET /v1/facets requests
// @Summary      Filter options
// @Description  Returns the type, fixable and category filter options
// @Tags         Rules
// @Produce      json
// @Success      200 {object} SuccessResponse{data=domain.Facets} "Filter options"
// @Failure      503 {object} ErrorResponse "Catalog not loaded"
// @Router       /v1/facets [get]
func (h *Handlers) FacetsHandler(c *fiber.Ctx) error {
	facets, err := h.querier.Facets(c.Context())
	if err != nil {
		return h.sendAppError(c, err, "facets")
	}
	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   facets,
	})
}

// HealthHandler handles GET /health requests
// @Summary      Health check
// @Description  Returns catalog and query engine health; 503 unless healthy
// @Tags         System
// @Produce      json
// @Success      200 {object} HealthResponse "System is healthy"
// @Failure      503 {object} HealthResponse "System is degraded or unhealthy"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *fiber.Ctx) error {
	health := h.healthChecker.CheckHealth(c.Context())

	status := 200
	if health.Status != domain.HealthStatusHealthy {
		status = 503
	}

	return c.Status(status).JSON(HealthResponse{
		Status:     health.Status,
		Timestamp:  health.Timestamp.Format(time.RFC3339),
		Components: health.Components,
		Uptime:     health.Uptime.Seconds(),
	})
}

// MetricsHandler handles GET /metrics requests
// @Summary      System metrics
// @Description  Returns catalog statistics and query counters
// @Tags         System
// @Produce      json
// @Success      200 {object} SuccessResponse{data=MetricsResponse} "Successfully retrieved metrics"
// @Router       /metrics [get]
func (h *Handlers) MetricsHandler(c *fiber.Ctx) error {
	ctx := c.Context()

	var metrics MetricsResponse
	metrics.Catalog = h.repository.GetStats(ctx)
	metrics.Query = h.querier.GetStats(ctx)
	metrics.Uptime.Seconds = time.Since(h.startTime).Seconds()
	metrics.Uptime.Timestamp = time.Now().UTC().Format(time.RFC3339)

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   metrics,
	})
}

// sendAppError sends err as an AppError, wrapping anything else as internal
func (h *Handlers) sendAppError(c *fiber.Ctx, err error, operation string) error {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("operation", operation).
			Msg("Unexpected error")
		appErr = domain.NewAppErrorWithCause(domain.ErrInternal, "Internal server error", 500, err, nil)
	}
	return h.sendError(c, appErr.WithOperation(requestID(c), operation))
}

// sendError sends a standardized error response
func (h *Handlers) sendError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok {
		return rid
	}
	return ""
}

package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lintindex/rules-index/internal/domain"
	"github.com/lintindex/rules-index/internal/view"
)

// PageHandlers serve the rules page, its table fragment and client assets
type PageHandlers struct {
	*Handlers
	assets *view.Assets
	title  string
}

// TableRequest is posted by the client script on every table input
type TableRequest struct {
	State view.State  `json:"state"`
	Event *view.Event `json:"event"`
}

// NewPageHandlers creates page handlers sharing the JSON handlers' dependencies
func NewPageHandlers(handlers *Handlers, assets *view.Assets, title string) *PageHandlers {
	return &PageHandlers{
		Handlers: handlers,
		assets:   assets,
		title:    title,
	}
}

// IndexHandler handles GET / requests. The q parameter seeds the search box.
func (h *PageHandlers) IndexHandler(c *fiber.Ctx) error {
	state := view.NewState(h.defaultPageSize)
	state.Search = c.Query("q")

	catalog, table, err := h.table(c, state)
	if err != nil {
		return h.sendAppError(c, err, "page_render")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render(view.TemplateIndex, view.BuildPage(h.title, catalog, table, h.assets.ScriptURL()))
}

// TableHandler handles POST /table requests: applies the event to the posted
// state and renders the table fragment
func (h *PageHandlers) TableHandler(c *fiber.Ctx) error {
	var req TableRequest
	if err := c.BodyParser(&req); err != nil {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			map[string]string{"error": err.Error()},
		).WithOperation(requestID(c), "table_parsing"))
	}

	state := req.State.Normalize(h.defaultPageSize)
	if req.Event != nil {
		next, err := state.Apply(*req.Event)
		if err != nil {
			code := domain.ErrValidationFailed
			if errors.Is(err, view.ErrUnknownEvent) {
				code = domain.ErrInvalidInput
			}
			return h.sendError(c, domain.NewAppErrorWithCause(
				code,
				"Invalid table event",
				422,
				err,
				map[string]string{"event": err.Error()},
			).WithOperation(requestID(c), "table_event"))
		}
		state = next
	}

	_, table, err := h.table(c, state)
	if err != nil {
		return h.sendAppError(c, err, "table_render")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render(view.TemplateTable, table)
}

// ScriptHandler serves the compiled client script
func (h *PageHandlers) ScriptHandler(c *fiber.Ctx) error {
	c.Type("js", "utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(h.assets.Script)
}

// StyleHandler serves the stylesheet
func (h *PageHandlers) StyleHandler(c *fiber.Ctx) error {
	c.Type("css", "utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(h.assets.Style)
}

func (h *PageHandlers) table(c *fiber.Ctx, state view.State) (domain.Catalog, view.Table, error) {
	ctx := c.Context()

	catalog, err := h.repository.Catalog(ctx)
	if err != nil {
		return domain.Catalog{}, view.Table{}, err
	}

	params := state.Params()
	if err := h.validator.ValidateQuery(&params); err != nil {
		return domain.Catalog{}, view.Table{}, err
	}

	result, err := h.querier.Query(ctx, params)
	if err != nil {
		return domain.Catalog{}, view.Table{}, err
	}

	facets, err := h.querier.Facets(ctx)
	if err != nil {
		return domain.Catalog{}, view.Table{}, err
	}

	return catalog, view.BuildTable(state, result, facets, len(catalog.Rules)), nil
}

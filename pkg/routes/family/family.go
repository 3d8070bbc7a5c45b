// Package family exposes family CRUD and lookup endpoints.
package family

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/internal/repositories/order"
	graphpkg "github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/resolver"
)

var validate = validator.New()

// Handler handles family API endpoints
type Handler struct {
	resolver *resolver.Resolver
	query    *graphpkg.QueryService
	orders   *order.Repository
	logger   ectologger.Logger
}

// NewHandler creates a new family handler
func NewHandler(res *resolver.Resolver, query *graphpkg.QueryService, orders *order.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		resolver: res,
		query:    query,
		orders:   orders,
		logger:   logger,
	}
}

// Register registers the family routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/skaters", h.FindSkaters)
	g.GET("/:id", h.Get)
	g.GET("/:id/orders", h.Orders)
}

// Create upserts a family directly, outside of roster import
// @Summary Create a family
// @Tags Families
// @Accept json
// @Produce json
// @Param body body models.CreateFamilyRequest true "Family"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/families [post]
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "family_handler.Create")
	defer span.End()

	var req models.CreateFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, created, err := h.resolver.ResolveFamily(ctx, req.LastName, req.Email, req.Phone, req.Notes)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, map[string]any{"id": id, "created": created})
}

// List returns families, optionally filtered by a name search
// @Summary List families
// @Tags Families
// @Produce json
// @Param search query string false "Name substring filter"
// @Success 200 {array} map[string]any
// @Router /api/v1/families [get]
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "family_handler.List")
	defer span.End()

	families, err := h.query.ListFamilies(ctx, c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, families)
}

// Get returns one family with its skaters
// @Summary Get a family
// @Tags Families
// @Produce json
// @Param id path string true "Family ID"
// @Success 200 {object} graphpkg.FamilyDetail
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/families/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "family_handler.Get")
	defer span.End()

	id := c.Param("id")
	detail, err := h.query.GetFamily(ctx, id)
	if err != nil {
		return err
	}
	if detail == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "family %q does not exist", id)
	}

	return c.JSON(http.StatusOK, detail)
}

// FindSkaters searches skaters by name
// @Summary Find skaters
// @Tags Families
// @Produce json
// @Param name query string true "Skater name"
// @Success 200 {array} map[string]any
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/families/skaters [get]
func (h *Handler) FindSkaters(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "family_handler.FindSkaters")
	defer span.End()

	name := c.QueryParam("name")
	if name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name parameter is required")
	}

	skaters, err := h.query.FindSkaters(ctx, name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, skaters)
}

// Orders returns the order ledger rows for a family
// @Summary List a family's orders
// @Tags Families
// @Produce json
// @Param id path string true "Family ID"
// @Success 200 {array} models.Order
// @Router /api/v1/families/{id}/orders [get]
func (h *Handler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "family_handler.Orders")
	defer span.End()

	if h.orders == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "order ledger unavailable")
	}

	orders, err := h.orders.ListByFamily(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

// Package shoot exposes private shoot delivery endpoints.
package shoot

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/internal/repositories/order"
	"github.com/8agana/photography-mind/pkg/edges"
	graphpkg "github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/resolver"
)

var validate = validator.New()

// Handler handles shoot API endpoints
type Handler struct {
	resolver *resolver.Resolver
	delivery *edges.DeliveryService
	query    *graphpkg.QueryService
	orders   *order.Repository
	logger   ectologger.Logger
}

// NewHandler creates a new shoot handler
func NewHandler(res *resolver.Resolver, delivery *edges.DeliveryService, query *graphpkg.QueryService, orders *order.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		resolver: res,
		delivery: delivery,
		query:    query,
		orders:   orders,
		logger:   logger,
	}
}

// Register registers the shoot routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/links", h.Link)
	g.PUT("/:id/status", h.UpdateStatus)
	g.POST("/:id/sent", h.MarkSent)
	g.POST("/:id/purchases", h.RecordPurchase)
	g.GET("/:id/pending", h.Pending)
	g.GET("/:id/status", h.Status)
	g.GET("/:id/revenue", h.Revenue)
}

// Create upserts a shoot
// @Summary Create a shoot
// @Tags Shoots
// @Accept json
// @Produce json
// @Param body body models.CreateShootRequest true "Shoot"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/shoots [post]
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Create")
	defer span.End()

	var req models.CreateShootRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, created, err := h.resolver.ResolveShoot(ctx, req.Name, req.Location, req.ShootDate)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, map[string]any{"id": id, "created": created})
}

// List returns all shoots
// @Summary List shoots
// @Tags Shoots
// @Produce json
// @Success 200 {array} map[string]any
// @Router /api/v1/shoots [get]
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.List")
	defer span.End()

	shoots, err := h.query.ListShoots(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shoots)
}

// Get returns one shoot with its linked family count
// @Summary Get a shoot
// @Tags Shoots
// @Produce json
// @Param id path string true "Shoot ID"
// @Success 200 {object} graphpkg.ShootDetail
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/shoots/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Get")
	defer span.End()

	id := c.Param("id")
	detail, err := h.query.GetShoot(ctx, id)
	if err != nil {
		return err
	}
	if detail == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "shoot %q does not exist", id)
	}

	return c.JSON(http.StatusOK, detail)
}

// Link attaches a family to a shoot with a fresh pending gallery
// @Summary Link a family to a shoot
// @Tags Shoots
// @Accept json
// @Param id path string true "Shoot ID"
// @Param body body models.LinkFamilyRequest true "Family link"
// @Success 201 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Failure 409 {object} httperror.HTTPError
// @Router /api/v1/shoots/{id}/links [post]
func (h *Handler) Link(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Link")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.LinkFamilyShoot(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "linked"})
}

// UpdateStatus sets the gallery status on a family's shoot edge
// @Summary Update gallery status
// @Tags Shoots
// @Accept json
// @Param id path string true "Shoot ID"
// @Param body body models.UpdateStatusRequest true "Status update"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperror.HTTPError
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/shoots/{id}/status [put]
func (h *Handler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.UpdateStatus")
	defer span.End()

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.SetGalleryStatus(ctx, models.EdgeFamilyShoot, req.FamilyID, c.Param("id"), req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// MarkSent marks a family's shoot gallery as sent
// @Summary Mark gallery sent
// @Tags Shoots
// @Accept json
// @Param id path string true "Shoot ID"
// @Param body body models.LinkFamilyRequest true "Family"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/shoots/{id}/sent [post]
func (h *Handler) MarkSent(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.MarkSent")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.MarkShootSent(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// RecordPurchase records a purchase against a family's shoot gallery
// @Summary Record a purchase
// @Tags Shoots
// @Accept json
// @Param id path string true "Shoot ID"
// @Param body body models.RecordPurchaseRequest true "Purchase"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperror.HTTPError
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/shoots/{id}/purchases [post]
func (h *Handler) RecordPurchase(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.RecordPurchase")
	defer span.End()

	var req models.RecordPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.RecordPurchase(ctx, req.FamilyID, c.Param("id"), req.Amount); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "recorded"})
}

// Pending returns families whose shoot gallery is still in flight
// @Summary List pending galleries for a shoot
// @Tags Shoots
// @Produce json
// @Param id path string true "Shoot ID"
// @Success 200 {array} graphpkg.PendingGallery
// @Router /api/v1/shoots/{id}/pending [get]
func (h *Handler) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Pending")
	defer span.End()

	pending, err := h.query.PendingGalleries(ctx, models.EdgeFamilyShoot, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pending)
}

// Status returns the delivery status breakdown for a shoot
// @Summary Delivery status breakdown for a shoot
// @Tags Shoots
// @Produce json
// @Param id path string true "Shoot ID"
// @Success 200 {object} graphpkg.StatusBreakdown
// @Router /api/v1/shoots/{id}/status [get]
func (h *Handler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Status")
	defer span.End()

	breakdown, err := h.query.DeliveryStatus(ctx, models.EdgeFamilyShoot, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, breakdown)
}

// Revenue returns total ledgered order revenue for a shoot
// @Summary Total revenue for a shoot
// @Tags Shoots
// @Produce json
// @Param id path string true "Shoot ID"
// @Success 200 {object} map[string]float64
// @Router /api/v1/shoots/{id}/revenue [get]
func (h *Handler) Revenue(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shoot_handler.Revenue")
	defer span.End()

	if h.orders == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "order ledger unavailable")
	}

	total, err := h.orders.TotalRevenue(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]float64{"revenue": total})
}

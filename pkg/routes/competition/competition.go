// Package competition exposes competition gallery and thank-you endpoints.
package competition

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/edges"
	graphpkg "github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/resolver"
)

var validate = validator.New()

// Handler handles competition API endpoints
type Handler struct {
	resolver *resolver.Resolver
	delivery *edges.DeliveryService
	query    *graphpkg.QueryService
	logger   ectologger.Logger
}

// NewHandler creates a new competition handler
func NewHandler(res *resolver.Resolver, delivery *edges.DeliveryService, query *graphpkg.QueryService, logger ectologger.Logger) *Handler {
	return &Handler{
		resolver: res,
		delivery: delivery,
		query:    query,
		logger:   logger,
	}
}

// Register registers the competition routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.POST("/:id/links", h.Link)
	g.PUT("/:id/status", h.UpdateStatus)
	g.POST("/:id/sent", h.MarkSent)
	g.POST("/:id/thankyou/request", h.RequestThankYou)
	g.POST("/:id/thankyou/sent", h.SendThankYou)
	g.GET("/:id/pending", h.Pending)
	g.GET("/:id/status", h.Status)
	g.PUT("/events/:eventId/skaters/:skaterId", h.UpdateSkaterEvent)
}

// CreateRequest is the request body for creating a competition
type CreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// SkaterEventRequest updates a skater's entry in an event
type SkaterEventRequest struct {
	SkateOrder    *int   `json:"skate_order,omitempty"`
	RequestStatus string `json:"request_status,omitempty"`
}

// Create upserts a competition. Names that differ only by case or separators
// land on the same node.
// @Summary Create a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param body body CreateRequest true "Competition"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/competitions [post]
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.Create")
	defer span.End()

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, created, err := h.resolver.ResolveCompetition(ctx, req.Name)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, map[string]any{"id": id, "created": created})
}

// Link attaches a family to a competition with a fresh pending gallery
// @Summary Link a family to a competition
// @Tags Competitions
// @Accept json
// @Param id path string true "Competition ID"
// @Param body body models.LinkFamilyRequest true "Family link"
// @Success 201 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Failure 409 {object} httperror.HTTPError
// @Router /api/v1/competitions/{id}/links [post]
func (h *Handler) Link(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.Link")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.LinkFamilyCompetition(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "linked"})
}

// UpdateStatus sets the gallery status on a family's competition edge
// @Summary Update gallery status
// @Tags Competitions
// @Accept json
// @Param id path string true "Competition ID"
// @Param body body models.UpdateStatusRequest true "Status update"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperror.HTTPError
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/competitions/{id}/status [put]
func (h *Handler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.UpdateStatus")
	defer span.End()

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.SetGalleryStatus(ctx, models.EdgeFamilyCompetition, req.FamilyID, c.Param("id"), req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// MarkSent marks a family's competition gallery as sent
// @Summary Mark gallery sent
// @Tags Competitions
// @Accept json
// @Param id path string true "Competition ID"
// @Param body body models.LinkFamilyRequest true "Family"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/competitions/{id}/sent [post]
func (h *Handler) MarkSent(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.MarkSent")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.MarkGallerySent(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// RequestThankYou flags that a family asked for a thank-you
// @Summary Flag a thank-you request
// @Tags Competitions
// @Accept json
// @Param id path string true "Competition ID"
// @Param body body models.LinkFamilyRequest true "Family"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/competitions/{id}/thankyou/request [post]
func (h *Handler) RequestThankYou(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.RequestThankYou")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.RequestThankYou(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "requested"})
}

// SendThankYou marks a thank-you as sent
// @Summary Mark a thank-you sent
// @Tags Competitions
// @Accept json
// @Param id path string true "Competition ID"
// @Param body body models.LinkFamilyRequest true "Family"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/competitions/{id}/thankyou/sent [post]
func (h *Handler) SendThankYou(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.SendThankYou")
	defer span.End()

	var req models.LinkFamilyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.delivery.SendThankYou(ctx, req.FamilyID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// Pending returns families whose competition gallery is still in flight
// @Summary List pending galleries for a competition
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} graphpkg.PendingGallery
// @Router /api/v1/competitions/{id}/pending [get]
func (h *Handler) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.Pending")
	defer span.End()

	pending, err := h.query.PendingGalleries(ctx, models.EdgeFamilyCompetition, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pending)
}

// Status returns the delivery status breakdown for a competition
// @Summary Delivery status breakdown for a competition
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} graphpkg.StatusBreakdown
// @Router /api/v1/competitions/{id}/status [get]
func (h *Handler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.Status")
	defer span.End()

	breakdown, err := h.query.DeliveryStatus(ctx, models.EdgeFamilyCompetition, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, breakdown)
}

// UpdateSkaterEvent sets skate order or request status on a skater's entry
// @Summary Update a skater's event entry
// @Tags Competitions
// @Accept json
// @Param eventId path string true "Event ID"
// @Param skaterId path string true "Skater ID"
// @Param body body SkaterEventRequest true "Entry update"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperror.HTTPError
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/competitions/events/{eventId}/skaters/{skaterId} [put]
func (h *Handler) UpdateSkaterEvent(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "competition_handler.UpdateSkaterEvent")
	defer span.End()

	var req SkaterEventRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SkateOrder == nil && req.RequestStatus == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "skate_order or request_status is required")
	}

	skaterID := c.Param("skaterId")
	eventID := c.Param("eventId")

	if req.SkateOrder != nil {
		if err := h.delivery.SetSkateOrder(ctx, skaterID, eventID, *req.SkateOrder); err != nil {
			return err
		}
	}
	if req.RequestStatus != "" {
		if err := h.delivery.SetRequestStatus(ctx, skaterID, eventID, req.RequestStatus); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

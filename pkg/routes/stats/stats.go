// Package stats exposes graph node counts for quick inspection.
package stats

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	graphpkg "github.com/8agana/photography-mind/pkg/graph"
)

// Handler handles stats API endpoints
type Handler struct {
	query  *graphpkg.QueryService
	logger ectologger.Logger
}

// NewHandler creates a new stats handler
func NewHandler(query *graphpkg.QueryService, logger ectologger.Logger) *Handler {
	return &Handler{
		query:  query,
		logger: logger,
	}
}

// Register registers the stats routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.Counts)
}

// Counts returns node counts per entity kind
// @Summary Entity counts
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/stats [get]
func (h *Handler) Counts(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "stats_handler.Counts")
	defer span.End()

	counts, err := h.query.EntityCounts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, counts)
}

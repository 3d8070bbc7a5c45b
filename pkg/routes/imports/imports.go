// Package imports exposes the batch import endpoints. Rosters, ShootProof
// contacts, and ShootProof orders arrive either as JSON bodies or as CSV
// uploads; both paths run through the same import pipeline.
package imports

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/internal/repositories/importrun"
	"github.com/8agana/photography-mind/pkg/importer"
	"github.com/8agana/photography-mind/pkg/models"
)

var validate = validator.New()

// Handler handles import API endpoints
type Handler struct {
	service *importer.Service
	runs    *importrun.Repository
	logger  ectologger.Logger
}

// NewHandler creates a new import handler
func NewHandler(service *importer.Service, runs *importrun.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		runs:    runs,
		logger:  logger,
	}
}

// Register registers the import routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/roster", h.Roster)
	g.POST("/roster/csv", h.RosterCSV)
	g.POST("/contacts", h.Contacts)
	g.POST("/contacts/csv", h.ContactsCSV)
	g.POST("/orders", h.Orders)
	g.POST("/orders/csv", h.OrdersCSV)
	g.POST("/galleries", h.Galleries)
	g.GET("/runs", h.ListRuns)
	g.GET("/runs/:id", h.GetRun)
}

// Roster imports a roster batch from a JSON body
// @Summary Import a roster
// @Tags Imports
// @Accept json
// @Produce json
// @Param body body models.ImportRosterRequest true "Roster batch"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/roster [post]
func (h *Handler) Roster(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.Roster")
	defer span.End()

	var req models.ImportRosterRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportRoster(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// RosterCSV imports a roster batch from a CSV upload
// @Summary Import a roster CSV
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster CSV"
// @Param competition formData string true "Competition name"
// @Param dry_run formData bool false "Classify without writing"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/roster/csv [post]
func (h *Handler) RosterCSV(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.RosterCSV")
	defer span.End()

	competition := c.FormValue("competition")
	if competition == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "competition is required")
	}

	file, err := openUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	records, err := importer.ParseRosterCSV(file, competition)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportRoster(ctx, models.ImportRosterRequest{
		Competition: competition,
		Records:     records,
		DryRun:      formBool(c, "dry_run"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Contacts imports ShootProof contacts from a JSON body
// @Summary Import contacts
// @Tags Imports
// @Accept json
// @Produce json
// @Param body body models.ImportContactsRequest true "Contacts batch"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/contacts [post]
func (h *Handler) Contacts(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.Contacts")
	defer span.End()

	var req models.ImportContactsRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportContacts(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ContactsCSV imports ShootProof contacts from a CSV upload
// @Summary Import a contacts CSV
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Contacts CSV"
// @Param dry_run formData bool false "Classify without writing"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/contacts/csv [post]
func (h *Handler) ContactsCSV(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.ContactsCSV")
	defer span.End()

	file, err := openUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	contacts, err := importer.ParseContactsCSV(file)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportContacts(ctx, models.ImportContactsRequest{
		Contacts: contacts,
		DryRun:   formBool(c, "dry_run"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Orders imports ShootProof orders from a JSON body
// @Summary Import orders
// @Tags Imports
// @Accept json
// @Produce json
// @Param body body models.ImportOrdersRequest true "Orders batch"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/orders [post]
func (h *Handler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.Orders")
	defer span.End()

	var req models.ImportOrdersRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportOrders(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Galleries matches ShootProof galleries to families by surname
// @Summary Sync ShootProof galleries
// @Tags Imports
// @Accept json
// @Produce json
// @Param body body models.ImportGalleriesRequest true "Galleries"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/galleries [post]
func (h *Handler) Galleries(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.Galleries")
	defer span.End()

	var req models.ImportGalleriesRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportGalleries(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// OrdersCSV imports ShootProof orders from a CSV upload
// @Summary Import an orders CSV
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Orders CSV"
// @Param shoot_name formData string false "Shoot name override"
// @Param dry_run formData bool false "Classify without writing"
// @Success 200 {object} importer.Result
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/imports/orders/csv [post]
func (h *Handler) OrdersCSV(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.OrdersCSV")
	defer span.End()

	file, err := openUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	orders, err := importer.ParseOrdersCSV(file)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ImportOrders(ctx, models.ImportOrdersRequest{
		ShootName: c.FormValue("shoot_name"),
		Orders:    orders,
		DryRun:    formBool(c, "dry_run"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ListRuns returns recent import runs
// @Summary List import runs
// @Tags Imports
// @Produce json
// @Param limit query int false "Max runs to return"
// @Success 200 {array} models.ImportRun
// @Router /api/v1/imports/runs [get]
func (h *Handler) ListRuns(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.ListRuns")
	defer span.End()

	if h.runs == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "import run ledger unavailable")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := h.runs.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, runs)
}

// RunDetail is an import run with its per-record outcomes
type RunDetail struct {
	Run     *models.ImportRun     `json:"run"`
	Records []models.ImportRecord `json:"records"`
}

// GetRun returns one import run with its record outcomes
// @Summary Get an import run
// @Tags Imports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunDetail
// @Failure 404 {object} httperror.HTTPError
// @Router /api/v1/imports/runs/{id} [get]
func (h *Handler) GetRun(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.GetRun")
	defer span.End()

	if h.runs == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "import run ledger unavailable")
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid run id")
	}

	run, err := h.runs.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "import run %s does not exist", runID)
	}

	records, err := h.runs.ListRecords(ctx, runID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RunDetail{Run: run, Records: records})
}

func openUpload(c echo.Context) (multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "file upload is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "failed to open upload")
	}
	return file, nil
}

func formBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.FormValue(name))
	return v
}

// Package importrun persists the audit ledger of import runs and their
// per-record outcomes. The graph remains the source of truth for delivery
// state; this ledger answers "what did that import do".
package importrun

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/8agana/photography-mind/internal/platform/database"
	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/models"
)

// Repository handles import run persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new import run repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateRun inserts a new import run row.
func (r *Repository) CreateRun(ctx context.Context, run *models.ImportRun) error {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.CreateRun")
	defer span.End()

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("import_runs")
	ib.Cols("id", "kind", "source", "dry_run", "created", "updated", "skipped", "started_at")
	ib.Values(run.ID, run.Kind, run.Source, run.DryRun, 0, 0, 0, run.StartedAt)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": run.ID, "kind": run.Kind}).Error("Failed to create import run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create import run")
	}
	return nil
}

// InsertRecord inserts a per-record outcome row.
func (r *Repository) InsertRecord(ctx context.Context, rec *models.ImportRecord) error {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.InsertRecord")
	defer span.End()

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("import_records")
	ib.Cols("id", "run_id", "row_number", "status", "reason", "family_id", "payload", "created_at")
	ib.Values(rec.ID, rec.RunID, rec.RowNumber, rec.Status, rec.Reason, rec.FamilyID, rec.Payload, rec.CreatedAt)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": rec.RunID, "row": rec.RowNumber}).Error("Failed to record import outcome")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record import outcome")
	}
	return nil
}

// FinishRun stamps the run with its counters and finish time.
func (r *Repository) FinishRun(ctx context.Context, runID uuid.UUID, created, updated, skipped int) error {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.FinishRun")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("import_runs")
	ub.Set(
		ub.Assign("created", created),
		ub.Assign("updated", updated),
		ub.Assign("skipped", skipped),
		ub.Assign("finished_at", time.Now().UTC()),
	)
	ub.Where(ub.Equal("id", runID))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": runID}).Error("Failed to finalize import run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to finalize import run")
	}
	return nil
}

// GetRun returns one run, or nil when it does not exist.
func (r *Repository) GetRun(ctx context.Context, runID uuid.UUID) (*models.ImportRun, error) {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.GetRun")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "kind", "source", "dry_run", "created", "updated", "skipped", "started_at", "finished_at")
	sb.From("import_runs")
	sb.Where(sb.Equal("id", runID))
	sb.Limit(1)

	query, args := sb.Build()
	var run models.ImportRun
	if err := r.db.GetContext(ctx, &run, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": runID}).Error("Failed to get import run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get import run")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.ListRuns")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "kind", "source", "dry_run", "created", "updated", "skipped", "started_at", "finished_at")
	sb.From("import_runs")
	sb.OrderBy("started_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var runs []models.ImportRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list import runs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list import runs")
	}
	return runs, nil
}

// ListRecords returns the per-record outcomes of one run in row order.
func (r *Repository) ListRecords(ctx context.Context, runID uuid.UUID) ([]models.ImportRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "importrun.Repository.ListRecords")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "run_id", "row_number", "status", "reason", "family_id", "payload", "created_at")
	sb.From("import_records")
	sb.Where(sb.Equal("run_id", runID))
	sb.OrderBy("row_number ASC")

	query, args := sb.Build()
	var records []models.ImportRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": runID}).Error("Failed to list import records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list import records")
	}
	return records, nil
}

// Package importer runs batch imports: competition rosters, ShootProof
// contacts and ShootProof orders. Batches are processed sequentially and a
// bad record never aborts the batch; every record gets an outcome.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/8agana/photography-mind/internal/platform/database"
	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/edges"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/normalizers"
	"github.com/8agana/photography-mind/pkg/resolver"
)

// RunLedger records import runs and their per-record outcomes in Postgres.
type RunLedger interface {
	CreateRun(ctx context.Context, run *models.ImportRun) error
	InsertRecord(ctx context.Context, rec *models.ImportRecord) error
	FinishRun(ctx context.Context, runID uuid.UUID, created, updated, skipped int) error
}

// OrderLedger stores ShootProof orders and answers duplicate checks.
type OrderLedger interface {
	GetByShootProofID(ctx context.Context, shootProofOrderID string) (*models.Order, error)
	Upsert(ctx context.Context, order *models.Order) (bool, error)
}

// EventSink receives entity lifecycle events from imports.
type EventSink interface {
	EmitFamilyCreated(ctx context.Context, familyID string) error
}

// Service is the import pipeline.
type Service struct {
	store    graph.Store
	resolver *resolver.Resolver
	engine   *edges.Engine
	runs     RunLedger
	orders   OrderLedger
	events   EventSink
	logger   ectologger.Logger
}

// NewService creates the import pipeline. runs, orders and events may be nil;
// the pipeline then skips ledgering and event emission.
func NewService(store graph.Store, res *resolver.Resolver, engine *edges.Engine, runs RunLedger, orders OrderLedger, events EventSink, logger ectologger.Logger) *Service {
	return &Service{
		store:    store,
		resolver: res,
		engine:   engine,
		runs:     runs,
		orders:   orders,
		events:   events,
		logger:   logger,
	}
}

// Result is the summary of one import batch.
type Result struct {
	RunID    uuid.UUID              `json:"run_id,omitempty"`
	DryRun   bool                   `json:"dry_run"`
	Created  int                    `json:"created"`
	Updated  int                    `json:"updated"`
	Skipped  int                    `json:"skipped"`
	Outcomes []models.RecordOutcome `json:"outcomes"`
}

func (r *Result) add(outcome models.RecordOutcome) {
	switch outcome.Status {
	case models.OutcomeCreated:
		r.Created++
	case models.OutcomeUpdated:
		r.Updated++
	default:
		r.Skipped++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// ImportRoster imports a competition roster batch. Records are processed in
// order; outcomes come back in the same order.
func (s *Service) ImportRoster(ctx context.Context, req models.ImportRosterRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportRoster")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"competition": req.Competition,
		"records":     len(req.Records),
		"dry_run":     req.DryRun,
	})
	log.Info("Starting roster import")

	result := &Result{DryRun: req.DryRun}
	run := s.startRun(ctx, "roster", req.Competition, req.DryRun)
	if run != nil {
		result.RunID = run.ID
	}

	var competitionID string
	if !req.DryRun {
		id, _, err := s.resolver.ResolveCompetition(ctx, req.Competition)
		if err != nil {
			return nil, err
		}
		competitionID = id
	} else {
		competitionID = normalizers.CanonicalKey(req.Competition)
	}

	for i, rec := range req.Records {
		if rec.Competition == "" {
			rec.Competition = req.Competition
		}
		outcome := s.importRosterRecord(ctx, competitionID, rec, req.DryRun)
		outcome.Row = i + 1
		result.add(outcome)
		s.ledgerRecord(ctx, run, outcome, rec)
	}

	s.finishRun(ctx, run, result)
	log.WithFields(map[string]any{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Roster import finished")
	return result, nil
}

func (s *Service) importRosterRecord(ctx context.Context, competitionID string, rec models.RosterRecord, dryRun bool) models.RecordOutcome {
	if dryRun {
		return s.previewRosterRecord(ctx, rec)
	}

	res, err := s.resolver.ResolveRecord(ctx, rec)
	if err != nil {
		return skippedOutcome(err)
	}

	outcome := models.RecordOutcome{
		Status:    models.OutcomeUpdated,
		FamilyID:  res.FamilyID,
		SkaterIDs: res.SkaterIDs,
	}
	if res.Created > 0 {
		outcome.Status = models.OutcomeCreated
	}

	if rec.EventName != "" {
		eventID, _, err := s.resolver.ResolveEvent(ctx, competitionID, rec.EventName, rec.Time, rec.SplitIce)
		if err != nil {
			return skippedOutcome(err)
		}
		for _, skaterID := range res.SkaterIDs {
			changes := map[string]any{}
			if rec.SkateOrder > 0 {
				changes[models.PropSkateOrder] = rec.SkateOrder
			}
			key := models.EdgeKey{Kind: models.EdgeCompetedIn, SourceID: skaterID, TargetID: eventID}
			if err := s.engine.Upsert(ctx, key, changes); err != nil {
				return skippedOutcome(err)
			}
		}
	}

	if res.FamilyID != "" {
		key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: res.FamilyID, TargetID: competitionID}
		if err := s.engine.Upsert(ctx, key, map[string]any{}); err != nil {
			return skippedOutcome(err)
		}
		if res.FamilyCreated && s.events != nil {
			_ = s.events.EmitFamilyCreated(ctx, res.FamilyID)
		}
	}

	return outcome
}

// previewRosterRecord classifies a record without writing anything.
func (s *Service) previewRosterRecord(ctx context.Context, rec models.RosterRecord) models.RecordOutcome {
	var skaterIDs []string
	anyNew := false
	for _, cell := range rec.SkaterNames {
		for _, display := range resolver.SplitSkaterNames(cell) {
			name, err := resolver.ParseName(display)
			if err != nil {
				return skippedOutcome(err)
			}
			id := normalizers.SkaterKey(name.First, name.Last)
			skaterIDs = append(skaterIDs, id)
			existing, err := s.store.GetEntity(ctx, models.KindSkater, id)
			if err != nil {
				return skippedOutcome(err)
			}
			if existing == nil {
				anyNew = true
			}
		}
	}
	if len(skaterIDs) == 0 {
		return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: "record has no skater names"}
	}

	outcome := models.RecordOutcome{Status: models.OutcomeUpdated, SkaterIDs: skaterIDs}
	if anyNew {
		outcome.Status = models.OutcomeCreated
	}
	return outcome
}

func (s *Service) startRun(ctx context.Context, kind, source string, dryRun bool) *models.ImportRun {
	if s.runs == nil {
		return nil
	}
	run := &models.ImportRun{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		// the graph stays the source of truth; a ledger failure is logged, not fatal
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to record import run")
		return nil
	}
	return run
}

func (s *Service) ledgerRecord(ctx context.Context, run *models.ImportRun, outcome models.RecordOutcome, payload any) {
	if s.runs == nil || run == nil {
		return
	}
	var body database.JSONB[json.RawMessage]
	if raw, err := json.Marshal(payload); err == nil {
		body.Data = raw
		body.Valid = true
	}
	rec := &models.ImportRecord{
		ID:        uuid.New(),
		RunID:     run.ID,
		RowNumber: outcome.Row,
		Status:    string(outcome.Status),
		Reason:    outcome.Reason,
		FamilyID:  outcome.FamilyID,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.InsertRecord(ctx, rec); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to record import outcome")
	}
}

func (s *Service) finishRun(ctx context.Context, run *models.ImportRun, result *Result) {
	if s.runs == nil || run == nil {
		return
	}
	if err := s.runs.FinishRun(ctx, run.ID, result.Created, result.Updated, result.Skipped); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to finalize import run")
	}
}

func skippedOutcome(err error) models.RecordOutcome {
	reason := "import failed"
	if httperror.IsHTTPError(err) {
		reason = httperror.ToHTTPError(err).Error()
	} else if err != nil {
		reason = fmt.Sprintf("import failed: %v", err)
	}
	return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: reason}
}

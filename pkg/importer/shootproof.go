package importer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/normalizers"
	"github.com/8agana/photography-mind/pkg/resolver"
	"github.com/8agana/photography-mind/pkg/status"
)

// ImportContacts syncs ShootProof contacts into families. Contacts without a
// last name are skipped; existing families only get gaps filled, never
// overwritten.
func (s *Service) ImportContacts(ctx context.Context, req models.ImportContactsRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportContacts")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"contacts": len(req.Contacts),
		"dry_run":  req.DryRun,
	})
	log.Info("Starting contacts import")

	result := &Result{DryRun: req.DryRun}
	run := s.startRun(ctx, "contacts", "shootproof", req.DryRun)
	if run != nil {
		result.RunID = run.ID
	}

	for i, contact := range req.Contacts {
		outcome := s.importContact(ctx, contact, req.DryRun)
		outcome.Row = i + 1
		result.add(outcome)
		s.ledgerRecord(ctx, run, outcome, contact)
	}

	s.finishRun(ctx, run, result)
	log.WithFields(map[string]any{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Contacts import finished")
	return result, nil
}

func (s *Service) importContact(ctx context.Context, contact models.ContactRecord, dryRun bool) models.RecordOutcome {
	familyID := normalizers.FamilyKey(contact.LastName)
	if familyID == "" {
		return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: "contact has no last name"}
	}

	existing, err := s.store.GetEntity(ctx, models.KindFamily, familyID)
	if err != nil {
		return skippedOutcome(err)
	}

	if dryRun {
		outcome := models.RecordOutcome{Status: models.OutcomeUpdated, FamilyID: familyID}
		if existing == nil {
			outcome.Status = models.OutcomeCreated
		}
		return outcome
	}

	created, err := s.resolver.ResolveFamilyWithID(ctx, familyID, contact.LastName, contact.Email, contact.Phone)
	if err != nil {
		return skippedOutcome(err)
	}

	outcome := models.RecordOutcome{Status: models.OutcomeUpdated, FamilyID: familyID}
	if created {
		outcome.Status = models.OutcomeCreated
		if s.events != nil {
			_ = s.events.EmitFamilyCreated(ctx, familyID)
		}
	}
	return outcome
}

// ImportOrders syncs ShootProof orders. Orders are deduplicated by
// shootproof_order_id; a known order is skipped, not re-applied. New orders
// backfill the family when needed, mark the shoot gallery purchased and land
// in the order ledger.
func (s *Service) ImportOrders(ctx context.Context, req models.ImportOrdersRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportOrders")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"orders":  len(req.Orders),
		"dry_run": req.DryRun,
	})
	log.Info("Starting orders import")

	result := &Result{DryRun: req.DryRun}
	run := s.startRun(ctx, "orders", "shootproof", req.DryRun)
	if run != nil {
		result.RunID = run.ID
	}

	for i, order := range req.Orders {
		if order.ShootName == "" {
			order.ShootName = req.ShootName
		}
		outcome := s.importOrder(ctx, order, req.DryRun)
		outcome.Row = i + 1
		result.add(outcome)
		s.ledgerRecord(ctx, run, outcome, order)
	}

	s.finishRun(ctx, run, result)
	log.WithFields(map[string]any{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Orders import finished")
	return result, nil
}

func (s *Service) importOrder(ctx context.Context, order models.OrderRecord, dryRun bool) models.RecordOutcome {
	if order.ShootProofOrderID == "" {
		return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: "order has no shootproof order id"}
	}

	if s.orders != nil {
		known, err := s.orders.GetByShootProofID(ctx, order.ShootProofOrderID)
		if err != nil {
			return skippedOutcome(err)
		}
		if known != nil {
			return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: "duplicate order", FamilyID: known.FamilyID}
		}
	}

	name, err := resolver.ParseName(order.ContactName)
	if err != nil {
		return skippedOutcome(httperror.NewHTTPError(http.StatusBadRequest, "order has no contact name"))
	}
	familyID := normalizers.FamilyKey(name.Last)

	if dryRun {
		return models.RecordOutcome{Status: models.OutcomeCreated, FamilyID: familyID}
	}

	familyCreated, err := s.resolver.ResolveFamilyWithID(ctx, familyID, name.Last, order.ContactEmail, "")
	if err != nil {
		return skippedOutcome(err)
	}
	if familyCreated && s.events != nil {
		_ = s.events.EmitFamilyCreated(ctx, familyID)
	}

	var shootID string
	if order.ShootName != "" {
		shootID, _, err = s.resolver.ResolveShoot(ctx, order.ShootName, "", "")
		if err != nil {
			return skippedOutcome(err)
		}

		key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: familyID, TargetID: shootID}
		changes := map[string]any{
			models.PropGalleryStatus:  string(status.Purchased),
			models.PropPurchaseAmount: order.Amount,
		}
		if order.OrderDate != "" {
			changes[models.PropPurchaseDate] = order.OrderDate
		}
		if err := s.engine.Upsert(ctx, key, changes); err != nil {
			return skippedOutcome(err)
		}
	}

	if s.orders != nil {
		now := time.Now().UTC()
		_, err := s.orders.Upsert(ctx, &models.Order{
			ID:                uuid.New(),
			ShootProofOrderID: order.ShootProofOrderID,
			FamilyID:          familyID,
			ShootID:           shootID,
			Amount:            order.Amount,
			OrderDate:         order.OrderDate,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return skippedOutcome(err)
		}
	}

	return models.RecordOutcome{Status: models.OutcomeCreated, FamilyID: familyID}
}

// ImportGalleries matches ShootProof galleries to families by surname and
// backfills the gallery id and url on the family. Galleries are named after
// the client, so the last word of the name is the surname. A family that
// already carries a gallery id keeps it.
func (s *Service) ImportGalleries(ctx context.Context, req models.ImportGalleriesRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportGalleries")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"galleries": len(req.Galleries),
		"dry_run":   req.DryRun,
	})
	log.Info("Starting galleries sync")

	result := &Result{DryRun: req.DryRun}
	run := s.startRun(ctx, "galleries", "shootproof", req.DryRun)
	if run != nil {
		result.RunID = run.ID
	}

	for i, gallery := range req.Galleries {
		outcome := s.importGallery(ctx, gallery, req.DryRun)
		outcome.Row = i + 1
		result.add(outcome)
		s.ledgerRecord(ctx, run, outcome, gallery)
	}

	s.finishRun(ctx, run, result)
	log.WithFields(map[string]any{
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Galleries sync finished")
	return result, nil
}

func (s *Service) importGallery(ctx context.Context, gallery models.GalleryRecord, dryRun bool) models.RecordOutcome {
	words := strings.Fields(gallery.Name)
	if len(words) == 0 {
		return models.RecordOutcome{Status: models.OutcomeSkipped, Reason: "gallery has no name"}
	}
	familyID := normalizers.FamilyKey(words[len(words)-1])

	family, err := s.store.GetEntity(ctx, models.KindFamily, familyID)
	if err != nil {
		return skippedOutcome(err)
	}
	if family == nil {
		return models.RecordOutcome{
			Status:   models.OutcomeSkipped,
			Reason:   fmt.Sprintf("no family matches gallery %q", gallery.Name),
			FamilyID: familyID,
		}
	}

	if cur, ok := family["shootproof_gallery_id"]; ok && cur != nil && cur != "" {
		return models.RecordOutcome{
			Status:   models.OutcomeSkipped,
			Reason:   "family already has a shootproof gallery",
			FamilyID: familyID,
		}
	}

	if dryRun {
		return models.RecordOutcome{Status: models.OutcomeUpdated, FamilyID: familyID}
	}

	changes := map[string]any{
		"shootproof_gallery_id": gallery.ShootProofGalleryID,
		"updated_at":            time.Now().UTC().Format(graph.TimeFormat),
	}
	if gallery.URL != "" {
		changes["shootproof_url"] = gallery.URL
	}
	if err := s.store.PutEntity(ctx, models.KindFamily, familyID, changes); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"family_id": familyID}).Error("Failed to attach gallery to family")
		return skippedOutcome(httperror.NewHTTPError(http.StatusInternalServerError, "failed to attach gallery to family"))
	}

	return models.RecordOutcome{Status: models.OutcomeUpdated, FamilyID: familyID}
}

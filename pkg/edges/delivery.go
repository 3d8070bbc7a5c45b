package edges

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/status"
)

// EventSink receives delivery lifecycle events. Emission is best effort;
// a sink failure never fails the operation that triggered it.
type EventSink interface {
	EmitGallerySent(ctx context.Context, kind models.EdgeKind, familyID, targetID string) error
	EmitPurchaseRecorded(ctx context.Context, familyID, shootID string, amount float64) error
	EmitThankYouSent(ctx context.Context, familyID, competitionID string) error
}

// DeliveryService is the workflow layer over the edge engine: every named
// operation of the delivery process lives here.
type DeliveryService struct {
	engine *Engine
	events EventSink
	logger ectologger.Logger
	now    func() time.Time
}

// NewDeliveryService creates the delivery workflow service. events may be nil.
func NewDeliveryService(engine *Engine, events EventSink, logger ectologger.Logger) *DeliveryService {
	return &DeliveryService{
		engine: engine,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// LinkFamilyCompetition links a family to a competition with a pending
// gallery. Linking twice is AlreadyExists.
func (s *DeliveryService) LinkFamilyCompetition(ctx context.Context, familyID, competitionID string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.LinkFamilyCompetition")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: familyID, TargetID: competitionID}
	return s.engine.Link(ctx, key, nil)
}

// LinkFamilyShoot links a family to a private shoot with a pending gallery.
func (s *DeliveryService) LinkFamilyShoot(ctx context.Context, familyID, shootID string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.LinkFamilyShoot")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: familyID, TargetID: shootID}
	return s.engine.Link(ctx, key, nil)
}

// SetGalleryStatus sets the gallery status on an existing delivery edge.
// The raw value is validated before any store access; a missing edge is
// NotFound.
func (s *DeliveryService) SetGalleryStatus(ctx context.Context, kind models.EdgeKind, familyID, targetID, raw string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.SetGalleryStatus")
	defer span.End()

	parsed, err := status.Parse(raw)
	if err != nil {
		return err
	}

	key := models.EdgeKey{Kind: kind, SourceID: familyID, TargetID: targetID}
	return s.engine.Update(ctx, key, map[string]any{
		models.PropGalleryStatus: string(parsed),
	})
}

// MarkGallerySent marks a family's competition gallery as sent.
func (s *DeliveryService) MarkGallerySent(ctx context.Context, familyID, competitionID string) error {
	return s.markSent(ctx, models.EdgeFamilyCompetition, familyID, competitionID)
}

// MarkShootSent marks a family's shoot gallery as sent.
func (s *DeliveryService) MarkShootSent(ctx context.Context, familyID, shootID string) error {
	return s.markSent(ctx, models.EdgeFamilyShoot, familyID, shootID)
}

func (s *DeliveryService) markSent(ctx context.Context, kind models.EdgeKind, familyID, targetID string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.markSent")
	defer span.End()

	key := models.EdgeKey{Kind: kind, SourceID: familyID, TargetID: targetID}
	err := s.engine.Update(ctx, key, map[string]any{
		models.PropGalleryStatus: string(status.Sent),
		models.PropSentDate:      s.now().UTC().Format(graph.TimeFormat),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.EmitGallerySent(ctx, kind, familyID, targetID)
	}
	return nil
}

// RecordPurchase records a purchase against a family's shoot gallery: status
// becomes purchased and the amount and date are stored on the same edge.
func (s *DeliveryService) RecordPurchase(ctx context.Context, familyID, shootID string, amount float64) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.RecordPurchase")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: familyID, TargetID: shootID}
	err := s.engine.Update(ctx, key, map[string]any{
		models.PropGalleryStatus:  string(status.Purchased),
		models.PropPurchaseAmount: amount,
		models.PropPurchaseDate:   s.now().UTC().Format(graph.TimeFormat),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.EmitPurchaseRecorded(ctx, familyID, shootID, amount)
	}
	return nil
}

// RequestThankYou flags that a thank-you card was requested for a family at a
// competition. Only ty_requested is written.
func (s *DeliveryService) RequestThankYou(ctx context.Context, familyID, competitionID string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.RequestThankYou")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: familyID, TargetID: competitionID}
	return s.engine.Update(ctx, key, map[string]any{
		models.PropTYRequested: true,
	})
}

// SendThankYou marks the thank-you card as sent and stamps the send date.
func (s *DeliveryService) SendThankYou(ctx context.Context, familyID, competitionID string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.SendThankYou")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: familyID, TargetID: competitionID}
	err := s.engine.Update(ctx, key, map[string]any{
		models.PropTYSent:   true,
		models.PropSentDate: s.now().UTC().Format(graph.TimeFormat),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.EmitThankYouSent(ctx, familyID, competitionID)
	}
	return nil
}

// SetSkateOrder records a skater's running order within an event.
func (s *DeliveryService) SetSkateOrder(ctx context.Context, skaterID, eventID string, order int) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.SetSkateOrder")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeCompetedIn, SourceID: skaterID, TargetID: eventID}
	return s.engine.Update(ctx, key, map[string]any{
		models.PropSkateOrder: order,
	})
}

// SetRequestStatus records the photo request state on a skater's event entry.
func (s *DeliveryService) SetRequestStatus(ctx context.Context, skaterID, eventID, requestStatus string) error {
	ctx, span := tracing.StartSpan(ctx, "edges.DeliveryService.SetRequestStatus")
	defer span.End()

	key := models.EdgeKey{Kind: models.EdgeCompetedIn, SourceID: skaterID, TargetID: eventID}
	return s.engine.Update(ctx, key, map[string]any{
		models.PropRequestStatus: requestStatus,
	})
}

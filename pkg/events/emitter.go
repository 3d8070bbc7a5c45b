// Package events handles event emission for delivery lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/kafka"
	"github.com/8agana/photography-mind/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes delivery lifecycle events. It satisfies the EventSink
// interfaces in pkg/edges and pkg/importer; callers treat emission as best
// effort, so failures here are logged and surfaced but never block writes.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitFamilyCreated emits a family.created event
func (e *Emitter) EmitFamilyCreated(ctx context.Context, familyID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitFamilyCreated")
	defer span.End()

	event := &kafka.DeliveryEvent{
		EventType: "family.created",
		FamilyID:  familyID,
	}

	if err := e.producer.PublishDeliveryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit family.created event")
		return err
	}

	return nil
}

// EmitGallerySent emits a gallery.sent event
func (e *Emitter) EmitGallerySent(ctx context.Context, kind models.EdgeKind, familyID, targetID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitGallerySent")
	defer span.End()

	event := &kafka.DeliveryEvent{
		EventType: "gallery.sent",
		FamilyID:  familyID,
		TargetID:  targetID,
		EdgeKind:  string(kind),
	}

	if err := e.producer.PublishDeliveryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit gallery.sent event")
		return err
	}

	return nil
}

// EmitPurchaseRecorded emits a purchase.recorded event
func (e *Emitter) EmitPurchaseRecorded(ctx context.Context, familyID, shootID string, amount float64) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPurchaseRecorded")
	defer span.End()

	data, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"amount":         amount,
	})

	event := &kafka.DeliveryEvent{
		EventType: "purchase.recorded",
		FamilyID:  familyID,
		TargetID:  shootID,
		EdgeKind:  string(models.EdgeFamilyShoot),
		Data:      data,
	}

	if err := e.producer.PublishDeliveryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit purchase.recorded event")
		return err
	}

	return nil
}

// EmitThankYouSent emits a thankyou.sent event
func (e *Emitter) EmitThankYouSent(ctx context.Context, familyID, competitionID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitThankYouSent")
	defer span.End()

	event := &kafka.DeliveryEvent{
		EventType: "thankyou.sent",
		FamilyID:  familyID,
		TargetID:  competitionID,
		EdgeKind:  string(models.EdgeFamilyCompetition),
	}

	if err := e.producer.PublishDeliveryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit thankyou.sent event")
		return err
	}

	return nil
}

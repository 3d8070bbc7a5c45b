package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of event
type EventType string

const (
	// Entity events
	EventTypeFamilyCreated EventType = "family.created"

	// Delivery events
	EventTypeGallerySent      EventType = "gallery.sent"
	EventTypePurchaseRecorded EventType = "purchase.recorded"
	EventTypeThankYouSent     EventType = "thankyou.sent"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// FamilyCreatedEvent is emitted when a new family node is created
type FamilyCreatedEvent struct {
	BaseEvent
	FamilyID string `json:"family_id"`
}

// GallerySentEvent is emitted when a gallery is marked sent
type GallerySentEvent struct {
	BaseEvent
	FamilyID string `json:"family_id"`
	TargetID string `json:"target_id"`
	EdgeKind string `json:"edge_kind"`
	SentDate string `json:"sent_date,omitempty"`
}

// PurchaseRecordedEvent is emitted when a purchase lands on a shoot edge
type PurchaseRecordedEvent struct {
	BaseEvent
	FamilyID string  `json:"family_id"`
	ShootID  string  `json:"shoot_id"`
	Amount   float64 `json:"amount"`
}

// ThankYouSentEvent is emitted when a thank-you goes out for a competition
type ThankYouSentEvent struct {
	BaseEvent
	FamilyID      string `json:"family_id"`
	CompetitionID string `json:"competition_id"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}

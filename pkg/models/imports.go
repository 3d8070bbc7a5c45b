package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/8agana/photography-mind/internal/platform/database"
)

// RosterRecord is one row of a competition roster export. SkaterNames holds
// every skater named on the row; pairs and teams list more than one.
type RosterRecord struct {
	Competition string   `json:"competition"`
	EventName   string   `json:"event"`
	Time        string   `json:"time,omitempty"`
	SplitIce    string   `json:"split_ice,omitempty"`
	SkateOrder  int      `json:"skate_order,omitempty"`
	SkaterNames []string `json:"skater_names"`
	SignUp      string   `json:"sign_up,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
}

// ContactRecord is one contact row from a ShootProof export.
type ContactRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OrderRecord is one order row from a ShootProof export.
type OrderRecord struct {
	ShootProofOrderID string  `json:"shootproof_order_id"`
	ContactName       string  `json:"contact_name"`
	ContactEmail      string  `json:"contact_email,omitempty"`
	ShootName         string  `json:"shoot_name,omitempty"`
	Amount            float64 `json:"amount"`
	OrderDate         string  `json:"order_date,omitempty"`
}

// GalleryRecord is one gallery from a ShootProof export. Galleries are named
// after the client, so the last word of the name is matched against family
// surnames.
type GalleryRecord struct {
	ShootProofGalleryID string `json:"id"`
	Name                string `json:"name"`
	URL                 string `json:"url,omitempty"`
}

// OutcomeStatus classifies what happened to a single record during import.
type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeUpdated OutcomeStatus = "updated"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// RecordOutcome reports the result of importing a single record. A batch
// returns one outcome per record; a bad record never aborts the batch.
type RecordOutcome struct {
	Row       int           `json:"row"`
	Status    OutcomeStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	FamilyID  string        `json:"family_id,omitempty"`
	SkaterIDs []string      `json:"skater_ids,omitempty"`
}

// ImportRun is the ledger row for one import batch.
type ImportRun struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Kind       string     `json:"kind" db:"kind"`
	Source     string     `json:"source" db:"source"`
	DryRun     bool       `json:"dry_run" db:"dry_run"`
	Created    int        `json:"created" db:"created"`
	Updated    int        `json:"updated" db:"updated"`
	Skipped    int        `json:"skipped" db:"skipped"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// ImportRecord is the ledger row for one record within an import run.
type ImportRecord struct {
	ID        uuid.UUID                       `json:"id" db:"id"`
	RunID     uuid.UUID                       `json:"run_id" db:"run_id"`
	RowNumber int                             `json:"row_number" db:"row_number"`
	Status    string                          `json:"status" db:"status"`
	Reason    string                          `json:"reason" db:"reason"`
	FamilyID  string                          `json:"family_id" db:"family_id"`
	Payload   database.JSONB[json.RawMessage] `json:"payload" db:"payload"`
	CreatedAt time.Time                       `json:"created_at" db:"created_at"`
}

// Order is the ledger row for a ShootProof order.
type Order struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ShootProofOrderID string    `json:"shootproof_order_id" db:"shootproof_order_id"`
	FamilyID          string    `json:"family_id" db:"family_id"`
	ShootID           string    `json:"shoot_id" db:"shoot_id"`
	Amount            float64   `json:"amount" db:"amount"`
	OrderDate         string    `json:"order_date" db:"order_date"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

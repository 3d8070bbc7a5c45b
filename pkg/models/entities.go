// Package models contains the domain types shared across the service.
package models

import "time"

// EntityKind is the node label for an entity in the graph store.
type EntityKind string

const (
	KindFamily      EntityKind = "Family"
	KindSkater      EntityKind = "Skater"
	KindCompetition EntityKind = "Competition"
	KindEvent       EntityKind = "Event"
	KindShoot       EntityKind = "Shoot"
)

// Family is the unit of delivery. Galleries are sent to families, not to
// individual skaters.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skater is a single athlete. A skater belongs to at most one family.
type Skater struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Competition is a skating competition, deduplicated by canonical name.
type Competition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a single event within a competition (e.g. "Juvenile Free Skate").
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CompetitionID string    `json:"competition_id"`
	Time          string    `json:"time,omitempty"`
	SplitIce      bool      `json:"split_ice,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Shoot is a private photo session booked directly by a family.
type Shoot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	ShootDate string    `json:"shoot_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

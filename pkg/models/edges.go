package models

// EdgeKind is the relationship type for an edge in the graph store. Each kind
// fixes the entity kinds at both ends.
type EdgeKind string

const (
	// EdgeCompetedIn connects a Skater to an Event they skated in.
	EdgeCompetedIn EdgeKind = "competed_in"
	// EdgeFamilyCompetition tracks gallery delivery for a family at a competition.
	EdgeFamilyCompetition EdgeKind = "family_competition"
	// EdgeFamilyShoot tracks delivery and purchases for a private shoot.
	EdgeFamilyShoot EdgeKind = "family_shoot"
	// EdgeBelongsTo connects a Skater to their Family. At most one per skater.
	EdgeBelongsTo EdgeKind = "belongs_to"
)

// SourceKind returns the entity kind at the source end of the edge.
func (k EdgeKind) SourceKind() EntityKind {
	switch k {
	case EdgeCompetedIn, EdgeBelongsTo:
		return KindSkater
	default:
		return KindFamily
	}
}

// TargetKind returns the entity kind at the target end of the edge.
func (k EdgeKind) TargetKind() EntityKind {
	switch k {
	case EdgeCompetedIn:
		return KindEvent
	case EdgeBelongsTo:
		return KindFamily
	case EdgeFamilyCompetition:
		return KindCompetition
	case EdgeFamilyShoot:
		return KindShoot
	default:
		return ""
	}
}

// Valid reports whether k is one of the known edge kinds.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeCompetedIn, EdgeFamilyCompetition, EdgeFamilyShoot, EdgeBelongsTo:
		return true
	}
	return false
}

// EdgeKey uniquely addresses an edge. There is at most one edge per key.
type EdgeKey struct {
	Kind     EdgeKind `json:"kind"`
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
}

// Edge is an edge with its current properties.
type Edge struct {
	Key   EdgeKey        `json:"key"`
	Props map[string]any `json:"props"`
}

// Edge property names. Edges carry a flat property bag; these are the fields
// the workflow reads and writes.
const (
	PropGalleryStatus  = "gallery_status"
	PropRequestStatus  = "request_status"
	PropSkateOrder     = "skate_order"
	PropTYRequested    = "ty_requested"
	PropTYSent         = "ty_sent"
	PropSentDate       = "sent_date"
	PropPurchaseAmount = "purchase_amount"
	PropPurchaseDate   = "purchase_date"
)

package models

// CreateFamilyRequest creates a family directly, outside of roster import.
type CreateFamilyRequest struct {
	LastName string `json:"last_name" validate:"required"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// CreateShootRequest creates a private shoot.
type CreateShootRequest struct {
	Name      string `json:"name" validate:"required"`
	Location  string `json:"location,omitempty"`
	ShootDate string `json:"shoot_date,omitempty"`
}

// LinkFamilyRequest links a family to a competition or shoot.
type LinkFamilyRequest struct {
	FamilyID string `json:"family_id" validate:"required"`
}

// UpdateStatusRequest sets the gallery status on a delivery edge.
type UpdateStatusRequest struct {
	FamilyID string `json:"family_id" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

// RecordPurchaseRequest records a purchase against a family's shoot gallery.
type RecordPurchaseRequest struct {
	FamilyID string  `json:"family_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

// ImportRosterRequest submits a roster batch for import.
type ImportRosterRequest struct {
	Competition string         `json:"competition" validate:"required"`
	Records     []RosterRecord `json:"records" validate:"required,min=1"`
	DryRun      bool           `json:"dry_run,omitempty"`
}

// ImportContactsRequest submits ShootProof contacts for import.
type ImportContactsRequest struct {
	Contacts []ContactRecord `json:"contacts" validate:"required,min=1"`
	DryRun   bool            `json:"dry_run,omitempty"`
}

// ImportOrdersRequest submits ShootProof orders for import.
type ImportOrdersRequest struct {
	ShootName string        `json:"shoot_name,omitempty"`
	Orders    []OrderRecord `json:"orders" validate:"required,min=1"`
	DryRun    bool          `json:"dry_run,omitempty"`
}

// ImportGalleriesRequest submits ShootProof galleries for matching against
// families.
type ImportGalleriesRequest struct {
	Galleries []GalleryRecord `json:"galleries" validate:"required,min=1"`
	DryRun    bool            `json:"dry_run,omitempty"`
}

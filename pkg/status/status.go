// Package status defines the gallery delivery status enumeration.
package status

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// GalleryStatus is the delivery state of a gallery. The set is closed; any
// value outside it is rejected before it reaches the store.
type GalleryStatus string

const (
	// Pipeline states, in rough delivery order. Forward jumps are allowed
	// (a gallery can go straight from pending to sent).
	Pending    GalleryStatus = "pending"
	Culling    GalleryStatus = "culling"
	Processing GalleryStatus = "processing"
	Sent       GalleryStatus = "sent"
	Purchased  GalleryStatus = "purchased"

	// Side states, reachable from anywhere.
	NotShot       GalleryStatus = "not_shot"
	NeedsResearch GalleryStatus = "needs_research"
)

// All lists every valid status.
func All() []GalleryStatus {
	return []GalleryStatus{Pending, Culling, Processing, Sent, Purchased, NotShot, NeedsResearch}
}

// PendingStates are the statuses that count as "not yet delivered".
func PendingStates() []GalleryStatus {
	return []GalleryStatus{Pending, Culling, Processing}
}

// Parse validates a raw status value. Input is accepted case-insensitively
// and stored in canonical lowercase form.
func Parse(raw string) (GalleryStatus, error) {
	s := GalleryStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case Pending, Culling, Processing, Sent, Purchased, NotShot, NeedsResearch:
		return s, nil
	}
	return "", httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid gallery status %q", raw)
}

// IsPending reports whether s counts as not yet delivered.
func (s GalleryStatus) IsPending() bool {
	switch s {
	case Pending, Culling, Processing:
		return true
	}
	return false
}

func (s GalleryStatus) String() string {
	return string(s)
}

package graph

import (
	"context"

	"github.com/8agana/photography-mind/pkg/models"
)

// Store is the mutation surface the resolver and the edge engine depend on.
// Edges are addressed by (kind, source, target); there is at most one edge per
// key. The production implementation is Graph; tests use MemStore.
type Store interface {
	// GetEntity returns the entity's properties, or nil when it does not exist.
	GetEntity(ctx context.Context, kind models.EntityKind, id string) (map[string]any, error)
	// PutEntity creates the entity if absent and merges props into it.
	// Properties not named in props are left untouched.
	PutEntity(ctx context.Context, kind models.EntityKind, id string, props map[string]any) error
	// GetEdge returns the edge's properties, or nil when it does not exist.
	GetEdge(ctx context.Context, key models.EdgeKey) (map[string]any, error)
	// CreateEdge creates the edge with the given properties. Both endpoints
	// must already exist.
	CreateEdge(ctx context.Context, key models.EdgeKey, props map[string]any) error
	// SetEdgeFields merges changes into an existing edge. Properties not named
	// in changes are left untouched. A missing edge is a no-op; callers that
	// need existence guarantees check GetEdge first.
	SetEdgeFields(ctx context.Context, key models.EdgeKey, changes map[string]any) error
	// ReplaceEdge removes any edge of this kind leaving sourceID and creates
	// one pointing at targetID. Used for belongs_to, which is unique per source.
	ReplaceEdge(ctx context.Context, kind models.EdgeKind, sourceID, targetID string, props map[string]any) error
	// EdgesFrom lists all edges of the given kind leaving sourceID.
	EdgesFrom(ctx context.Context, kind models.EdgeKind, sourceID string) ([]models.Edge, error)
	// EdgesTo lists all edges of the given kind arriving at targetID.
	EdgesTo(ctx context.Context, kind models.EdgeKind, targetID string) ([]models.Edge, error)
}

var _ Store = (*Graph)(nil)
var _ Store = (*MemStore)(nil)

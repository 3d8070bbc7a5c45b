package graph

import (
	"context"
	"sync"

	"github.com/8agana/photography-mind/pkg/models"
)

// MemStore is an in-memory Store. It backs unit tests and local development
// without a running graph database.
type MemStore struct {
	mu       sync.RWMutex
	entities map[models.EntityKind]map[string]map[string]any
	edges    map[models.EdgeKey]map[string]any
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		entities: make(map[models.EntityKind]map[string]map[string]any),
		edges:    make(map[models.EdgeKey]map[string]any),
	}
}

func copyProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func (m *MemStore) GetEntity(ctx context.Context, kind models.EntityKind, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	props, ok := m.entities[kind][id]
	if !ok {
		return nil, nil
	}
	return copyProps(props), nil
}

func (m *MemStore) PutEntity(ctx context.Context, kind models.EntityKind, id string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID, ok := m.entities[kind]
	if !ok {
		byID = make(map[string]map[string]any)
		m.entities[kind] = byID
	}

	existing, ok := byID[id]
	if !ok {
		existing = map[string]any{"id": id}
		byID[id] = existing
	}
	for k, v := range props {
		existing[k] = v
	}
	return nil
}

func (m *MemStore) GetEdge(ctx context.Context, key models.EdgeKey) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	props, ok := m.edges[key]
	if !ok {
		return nil, nil
	}
	return copyProps(props), nil
}

func (m *MemStore) CreateEdge(ctx context.Context, key models.EdgeKey, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.edges[key]
	if !ok {
		existing = make(map[string]any)
		m.edges[key] = existing
	}
	for k, v := range props {
		existing[k] = v
	}
	return nil
}

func (m *MemStore) SetEdgeFields(ctx context.Context, key models.EdgeKey, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.edges[key]
	if !ok {
		// matches the graph behavior: MATCH finds nothing, nothing is written
		return nil
	}
	for k, v := range changes {
		existing[k] = v
	}
	return nil
}

func (m *MemStore) ReplaceEdge(ctx context.Context, kind models.EdgeKind, sourceID, targetID string, props map[string]any) error {
	m.mu.Lock()

	for key := range m.edges {
		if key.Kind == kind && key.SourceID == sourceID && key.TargetID != targetID {
			delete(m.edges, key)
		}
	}
	m.mu.Unlock()

	return m.CreateEdge(ctx, models.EdgeKey{Kind: kind, SourceID: sourceID, TargetID: targetID}, props)
}

func (m *MemStore) EdgesFrom(ctx context.Context, kind models.EdgeKind, sourceID string) ([]models.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Edge
	for key, props := range m.edges {
		if key.Kind == kind && key.SourceID == sourceID {
			out = append(out, models.Edge{Key: key, Props: copyProps(props)})
		}
	}
	return out, nil
}

func (m *MemStore) EdgesTo(ctx context.Context, kind models.EdgeKind, targetID string) ([]models.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Edge
	for key, props := range m.edges {
		if key.Kind == kind && key.TargetID == targetID {
			out = append(out, models.Edge{Key: key, Props: copyProps(props)})
		}
	}
	return out, nil
}

// Package edges owns every mutation of delivery edges. Updates are field
// scoped: writing one property never disturbs its siblings, and an edge is
// never deleted and recreated to change it.
package edges

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/status"
)

// Engine applies field-scoped updates to edges addressed by
// (kind, source, target).
type Engine struct {
	store  graph.Store
	logger ectologger.Logger
	now    func() time.Time
}

// NewEngine creates an edge update engine.
func NewEngine(store graph.Store, logger ectologger.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the edge's properties, or NotFound when it does not exist.
func (e *Engine) Get(ctx context.Context, key models.EdgeKey) (map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "edges.Engine.Get")
	defer span.End()

	if err := validateKey(key); err != nil {
		return nil, err
	}

	props, err := e.store.GetEdge(ctx, key)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to read edge")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read edge")
	}
	if props == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "no %s edge from %s to %s", key.Kind, key.SourceID, key.TargetID)
	}
	return props, nil
}

// Upsert merges changes into the edge, creating it with defaults when absent.
// Existing sibling properties always survive.
func (e *Engine) Upsert(ctx context.Context, key models.EdgeKey, changes map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "edges.Engine.Upsert")
	defer span.End()

	changes = cloneChanges(changes)
	if err := validateChanges(key, changes); err != nil {
		return err
	}

	existing, err := e.store.GetEdge(ctx, key)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to read edge")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read edge")
	}

	if existing == nil {
		return e.create(ctx, key, changes)
	}

	changes["updated_at"] = e.now().UTC().Format(graph.TimeFormat)
	if err := e.store.SetEdgeFields(ctx, key, changes); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to update edge fields")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update edge")
	}
	return nil
}

// Update merges changes into an existing edge. A missing edge is NotFound;
// nothing is created implicitly.
func (e *Engine) Update(ctx context.Context, key models.EdgeKey, changes map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "edges.Engine.Update")
	defer span.End()

	changes = cloneChanges(changes)
	if err := validateChanges(key, changes); err != nil {
		return err
	}

	existing, err := e.store.GetEdge(ctx, key)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to read edge")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read edge")
	}
	if existing == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "no %s edge from %s to %s", key.Kind, key.SourceID, key.TargetID)
	}

	changes["updated_at"] = e.now().UTC().Format(graph.TimeFormat)
	if err := e.store.SetEdgeFields(ctx, key, changes); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to update edge fields")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update edge")
	}
	return nil
}

// Link creates the edge, verifying both endpoints exist. Linking an already
// linked pair is AlreadyExists and the existing edge is left untouched.
func (e *Engine) Link(ctx context.Context, key models.EdgeKey, props map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "edges.Engine.Link")
	defer span.End()

	props = cloneChanges(props)
	if err := validateChanges(key, props); err != nil {
		return err
	}

	for _, end := range []struct {
		kind models.EntityKind
		id   string
	}{
		{key.Kind.SourceKind(), key.SourceID},
		{key.Kind.TargetKind(), key.TargetID},
	} {
		entity, err := e.store.GetEntity(ctx, end.kind, end.id)
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to read edge endpoint")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read entity")
		}
		if entity == nil {
			return httperror.NewHTTPErrorf(http.StatusNotFound, "%s %q does not exist", end.kind, end.id)
		}
	}

	existing, err := e.store.GetEdge(ctx, key)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to read edge")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read edge")
	}
	if existing != nil {
		return httperror.NewHTTPErrorf(http.StatusConflict, "%s and %s are already linked", key.SourceID, key.TargetID)
	}

	return e.create(ctx, key, props)
}

func (e *Engine) create(ctx context.Context, key models.EdgeKey, props map[string]any) error {
	now := e.now().UTC().Format(graph.TimeFormat)

	create := map[string]any{
		"created_at": now,
		"updated_at": now,
	}
	// delivery edges start life as pending unless told otherwise
	if key.Kind != models.EdgeBelongsTo {
		create[models.PropGalleryStatus] = string(status.Pending)
	}
	for k, v := range props {
		create[k] = v
	}

	if err := e.store.CreateEdge(ctx, key, create); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(edgeFields(key)).Error("Failed to create edge")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create edge")
	}

	e.logger.WithContext(ctx).WithFields(edgeFields(key)).Debug("Created edge")
	return nil
}

// cloneChanges copies the caller's map so canonicalization and timestamps
// never leak back into it.
func cloneChanges(changes map[string]any) map[string]any {
	out := make(map[string]any, len(changes))
	for k, v := range changes {
		out[k] = v
	}
	return out
}

// validateChanges rejects bad input before anything touches the store.
func validateChanges(key models.EdgeKey, changes map[string]any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if raw, ok := changes[models.PropGalleryStatus]; ok {
		rawStr, isStr := raw.(string)
		if !isStr {
			return httperror.NewHTTPError(http.StatusBadRequest, "gallery_status must be a string")
		}
		parsed, err := status.Parse(rawStr)
		if err != nil {
			return err
		}
		changes[models.PropGalleryStatus] = string(parsed)
	}
	return nil
}

func validateKey(key models.EdgeKey) error {
	if !key.Kind.Valid() {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown edge kind %q", key.Kind)
	}
	if key.SourceID == "" || key.TargetID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "edge source and target ids are required")
	}
	return nil
}

func edgeFields(key models.EdgeKey) map[string]any {
	return map[string]any{
		"edge_kind": key.Kind,
		"source_id": key.SourceID,
		"target_id": key.TargetID,
	}
}

package edges

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func seedEntities(t *testing.T, store *graph.MemStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.PutEntity(ctx, models.KindFamily, "yang", map[string]any{"name": "Yang Family"}))
	require.NoError(t, store.PutEntity(ctx, models.KindCompetition, "cactusclassic2025", map[string]any{"name": "Cactus Classic 2025"}))
	require.NoError(t, store.PutEntity(ctx, models.KindShoot, "fallminis2025", map[string]any{"name": "Fall Minis 2025"}))
}

func TestEngine_Link(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	seedEntities(t, store)
	engine := NewEngine(store, testLogger())

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: "yang", TargetID: "cactusclassic2025"}

	t.Run("creates the edge with a pending gallery", func(t *testing.T) {
		require.NoError(t, engine.Link(ctx, key, nil))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, props)
		assert.Equal(t, "pending", props[models.PropGalleryStatus])
		assert.NotEmpty(t, props["created_at"])
	})

	t.Run("linking twice is a conflict and the edge survives", func(t *testing.T) {
		require.NoError(t, engine.Update(ctx, key, map[string]any{models.PropGalleryStatus: "culling"}))

		err := engine.Link(ctx, key, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "culling", props[models.PropGalleryStatus], "existing edge state must survive a duplicate link")
	})

	t.Run("missing endpoint is not found", func(t *testing.T) {
		err := engine.Link(ctx, models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: "nobody", TargetID: "cactusclassic2025"}, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})
}

func TestEngine_Update(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	seedEntities(t, store)
	engine := NewEngine(store, testLogger())

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: "yang", TargetID: "cactusclassic2025"}
	require.NoError(t, engine.Link(ctx, key, nil))

	t.Run("field updates leave siblings untouched", func(t *testing.T) {
		require.NoError(t, engine.Update(ctx, key, map[string]any{models.PropTYRequested: true}))
		require.NoError(t, engine.Update(ctx, key, map[string]any{models.PropGalleryStatus: "processing"}))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, true, props[models.PropTYRequested], "ty_requested must survive a status update")
		assert.Equal(t, "processing", props[models.PropGalleryStatus])
	})

	t.Run("missing edge is not found", func(t *testing.T) {
		missing := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}
		err := engine.Update(ctx, missing, map[string]any{models.PropGalleryStatus: "sent"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})

	t.Run("invalid status is rejected before the store is touched", func(t *testing.T) {
		err := engine.Update(ctx, key, map[string]any{models.PropGalleryStatus: "shipped"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "processing", props[models.PropGalleryStatus], "rejected status must not change the edge")
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		err := engine.Update(ctx, models.EdgeKey{Kind: "friend_of", SourceID: "a", TargetID: "b"}, map[string]any{})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}

func TestEngine_Upsert(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	seedEntities(t, store)
	engine := NewEngine(store, testLogger())

	key := models.EdgeKey{Kind: models.EdgeCompetedIn, SourceID: "amy_yang", TargetID: "evt1"}

	t.Run("creates when absent", func(t *testing.T) {
		require.NoError(t, engine.Upsert(ctx, key, map[string]any{models.PropSkateOrder: 4}))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 4, props[models.PropSkateOrder])
	})

	t.Run("merges when present", func(t *testing.T) {
		require.NoError(t, engine.Upsert(ctx, key, map[string]any{models.PropRequestStatus: "requested"}))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 4, props[models.PropSkateOrder], "skate order must survive the merge")
		assert.Equal(t, "requested", props[models.PropRequestStatus])
	})
}

func TestEngine_Get(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	seedEntities(t, store)
	engine := NewEngine(store, testLogger())

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}

	_, err := engine.Get(ctx, key)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	require.NoError(t, engine.Link(ctx, key, nil))
	props, err := engine.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "pending", props[models.PropGalleryStatus])
}

func TestEngine_DoesNotMutateCallerChanges(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	seedEntities(t, store)
	engine := NewEngine(store, testLogger())

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}

	changes := map[string]any{models.PropGalleryStatus: "SENT"}
	require.NoError(t, engine.Upsert(ctx, key, changes))
	assert.Equal(t, map[string]any{models.PropGalleryStatus: "SENT"}, changes, "caller's map must stay as written")

	props, err := store.GetEdge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "sent", props[models.PropGalleryStatus], "store gets the canonical form")

	changes = map[string]any{models.PropGalleryStatus: "Culling"}
	require.NoError(t, engine.Update(ctx, key, changes))
	assert.Equal(t, map[string]any{models.PropGalleryStatus: "Culling"}, changes)

	props, err = store.GetEdge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "culling", props[models.PropGalleryStatus])
	assert.NotEmpty(t, props["updated_at"])
}

package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
)

func newTestResolver(store graph.Store) *Resolver {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return New(store, nil, logger)
}

func TestResolveCompetition(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r := newTestResolver(store)

	id, created, err := r.ResolveCompetition(ctx, "Cactus Classic 2025")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "cactusclassic2025", id)

	t.Run("separator variants land on the same node", func(t *testing.T) {
		id2, created2, err := r.ResolveCompetition(ctx, "cactus-classic-2025")
		require.NoError(t, err)
		assert.False(t, created2)
		assert.Equal(t, id, id2)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, _, err := r.ResolveCompetition(ctx, "  ")
		assert.Error(t, err)
	})
}

func TestResolveShoot(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r := newTestResolver(store)

	id, created, err := r.ResolveShoot(ctx, "Fall Minis", "Studio", "2025-10-01")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "fallminis_2025-10-01", id)

	t.Run("same name on another date is a different shoot", func(t *testing.T) {
		id2, created2, err := r.ResolveShoot(ctx, "Fall Minis", "", "2026-03-14")
		require.NoError(t, err)
		assert.True(t, created2)
		assert.NotEqual(t, id, id2)

		props, err := store.GetEntity(ctx, models.KindShoot, id)
		require.NoError(t, err)
		require.NotNil(t, props)
		assert.Equal(t, "2025-10-01", props["shoot_date"])
	})

	t.Run("same name and date resolve to the same shoot", func(t *testing.T) {
		id2, created2, err := r.ResolveShoot(ctx, "fall-minis", "", "2025-10-01")
		require.NoError(t, err)
		assert.False(t, created2)
		assert.Equal(t, id, id2)
	})

	t.Run("dateless shoots key on the name alone", func(t *testing.T) {
		id2, created2, err := r.ResolveShoot(ctx, "Fall Minis", "", "")
		require.NoError(t, err)
		assert.True(t, created2)
		assert.Equal(t, "fallminis", id2)
	})
}

func TestResolveFamily_FillsGapsOnly(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r := newTestResolver(store)

	id, created, err := r.ResolveFamily(ctx, "Yang", "yang@example.com", "", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "yang", id)

	// second resolve carries a different email and a phone; only the gap fills
	_, created, err = r.ResolveFamily(ctx, "Yang", "other@example.com", "555-123-4567", "")
	require.NoError(t, err)
	assert.False(t, created)

	props, err := store.GetEntity(ctx, models.KindFamily, "yang")
	require.NoError(t, err)
	require.NotNil(t, props)
	assert.Equal(t, "yang@example.com", props["email"])
	assert.Equal(t, "5551234567", props["phone"])
	assert.Equal(t, "Yang Family", props["name"])
	assert.NotEmpty(t, props["created_at"])
}

func TestResolveRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("pair record creates two skaters and one family", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)

		res, err := r.ResolveRecord(ctx, models.RosterRecord{
			SkaterNames: []string{"Amy Yang & Ben He"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"amy_yang", "ben_he"}, res.SkaterIDs)
		assert.Equal(t, "yang", res.FamilyID)
		assert.True(t, res.FamilyCreated)
		assert.Equal(t, 3, res.Created)

		for _, skaterID := range res.SkaterIDs {
			edges, err := store.EdgesFrom(ctx, models.EdgeBelongsTo, skaterID)
			require.NoError(t, err)
			require.Len(t, edges, 1)
			assert.Equal(t, "yang", edges[0].Key.TargetID)
		}
	})

	t.Run("single skater without signup gets no family", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)

		res, err := r.ResolveRecord(ctx, models.RosterRecord{
			SkaterNames: []string{"Amy Yang"},
		})
		require.NoError(t, err)
		assert.Empty(t, res.FamilyID)
		assert.Equal(t, []string{"amy_yang"}, res.SkaterIDs)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		assert.Nil(t, family)
	})

	t.Run("affirmative signup promotes a single skater", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)

		res, err := r.ResolveRecord(ctx, models.RosterRecord{
			SkaterNames: []string{"Amy Yang"},
			SignUp:      "TRUE",
			Email:       "Yang@Example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "yang", res.FamilyID)
		assert.True(t, res.FamilyCreated)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		require.NotNil(t, family)
		assert.Equal(t, "yang@example.com", family["email"])
	})

	t.Run("resolving twice is idempotent", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)
		rec := models.RosterRecord{SkaterNames: []string{"Amy Yang & Ben He"}}

		first, err := r.ResolveRecord(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, 3, first.Created)

		second, err := r.ResolveRecord(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)
		assert.False(t, second.FamilyCreated)
		assert.Equal(t, first.SkaterIDs, second.SkaterIDs)
		assert.Equal(t, first.FamilyID, second.FamilyID)
	})

	t.Run("reassignment keeps one family per skater", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)

		_, err := r.ResolveRecord(ctx, models.RosterRecord{
			SkaterNames: []string{"Amy Yang"},
			SignUp:      "yes",
		})
		require.NoError(t, err)

		// Amy later shows up on a pair keyed to the Smith family
		_, err = r.ResolveRecord(ctx, models.RosterRecord{
			SkaterNames: []string{"Bob Smith & Amy Yang"},
		})
		require.NoError(t, err)

		edges, err := store.EdgesFrom(ctx, models.EdgeBelongsTo, "amy_yang")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "smith", edges[0].Key.TargetID)
	})

	t.Run("record with no names is rejected", func(t *testing.T) {
		store := graph.NewMemStore()
		r := newTestResolver(store)

		_, err := r.ResolveRecord(ctx, models.RosterRecord{SkaterNames: []string{" "}})
		assert.Error(t, err)
	})
}

func TestResolveRecord_MembershipTimestampStable(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r := newTestResolver(store)
	r.now = func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }

	rec := models.RosterRecord{SkaterNames: []string{"Amy Yang & Ben He"}}
	_, err := r.ResolveRecord(ctx, rec)
	require.NoError(t, err)

	key := models.EdgeKey{Kind: models.EdgeBelongsTo, SourceID: "amy_yang", TargetID: "yang"}
	props, err := store.GetEdge(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, props)
	first := props["created_at"]
	assert.Equal(t, "2025-09-01T12:00:00Z", first)

	// a later import run re-resolves the same membership
	r.now = func() time.Time { return time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC) }
	_, err = r.ResolveRecord(ctx, rec)
	require.NoError(t, err)

	props, err = store.GetEdge(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, props)
	assert.Equal(t, first, props["created_at"])
}

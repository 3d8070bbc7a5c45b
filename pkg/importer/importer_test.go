package importer

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8agana/photography-mind/pkg/edges"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/resolver"
)

type memOrderLedger struct {
	byID map[string]*models.Order
}

func newMemOrderLedger() *memOrderLedger {
	return &memOrderLedger{byID: make(map[string]*models.Order)}
}

func (m *memOrderLedger) GetByShootProofID(ctx context.Context, id string) (*models.Order, error) {
	return m.byID[id], nil
}

func (m *memOrderLedger) Upsert(ctx context.Context, order *models.Order) (bool, error) {
	_, existed := m.byID[order.ShootProofOrderID]
	m.byID[order.ShootProofOrderID] = order
	return !existed, nil
}

type familySink struct {
	created []string
}

func (f *familySink) EmitFamilyCreated(ctx context.Context, familyID string) error {
	f.created = append(f.created, familyID)
	return nil
}

func newTestService(store graph.Store, orders OrderLedger, events EventSink) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	res := resolver.New(store, nil, logger)
	engine := edges.NewEngine(store, logger)
	return NewService(store, res, engine, nil, orders, events, logger)
}

func TestImportRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("two signed singles become two families", func(t *testing.T) {
		store := graph.NewMemStore()
		sink := &familySink{}
		svc := newTestService(store, nil, sink)

		result, err := svc.ImportRoster(ctx, models.ImportRosterRequest{
			Competition: "Cactus Classic 2025",
			Records: []models.RosterRecord{
				{EventName: "Juvenile Girls", SkaterNames: []string{"Amy Yang"}, SignUp: "TRUE"},
				{EventName: "Juvenile Boys", SkaterNames: []string{"Ben He"}, SignUp: "TRUE"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 0, result.Skipped)
		require.Len(t, result.Outcomes, 2)
		assert.Equal(t, 1, result.Outcomes[0].Row)
		assert.Equal(t, 2, result.Outcomes[1].Row)

		for _, familyID := range []string{"yang", "he"} {
			family, err := store.GetEntity(ctx, models.KindFamily, familyID)
			require.NoError(t, err)
			require.NotNil(t, family, "family %s must exist", familyID)

			key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: familyID, TargetID: "cactusclassic2025"}
			props, err := store.GetEdge(ctx, key)
			require.NoError(t, err)
			require.NotNil(t, props, "family %s must be linked to the competition", familyID)
			assert.Equal(t, "pending", props[models.PropGalleryStatus])
		}

		amyEdges, err := store.EdgesFrom(ctx, models.EdgeBelongsTo, "amy_yang")
		require.NoError(t, err)
		require.Len(t, amyEdges, 1)
		assert.Equal(t, "yang", amyEdges[0].Key.TargetID)

		benEdges, err := store.EdgesFrom(ctx, models.EdgeBelongsTo, "ben_he")
		require.NoError(t, err)
		require.Len(t, benEdges, 1)
		assert.Equal(t, "he", benEdges[0].Key.TargetID)

		assert.ElementsMatch(t, []string{"yang", "he"}, sink.created)
	})

	t.Run("skaters land on the event with their skate order", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)

		_, err := svc.ImportRoster(ctx, models.ImportRosterRequest{
			Competition: "Cactus Classic 2025",
			Records: []models.RosterRecord{
				{EventName: "Pairs", SkaterNames: []string{"Amy Yang & Ben He"}, SkateOrder: 3},
			},
		})
		require.NoError(t, err)

		key := models.EdgeKey{Kind: models.EdgeCompetedIn, SourceID: "amy_yang", TargetID: "cactusclassic2025_pairs"}
		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, props)
		assert.Equal(t, 3, props[models.PropSkateOrder])
	})

	t.Run("a bad record never aborts the batch", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)

		result, err := svc.ImportRoster(ctx, models.ImportRosterRequest{
			Competition: "Cactus Classic 2025",
			Records: []models.RosterRecord{
				{EventName: "Juvenile Girls", SkaterNames: []string{"Amy Yang"}, SignUp: "yes"},
				{EventName: "Juvenile Girls", SkaterNames: nil},
				{EventName: "Juvenile Boys", SkaterNames: []string{"Ben He"}, SignUp: "yes"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, result.Outcomes, 3)
		assert.Equal(t, models.OutcomeSkipped, result.Outcomes[1].Status)
		assert.Contains(t, result.Outcomes[1].Reason, "record has no skater names")
	})

	t.Run("re-import reports updated, not created", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)

		req := models.ImportRosterRequest{
			Competition: "Cactus Classic 2025",
			Records: []models.RosterRecord{
				{EventName: "Juvenile Girls", SkaterNames: []string{"Amy Yang"}, SignUp: "yes"},
			},
		}

		first, err := svc.ImportRoster(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Created)

		second, err := svc.ImportRoster(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)
		assert.Equal(t, 1, second.Updated)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)

		result, err := svc.ImportRoster(ctx, models.ImportRosterRequest{
			Competition: "Cactus Classic 2025",
			DryRun:      true,
			Records: []models.RosterRecord{
				{EventName: "Juvenile Girls", SkaterNames: []string{"Amy Yang"}, SignUp: "yes"},
			},
		})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 1, result.Created)

		skater, err := store.GetEntity(ctx, models.KindSkater, "amy_yang")
		require.NoError(t, err)
		assert.Nil(t, skater)

		competition, err := store.GetEntity(ctx, models.KindCompetition, "cactusclassic2025")
		require.NoError(t, err)
		assert.Nil(t, competition)
	})
}

func TestImportContacts(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	svc := newTestService(store, nil, nil)

	result, err := svc.ImportContacts(ctx, models.ImportContactsRequest{
		Contacts: []models.ContactRecord{
			{FirstName: "Lin", LastName: "Yang", Email: "Lin.Yang@Example.com", Phone: "(555) 123-4567"},
			{FirstName: "Solo", LastName: ""},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "contact has no last name", result.Outcomes[1].Reason)

	family, err := store.GetEntity(ctx, models.KindFamily, "yang")
	require.NoError(t, err)
	require.NotNil(t, family)
	assert.Equal(t, "lin.yang@example.com", family["email"])
	assert.Equal(t, "5551234567", family["phone"])

	t.Run("existing family keeps its contact info", func(t *testing.T) {
		result, err := svc.ImportContacts(ctx, models.ImportContactsRequest{
			Contacts: []models.ContactRecord{
				{FirstName: "Lin", LastName: "Yang", Email: "changed@example.com"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		assert.Equal(t, "lin.yang@example.com", family["email"])
	})
}

func TestImportOrders(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	ledger := newMemOrderLedger()
	svc := newTestService(store, ledger, nil)

	order := models.OrderRecord{
		ShootProofOrderID: "SP-1001",
		ContactName:       "Lin Yang",
		ShootName:         "Fall Minis 2025",
		Amount:            189.50,
		OrderDate:         "2025-10-02",
	}

	result, err := svc.ImportOrders(ctx, models.ImportOrdersRequest{Orders: []models.OrderRecord{order}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}
	props, err := store.GetEdge(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, props)
	assert.Equal(t, "purchased", props[models.PropGalleryStatus])
	assert.Equal(t, 189.50, props[models.PropPurchaseAmount])
	assert.Equal(t, "2025-10-02", props[models.PropPurchaseDate])

	ledgered := ledger.byID["SP-1001"]
	require.NotNil(t, ledgered)
	assert.Equal(t, "yang", ledgered.FamilyID)
	assert.Equal(t, "fallminis2025", ledgered.ShootID)

	t.Run("re-import is skipped as a duplicate", func(t *testing.T) {
		result, err := svc.ImportOrders(ctx, models.ImportOrdersRequest{Orders: []models.OrderRecord{order}})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "duplicate order", result.Outcomes[0].Reason)
	})

	t.Run("order without an id is skipped", func(t *testing.T) {
		result, err := svc.ImportOrders(ctx, models.ImportOrdersRequest{
			Orders: []models.OrderRecord{{ContactName: "Lin Yang", Amount: 10}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "order has no shootproof order id", result.Outcomes[0].Reason)
	})
}

func TestImportGalleries(t *testing.T) {
	ctx := context.Background()

	t.Run("matches galleries to families by surname", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)
		require.NoError(t, store.PutEntity(ctx, models.KindFamily, "yang", map[string]any{"name": "Yang Family"}))

		result, err := svc.ImportGalleries(ctx, models.ImportGalleriesRequest{
			Galleries: []models.GalleryRecord{
				{ShootProofGalleryID: "9001", Name: "Amy Yang", URL: "https://shootproof.example/yang"},
				{ShootProofGalleryID: "9002", Name: "Addie Knox"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Skipped)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		assert.Equal(t, "9001", family["shootproof_gallery_id"])
		assert.Equal(t, "https://shootproof.example/yang", family["shootproof_url"])

		assert.Equal(t, models.OutcomeSkipped, result.Outcomes[1].Status)
		assert.Contains(t, result.Outcomes[1].Reason, "no family matches gallery")
		assert.Equal(t, "knox", result.Outcomes[1].FamilyID)
	})

	t.Run("existing gallery id is never overwritten", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)
		require.NoError(t, store.PutEntity(ctx, models.KindFamily, "yang", map[string]any{
			"name":                  "Yang Family",
			"shootproof_gallery_id": "8000",
		}))

		result, err := svc.ImportGalleries(ctx, models.ImportGalleriesRequest{
			Galleries: []models.GalleryRecord{{ShootProofGalleryID: "9001", Name: "Amy Yang"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "family already has a shootproof gallery", result.Outcomes[0].Reason)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		assert.Equal(t, "8000", family["shootproof_gallery_id"])
	})

	t.Run("dry run counts matches without writing", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)
		require.NoError(t, store.PutEntity(ctx, models.KindFamily, "yang", map[string]any{"name": "Yang Family"}))

		result, err := svc.ImportGalleries(ctx, models.ImportGalleriesRequest{
			DryRun:    true,
			Galleries: []models.GalleryRecord{{ShootProofGalleryID: "9001", Name: "Amy Yang"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)

		family, err := store.GetEntity(ctx, models.KindFamily, "yang")
		require.NoError(t, err)
		assert.Nil(t, family["shootproof_gallery_id"])
	})

	t.Run("nameless gallery is skipped", func(t *testing.T) {
		store := graph.NewMemStore()
		svc := newTestService(store, nil, nil)

		result, err := svc.ImportGalleries(ctx, models.ImportGalleriesRequest{
			Galleries: []models.GalleryRecord{{ShootProofGalleryID: "9001", Name: "  "}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "gallery has no name", result.Outcomes[0].Reason)
	})
}

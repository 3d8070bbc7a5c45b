package edges

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
)

type capturedEvent struct {
	name     string
	familyID string
	targetID string
	amount   float64
}

type fakeSink struct {
	events []capturedEvent
}

func (f *fakeSink) EmitGallerySent(ctx context.Context, kind models.EdgeKind, familyID, targetID string) error {
	f.events = append(f.events, capturedEvent{name: "gallery.sent", familyID: familyID, targetID: targetID})
	return nil
}

func (f *fakeSink) EmitPurchaseRecorded(ctx context.Context, familyID, shootID string, amount float64) error {
	f.events = append(f.events, capturedEvent{name: "purchase.recorded", familyID: familyID, targetID: shootID, amount: amount})
	return nil
}

func (f *fakeSink) EmitThankYouSent(ctx context.Context, familyID, competitionID string) error {
	f.events = append(f.events, capturedEvent{name: "thankyou.sent", familyID: familyID, targetID: competitionID})
	return nil
}

func newTestDelivery(t *testing.T) (*DeliveryService, *graph.MemStore, *fakeSink) {
	t.Helper()
	store := graph.NewMemStore()
	seedEntities(t, store)
	sink := &fakeSink{}
	engine := NewEngine(store, testLogger())
	return NewDeliveryService(engine, sink, testLogger()), store, sink
}

func TestDeliveryService_MarkGallerySent(t *testing.T) {
	ctx := context.Background()
	svc, store, sink := newTestDelivery(t)

	require.NoError(t, svc.LinkFamilyCompetition(ctx, "yang", "cactusclassic2025"))
	require.NoError(t, svc.MarkGallerySent(ctx, "yang", "cactusclassic2025"))

	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: "yang", TargetID: "cactusclassic2025"}
	props, err := store.GetEdge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "sent", props[models.PropGalleryStatus])
	assert.NotEmpty(t, props[models.PropSentDate])

	require.Len(t, sink.events, 1)
	assert.Equal(t, "gallery.sent", sink.events[0].name)

	t.Run("unlinked family is not found", func(t *testing.T) {
		err := svc.MarkGallerySent(ctx, "yang", "springopen2026")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})
}

func TestDeliveryService_RecordPurchase(t *testing.T) {
	ctx := context.Background()
	svc, store, sink := newTestDelivery(t)

	require.NoError(t, svc.LinkFamilyShoot(ctx, "yang", "fallminis2025"))
	require.NoError(t, svc.RecordPurchase(ctx, "yang", "fallminis2025", 249.99))

	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}
	props, err := store.GetEdge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "purchased", props[models.PropGalleryStatus])
	assert.Equal(t, 249.99, props[models.PropPurchaseAmount])
	assert.NotEmpty(t, props[models.PropPurchaseDate])

	require.Len(t, sink.events, 1)
	assert.Equal(t, "purchase.recorded", sink.events[0].name)
	assert.Equal(t, 249.99, sink.events[0].amount)
}

func TestDeliveryService_ThankYou(t *testing.T) {
	ctx := context.Background()
	svc, store, sink := newTestDelivery(t)

	require.NoError(t, svc.LinkFamilyCompetition(ctx, "yang", "cactusclassic2025"))
	key := models.EdgeKey{Kind: models.EdgeFamilyCompetition, SourceID: "yang", TargetID: "cactusclassic2025"}

	t.Run("request only flags ty_requested", func(t *testing.T) {
		require.NoError(t, svc.RequestThankYou(ctx, "yang", "cactusclassic2025"))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, true, props[models.PropTYRequested])
		_, hasSent := props[models.PropTYSent]
		assert.False(t, hasSent)
		assert.Equal(t, "pending", props[models.PropGalleryStatus], "thank-you request must not change gallery status")
		assert.Empty(t, sink.events)
	})

	t.Run("send flags ty_sent and stamps the date", func(t *testing.T) {
		require.NoError(t, svc.SendThankYou(ctx, "yang", "cactusclassic2025"))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, true, props[models.PropTYSent])
		assert.Equal(t, true, props[models.PropTYRequested], "ty_requested must survive")
		assert.NotEmpty(t, props[models.PropSentDate])

		require.Len(t, sink.events, 1)
		assert.Equal(t, "thankyou.sent", sink.events[0].name)
	})
}

func TestDeliveryService_SetGalleryStatus(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestDelivery(t)

	require.NoError(t, svc.LinkFamilyShoot(ctx, "yang", "fallminis2025"))
	key := models.EdgeKey{Kind: models.EdgeFamilyShoot, SourceID: "yang", TargetID: "fallminis2025"}

	t.Run("accepts status case-insensitively", func(t *testing.T) {
		require.NoError(t, svc.SetGalleryStatus(ctx, models.EdgeFamilyShoot, "yang", "fallminis2025", "Culling"))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "culling", props[models.PropGalleryStatus])
	})

	t.Run("rejects unknown status without touching the edge", func(t *testing.T) {
		err := svc.SetGalleryStatus(ctx, models.EdgeFamilyShoot, "yang", "fallminis2025", "shipped")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))

		props, err := store.GetEdge(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "culling", props[models.PropGalleryStatus])
	})
}

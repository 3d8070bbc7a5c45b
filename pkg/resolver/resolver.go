// Package resolver turns raw roster and contact data into graph entities.
package resolver

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/normalizers"
)

// Resolver derives stable entity ids and upserts entities idempotently.
// Resolving the same input twice always lands on the same nodes.
type Resolver struct {
	store  graph.Store
	keys   FamilyKeyStrategy
	logger ectologger.Logger
	now    func() time.Time
}

// New creates a resolver. A nil strategy falls back to SurnameKeyStrategy.
func New(store graph.Store, keys FamilyKeyStrategy, logger ectologger.Logger) *Resolver {
	if keys == nil {
		keys = SurnameKeyStrategy{}
	}
	return &Resolver{
		store:  store,
		keys:   keys,
		logger: logger,
		now:    time.Now,
	}
}

// Resolution describes what a roster record resolved to.
type Resolution struct {
	FamilyID      string
	FamilyCreated bool
	SkaterIDs     []string
	Created       int // entities created while resolving
}

// ResolveCompetition upserts a competition by canonical name key.
// "Cactus Classic 2025" and "cactus-classic-2025" land on the same node.
func (r *Resolver) ResolveCompetition(ctx context.Context, name string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.ResolveCompetition")
	defer span.End()

	id := normalizers.CanonicalKey(name)
	if id == "" {
		return "", false, httperror.NewHTTPError(http.StatusBadRequest, "competition name is empty")
	}

	created, err := r.upsertEntity(ctx, models.KindCompetition, id, map[string]any{
		"name": name,
	})
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// ResolveEvent upserts an event within a competition.
func (r *Resolver) ResolveEvent(ctx context.Context, competitionID, name, eventTime, splitIce string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.ResolveEvent")
	defer span.End()

	key := normalizers.CanonicalKey(name)
	if key == "" {
		return "", false, httperror.NewHTTPError(http.StatusBadRequest, "event name is empty")
	}
	id := competitionID + "_" + key

	props := map[string]any{
		"name":           name,
		"competition_id": competitionID,
	}
	if eventTime != "" {
		props["time"] = eventTime
	}
	if splitIce != "" {
		props["split_ice"] = splitIce
	}

	created, err := r.upsertEntity(ctx, models.KindEvent, id, props)
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// ResolveShoot upserts a private shoot. The date is part of the identity:
// "Fall Minis" on two different dates is two shoots. Dateless shoots key on
// the canonical name alone.
func (r *Resolver) ResolveShoot(ctx context.Context, name, location, shootDate string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.ResolveShoot")
	defer span.End()

	id := normalizers.CanonicalKey(name)
	if id == "" {
		return "", false, httperror.NewHTTPError(http.StatusBadRequest, "shoot name is empty")
	}
	if shootDate != "" {
		id = id + "_" + shootDate
	}

	props := map[string]any{"name": name}
	if location != "" {
		props["location"] = location
	}
	if shootDate != "" {
		props["shoot_date"] = shootDate
	}

	created, err := r.upsertEntity(ctx, models.KindShoot, id, props)
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// ResolveFamily upserts a family keyed on a surname. Contact fields only fill
// gaps; values already on the node are never overwritten.
func (r *Resolver) ResolveFamily(ctx context.Context, lastName, email, phone, notes string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.ResolveFamily")
	defer span.End()

	id := normalizers.FamilyKey(lastName)
	if id == "" {
		return "", false, httperror.NewHTTPError(http.StatusBadRequest, "family last name is empty")
	}

	props := map[string]any{
		"name": lastName + " Family",
	}
	if email != "" {
		props["email"] = normalizers.NormalizeEmail(email)
	}
	if phone != "" {
		props["phone"] = normalizers.NormalizePhone(phone)
	}
	if notes != "" {
		props["notes"] = notes
	}

	created, err := r.upsertEntity(ctx, models.KindFamily, id, props)
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// ResolveRecord resolves one roster record: skaters, their family (when the
// record qualifies for one) and the belongs_to edges. It does not touch
// competition edges; the importer owns those.
//
// A family is created for multi-skater records, and for single-skater records
// only when the signup flag is affirmative.
func (r *Resolver) ResolveRecord(ctx context.Context, rec models.RosterRecord) (*Resolution, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.ResolveRecord")
	defer span.End()

	log := r.logger.WithContext(ctx)

	var parsed []ParsedName
	seen := make(map[string]bool)
	for _, cell := range rec.SkaterNames {
		for _, display := range SplitSkaterNames(cell) {
			name, err := ParseName(display)
			if err != nil {
				return nil, err
			}
			id := normalizers.SkaterKey(name.First, name.Last)
			if seen[id] {
				continue
			}
			seen[id] = true
			parsed = append(parsed, name)
		}
	}
	if len(parsed) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "record has no skater names")
	}

	res := &Resolution{}

	for _, name := range parsed {
		id := normalizers.SkaterKey(name.First, name.Last)
		created, err := r.upsertEntity(ctx, models.KindSkater, id, map[string]any{
			"first_name": name.First,
			"last_name":  name.Last,
		})
		if err != nil {
			return nil, err
		}
		if created {
			res.Created++
		}
		res.SkaterIDs = append(res.SkaterIDs, id)
	}

	// Single-skater records only get a family when the signup says yes.
	if len(parsed) == 1 && !SignupAffirmative(rec.SignUp) {
		log.WithFields(map[string]any{"skater_id": res.SkaterIDs[0]}).Debug("No family for unsigned single-skater record")
		return res, nil
	}

	familyID, err := r.keys.FamilyKey(parsed)
	if err != nil {
		return nil, err
	}

	familyCreated, err := r.ResolveFamilyWithID(ctx, familyID, parsed[0].Last, rec.Email, rec.Phone)
	if err != nil {
		return nil, err
	}
	res.FamilyID = familyID
	res.FamilyCreated = familyCreated
	if familyCreated {
		res.Created++
	}

	for _, skaterID := range res.SkaterIDs {
		key := models.EdgeKey{Kind: models.EdgeBelongsTo, SourceID: skaterID, TargetID: familyID}
		existing, err := r.store.GetEdge(ctx, key)
		if err != nil {
			log.WithError(err).WithFields(map[string]any{"skater_id": skaterID, "family_id": familyID}).Error("Failed to read membership edge")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read membership edge")
		}

		// created_at marks when the membership began; a re-resolve of the
		// same membership must not move it.
		edgeProps := map[string]any{}
		if existing == nil {
			edgeProps["created_at"] = r.now().UTC().Format(graph.TimeFormat)
		}
		if err := r.store.ReplaceEdge(ctx, models.EdgeBelongsTo, skaterID, familyID, edgeProps); err != nil {
			log.WithError(err).WithFields(map[string]any{"skater_id": skaterID, "family_id": familyID}).Error("Failed to attach skater to family")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to attach skater to family")
		}
	}

	return res, nil
}

// ResolveFamilyWithID upserts a family under a key already derived by the
// strategy.
func (r *Resolver) ResolveFamilyWithID(ctx context.Context, id, lastName, email, phone string) (bool, error) {
	props := map[string]any{
		"name": lastName + " Family",
	}
	if email != "" {
		props["email"] = normalizers.NormalizeEmail(email)
	}
	if phone != "" {
		props["phone"] = normalizers.NormalizePhone(phone)
	}
	return r.upsertEntity(ctx, models.KindFamily, id, props)
}

// upsertEntity creates the entity when absent. For an existing entity it only
// fills properties that are currently missing or empty, and backfills
// created_at when an older write left it unset.
func (r *Resolver) upsertEntity(ctx context.Context, kind models.EntityKind, id string, props map[string]any) (bool, error) {
	existing, err := r.store.GetEntity(ctx, kind, id)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"entity_kind": kind, "entity_id": id}).Error("Failed to read entity")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read entity")
	}

	now := r.now().UTC().Format(graph.TimeFormat)

	if existing == nil {
		create := map[string]any{"created_at": now, "updated_at": now}
		for k, v := range props {
			create[k] = v
		}
		if err := r.store.PutEntity(ctx, kind, id, create); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"entity_kind": kind, "entity_id": id}).Error("Failed to create entity")
			return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create entity")
		}
		return true, nil
	}

	changes := map[string]any{}
	for k, v := range props {
		cur, ok := existing[k]
		if !ok || cur == nil || cur == "" {
			changes[k] = v
		}
	}
	if cur, ok := existing["created_at"]; !ok || cur == nil || cur == "" {
		changes["created_at"] = now
	}
	if len(changes) == 0 {
		return false, nil
	}
	changes["updated_at"] = now

	if err := r.store.PutEntity(ctx, kind, id, changes); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"entity_kind": kind, "entity_id": id}).Error("Failed to update entity")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update entity")
	}
	return false, nil
}

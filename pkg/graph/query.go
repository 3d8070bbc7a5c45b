package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/status"
)

// QueryService answers the read-side questions: who still needs a gallery,
// how a competition is going, what a shoot brought in.
type QueryService struct {
	client *Client
	logger ectologger.Logger
}

// NewQueryService creates a new query service
func NewQueryService(client *Client, logger ectologger.Logger) *QueryService {
	return &QueryService{
		client: client,
		logger: logger,
	}
}

// FamilyMember is a skater listed under a family.
type FamilyMember struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FamilyDetail is a family with its members.
type FamilyDetail struct {
	Family  map[string]any `json:"family"`
	Members []FamilyMember `json:"members"`
}

// GetFamily returns a family and its members, or nil when it does not exist.
func (s *QueryService) GetFamily(ctx context.Context, familyID string) (*FamilyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.GetFamily")
	defer span.End()

	cypher := `
		MATCH (f:Family {id: $id})
		OPTIONAL MATCH (s:Skater)-[:belongs_to]->(f)
		RETURN f, collect(s) AS members
	`

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"id": familyID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, nil
		}
		record := result.Record()
		famNode, _ := record.Get("f")
		membersVal, _ := record.Get("members")

		detail := &FamilyDetail{
			Family:  famNode.(neo4j.Node).Props,
			Members: []FamilyMember{},
		}
		if memberNodes, ok := membersVal.([]any); ok {
			for _, mn := range memberNodes {
				node, ok := mn.(neo4j.Node)
				if !ok {
					continue
				}
				member := FamilyMember{}
				member.ID, _ = node.Props["id"].(string)
				member.FirstName, _ = node.Props["first_name"].(string)
				member.LastName, _ = node.Props["last_name"].(string)
				detail.Members = append(detail.Members, member)
			}
		}
		return detail, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get family from graph: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return res.(*FamilyDetail), nil
}

// ListFamilies returns all families, optionally filtered by a case-insensitive
// name substring.
func (s *QueryService) ListFamilies(ctx context.Context, search string) ([]map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.ListFamilies")
	defer span.End()

	cypher := `
		MATCH (f:Family)
		WHERE $search = '' OR toLower(f.name) CONTAINS toLower($search)
		RETURN f
		ORDER BY f.name
	`
	return s.collectNodes(ctx, cypher, map[string]any{"search": search}, "f")
}

// FindSkaters returns skaters whose name contains the given fragment, with
// the id of the family each belongs to.
func (s *QueryService) FindSkaters(ctx context.Context, name string) ([]map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.FindSkaters")
	defer span.End()

	cypher := `
		MATCH (sk:Skater)
		WHERE toLower(sk.first_name + ' ' + sk.last_name) CONTAINS toLower($name)
		OPTIONAL MATCH (sk)-[:belongs_to]->(f:Family)
		RETURN sk, f.id AS family_id
		ORDER BY sk.last_name, sk.first_name
	`

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}

		var skaters []map[string]any
		for result.Next(ctx) {
			record := result.Record()
			node, _ := record.Get("sk")
			familyID, _ := record.Get("family_id")

			props := copyProps(node.(neo4j.Node).Props)
			if fid, ok := familyID.(string); ok {
				props["family_id"] = fid
			}
			skaters = append(skaters, props)
		}
		return skaters, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find skaters in graph: %w", err)
	}
	return res.([]map[string]any), nil
}

// ListShoots returns all shoots.
func (s *QueryService) ListShoots(ctx context.Context) ([]map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.ListShoots")
	defer span.End()

	cypher := `
		MATCH (sh:Shoot)
		RETURN sh
		ORDER BY sh.shoot_date DESC, sh.name
	`
	return s.collectNodes(ctx, cypher, map[string]any{}, "sh")
}

// ShootDetail is a shoot with the number of families linked to it.
type ShootDetail struct {
	Shoot          map[string]any `json:"shoot"`
	LinkedFamilies int64          `json:"linked_families"`
}

// GetShoot returns a shoot and its linked family count, or nil when it does
// not exist.
func (s *QueryService) GetShoot(ctx context.Context, shootID string) (*ShootDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.GetShoot")
	defer span.End()

	cypher := `
		MATCH (sh:Shoot {id: $id})
		OPTIONAL MATCH (f:Family)-[:family_shoot]->(sh)
		RETURN sh, count(f) AS linked_families
	`

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"id": shootID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, nil
		}
		record := result.Record()
		shootNode, _ := record.Get("sh")
		countVal, _ := record.Get("linked_families")

		detail := &ShootDetail{
			Shoot: shootNode.(neo4j.Node).Props,
		}
		detail.LinkedFamilies, _ = countVal.(int64)
		return detail, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get shoot from graph: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return res.(*ShootDetail), nil
}

// PendingGallery is one undelivered gallery.
type PendingGallery struct {
	FamilyID   string `json:"family_id"`
	FamilyName string `json:"family_name"`
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	Status     string `json:"status"`
}

// PendingGalleries lists every family whose gallery for the given competition
// or shoot is still in a pending state.
func (s *QueryService) PendingGalleries(ctx context.Context, kind models.EdgeKind, targetID string) ([]PendingGallery, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.PendingGalleries")
	defer span.End()

	if kind != models.EdgeFamilyCompetition && kind != models.EdgeFamilyShoot {
		return nil, fmt.Errorf("pending galleries only exist on delivery edges, got %q", kind)
	}

	pending := make([]any, 0, 3)
	for _, st := range status.PendingStates() {
		pending = append(pending, string(st))
	}

	cypher := fmt.Sprintf(`
		MATCH (f:Family)-[r:%s]->(t:%s {id: $target_id})
		WHERE r.gallery_status IN $pending
		RETURN f.id AS family_id, f.name AS family_name, t.id AS target_id, t.name AS target_name, r.gallery_status AS status
		ORDER BY f.name
	`, sanitizeLabel(string(kind)), sanitizeLabel(string(kind.TargetKind())))

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"target_id": targetID,
			"pending":   pending,
		})
		if err != nil {
			return nil, err
		}

		var rows []PendingGallery
		for result.Next(ctx) {
			record := result.Record()
			row := PendingGallery{}
			row.FamilyID = stringField(record, "family_id")
			row.FamilyName = stringField(record, "family_name")
			row.TargetID = stringField(record, "target_id")
			row.TargetName = stringField(record, "target_name")
			row.Status = stringField(record, "status")
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending galleries: %w", err)
	}
	return res.([]PendingGallery), nil
}

// StatusBreakdown summarizes delivery state for one competition or shoot.
type StatusBreakdown struct {
	Counts  map[string]int64 `json:"counts"`
	Total   int64            `json:"total"`
	Revenue float64          `json:"revenue"`
}

// DeliveryStatus returns per-status counts for the given competition or shoot,
// plus total purchase revenue.
func (s *QueryService) DeliveryStatus(ctx context.Context, kind models.EdgeKind, targetID string) (*StatusBreakdown, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.DeliveryStatus")
	defer span.End()

	if kind != models.EdgeFamilyCompetition && kind != models.EdgeFamilyShoot {
		return nil, fmt.Errorf("delivery status only exists on delivery edges, got %q", kind)
	}

	cypher := fmt.Sprintf(`
		MATCH (f:Family)-[r:%s]->(t:%s {id: $target_id})
		RETURN r.gallery_status AS status, count(r) AS n, sum(coalesce(r.purchase_amount, 0.0)) AS revenue
	`, sanitizeLabel(string(kind)), sanitizeLabel(string(kind.TargetKind())))

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"target_id": targetID})
		if err != nil {
			return nil, err
		}

		breakdown := &StatusBreakdown{Counts: make(map[string]int64)}
		for result.Next(ctx) {
			record := result.Record()
			st := stringField(record, "status")
			nVal, _ := record.Get("n")
			n, _ := nVal.(int64)
			revVal, _ := record.Get("revenue")
			rev, _ := revVal.(float64)

			if st == "" {
				st = "unset"
			}
			breakdown.Counts[st] += n
			breakdown.Total += n
			breakdown.Revenue += rev
		}
		return breakdown, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery status: %w", err)
	}
	return res.(*StatusBreakdown), nil
}

// EntityCounts returns node counts per entity kind.
func (s *QueryService) EntityCounts(ctx context.Context) (map[string]int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.QueryService.EntityCounts")
	defer span.End()

	kinds := []models.EntityKind{models.KindFamily, models.KindSkater, models.KindCompetition, models.KindEvent, models.KindShoot}

	counts := make(map[string]int64, len(kinds))
	_, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, kind := range kinds {
			cypher := fmt.Sprintf(`MATCH (e:%s) RETURN count(e) AS n`, sanitizeLabel(string(kind)))
			result, err := tx.Run(ctx, cypher, nil)
			if err != nil {
				return nil, err
			}
			if result.Next(ctx) {
				nVal, _ := result.Record().Get("n")
				n, _ := nVal.(int64)
				counts[string(kind)] = n
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	return counts, nil
}

func (s *QueryService) collectNodes(ctx context.Context, cypher string, params map[string]any, column string) ([]map[string]any, error) {
	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		var nodes []map[string]any
		for result.Next(ctx) {
			record := result.Record()
			node, ok := record.Get(column)
			if !ok {
				continue
			}
			nodes = append(nodes, node.(neo4j.Node).Props)
		}
		return nodes, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query graph: %w", err)
	}
	return res.([]map[string]any), nil
}

func stringField(record *neo4j.Record, name string) string {
	val, ok := record.Get(name)
	if !ok {
		return ""
	}
	s, _ := val.(string)
	return s
}

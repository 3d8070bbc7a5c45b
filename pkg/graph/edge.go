package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/models"
)

// GetEdge returns the properties of the edge addressed by key, or nil when no
// such edge exists.
func (g *Graph) GetEdge(ctx context.Context, key models.EdgeKey) (map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.GetEdge")
	defer span.End()

	cypher := fmt.Sprintf(`
		MATCH (from:%s {id: $source_id})-[r:%s]->(to:%s {id: $target_id})
		RETURN r
		LIMIT 1
	`, sanitizeLabel(string(key.Kind.SourceKind())), sanitizeLabel(string(key.Kind)), sanitizeLabel(string(key.Kind.TargetKind())))

	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"source_id": key.SourceID,
			"target_id": key.TargetID,
		})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, nil
		}
		record := result.Record()
		relNode, _ := record.Get("r")
		r := relNode.(neo4j.Relationship)
		return r.Props, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get edge from graph: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return res.(map[string]any), nil
}

// CreateEdge creates the edge with the given properties. MERGE keeps the edge
// unique per (kind, source, target) even under concurrent creation.
func (g *Graph) CreateEdge(ctx context.Context, key models.EdgeKey, props map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.CreateEdge")
	defer span.End()

	log := g.logger.WithContext(ctx).WithFields(map[string]any{
		"edge_kind": key.Kind,
		"source_id": key.SourceID,
		"target_id": key.TargetID,
	})

	cypher := fmt.Sprintf(`
		MATCH (from:%s {id: $source_id})
		MATCH (to:%s {id: $target_id})
		MERGE (from)-[r:%s]->(to)
		SET r += $props
		RETURN r
	`, sanitizeLabel(string(key.Kind.SourceKind())), sanitizeLabel(string(key.Kind.TargetKind())), sanitizeLabel(string(key.Kind)))

	_, err := g.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"source_id": key.SourceID,
			"target_id": key.TargetID,
			"props":     props,
		})
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary, nil
	})

	if err != nil {
		log.WithError(err).Error("Failed to create edge in graph")
		return fmt.Errorf("failed to create edge in graph: %w", err)
	}

	log.Debug("Created edge in graph")
	return nil
}

// SetEdgeFields merges changes into an existing edge. Sibling properties are
// never touched: the write is `SET r += $changes`, not a replace.
func (g *Graph) SetEdgeFields(ctx context.Context, key models.EdgeKey, changes map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.SetEdgeFields")
	defer span.End()

	log := g.logger.WithContext(ctx).WithFields(map[string]any{
		"edge_kind": key.Kind,
		"source_id": key.SourceID,
		"target_id": key.TargetID,
	})

	cypher := fmt.Sprintf(`
		MATCH (from:%s {id: $source_id})-[r:%s]->(to:%s {id: $target_id})
		SET r += $changes
		RETURN r
	`, sanitizeLabel(string(key.Kind.SourceKind())), sanitizeLabel(string(key.Kind)), sanitizeLabel(string(key.Kind.TargetKind())))

	_, err := g.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"source_id": key.SourceID,
			"target_id": key.TargetID,
			"changes":   changes,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to update edge in graph")
		return fmt.Errorf("failed to update edge in graph: %w", err)
	}

	log.Debug("Updated edge fields in graph")
	return nil
}

// ReplaceEdge deletes any edge of this kind leaving sourceID and creates one
// to targetID in a single transaction. belongs_to uses this to keep a skater
// in at most one family.
func (g *Graph) ReplaceEdge(ctx context.Context, kind models.EdgeKind, sourceID, targetID string, props map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.ReplaceEdge")
	defer span.End()

	log := g.logger.WithContext(ctx).WithFields(map[string]any{
		"edge_kind": kind,
		"source_id": sourceID,
		"target_id": targetID,
	})

	deleteCypher := fmt.Sprintf(`
		MATCH (from:%s {id: $source_id})-[r:%s]->(other:%s)
		WHERE other.id <> $target_id
		DELETE r
	`, sanitizeLabel(string(kind.SourceKind())), sanitizeLabel(string(kind)), sanitizeLabel(string(kind.TargetKind())))

	mergeCypher := fmt.Sprintf(`
		MATCH (from:%s {id: $source_id})
		MATCH (to:%s {id: $target_id})
		MERGE (from)-[r:%s]->(to)
		SET r += $props
	`, sanitizeLabel(string(kind.SourceKind())), sanitizeLabel(string(kind.TargetKind())), sanitizeLabel(string(kind)))

	_, err := g.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, deleteCypher, map[string]any{
			"source_id": sourceID,
			"target_id": targetID,
		}); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, mergeCypher, map[string]any{
			"source_id": sourceID,
			"target_id": targetID,
			"props":     props,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to replace edge in graph")
		return fmt.Errorf("failed to replace edge in graph: %w", err)
	}

	log.Debug("Replaced edge in graph")
	return nil
}

// EdgesFrom lists all edges of the given kind leaving sourceID.
func (g *Graph) EdgesFrom(ctx context.Context, kind models.EdgeKind, sourceID string) ([]models.Edge, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.EdgesFrom")
	defer span.End()

	cypher := fmt.Sprintf(`
		MATCH (from:%s {id: $id})-[r:%s]->(to:%s)
		RETURN r, to.id AS target_id
	`, sanitizeLabel(string(kind.SourceKind())), sanitizeLabel(string(kind)), sanitizeLabel(string(kind.TargetKind())))

	return g.collectEdges(ctx, kind, cypher, sourceID, true)
}

// EdgesTo lists all edges of the given kind arriving at targetID.
func (g *Graph) EdgesTo(ctx context.Context, kind models.EdgeKind, targetID string) ([]models.Edge, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.EdgesTo")
	defer span.End()

	cypher := fmt.Sprintf(`
		MATCH (from:%s)-[r:%s]->(to:%s {id: $id})
		RETURN r, from.id AS other_id
	`, sanitizeLabel(string(kind.SourceKind())), sanitizeLabel(string(kind)), sanitizeLabel(string(kind.TargetKind())))

	return g.collectEdges(ctx, kind, cypher, targetID, false)
}

func (g *Graph) collectEdges(ctx context.Context, kind models.EdgeKind, cypher, anchorID string, anchorIsSource bool) ([]models.Edge, error) {
	res, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"id": anchorID})
		if err != nil {
			return nil, err
		}

		var edges []models.Edge
		for result.Next(ctx) {
			record := result.Record()
			relNode, _ := record.Get("r")
			r := relNode.(neo4j.Relationship)

			key := models.EdgeKey{Kind: kind}
			if anchorIsSource {
				otherID, _ := record.Get("target_id")
				key.SourceID = anchorID
				key.TargetID, _ = otherID.(string)
			} else {
				otherID, _ := record.Get("other_id")
				key.SourceID, _ = otherID.(string)
				key.TargetID = anchorID
			}
			edges = append(edges, models.Edge{Key: key, Props: r.Props})
		}
		return edges, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list edges from graph: %w", err)
	}

	return res.([]models.Edge), nil
}

package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/models"
)

// TimeFormat is how timestamps are stored as node and edge properties.
const TimeFormat = "2006-01-02T15:04:05Z"

// Graph is the Neo4j-backed Store.
type Graph struct {
	client *Client
	logger ectologger.Logger
}

// NewGraph creates the graph store.
func NewGraph(client *Client, logger ectologger.Logger) *Graph {
	return &Graph{
		client: client,
		logger: logger,
	}
}

// GetEntity retrieves an entity's properties by kind and id.
func (g *Graph) GetEntity(ctx context.Context, kind models.EntityKind, id string) (map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.GetEntity")
	defer span.End()

	cypher := fmt.Sprintf(`
		MATCH (e:%s {id: $id})
		RETURN e
		LIMIT 1
	`, sanitizeLabel(string(kind)))

	result, err := g.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			record := result.Record()
			node, ok := record.Get("e")
			if !ok {
				return nil, nil
			}
			n := node.(neo4j.Node)
			return n.Props, nil
		}
		return nil, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get entity from graph: %w", err)
	}

	if result == nil {
		return nil, nil
	}

	return result.(map[string]any), nil
}

// PutEntity creates or updates an entity node. Only the given props are set;
// existing properties outside props survive.
func (g *Graph) PutEntity(ctx context.Context, kind models.EntityKind, id string, props map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Graph.PutEntity")
	defer span.End()

	log := g.logger.WithContext(ctx).WithFields(map[string]any{
		"entity_id":   id,
		"entity_kind": kind,
	})

	merged := map[string]any{"id": id}
	for k, v := range props {
		merged[k] = v
	}

	cypher := fmt.Sprintf(`
		MERGE (e:%s {id: $id})
		SET e += $props
		RETURN e
	`, sanitizeLabel(string(kind)))

	_, err := g.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"id":    id,
			"props": merged,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to create/update entity in graph")
		return fmt.Errorf("failed to create/update entity in graph: %w", err)
	}

	log.Debug("Created/updated entity in graph")
	return nil
}

// sanitizeLabel ensures the label is safe for Cypher
func sanitizeLabel(label string) string {
	// Only allow alphanumeric and underscore
	result := ""
	for _, c := range label {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result += string(c)
		}
	}
	if result == "" {
		return "Entity"
	}
	return result
}

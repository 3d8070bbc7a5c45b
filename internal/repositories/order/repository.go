// Package order persists ShootProof orders for dedupe and revenue reporting.
package order

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/8agana/photography-mind/internal/platform/database"
	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/pkg/models"
)

// Repository handles order persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new order repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByShootProofID returns the order with the given ShootProof id, or nil.
func (r *Repository) GetByShootProofID(ctx context.Context, shootProofOrderID string) (*models.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "order.Repository.GetByShootProofID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "shootproof_order_id", "family_id", "shoot_id", "amount", "order_date", "created_at", "updated_at")
	sb.From("orders")
	sb.Where(sb.Equal("shootproof_order_id", shootProofOrderID))
	sb.Limit(1)

	query, args := sb.Build()
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"shootproof_order_id": shootProofOrderID}).Error("Failed to get order")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get order")
	}
	return &order, nil
}

// Upsert inserts the order, or refreshes it when the ShootProof id is already
// known. Returns whether the row was newly inserted.
func (r *Repository) Upsert(ctx context.Context, order *models.Order) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "order.Repository.Upsert")
	defer span.End()

	// atomic upsert; (xmax = 0) reports whether the row was inserted
	query := `
		INSERT INTO orders (id, shootproof_order_id, family_id, shoot_id, amount, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (shootproof_order_id) DO UPDATE SET
			family_id = COALESCE(NULLIF(EXCLUDED.family_id, ''), orders.family_id),
			shoot_id = COALESCE(NULLIF(EXCLUDED.shoot_id, ''), orders.shoot_id),
			amount = EXCLUDED.amount,
			order_date = COALESCE(NULLIF(EXCLUDED.order_date, ''), orders.order_date),
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted
	`

	row := r.db.QueryRowxContext(ctx, query,
		order.ID, order.ShootProofOrderID, order.FamilyID, order.ShootID,
		order.Amount, order.OrderDate, order.CreatedAt, order.UpdatedAt,
	)

	var result struct {
		ID       string `db:"id"`
		Inserted bool   `db:"inserted"`
	}
	if err := row.StructScan(&result); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"shootproof_order_id": order.ShootProofOrderID}).Error("Failed to upsert order")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert order")
	}

	return result.Inserted, nil
}

// ListByFamily returns all orders recorded for a family, newest first.
func (r *Repository) ListByFamily(ctx context.Context, familyID string) ([]models.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "order.Repository.ListByFamily")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "shootproof_order_id", "family_id", "shoot_id", "amount", "order_date", "created_at", "updated_at")
	sb.From("orders")
	sb.Where(sb.Equal("family_id", familyID))
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"family_id": familyID}).Error("Failed to list orders")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list orders")
	}
	return orders, nil
}

// TotalRevenue sums the recorded order amounts for a shoot.
func (r *Repository) TotalRevenue(ctx context.Context, shootID string) (float64, error) {
	ctx, span := tracing.StartSpan(ctx, "order.Repository.TotalRevenue")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COALESCE(SUM(amount), 0) AS total")
	sb.From("orders")
	sb.Where(sb.Equal("shoot_id", shootID))

	query, args := sb.Build()
	var total float64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"shoot_id": shootID}).Error("Failed to sum shoot revenue")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to sum shoot revenue")
	}
	return total, nil
}

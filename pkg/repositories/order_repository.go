// Package repositories provides typed data access for the read paths
// that do not go through the natural-language engine, plus the
// engine-owned query history table.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/database"
	"github.com/milltech/erpchat/pkg/models"
)

// OrderRepository reads orders and their dispatch aggregates.
type OrderRepository interface {
	// FindByNumber looks up an order by display number, exact match
	// first, then case-insensitive.
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)

	// GetDispatchSummary aggregates dispatch count and weightment sums
	// for one order. Remaining quantity is computed here, at query time.
	GetDispatchSummary(ctx context.Context, orderID int64, quantityKg float64) (*models.DispatchSummary, error)
}

type orderRepository struct {
	db *database.DB
}

// NewOrderRepository creates an OrderRepository over the injected pool.
func NewOrderRepository(db *database.DB) OrderRepository {
	return &orderRepository{db: db}
}

var _ OrderRepository = (*orderRepository)(nil)

const orderByNumberSQL = `
	SELECT o.id, o.order_number, o.status, c.name AS customer_name,
	       g.name || ' ' || cd.name || ' ' || sh.name || ' ' || sz.name AS sku,
	       o.quantity_kg, o.material_status, o.expected_date
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN sku_master sk ON sk.id = o.sku_id
	JOIN grade_master g ON g.id = sk.grade_id
	JOIN condition_master cd ON cd.id = sk.condition_id
	JOIN shape_master sh ON sh.id = sk.shape_id
	JOIN size_master sz ON sz.id = sk.size_id
	WHERE %s
	LIMIT 1`

func (r *orderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := r.scanOrder(ctx, fmt.Sprintf(orderByNumberSQL, "o.order_number = $1"), orderNumber)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	// Fall back to case-insensitive equality.
	return r.scanOrder(ctx, fmt.Sprintf(orderByNumberSQL, "LOWER(o.order_number) = LOWER($1)"), orderNumber)
}

func (r *orderRepository) scanOrder(ctx context.Context, sql string, orderNumber string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, sql, orderNumber).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.CustomerName,
		&o.SKU, &o.QuantityKg, &o.MaterialStatus, &o.ExpectedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// Weightment and despatch_invoice rows attach to despatch by dispatch
// number value, not by foreign key, hence the joins on despatchno.
const dispatchSummarySQL = `
	SELECT COUNT(DISTINCT d.despatchno) AS dispatch_count,
	       COALESCE(SUM(w.weight), 0) AS total_dispatched,
	       COUNT(DISTINCT di.despatchno) AS invoiced_dispatches
	FROM despatch d
	LEFT JOIN weightment w ON w.despatchno = d.despatchno
	LEFT JOIN despatch_invoice di
	  ON di.despatchno = d.despatchno AND di.status = 'completed'
	WHERE d.order_no_id = $1`

func (r *orderRepository) GetDispatchSummary(ctx context.Context, orderID int64, quantityKg float64) (*models.DispatchSummary, error) {
	var summary models.DispatchSummary
	err := r.db.QueryRow(ctx, dispatchSummarySQL, orderID).Scan(
		&summary.DispatchCount, &summary.TotalDispatchedKg, &summary.InvoicedDispatches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch summary: %w", err)
	}
	summary.RemainingKg = quantityKg - summary.TotalDispatchedKg
	return &summary, nil
}

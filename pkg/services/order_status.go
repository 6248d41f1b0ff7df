package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/models"
	"github.com/milltech/erpchat/pkg/repositories"
)

// OrderStatusService serves the order-status-by-number read path. It
// bypasses the natural-language engine entirely: the caller already
// knows the order number, so there is nothing to classify or synthesize.
type OrderStatusService interface {
	GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderStatusView, error)
}

type orderStatusService struct {
	orders repositories.OrderRepository
	logger *zap.Logger
}

// NewOrderStatusService creates an OrderStatusService.
func NewOrderStatusService(orders repositories.OrderRepository, logger *zap.Logger) OrderStatusService {
	return &orderStatusService{
		orders: orders,
		logger: logger.Named("order_status"),
	}
}

var _ OrderStatusService = (*orderStatusService)(nil)

// fullyDispatchedToleranceKg absorbs weighbridge rounding when deciding
// whether a completed order shipped its full quantity.
const fullyDispatchedToleranceKg = 1.0

func (s *orderStatusService) GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderStatusView, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up order %s: %w", orderNumber, err)
	}

	view := &models.OrderStatusView{
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		CustomerName: order.CustomerName,
		SKU:          order.SKU,
		QuantityKg:   order.QuantityKg,
	}

	switch order.Status {
	case models.OrderStatusPending, models.OrderStatusCancelled:
		// Nothing has moved yet (or ever will): no material status,
		// no dispatch figures.
		return view, nil

	case models.OrderStatusInProgress:
		view.MaterialStatus = order.MaterialStatus
		view.ExpectedDate = order.ExpectedDate

	case models.OrderStatusCompleted:
		// Completed orders report dispatch completeness instead of
		// production detail.
	}

	dispatch, err := s.orders.GetDispatchSummary(ctx, order.ID, order.QuantityKg)
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch summary for order %s: %w", orderNumber, err)
	}
	view.Dispatch = dispatch

	if order.Status == models.OrderStatusCompleted {
		fully := dispatch.RemainingKg <= fullyDispatchedToleranceKg
		view.FullyDispatched = &fully
	}

	s.logger.Debug("order status resolved",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
		zap.Int("dispatch_count", dispatch.DispatchCount))

	return view, nil
}

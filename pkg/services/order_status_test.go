package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/models"
)

type stubOrderRepository struct {
	order    *models.Order
	dispatch *models.DispatchSummary

	findErr     error
	dispatchErr error

	dispatchCalls int
}

func (s *stubOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrderRepository) GetDispatchSummary(ctx context.Context, orderID int64, quantityKg float64) (*models.DispatchSummary, error) {
	s.dispatchCalls++
	if s.dispatchErr != nil {
		return nil, s.dispatchErr
	}
	return s.dispatch, nil
}

func strPtr(s string) *string { return &s }

func TestGetOrderStatus_NotFound(t *testing.T) {
	svc := NewOrderStatusService(&stubOrderRepository{findErr: apperrors.ErrNotFound}, zap.NewNop())

	_, err := svc.GetOrderStatus(context.Background(), "SO-9999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetOrderStatus_PendingHidesProgressFields(t *testing.T) {
	repo := &stubOrderRepository{
		order: &models.Order{
			ID: 1, OrderNumber: "SO-1001", Status: models.OrderStatusPending,
			CustomerName: "Apex Forgings", SKU: "EN8D Bright Round 25mm",
			QuantityKg:     5000,
			MaterialStatus: strPtr("Under Drawing"),
		},
	}
	svc := NewOrderStatusService(repo, zap.NewNop())

	view, err := svc.GetOrderStatus(context.Background(), "SO-1001")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, view.Status)
	assert.Nil(t, view.MaterialStatus)
	assert.Nil(t, view.ExpectedDate)
	assert.Nil(t, view.Dispatch)
	assert.Nil(t, view.FullyDispatched)
	// A pending order never touches the dispatch tables.
	assert.Zero(t, repo.dispatchCalls)
}

func TestGetOrderStatus_InProgressShowsMaterialAndDispatch(t *testing.T) {
	expected := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	repo := &stubOrderRepository{
		order: &models.Order{
			ID: 2, OrderNumber: "SO-1002", Status: models.OrderStatusInProgress,
			CustomerName: "Apex Forgings", SKU: "EN8D Bright Round 25mm",
			QuantityKg:     3000,
			MaterialStatus: strPtr("Under Drawing"),
			ExpectedDate:   &expected,
		},
		dispatch: &models.DispatchSummary{DispatchCount: 1, TotalDispatchedKg: 1200, RemainingKg: 1800},
	}
	svc := NewOrderStatusService(repo, zap.NewNop())

	view, err := svc.GetOrderStatus(context.Background(), "SO-1002")
	require.NoError(t, err)

	require.NotNil(t, view.MaterialStatus)
	assert.Equal(t, "Under Drawing", *view.MaterialStatus)
	require.NotNil(t, view.ExpectedDate)
	assert.Equal(t, expected, *view.ExpectedDate)
	require.NotNil(t, view.Dispatch)
	assert.Equal(t, 1800.0, view.Dispatch.RemainingKg)
	assert.Nil(t, view.FullyDispatched)
}

func TestGetOrderStatus_CompletedReportsFullyDispatched(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		want      bool
	}{
		{"fully shipped", 0, true},
		{"within weighbridge tolerance", 0.5, true},
		{"short shipped", 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubOrderRepository{
				order: &models.Order{
					ID: 3, OrderNumber: "SO-1003", Status: models.OrderStatusCompleted,
					CustomerName: "Sharma Auto Components", SKU: "EN1A Black Hex 32mm",
					QuantityKg:     2000,
					MaterialStatus: strPtr("Ready"),
				},
				dispatch: &models.DispatchSummary{
					DispatchCount:     2,
					TotalDispatchedKg: 2000 - tt.remaining,
					RemainingKg:       tt.remaining,
				},
			}
			svc := NewOrderStatusService(repo, zap.NewNop())

			view, err := svc.GetOrderStatus(context.Background(), "SO-1003")
			require.NoError(t, err)

			// Completed orders report dispatch completeness, not
			// production detail.
			assert.Nil(t, view.MaterialStatus)
			assert.Nil(t, view.ExpectedDate)
			require.NotNil(t, view.FullyDispatched)
			assert.Equal(t, tt.want, *view.FullyDispatched)
		})
	}
}

func TestGetOrderStatus_CancelledHidesEverything(t *testing.T) {
	repo := &stubOrderRepository{
		order: &models.Order{
			ID: 4, OrderNumber: "SO-1004", Status: models.OrderStatusCancelled,
			CustomerName: "Apex Forgings", SKU: "EN8D Bright Round 25mm", QuantityKg: 100,
		},
	}
	svc := NewOrderStatusService(repo, zap.NewNop())

	view, err := svc.GetOrderStatus(context.Background(), "SO-1004")
	require.NoError(t, err)
	assert.Nil(t, view.Dispatch)
	assert.Zero(t, repo.dispatchCalls)
}

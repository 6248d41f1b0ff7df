package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/models"
)

type stubOrderStatusService struct {
	view *models.OrderStatusView
	err  error
}

func (s *stubOrderStatusService) GetOrderStatus(ctx context.Context, orderNumber string) (*models.OrderStatusView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func newOrdersServer(svc *stubOrderStatusService) *http.ServeMux {
	mux := http.NewServeMux()
	NewOrdersHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestOrdersHandler_Status(t *testing.T) {
	fully := true
	svc := &stubOrderStatusService{
		view: &models.OrderStatusView{
			OrderNumber:  "SO-1003",
			Status:       models.OrderStatusCompleted,
			CustomerName: "Sharma Auto Components",
			SKU:          "EN1A Black Hex 32mm",
			QuantityKg:   2000,
			Dispatch: &models.DispatchSummary{
				DispatchCount:     2,
				TotalDispatchedKg: 1999.5,
				RemainingKg:       0.5,
			},
			FullyDispatched: &fully,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/SO-1003/status", nil)
	w := httptest.NewRecorder()
	newOrdersServer(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var view models.OrderStatusView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, "SO-1003", view.OrderNumber)
	assert.Equal(t, models.OrderStatusCompleted, view.Status)
	require.NotNil(t, view.Dispatch)
	assert.Equal(t, 2, view.Dispatch.DispatchCount)
	require.NotNil(t, view.FullyDispatched)
	assert.True(t, *view.FullyDispatched)
}

func TestOrdersHandler_StatusNotFound(t *testing.T) {
	svc := &stubOrderStatusService{err: apperrors.ErrNotFound}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/SO-9999/status", nil)
	w := httptest.NewRecorder()
	newOrdersServer(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "order_not_found", body["error"])
}

func TestOrdersHandler_StatusInternalError(t *testing.T) {
	svc := &stubOrderStatusService{err: errors.New("connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/SO-1001/status", nil)
	w := httptest.NewRecorder()
	newOrdersServer(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

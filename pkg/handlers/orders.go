package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/services"
)

// OrdersHandler serves the order-status-by-number read path.
type OrdersHandler struct {
	orderStatus services.OrderStatusService
	logger      *zap.Logger
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(orderStatus services.OrderStatusService, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orderStatus: orderStatus, logger: logger}
}

// RegisterRoutes registers the orders handler's routes on the given mux.
func (h *OrdersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders/{number}/status", h.Status)
}

// Status handles GET /api/orders/{number}/status requests.
func (h *OrdersHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderNumber := strings.TrimSpace(r.PathValue("number"))
	if orderNumber == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_order_number", "order number is required")
		return
	}

	view, err := h.orderStatus.GetOrderStatus(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "order_not_found",
				"no order found with number "+orderNumber)
			return
		}
		h.logger.Error("Failed to get order status",
			zap.String("order_number", orderNumber), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "order_status_failed",
			"failed to load order status")
		return
	}

	if err := WriteJSON(w, http.StatusOK, view); err != nil {
		h.logger.Error("Failed to encode order status response", zap.Error(err))
	}
}

package models

import "time"

// OrderStatus enumerates the ERP order lifecycle states.
// Production rows reuse the same underlying values but carry different
// business meaning (see the catalog's status label notes).
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is the read model behind the order-status path. The engine
// never writes order rows; the ERP owns their lifecycle.
type Order struct {
	ID             int64       `json:"id"`
	OrderNumber    string      `json:"order_number"`
	Status         OrderStatus `json:"status"`
	CustomerName   string      `json:"customer_name"`
	SKU            string      `json:"sku"`
	QuantityKg     float64     `json:"quantity_kg"`
	MaterialStatus *string     `json:"material_status,omitempty"`
	ExpectedDate   *time.Time  `json:"expected_date,omitempty"`
}

// DispatchSummary aggregates weightment rows for one order.
// TotalDispatchedKg is the sum of weightment weights across the order's
// dispatches; RemainingKg = quantity_kg - TotalDispatchedKg, computed at
// query time and never stored.
type DispatchSummary struct {
	DispatchCount     int     `json:"dispatch_count"`
	TotalDispatchedKg float64 `json:"total_dispatched_kg"`
	RemainingKg       float64 `json:"remaining_kg"`
	// InvoicedDispatches counts dispatches with a completed
	// despatch_invoice row.
	InvoicedDispatches int `json:"invoiced_dispatches"`
}

// OrderStatusView is the status-conditional presentation of one order for
// the customer-facing "get order status" read path. Fields that the
// current status hides are nil.
type OrderStatusView struct {
	OrderNumber  string      `json:"order_number"`
	Status       OrderStatus `json:"status"`
	CustomerName string      `json:"customer_name"`
	SKU          string      `json:"sku"`
	QuantityKg   float64     `json:"quantity_kg"`

	// MaterialStatus is shown only while the order is in progress.
	MaterialStatus *string `json:"material_status,omitempty"`
	// ExpectedDate is shown only while the order is in progress.
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	// Dispatch is hidden for pending orders.
	Dispatch *DispatchSummary `json:"dispatch,omitempty"`
	// FullyDispatched is reported only for completed orders.
	FullyDispatched *bool `json:"fully_dispatched,omitempty"`
}

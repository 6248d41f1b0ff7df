package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milltech/erpchat/pkg/models"
)

func TestFormatter_DirectReplyWinsOverEverything(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{
		Success:     false,
		Error:       "connection refused",
		DirectReply: "Black Bar Stock Summary",
	})

	assert.Equal(t, models.ReplyDirect, reply.Kind)
	assert.Equal(t, "Black Bar Stock Summary", reply.Text)
}

func TestFormatter_Failure(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{Success: false, Error: "relation does not exist"})

	assert.Equal(t, models.ReplyDirect, reply.Kind)
	assert.Equal(t, "Database error: relation does not exist", reply.Text)
}

func TestFormatter_EmptyResult(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{Success: true, Rows: []map[string]any{}, Count: 0})

	assert.Equal(t, models.ReplyDirect, reply.Kind)
	assert.Equal(t, "No data found for your query.", reply.Text)
}

func TestFormatter_StockShape(t *testing.T) {
	f := NewFormatter()
	res := &models.QueryResult{
		Success: true,
		Count:   3,
		Rows: []map[string]any{
			{"sku": "EN8D Bright Round 25mm", "closing_qty": 800.0, "unit": "kg", "source": "regular"},
			{"sku": "EN8D Bright Round 25mm", "closing_qty": 50.0, "unit": "kg", "source": "rejected"},
			{"sku": "EN8D Bright Round 25mm", "closing_qty": 25.0, "unit": "kg", "source": "quarantine"},
		},
		StockQuery: true,
	}

	reply := f.Format(res)
	require.Equal(t, models.ReplyDirect, reply.Kind)

	assert.True(t, strings.HasPrefix(reply.Text, "EN8D Bright Round 25mm - Stock Report"))
	assert.Contains(t, reply.Text, "Regular Stock:\n1. EN8D Bright Round 25mm: 800.00 kg")
	assert.Contains(t, reply.Text, "Rejected Stock:\n1. EN8D Bright Round 25mm: 50.00 kg")
	assert.Contains(t, reply.Text, "Quarantine Stock:\n1. EN8D Bright Round 25mm: 25.00 kg")

	// Sections render in fixed order regardless of row order.
	assert.Less(t, strings.Index(reply.Text, "Regular Stock"), strings.Index(reply.Text, "Rejected Stock"))
	assert.Less(t, strings.Index(reply.Text, "Rejected Stock"), strings.Index(reply.Text, "Quarantine Stock"))
}

func TestFormatter_StockShape_MissingSourceDefaultsToRegular(t *testing.T) {
	f := NewFormatter()
	res := &models.QueryResult{
		Success: true,
		Count:   1,
		Rows: []map[string]any{
			{"sku": "EN1A Black Hex 32mm", "closing_qty": 120.0},
		},
	}

	reply := f.Format(res)
	assert.Contains(t, reply.Text, "Regular Stock:")
	assert.Contains(t, reply.Text, "1. EN1A Black Hex 32mm: 120.00 kg")
	assert.NotContains(t, reply.Text, "Rejected Stock")
}

func TestFormatter_ProductionStatusBucketing(t *testing.T) {
	rows := []map[string]any{
		{"ppno": "PP-2602-1595", "customer_name": "Apex Forgings", "sku": "EN8D Bright Round 25mm",
			"quantity_kg": 4000.0, "status": "pending"},
		{"ppno": "PP-2602-1596", "customer_name": "Apex Forgings", "sku": "EN8D Bright Round 25mm",
			"quantity_kg": 1000.0, "status": "in_progress"},
	}

	tests := []struct {
		name     string
		question string
		ppLookup bool
		want     []string
		notWant  []string
	}{
		{
			name:     "default question buckets both into one label",
			question: "production plans for apex",
			want:     []string{"Production Not Approved"},
			notWant:  []string{"Pending", "In Progress"},
		},
		{
			name:     "completed question shows true status",
			question: "completed production for apex",
			want:     []string{"Pending", "In Progress"},
			notWant:  []string{"Production Not Approved"},
		},
		{
			name:     "exact pp lookup shows true status",
			question: "PP-2602-1595",
			ppLookup: true,
			want:     []string{"Pending", "In Progress"},
			notWant:  []string{"Production Not Approved"},
		},
	}

	f := NewFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := f.Format(&models.QueryResult{
				Success:  true,
				Count:    len(rows),
				Rows:     rows,
				Question: tt.question,
				PPLookup: tt.ppLookup,
			})
			require.Equal(t, models.ReplyDirect, reply.Kind)
			for _, s := range tt.want {
				assert.Contains(t, reply.Text, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, reply.Text, s)
			}
			assert.Contains(t, reply.Text, "Total Quantity: 5000.00 kg")
		})
	}
}

func TestFormatter_ProductionCompletedAndCancelledAlwaysLiteral(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{
		Success:  true,
		Count:    2,
		Question: "production plans",
		Rows: []map[string]any{
			{"ppno": "PP-1", "customer_name": "A", "sku": "S", "quantity_kg": 1.0, "status": "completed"},
			{"ppno": "PP-2", "customer_name": "B", "sku": "S", "quantity_kg": 2.0, "status": "cancelled"},
		},
	})

	assert.Contains(t, reply.Text, "Completed")
	assert.Contains(t, reply.Text, "Cancelled")
	assert.NotContains(t, reply.Text, "Production Not Approved")
}

func TestFormatter_SingleRecordBecomesContext(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{
		Success: true,
		Count:   1,
		Rows: []map[string]any{
			{
				"order_number": "SO-1002",
				"status":       "in_progress",
				"quantity_kg":  3000.0,
				"internal_id":  99, // not in the allow-list
			},
		},
	})

	assert.Equal(t, models.ReplyContext, reply.Kind)
	assert.Contains(t, reply.Text, "[SYSTEM: Found 1 record.")
	assert.Contains(t, reply.Text, "order_number: SO-1002")
	assert.Contains(t, reply.Text, "quantity_kg: 3000.00")
	assert.NotContains(t, reply.Text, "internal_id")
	assert.Contains(t, reply.Text, "No markdown formatting, no emoji.")
}

func TestFormatter_OrderListArithmetic(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{
		Success: true,
		Count:   2,
		Rows: []map[string]any{
			{
				"order_number": "SO-1001", "customer_name": "Apex Forgings",
				"quantity_kg": 1000.0, "total_dispatched": 300.0, "status": "in_progress",
			},
			{
				"order_number": "SO-1002", "customer_name": "Apex Forgings",
				"quantity_kg": 500.0, "total_dispatched": 500.0, "remaining_qty": 0.0, "status": "completed",
			},
		},
	})

	require.Equal(t, models.ReplyDirect, reply.Kind)
	// Remaining computed from qty - dispatched when the query did not
	// project it.
	assert.Contains(t, reply.Text, "Qty: 1000.00 kg | Dispatched: 300.00 kg | Remaining: 700.00 kg")
	assert.Contains(t, reply.Text, "Total Ordered: 1500.00 kg")
	assert.Contains(t, reply.Text, "Total Dispatched: 800.00 kg")
	assert.Contains(t, reply.Text, "Total Remaining: 700.00 kg")
}

func TestFormatter_MultiRecordFallbackBecomesContext(t *testing.T) {
	f := NewFormatter()
	reply := f.Format(&models.QueryResult{
		Success: true,
		Count:   2,
		Rows: []map[string]any{
			{"customer_name": "Apex Forgings", "quantity_kg": 100.0},
			{"customer_name": "Sharma Auto Components", "quantity_kg": 200.0},
		},
	})

	assert.Equal(t, models.ReplyContext, reply.Kind)
	assert.Contains(t, reply.Text, "[SYSTEM: Found 2 records.")
	assert.Contains(t, reply.Text, "Record 1: customer_name: Apex Forgings")
	assert.Contains(t, reply.Text, "Record 2: customer_name: Sharma Auto Components")
}

func TestFormatter_Idempotent(t *testing.T) {
	f := NewFormatter()
	res := &models.QueryResult{
		Success:  true,
		Count:    1,
		Question: "production",
		Rows: []map[string]any{
			{"ppno": "PP-1", "customer_name": "A", "sku": "S", "quantity_kg": 10.0, "status": "pending"},
		},
	}

	first := f.Format(res)
	second := f.Format(res)
	assert.Equal(t, first, second)
}

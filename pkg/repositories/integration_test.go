//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/models"
	"github.com/milltech/erpchat/pkg/testhelpers"
)

func TestOrderRepository_FindByNumber(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ApplyERPFixture(t, testDB.DB)
	repo := NewOrderRepository(testDB.DB)
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		order, err := repo.FindByNumber(ctx, "SO-1002")
		require.NoError(t, err)
		assert.Equal(t, int64(2), order.ID)
		assert.Equal(t, models.OrderStatusInProgress, order.Status)
		assert.Equal(t, "Apex Forgings", order.CustomerName)
		assert.Equal(t, "EN8D Bright Round 25mm", order.SKU)
		require.NotNil(t, order.MaterialStatus)
		assert.Equal(t, "Under Drawing", *order.MaterialStatus)
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		order, err := repo.FindByNumber(ctx, "so-1001")
		require.NoError(t, err)
		assert.Equal(t, "SO-1001", order.OrderNumber)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, "SO-9999")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestOrderRepository_GetDispatchSummary(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ApplyERPFixture(t, testDB.DB)
	repo := NewOrderRepository(testDB.DB)
	ctx := context.Background()

	t.Run("one dispatch", func(t *testing.T) {
		summary, err := repo.GetDispatchSummary(ctx, 2, 3000)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.DispatchCount)
		assert.Equal(t, 1200.0, summary.TotalDispatchedKg)
		assert.Equal(t, 1800.0, summary.RemainingKg)
		assert.Equal(t, 1, summary.InvoicedDispatches)
	})

	t.Run("two dispatches summed by despatchno value", func(t *testing.T) {
		summary, err := repo.GetDispatchSummary(ctx, 3, 2000)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.DispatchCount)
		assert.Equal(t, 1999.5, summary.TotalDispatchedKg)
		assert.Equal(t, 0.5, summary.RemainingKg)
		// DSP-502's invoice is still pending, DSP-503 has none.
		assert.Equal(t, 0, summary.InvoicedDispatches)
	})

	t.Run("no dispatches yet", func(t *testing.T) {
		summary, err := repo.GetDispatchSummary(ctx, 1, 5000)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.DispatchCount)
		assert.Equal(t, 0.0, summary.TotalDispatchedKg)
		assert.Equal(t, 5000.0, summary.RemainingKg)
	})
}

func TestQueryHistoryRepository(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewQueryHistoryRepository(testDB.DB)
	ctx := context.Background()

	entry := &models.QueryHistory{
		ID:         uuid.New(),
		Question:   "black bar stock",
		SQLQuery:   "",
		FastPath:   "bar_stock_totals",
		Success:    true,
		RowCount:   0,
		DurationMs: 12,
	}
	require.NoError(t, repo.Insert(ctx, entry))

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	found := false
	for _, e := range entries {
		if e.ID == entry.ID {
			found = true
			assert.Equal(t, "black bar stock", e.Question)
			assert.Equal(t, "bar_stock_totals", e.FastPath)
			assert.True(t, e.Success)
			assert.False(t, e.CreatedAt.IsZero())
		}
	}
	assert.True(t, found)
}

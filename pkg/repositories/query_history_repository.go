package repositories

import (
	"context"
	"fmt"

	"github.com/milltech/erpchat/pkg/database"
	"github.com/milltech/erpchat/pkg/models"
)

// QueryHistoryRepository records every answered question for audit.
type QueryHistoryRepository interface {
	Insert(ctx context.Context, entry *models.QueryHistory) error
	ListRecent(ctx context.Context, limit int) ([]models.QueryHistory, error)
}

type queryHistoryRepository struct {
	db *database.DB
}

// NewQueryHistoryRepository creates a QueryHistoryRepository.
func NewQueryHistoryRepository(db *database.DB) QueryHistoryRepository {
	return &queryHistoryRepository{db: db}
}

var _ QueryHistoryRepository = (*queryHistoryRepository)(nil)

func (r *queryHistoryRepository) Insert(ctx context.Context, entry *models.QueryHistory) error {
	query := `
		INSERT INTO erpchat_query_history (id, question, sql_query, fast_path, success, row_count, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Question, entry.SQLQuery, entry.FastPath,
		entry.Success, entry.RowCount, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query history: %w", err)
	}
	return nil
}

func (r *queryHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.QueryHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `
		SELECT id, question, sql_query, fast_path, success, row_count, duration_ms, created_at
		FROM erpchat_query_history
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query history: %w", err)
	}
	defer rows.Close()

	var entries []models.QueryHistory
	for rows.Next() {
		var e models.QueryHistory
		if err := rows.Scan(&e.ID, &e.Question, &e.SQLQuery, &e.FastPath,
			&e.Success, &e.RowCount, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

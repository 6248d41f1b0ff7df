// Package services contains the query engine: fast-path classification,
// SQL synthesis, guarded execution, result formatting and the
// order-status read path.
package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/database"
	"github.com/milltech/erpchat/pkg/logging"
	"github.com/milltech/erpchat/pkg/models"
	sqlguard "github.com/milltech/erpchat/pkg/sql"
)

// Executor is the single entry point for SQL execution in the query
// engine. Fast-path SQL is hand-written and trusted, but it still passes
// through the same gate as synthesized SQL, so the SELECT-only rule and
// the keyword blacklist are enforced exactly once, centrally.
type Executor struct {
	db     *database.DB
	logger *zap.Logger
}

// NewExecutor creates an executor over the injected pool.
func NewExecutor(db *database.DB, logger *zap.Logger) *Executor {
	return &Executor{
		db:     db,
		logger: logger.Named("executor"),
	}
}

// Execute validates and runs one SELECT statement. It never returns a Go
// error: every failure becomes a structured result so formatting always
// has a well-defined shape to branch on.
func (e *Executor) Execute(ctx context.Context, sqlQuery string, params ...any) *models.QueryResult {
	normalized, err := sqlguard.Validate(sqlQuery)
	if err != nil {
		e.logger.Warn("SQL rejected by guard",
			zap.String("query", logging.TruncateQuery(sqlQuery)),
			zap.Error(err))
		return &models.QueryResult{
			Success: false,
			Query:   sqlQuery,
			Count:   0,
			Error:   err.Error(),
		}
	}

	if dirty := sqlguard.CheckAllParameters(params); len(dirty) > 0 {
		e.logger.Warn("parameter rejected by injection screen",
			zap.Int("param_index", dirty[0].ParamIndex),
			zap.String("fingerprint", dirty[0].Fingerprint))
		return &models.QueryResult{
			Success: false,
			Query:   normalized,
			Count:   0,
			Error:   fmt.Sprintf("parameter %d failed injection screening", dirty[0].ParamIndex),
		}
	}

	rows, err := e.db.Query(ctx, normalized, params...)
	if err != nil {
		e.logger.Error("query execution failed",
			zap.String("query", logging.TruncateQuery(normalized)),
			zap.String("error", logging.SanitizeError(err)))
		return &models.QueryResult{
			Success: false,
			Query:   normalized,
			Rows:    []map[string]any{},
			Count:   0,
			Error:   err.Error(),
		}
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return &models.QueryResult{
				Success: false,
				Query:   normalized,
				Rows:    []map[string]any{},
				Count:   0,
				Error:   fmt.Sprintf("failed to read row values: %v", err),
			}
		}
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return &models.QueryResult{
			Success: false,
			Query:   normalized,
			Rows:    []map[string]any{},
			Count:   0,
			Error:   err.Error(),
		}
	}

	return &models.QueryResult{
		Success: true,
		Query:   normalized,
		Rows:    resultRows,
		Count:   len(resultRows),
	}
}

// identPattern is the shape of a plain SQL identifier. Sample refuses
// anything else rather than attempting to quote.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Sample returns up to limit rows from one table. Debug tooling only.
// The limit is a validated integer interpolated into the SQL text; this
// is the one sanctioned interpolation in the engine.
func (e *Executor) Sample(ctx context.Context, table string, limit int) *models.QueryResult {
	if !identPattern.MatchString(table) {
		return &models.QueryResult{
			Success: false,
			Count:   0,
			Error:   fmt.Sprintf("invalid table name %q", table),
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return e.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit))
}

// normalizeValue converts driver-specific value types into plain Go
// values so the formatter never sees pgtype wrappers.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}

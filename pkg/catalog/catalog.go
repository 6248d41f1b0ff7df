// Package catalog introspects the fixed set of ERP business tables and
// renders a schema description for prompt construction.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/apperrors"
	"github.com/milltech/erpchat/pkg/database"
)

// erpTables is the fixed, hardcoded list of tables the engine knows
// about. Anything else in the store is invisible to synthesis.
var erpTables = []string{
	"orders",
	"customers",
	"despatch",
	"weightment",
	"despatch_invoice",
	"production",
	"stock_register",
	"stock_rejected",
	"stock_quarantine",
	"sku_master",
	"grade_master",
	"condition_master",
	"shape_master",
	"size_master",
}

// Column is one introspected column of a business table.
type Column struct {
	Name     string
	DataType string
	Nullable bool
	KeyRole  string // "PRIMARY KEY", "FOREIGN KEY" or ""
}

// Catalog fetches table metadata from the ERP store. Results are built
// fresh per call; there is no persisted cache.
type Catalog struct {
	db     *database.DB
	logger *zap.Logger
}

// New creates a schema catalog over the given pool.
func New(db *database.DB, logger *zap.Logger) *Catalog {
	return &Catalog{
		db:     db,
		logger: logger.Named("catalog"),
	}
}

const columnsQuery = `
	SELECT c.table_name, c.column_name, c.data_type, c.is_nullable,
	       COALESCE(tc.constraint_type, '') AS key_role
	FROM information_schema.columns c
	LEFT JOIN information_schema.key_column_usage kcu
	  ON kcu.table_schema = c.table_schema
	 AND kcu.table_name = c.table_name
	 AND kcu.column_name = c.column_name
	LEFT JOIN information_schema.table_constraints tc
	  ON tc.table_schema = kcu.table_schema
	 AND tc.constraint_name = kcu.constraint_name
	 AND tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY')
	WHERE c.table_schema = 'public' AND c.table_name = ANY($1)
	ORDER BY c.table_name, c.ordinal_position`

// Describe introspects the business tables and returns a formatted text
// block for direct inclusion in a synthesis prompt. A metadata fetch
// failure is fatal for the request: callers must not synthesize SQL
// without a schema.
func (c *Catalog) Describe(ctx context.Context) (string, error) {
	rows, err := c.db.Query(ctx, columnsQuery, erpTables)
	if err != nil {
		c.logger.Error("schema introspection failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", apperrors.ErrSchemaUnavailable, err)
	}
	defer rows.Close()

	tables := make(map[string][]Column)
	for rows.Next() {
		var (
			tableName, columnName, dataType, isNullable, keyRole string
		)
		if err := rows.Scan(&tableName, &columnName, &dataType, &isNullable, &keyRole); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrSchemaUnavailable, err)
		}
		tables[tableName] = append(tables[tableName], Column{
			Name:     columnName,
			DataType: dataType,
			Nullable: isNullable == "YES",
			KeyRole:  keyRole,
		})
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrSchemaUnavailable, err)
	}

	return Render(tables), nil
}

// Render formats introspected columns plus the static relationship notes
// into the prompt text block. Split out from Describe so formatting is
// testable without a database.
func Render(tables map[string][]Column) string {
	var b strings.Builder

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString(fmt.Sprintf("### %s\n", name))
		for _, col := range tables[name] {
			flags := ""
			switch col.KeyRole {
			case "PRIMARY KEY":
				flags = " [PK]"
			case "FOREIGN KEY":
				flags = " [FK]"
			}
			nullable := "NOT NULL"
			if col.Nullable {
				nullable = "nullable"
			}
			b.WriteString(fmt.Sprintf("- %s (%s, %s)%s\n", col.Name, col.DataType, nullable, flags))
		}
		b.WriteString("\n")
	}

	b.WriteString(staticNotes)
	return b.String()
}

// staticNotes carries the cross-table relationship knowledge that
// information_schema cannot express. These are constants of the ERP's
// design, not introspected facts.
const staticNotes = `### Relationships and conventions

- despatch.order_no_id references orders.id. despatch.despatchno is the dispatch display key.
- weightment and despatch_invoice attach to despatch by despatchno VALUE match, not by foreign key.
- A despatch_invoice row with status = 'completed' means the dispatch is fully invoiced.
- Total dispatched for an order = SUM(weightment.weight) over its dispatches. Remaining = orders.quantity_kg - that sum.
- SKU description is composed, never stored: grade_master.name || ' ' || condition_master.name || ' ' || shape_master.name || ' ' || size_master.name, joined through sku_master.
- sku_master.is_blackbar = 1 means Black Bar, 0 means Bright Bar.
- production keys off ppno / ppnoreference; orders key off order_number.
- production status display labels: pending and in_progress both show as "Production Not Approved"; completed as "Completed"; cancelled as "Cancelled".
- orders.marketing_person is the row-ownership field for access scoping.
- All table names are lowercase exactly as written above; do not capitalize them.
`

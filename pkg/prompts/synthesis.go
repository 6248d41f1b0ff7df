// Package prompts builds the SQL synthesis prompt from typed inputs.
// Synthesis logic stays testable because the prompt is assembled from a
// value object only at the generation boundary.
package prompts

import (
	"fmt"
	"strings"

	"github.com/milltech/erpchat/pkg/models"
)

// SystemMessage is the fixed system prompt for SQL synthesis.
const SystemMessage = `You are a PostgreSQL query generator for a steel bar manufacturing ERP database. ` +
	`Respond with exactly one SELECT statement and nothing else: no explanation, no markdown, no comments.`

// SynthesisSpec carries everything the synthesis prompt needs, as data.
// Assemble it into a string with Build only when calling the backend.
type SynthesisSpec struct {
	Question    string
	ScopeValues []string               // marketing person access scope; empty = unrestricted
	Customer    *models.CustomerMatch  // pre-resolved customer filter, may be nil
	SchemaText  string                 // catalog output
}

// ScopeClause renders the row-level security clause for the order and
// production tables. Returns "" for an empty scope (admin mode). Values
// are escaped by doubling single quotes.
func ScopeClause(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("marketing_person = '%s'", EscapeLiteral(values[0]))
	default:
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + EscapeLiteral(v) + "'"
		}
		return fmt.Sprintf("marketing_person IN (%s)", strings.Join(quoted, ", "))
	}
}

// EscapeLiteral doubles single quotes for embedding a value in a SQL
// string literal.
func EscapeLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// Build assembles the full synthesis prompt.
func (s *SynthesisSpec) Build() string {
	var b strings.Builder

	b.WriteString("Generate a PostgreSQL SELECT statement for the question at the end.\n\n")

	if clause := ScopeClause(s.ScopeValues); clause != "" {
		b.WriteString("## Security requirement (non-negotiable)\n\n")
		b.WriteString("The requesting user may only see rows they own. Every query that reads the orders or production table MUST include this condition in its WHERE clause:\n\n")
		b.WriteString("    " + clause + "\n\n")
	}

	if s.Customer != nil && len(s.Customer.Matches) > 0 {
		b.WriteString("## Pre-resolved customer filter\n\n")
		b.WriteString(fmt.Sprintf("The word %q in the question refers to these customers. Filter by customer id, not by name:\n", s.Customer.Keyword))
		for _, c := range s.Customer.Matches {
			b.WriteString(fmt.Sprintf("- id %d: %s\n", c.ID, c.Name))
		}
		ids := make([]string, len(s.Customer.Matches))
		for i, c := range s.Customer.Matches {
			ids[i] = fmt.Sprintf("%d", c.ID)
		}
		b.WriteString(fmt.Sprintf("\nUse: customer_id IN (%s)\n\n", strings.Join(ids, ", ")))
	}

	b.WriteString("## Database schema\n\n")
	b.WriteString(s.SchemaText)
	b.WriteString("\n")

	b.WriteString("## Rules\n\n")
	for i, rule := range synthesisRules {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	b.WriteString("\n")

	b.WriteString("## Example\n\n")
	b.WriteString("Question: pending orders for customer id 42\n")
	b.WriteString("SQL:\n")
	b.WriteString(exampleSQL)
	b.WriteString("\n\n")

	b.WriteString("## Question\n\n")
	b.WriteString(s.Question)
	b.WriteString("\n")

	return b.String()
}

var synthesisRules = []string{
	"Generate exactly one SELECT statement. Never INSERT, UPDATE, DELETE or any other statement type.",
	"Use the exact lowercase table names from the schema above; they are not capitalized.",
	"Always join customers for the customer name, and grade_master/condition_master/shape_master/size_master via sku_master for the SKU description.",
	"Total dispatched quantity for an order is SUM(weightment.weight) over the order's despatch rows joined by despatch number; never read a stored total.",
	"Remaining quantity is orders.quantity_kg minus that sum, computed in the query.",
	"Field names differ across tables: despatch uses despatchno and order_no_id; production keys off ppno and ppnoreference.",
	"Do not add a LIMIT clause; the full result set is wanted.",
	"When the question says \"pending\", filter status IN ('pending', 'in_progress'). \"in_progress\" and \"completed\" are exact matches.",
}

const exampleSQL = `SELECT o.order_number, c.name AS customer_name,
       g.name || ' ' || cd.name || ' ' || sh.name || ' ' || sz.name AS sku,
       o.quantity_kg, o.status, o.po_number
FROM orders o
JOIN customers c ON c.id = o.customer_id
JOIN sku_master sk ON sk.id = o.sku_id
JOIN grade_master g ON g.id = sk.grade_id
JOIN condition_master cd ON cd.id = sk.condition_id
JOIN shape_master sh ON sh.id = sk.shape_id
JOIN size_master sz ON sz.id = sk.size_id
WHERE o.customer_id IN (42)
  AND o.status IN ('pending', 'in_progress')
ORDER BY o.created_at DESC`

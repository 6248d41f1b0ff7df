package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/milltech/erpchat/pkg/models"
)

// Formatter classifies the shape of a query result and renders either
// ready-to-send text or a context block for a downstream generation
// call. It is pure: the same result always renders to identical bytes.
type Formatter struct{}

// NewFormatter creates the result formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// essentialFields is the allow-list for generic record rendering, in
// display order. Anything outside this list stays out of the context
// block no matter what the query selected.
var essentialFields = []string{
	"order_number", "status", "customer_name", "sku", "material_status",
	"po_number", "po_date", "expected_date", "quantity_kg", "material",
	"rate", "payment_terms", "delivery_address", "total_dispatched",
	"remaining_qty", "dispatch_count", "despatchno", "weightment_weight",
	"actual_time",
}

// Format renders a query result. Classification precedence, first match
// wins:
//  1. fast-path direct reply
//  2. failure
//  3. empty result
//  4. stock shape
//  5. production shape
//  6. single generic record (deferred to a generation pass)
//  7. order list
//  8. SKU list
//  9. fallback multi-record (deferred to a generation pass)
func (f *Formatter) Format(res *models.QueryResult) models.Reply {
	switch {
	case res.DirectReply != "":
		return models.Reply{Kind: models.ReplyDirect, Text: res.DirectReply}

	case !res.Success:
		return models.Reply{
			Kind: models.ReplyDirect,
			Text: fmt.Sprintf("Database error: %s", res.Error),
		}

	case res.Count == 0:
		return models.Reply{Kind: models.ReplyDirect, Text: "No data found for your query."}

	case res.StockQuery || anyRowHas(res.Rows, "closing_qty"):
		return models.Reply{Kind: models.ReplyDirect, Text: f.renderStock(res)}

	case res.PPLookup || anyRowHas(res.Rows, "ppno"):
		return models.Reply{Kind: models.ReplyDirect, Text: f.renderProduction(res)}

	case res.Count == 1:
		return models.Reply{Kind: models.ReplyContext, Text: f.renderSingleRecord(res.Rows[0])}

	case anyRowHas(res.Rows, "order_number"):
		return models.Reply{Kind: models.ReplyDirect, Text: f.renderOrderList(res)}

	case (anyRowHas(res.Rows, "sku") || anyRowHas(res.Rows, "sku_name")) && !anyRowHas(res.Rows, "closing_qty"):
		return models.Reply{Kind: models.ReplyDirect, Text: f.renderSKUList(res)}

	default:
		return models.Reply{Kind: models.ReplyContext, Text: f.renderMultiRecord(res)}
	}
}

// --- stock shape ---

var stockSections = []struct {
	source string
	label  string
}{
	{"regular", "Regular Stock"},
	{"rejected", "Rejected Stock"},
	{"quarantine", "Quarantine Stock"},
}

func (f *Formatter) renderStock(res *models.QueryResult) string {
	var b strings.Builder

	header := stringField(res.Rows[0], "sku")
	if header == "" {
		header = stringField(res.Rows[0], "sku_name")
	}
	if header == "" {
		header = "Stock"
	}
	b.WriteString(fmt.Sprintf("%s - Stock Report\n", header))

	for _, section := range stockSections {
		var lines []string
		n := 0
		for _, row := range res.Rows {
			source := stringField(row, "source")
			if source == "" {
				source = "regular"
			}
			if source != section.source {
				continue
			}
			n++
			item := stringField(row, "sku")
			if item == "" {
				item = stringField(row, "sku_name")
			}
			qty, _ := toFloat64(row["closing_qty"])
			unit := stringField(row, "unit")
			if unit == "" {
				unit = "kg"
			}
			line := fmt.Sprintf("%d. %s: %.2f %s", n, item, qty, unit)
			if date := dateField(row, "updated_at"); date != "" {
				line += fmt.Sprintf(" (as of %s)", date)
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s:\n", section.label))
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// --- production shape ---

func (f *Formatter) renderProduction(res *models.QueryResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Production Plans (%d)\n\n", res.Count))

	var totalQty float64
	for i, row := range res.Rows {
		qty, _ := toFloat64(row["quantity_kg"])
		totalQty += qty

		label := productionStatusLabel(stringField(row, "status"), res.Question, res.PPLookup)
		b.WriteString(fmt.Sprintf("%d. %s | %s | %s | %.2f kg | %s\n",
			i+1,
			stringField(row, "ppno"),
			stringField(row, "customer_name"),
			stringField(row, "sku"),
			qty,
			label))
	}

	b.WriteString(fmt.Sprintf("\nTotal Quantity: %.2f kg", totalQty))
	return b.String()
}

// productionStatusLabel maps a row status to its display label. Pending
// and in-progress collapse into one bucket label unless the question
// explicitly asked for completed/cancelled rows, or the row came from
// the exact-PP-number lookup; those cases show the true status.
func productionStatusLabel(status, question string, ppLookup bool) string {
	switch models.OrderStatus(status) {
	case models.OrderStatusCompleted:
		return "Completed"
	case models.OrderStatusCancelled:
		return "Cancelled"
	default:
		lower := strings.ToLower(question)
		if ppLookup || strings.Contains(lower, "completed") || strings.Contains(lower, "cancel") {
			return titleStatus(status)
		}
		return "Production Not Approved"
	}
}

func titleStatus(status string) string {
	words := strings.Split(strings.ReplaceAll(status, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// --- generic single record ---

func (f *Formatter) renderSingleRecord(row map[string]any) string {
	return fmt.Sprintf("[SYSTEM: Found 1 record. DATA: %s. %s]",
		renderEssentialFields(row), presentationInstruction)
}

const presentationInstruction = "Present this data to the user as plain readable text. No markdown formatting, no emoji."

func renderEssentialFields(row map[string]any) string {
	var parts []string
	for _, field := range essentialFields {
		v, ok := row[field]
		if !ok || v == nil {
			continue
		}
		s := formatValue(v)
		if s == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, s))
	}
	return strings.Join(parts, "; ")
}

// --- order list ---

func (f *Formatter) renderOrderList(res *models.QueryResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Orders (%d)\n", res.Count))

	var totalOrdered, totalDispatched, totalRemaining float64
	for i, row := range res.Rows {
		qty, _ := toFloat64(row["quantity_kg"])
		dispatched, _ := toFloat64(row["total_dispatched"])
		remaining, hasRemaining := toFloat64(row["remaining_qty"])
		if !hasRemaining {
			remaining = qty - dispatched
		}
		totalOrdered += qty
		totalDispatched += dispatched
		totalRemaining += remaining

		b.WriteString(fmt.Sprintf("\n%d. %s | %s\n", i+1,
			stringField(row, "order_number"),
			stringField(row, "customer_name")))
		if sku := stringField(row, "sku"); sku != "" {
			b.WriteString(fmt.Sprintf("   SKU: %s\n", sku))
		}
		if material := stringField(row, "material"); material != "" {
			b.WriteString(fmt.Sprintf("   Material: %s\n", material))
		}
		b.WriteString(fmt.Sprintf("   Qty: %.2f kg | Dispatched: %.2f kg | Remaining: %.2f kg\n",
			qty, dispatched, remaining))
		statusLine := fmt.Sprintf("   Status: %s", stringField(row, "status"))
		if po := stringField(row, "po_number"); po != "" {
			statusLine += fmt.Sprintf(" | PO: %s", po)
		}
		b.WriteString(statusLine + "\n")
	}

	b.WriteString(fmt.Sprintf("\nTotal Ordered: %.2f kg\n", totalOrdered))
	b.WriteString(fmt.Sprintf("Total Dispatched: %.2f kg\n", totalDispatched))
	b.WriteString(fmt.Sprintf("Total Remaining: %.2f kg", totalRemaining))
	return b.String()
}

// --- SKU list ---

func (f *Formatter) renderSKUList(res *models.QueryResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("SKUs (%d)\n", res.Count))

	for i, row := range res.Rows {
		name := stringField(row, "sku")
		if name == "" {
			name = stringField(row, "sku_name")
		}
		line := fmt.Sprintf("%d. %s", i+1, name)
		if desc := stringField(row, "description"); desc != "" {
			line += " - " + desc
		}
		var extras []string
		if unit := stringField(row, "unit"); unit != "" {
			extras = append(extras, unit)
		}
		if category := stringField(row, "category"); category != "" {
			extras = append(extras, category)
		}
		if len(extras) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(extras, ", "))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- fallback multi-record ---

func (f *Formatter) renderMultiRecord(res *models.QueryResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[SYSTEM: Found %d records. DATA: ", res.Count))
	for i, row := range res.Rows {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(fmt.Sprintf("Record %d: %s", i+1, renderEssentialFields(row)))
	}
	b.WriteString(". " + presentationInstruction + "]")
	return b.String()
}

// --- value helpers ---

func anyRowHas(rows []map[string]any, field string) bool {
	for _, row := range rows {
		if _, ok := row[field]; ok {
			return true
		}
	}
	return false
}

func stringField(row map[string]any, field string) string {
	v, ok := row[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func dateField(row map[string]any, field string) string {
	v, ok := row[field]
	if !ok || v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("%v", v)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return fmt.Sprintf("%.2f", t)
	case float32:
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

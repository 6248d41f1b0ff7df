package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/models"
)

// FastPath is one recognized question shape: a predicate and the handler
// that answers it with hand-built parameterized SQL, bypassing the
// language model entirely.
type FastPath struct {
	Name   string
	Match  func(question string) bool
	Handle func(ctx context.Context, question string, scope []string) *models.QueryResult
}

// Classifier evaluates the fast-paths in a fixed order. The order is
// load-bearing: later patterns assume earlier ones did not match (the
// production check must run before the SKU check so "pp-2602 production
// pending" is not read as a SKU code).
type Classifier struct {
	executor *Executor
	resolver *Resolver
	logger   *zap.Logger
	paths    []FastPath
}

// NewClassifier builds the classifier with its ordered path list.
func NewClassifier(executor *Executor, resolver *Resolver, logger *zap.Logger) *Classifier {
	c := &Classifier{
		executor: executor,
		resolver: resolver,
		logger:   logger.Named("fastpath"),
	}
	c.paths = []FastPath{
		{Name: "bar_stock_totals", Match: matchBarStockTotals, Handle: c.handleBarStockTotals},
		{Name: "pp_lookup", Match: matchPPLookup, Handle: c.handlePPLookup},
		{Name: "production_listing", Match: matchProductionListing, Handle: c.handleProductionListing},
		{Name: "sku_stock", Match: matchSKUStock, Handle: c.handleSKUStock},
	}
	return c
}

// Paths exposes the ordered list for inspection and tests.
func (c *Classifier) Paths() []FastPath {
	return c.paths
}

// Classify tries each fast-path in order. Returns the result and the
// matched path name, or (nil, "") when no path matched and the question
// should fall through to SQL synthesis.
func (c *Classifier) Classify(ctx context.Context, question string, scope []string) (*models.QueryResult, string) {
	lower := strings.ToLower(strings.TrimSpace(question))
	for _, path := range c.paths {
		if !path.Match(lower) {
			continue
		}
		c.logger.Info("fast-path matched",
			zap.String("path", path.Name))
		return path.Handle(ctx, question, scope), path.Name
	}
	return nil, ""
}

// --- predicates ---

var ppPattern = regexp.MustCompile(`(?i)\bpp[-\s]\d{4}[-\s]\d+\b`)

var barTotalWords = map[string]struct{}{
	"total": {},
	"grand": {},
	"all":   {},
}

func matchBarStockTotals(q string) bool {
	if strings.Contains(q, "black bar") || strings.Contains(q, "bright bar") {
		return true
	}
	// "total stock", "grand total stock", "all stock" with no bar word:
	// grand total of both product lines. The trigger word must be a
	// standalone token next to "stock", so "smalley" or an "all" that
	// modifies something else in the sentence does not claim the question.
	words := strings.Fields(q)
	for i := range words {
		words[i] = strings.Trim(words[i], ".,?!:;")
	}
	for i, w := range words {
		if w != "stock" {
			continue
		}
		if i > 0 {
			if _, ok := barTotalWords[words[i-1]]; ok {
				return true
			}
		}
		if i+1 < len(words) {
			if _, ok := barTotalWords[words[i+1]]; ok {
				return true
			}
		}
	}
	return false
}

func matchPPLookup(q string) bool {
	return ppPattern.MatchString(q)
}

func matchProductionListing(q string) bool {
	return strings.Contains(q, "production")
}

// skuShapePattern is alphanumeric groups joined by 1-8 dash/space
// separators, e.g. "en8d bright round 25-mm" or "32-5-EN1A".
var skuShapePattern = regexp.MustCompile(`^[a-z0-9]+(?:[-\s][a-z0-9]+){1,8}$`)

// skuStopWords extends the resolver stop set with company-suffix
// vocabulary. A candidate SKU containing any of these is a
// natural-language sentence, not a SKU code. Documented limitation: a
// real SKU that happens to contain one of these words is misrouted to
// the general AI path.
var skuStopWords = func() map[string]struct{} {
	extra := []string{
		"ltd", "limited", "pvt", "private", "inc", "corp", "llp", "co",
		"company", "industries", "enterprises", "traders", "steels",
		"of", "in", "on", "at", "to", "is", "it", "my", "me", "our", "your",
	}
	set := make(map[string]struct{}, len(resolverStopWords)+len(extra))
	for w := range resolverStopWords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		set[w] = struct{}{}
	}
	return set
}()

func matchSKUStock(q string) bool {
	stripped, hadStock := stripStockWord(q)
	if stripped == "" {
		return false
	}
	for _, word := range strings.Fields(stripped) {
		if _, stop := skuStopWords[word]; stop {
			return false
		}
	}
	return hadStock || skuShapePattern.MatchString(stripped)
}

// stripStockWord removes one leading or trailing "stock" word and
// reports whether it was there.
func stripStockWord(q string) (string, bool) {
	had := false
	if rest, ok := strings.CutPrefix(q, "stock "); ok {
		q, had = rest, true
	}
	if rest, ok := strings.CutSuffix(q, " stock"); ok {
		q, had = rest, true
	}
	if q == "stock" {
		return "", true
	}
	return strings.TrimSpace(q), had
}

// --- shared SQL fragments ---

// skuExpr composes the SKU description; it is never a stored column.
const skuExpr = "g.name || ' ' || cd.name || ' ' || sh.name || ' ' || sz.name"

const skuJoins = `JOIN grade_master g ON g.id = sk.grade_id
	JOIN condition_master cd ON cd.id = sk.condition_id
	JOIN shape_master sh ON sh.id = sk.shape_id
	JOIN size_master sz ON sz.id = sk.size_id`

var stockTables = []struct {
	table  string
	source string
}{
	{"stock_register", "regular"},
	{"stock_rejected", "rejected"},
	{"stock_quarantine", "quarantine"},
}

// --- bar-type stock totals ---

const (
	barFlagBlack  = 1
	barFlagBright = 0
)

type barTotals struct {
	regular    float64
	rejected   float64
	quarantine float64
}

func (t barTotals) total() float64 {
	return t.regular + t.rejected + t.quarantine
}

func (c *Classifier) handleBarStockTotals(ctx context.Context, question string, _ []string) *models.QueryResult {
	lower := strings.ToLower(question)
	wantBlack := strings.Contains(lower, "black bar")
	wantBright := strings.Contains(lower, "bright bar")
	if !wantBlack && !wantBright {
		// total/grand/all stock with no bar word: both lines.
		wantBlack, wantBright = true, true
	}
	grand := wantBlack && wantBright

	var b strings.Builder
	var grandTotal float64

	if wantBlack {
		totals, failed := c.sumBarStock(ctx, barFlagBlack)
		if failed != nil {
			return failed
		}
		writeBarSummary(&b, "Black Bar", totals)
		grandTotal += totals.total()
	}
	if wantBright {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		totals, failed := c.sumBarStock(ctx, barFlagBright)
		if failed != nil {
			return failed
		}
		writeBarSummary(&b, "Bright Bar", totals)
		grandTotal += totals.total()
	}
	if grand {
		b.WriteString(fmt.Sprintf("\nGrand Total Stock: %.2f kg\n", grandTotal))
	}

	return &models.QueryResult{
		Success:     true,
		Rows:        []map[string]any{},
		Count:       0,
		Question:    question,
		DirectReply: strings.TrimRight(b.String(), "\n"),
	}
}

// sumBarStock sums closing_qty across the three stock tables for one bar
// type. The tables are disjoint, so the three queries run concurrently
// and merge by table identity, not arrival order.
func (c *Classifier) sumBarStock(ctx context.Context, barFlag int) (barTotals, *models.QueryResult) {
	results := make([]*models.QueryResult, len(stockTables))
	var wg sync.WaitGroup
	for i, st := range stockTables {
		wg.Add(1)
		go func(i int, table string) {
			defer wg.Done()
			sql := fmt.Sprintf(`
				SELECT COALESCE(SUM(s.closing_qty), 0) AS total
				FROM %s s
				JOIN sku_master sk ON sk.id = s.sku_id
				WHERE sk.is_blackbar = $1`, table)
			results[i] = c.executor.Execute(ctx, sql, barFlag)
		}(i, st.table)
	}
	wg.Wait()

	var totals barTotals
	sums := make([]float64, len(results))
	for i, res := range results {
		if !res.Success {
			return barTotals{}, res
		}
		if len(res.Rows) > 0 {
			sums[i], _ = toFloat64(res.Rows[0]["total"])
		}
	}
	totals.regular, totals.rejected, totals.quarantine = sums[0], sums[1], sums[2]
	return totals, nil
}

func writeBarSummary(b *strings.Builder, barName string, t barTotals) {
	b.WriteString(fmt.Sprintf("%s Stock Summary\n", barName))
	b.WriteString(fmt.Sprintf("- Regular Stock: %.2f kg\n", t.regular))
	b.WriteString(fmt.Sprintf("- Rejected Stock: %.2f kg\n", t.rejected))
	b.WriteString(fmt.Sprintf("- Quarantine Stock: %.2f kg\n", t.quarantine))
	b.WriteString(fmt.Sprintf("Total Stock: %.2f kg\n", t.total()))
}

// --- production-plan exact lookup ---

var ppSeparators = regexp.MustCompile(`\s+`)

func (c *Classifier) handlePPLookup(ctx context.Context, question string, scope []string) *models.QueryResult {
	raw := ppPattern.FindString(question)
	ppno := strings.ToUpper(ppSeparators.ReplaceAllString(raw, "-"))

	conditions := []string{"(p.ppno = $1 OR p.ppnoreference = $1 OR p.ppno ILIKE '%' || $1 || '%')"}
	params := []any{ppno}
	if len(scope) > 0 {
		params = append(params, scope)
		conditions = append(conditions, fmt.Sprintf("p.marketing_person = ANY($%d)", len(params)))
	}

	sql := fmt.Sprintf(`
		SELECT p.ppno, p.ppnoreference, c.name AS customer_name,
		       %s AS sku, p.quantity_kg, p.status, p.created_at
		FROM production p
		JOIN customers c ON c.id = p.customer_id
		JOIN sku_master sk ON sk.id = p.sku_id
		%s
		WHERE %s
		ORDER BY p.created_at DESC`, skuExpr, skuJoins, strings.Join(conditions, " AND "))

	res := c.executor.Execute(ctx, sql, params...)
	if !res.Success {
		return res
	}
	res.Question = question
	if res.Count == 0 {
		res.DirectReply = fmt.Sprintf("Production plan %s not found.\nPlease check the PP number and try again.", ppno)
		return res
	}
	// Exact lookups show the row's literal status, not the bucket label.
	res.PPLookup = true
	return res
}

// --- production status listing ---

func productionStatusSet(q string) []string {
	switch {
	case strings.Contains(q, "completed"):
		return []string{string(models.OrderStatusCompleted)}
	case strings.Contains(q, "cancel"):
		return []string{string(models.OrderStatusCancelled)}
	default:
		return []string{string(models.OrderStatusPending), string(models.OrderStatusInProgress)}
	}
}

func (c *Classifier) handleProductionListing(ctx context.Context, question string, scope []string) *models.QueryResult {
	statuses := productionStatusSet(strings.ToLower(question))

	conditions := []string{"p.status = ANY($1)"}
	params := []any{statuses}

	if match := c.resolver.FindCustomerInQuestion(ctx, question); match != nil {
		params = append(params, match.IDs())
		conditions = append(conditions, fmt.Sprintf("p.customer_id = ANY($%d)", len(params)))
	}
	if len(scope) > 0 {
		params = append(params, scope)
		conditions = append(conditions, fmt.Sprintf("p.marketing_person = ANY($%d)", len(params)))
	}

	sql := fmt.Sprintf(`
		SELECT p.ppno, c.name AS customer_name, %s AS sku,
		       p.quantity_kg, p.status, p.created_at
		FROM production p
		JOIN customers c ON c.id = p.customer_id
		JOIN sku_master sk ON sk.id = p.sku_id
		%s
		WHERE %s
		ORDER BY p.created_at DESC`, skuExpr, skuJoins, strings.Join(conditions, " AND "))

	res := c.executor.Execute(ctx, sql, params...)
	res.Question = question
	return res
}

// --- stock-by-SKU lookup ---

func (c *Classifier) handleSKUStock(ctx context.Context, question string, _ []string) *models.QueryResult {
	keyword, _ := stripStockWord(strings.ToLower(strings.TrimSpace(question)))

	results := make([]*models.QueryResult, len(stockTables))
	var wg sync.WaitGroup
	for i, st := range stockTables {
		wg.Add(1)
		go func(i int, table string) {
			defer wg.Done()
			sql := fmt.Sprintf(`
				SELECT %s AS sku, s.closing_qty, s.unit, s.updated_at
				FROM %s s
				JOIN sku_master sk ON sk.id = s.sku_id
				%s
				WHERE %s ILIKE '%%' || $1 || '%%'
				ORDER BY sku`, skuExpr, table, skuJoins, skuExpr)
			results[i] = c.executor.Execute(ctx, sql, keyword)
		}(i, st.table)
	}
	wg.Wait()

	combined := &models.QueryResult{
		Success:    true,
		Rows:       []map[string]any{},
		Question:   question,
		StockQuery: true,
	}
	// Merge in fixed table order so output is deterministic.
	for i, res := range results {
		if !res.Success {
			return res
		}
		for _, row := range res.Rows {
			row["source"] = stockTables[i].source
			combined.Rows = append(combined.Rows, row)
		}
	}
	combined.Count = len(combined.Rows)
	return combined
}

// toFloat64 coerces the numeric shapes pgx hands back.
func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

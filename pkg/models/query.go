package models

// QueryResult is the ephemeral result of one natural-language query.
// It lives for the duration of a single request; nothing in this
// subsystem persists it (the audit trail stores a summary, not rows).
type QueryResult struct {
	Success bool             `json:"success"`
	Query   string           `json:"query,omitempty"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`
	Error   string           `json:"error,omitempty"`

	// Question is the original free-text question, kept so the formatter
	// can honor status wording the caller asked for.
	Question string `json:"-"`

	// DirectReply, when set, is ready-to-send text built by a fast-path.
	// It bypasses all formatter shape classification.
	DirectReply string `json:"-"`

	// StockQuery marks results from the stock fast-paths so the formatter
	// picks the stock rendering even when closing_qty is absent.
	StockQuery bool `json:"-"`

	// PPLookup marks results from the exact production-plan lookup.
	// Rows from that path show their literal status instead of the
	// bucketed display label.
	PPLookup bool `json:"-"`
}

// ReplyKind distinguishes formatter output that is ready to deliver
// verbatim from output meant as context for a downstream generation call.
type ReplyKind string

const (
	// ReplyDirect is sent to the end user as-is, no generation pass.
	ReplyDirect ReplyKind = "direct"
	// ReplyContext is concatenated onto the user's message before a
	// further generation call.
	ReplyContext ReplyKind = "context"
)

// Reply is the formatter's tagged output.
type Reply struct {
	Kind ReplyKind `json:"kind"`
	Text string    `json:"text"`
}

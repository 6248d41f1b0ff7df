package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/models"
)

// maxCustomerMatches caps the substring lookup so a one-letter company
// abbreviation cannot drag in the whole customer master.
const maxCustomerMatches = 20

// resolverStopWords are tokens never probed against the customer master:
// common English question words, status words and domain nouns. A token
// in this set is part of the question, not a customer name.
var resolverStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "about": {},
	"what": {}, "which": {}, "when": {}, "where": {}, "who": {}, "whose": {},
	"why": {}, "how": {}, "many": {}, "much": {}, "can": {}, "could": {},
	"show": {}, "give": {}, "tell": {}, "list": {}, "get": {}, "find": {},
	"please": {}, "want": {}, "need": {}, "have": {}, "has": {}, "had": {},
	"are": {}, "was": {}, "were": {}, "will": {}, "all": {}, "any": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "there": {},
	"order": {}, "orders": {}, "stock": {}, "stocks": {}, "customer": {},
	"customers": {}, "status": {}, "pending": {}, "completed": {},
	"complete": {}, "cancelled": {}, "cancel": {}, "production": {},
	"dispatch": {}, "despatch": {}, "dispatched": {}, "delivery": {},
	"total": {}, "grand": {}, "quantity": {}, "material": {}, "report": {},
	"detail": {}, "details": {}, "data": {}, "info": {}, "number": {},
	"plan": {}, "plans": {}, "last": {}, "latest": {}, "new": {}, "old": {},
	"today": {}, "yesterday": {}, "month": {}, "week": {}, "year": {},
	"black": {}, "bright": {}, "bar": {}, "bars": {}, "kgs": {},
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Resolver probes question tokens against the customer master to bind an
// identifier filter before any SQL is generated.
type Resolver struct {
	executor *Executor
	logger   *zap.Logger
}

// NewResolver creates an entity resolver backed by the shared executor.
func NewResolver(executor *Executor, logger *zap.Logger) *Resolver {
	return &Resolver{
		executor: executor,
		logger:   logger.Named("resolver"),
	}
}

const customerLookupSQL = `
	SELECT id, name FROM customers
	WHERE name ILIKE '%' || $1 || '%'
	ORDER BY name
	LIMIT 20`

// FindCustomerInQuestion splits the question on whitespace and probes
// each surviving token, in order, against customer names. The first
// token with at least one match wins; no scoring, no second pass.
// Simplicity over precision is the point: an ambiguous token that is
// both a company abbreviation and an English word outside the stop set
// can false-positive, and that is accepted.
//
// Returns nil when nothing matches. A lookup failure is treated as no
// match (logged), not an error: resolution is opportunistic.
func (r *Resolver) FindCustomerInQuestion(ctx context.Context, text string) *models.CustomerMatch {
	for _, raw := range strings.Fields(text) {
		token := nonAlphanumeric.ReplaceAllString(raw, "")
		if len(token) < 2 {
			continue
		}
		if _, stop := resolverStopWords[strings.ToLower(token)]; stop {
			continue
		}

		matches, err := r.LookupCustomers(ctx, token)
		if err != nil {
			r.logger.Warn("customer lookup failed",
				zap.String("keyword", token),
				zap.Error(err))
			return nil
		}
		if len(matches) > 0 {
			r.logger.Debug("resolved customer keyword",
				zap.String("keyword", token),
				zap.Int("matches", len(matches)))
			return &models.CustomerMatch{Keyword: token, Matches: matches}
		}
	}
	return nil
}

// LookupCustomers runs the parameterized substring lookup for a keyword.
func (r *Resolver) LookupCustomers(ctx context.Context, keyword string) ([]models.Customer, error) {
	res := r.executor.Execute(ctx, customerLookupSQL, keyword)
	if !res.Success {
		return nil, &lookupError{msg: res.Error}
	}

	matches := make([]models.Customer, 0, len(res.Rows))
	for _, row := range res.Rows {
		id, ok := toInt64(row["id"])
		if !ok {
			continue
		}
		name, _ := row["name"].(string)
		matches = append(matches, models.Customer{ID: id, Name: name})
		if len(matches) == maxCustomerMatches {
			break
		}
	}
	return matches, nil
}

type lookupError struct{ msg string }

func (e *lookupError) Error() string { return e.msg }

// toInt64 coerces the integer shapes pgx hands back.
func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int16:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}

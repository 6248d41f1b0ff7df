package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/models"
	"github.com/milltech/erpchat/pkg/repositories"
)

// Engine is the boundary the messaging layer calls: free text plus an
// optional access scope in, a tagged reply out. Empty scope means the
// caller sees everything; that is an explicit admin mode, not an error.
type Engine struct {
	classifier  *Classifier
	synthesizer *Synthesizer
	formatter   *Formatter
	history     repositories.QueryHistoryRepository
	logger      *zap.Logger
}

// NewEngine wires the query engine facade. history may be nil to disable
// the audit trail.
func NewEngine(
	classifier *Classifier,
	synthesizer *Synthesizer,
	formatter *Formatter,
	history repositories.QueryHistoryRepository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		classifier:  classifier,
		synthesizer: synthesizer,
		formatter:   formatter,
		history:     history,
		logger:      logger.Named("engine"),
	}
}

// Answer processes one free-text question under the given access scope.
// It always returns a deliverable reply; every failure mode downstream
// of input validation is converted to a structured result first, so a
// long-lived chat connection never sees a panic or a raw driver error.
func (e *Engine) Answer(ctx context.Context, question string, scopeValues []string) models.Reply {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Reply{
			Kind: models.ReplyDirect,
			Text: "Please send a question about orders, production or stock.",
		}
	}

	requestID := uuid.New()
	start := time.Now()

	result, pathName := e.classifier.Classify(ctx, question, scopeValues)
	if result == nil {
		var err error
		result, err = e.synthesizer.QueryFromNaturalLanguage(ctx, question, scopeValues)
		if err != nil {
			e.logger.Error("synthesis failed",
				zap.String("request_id", requestID.String()),
				zap.Error(err))
			result = &models.QueryResult{
				Success:  false,
				Count:    0,
				Error:    err.Error(),
				Question: question,
			}
		}
	}

	reply := e.formatter.Format(result)

	e.logger.Info("question answered",
		zap.String("request_id", requestID.String()),
		zap.String("fast_path", pathName),
		zap.Bool("success", result.Success),
		zap.Int("rows", result.Count),
		zap.String("reply_kind", string(reply.Kind)),
		zap.Duration("elapsed", time.Since(start)))

	e.recordHistory(ctx, requestID, question, pathName, result, time.Since(start))

	return reply
}

// recordHistory writes the audit row. Fire-and-forget: a history failure
// must never fail the user's question.
func (e *Engine) recordHistory(ctx context.Context, id uuid.UUID, question, pathName string, result *models.QueryResult, elapsed time.Duration) {
	if e.history == nil {
		return
	}
	entry := &models.QueryHistory{
		ID:         id,
		Question:   question,
		SQLQuery:   result.Query,
		FastPath:   pathName,
		Success:    result.Success,
		RowCount:   result.Count,
		DurationMs: elapsed.Milliseconds(),
	}
	if err := e.history.Insert(ctx, entry); err != nil {
		e.logger.Warn("failed to record query history",
			zap.String("request_id", id.String()),
			zap.Error(err))
	}
}

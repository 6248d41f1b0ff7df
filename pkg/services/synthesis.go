package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/catalog"
	"github.com/milltech/erpchat/pkg/llm"
	"github.com/milltech/erpchat/pkg/logging"
	"github.com/milltech/erpchat/pkg/models"
	"github.com/milltech/erpchat/pkg/prompts"
)

// Synthesizer turns a free-text question into guarded SQL via the
// text-generation backend, for questions no fast-path recognized.
type Synthesizer struct {
	catalog     *catalog.Catalog
	resolver    *Resolver
	llmClient   llm.Client
	executor    *Executor
	temperature float64
	logger      *zap.Logger
}

// NewSynthesizer creates the synthesis service.
func NewSynthesizer(
	cat *catalog.Catalog,
	resolver *Resolver,
	llmClient llm.Client,
	executor *Executor,
	temperature float64,
	logger *zap.Logger,
) *Synthesizer {
	return &Synthesizer{
		catalog:     cat,
		resolver:    resolver,
		llmClient:   llmClient,
		executor:    executor,
		temperature: temperature,
		logger:      logger.Named("synthesis"),
	}
}

// QueryFromNaturalLanguage builds the synthesis prompt, asks the backend
// for SQL, validates it and executes it. Schema or backend failures come
// back as a Go error (fatal for this request); everything downstream of
// the backend call is a structured result - guard rejections and driver
// errors land in QueryResult.Error, never in the returned error.
func (s *Synthesizer) QueryFromNaturalLanguage(ctx context.Context, question string, scopeValues []string) (*models.QueryResult, error) {
	schemaText, err := s.catalog.Describe(ctx)
	if err != nil {
		// Not retryable for this request: synthesizing SQL against an
		// unknown schema would be guessing.
		return nil, err
	}

	spec := &prompts.SynthesisSpec{
		Question:    question,
		ScopeValues: scopeValues,
		Customer:    s.resolver.FindCustomerInQuestion(ctx, question),
		SchemaText:  schemaText,
	}

	raw, err := s.llmClient.GenerateResponse(ctx, spec.Build(), prompts.SystemMessage, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("sql synthesis: %w", err)
	}

	sqlText := llm.ExtractSQL(raw)
	s.logger.Info("synthesized SQL",
		zap.String("query", logging.TruncateQuery(sqlText)),
		zap.Int("scope_values", len(scopeValues)))

	res := s.executor.Execute(ctx, sqlText)
	res.Question = question
	return res, nil
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/repositories"
	"github.com/milltech/erpchat/pkg/services"
)

const maxQuestionLength = 2000

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Question string `json:"question"`
	// MarketingScope carries the marketing person names whose customers
	// the caller may see. Empty means unrestricted.
	MarketingScope []string `json:"marketing_scope,omitempty"`
}

// QueryResponse is the engine's reply to one question.
type QueryResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// QueryHandler exposes the natural-language query engine over HTTP.
type QueryHandler struct {
	engine  *services.Engine
	history repositories.QueryHistoryRepository
	logger  *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *services.Engine, history repositories.QueryHistoryRepository, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{engine: engine, history: history, logger: logger}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Query)
	mux.HandleFunc("GET /api/history", h.History)
}

// Query handles POST /api/query requests.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	question := strings.TrimSpace(req.Question)
	if len(question) > maxQuestionLength {
		_ = ErrorResponse(w, http.StatusBadRequest, "question_too_long",
			"question exceeds the maximum supported length")
		return
	}

	reply := h.engine.Answer(r.Context(), question, req.MarketingScope)

	resp := QueryResponse{Kind: string(reply.Kind), Text: reply.Text}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}

// History handles GET /api/history requests. Accepts an optional
// ?limit=N query parameter.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list query history", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "history_unavailable",
			"failed to load query history")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"history": entries}); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/services"
)

func newQueryServer() *http.ServeMux {
	// A bare engine is enough for request-validation paths: they return
	// before any classification or database access.
	engine := services.NewEngine(nil, nil, services.NewFormatter(), nil, zap.NewNop())
	mux := http.NewServeMux()
	NewQueryHandler(engine, nil, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestQueryHandler_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	newQueryServer().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryHandler_QuestionTooLong(t *testing.T) {
	body := `{"question": "` + strings.Repeat("a", maxQuestionLength+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	w := httptest.NewRecorder()
	newQueryServer().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryHandler_EmptyQuestionGetsPrompt(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question": "  "}`))
	w := httptest.NewRecorder()
	newQueryServer().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please send a question about orders, production or stock.")
	assert.Contains(t, w.Body.String(), `"kind":"direct"`)
}

func TestQueryHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	w := httptest.NewRecorder()
	newQueryServer().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

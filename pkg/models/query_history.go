package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryHistory is one audit row for a natural-language engine call.
// This is the only table the engine owns; the ERP tables stay read-only.
type QueryHistory struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	SQLQuery   string    `json:"sql_query,omitempty"`
	FastPath   string    `json:"fast_path,omitempty"` // empty when the LLM path answered
	Success    bool      `json:"success"`
	RowCount   int       `json:"row_count"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

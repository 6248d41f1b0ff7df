package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSchemaUnavailable = errors.New("schema catalog unavailable")
	ErrEmptyCompletion   = errors.New("empty completion from generation backend")
)

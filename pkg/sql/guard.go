// Package sql provides the safety gate for all SQL executed by the query
// engine, whether hand-written by a fast-path or synthesized by the LLM.
package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyQuery indicates there was nothing to execute.
	ErrEmptyQuery = errors.New("empty SQL statement")

	// ErrNotSelect indicates the statement does not start with SELECT.
	ErrNotSelect = errors.New("only SELECT statements are permitted")

	// ErrMultipleStatements indicates the query contains more than one
	// SQL statement.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)

// forbiddenKeywords are rejected anywhere in the statement, as whole
// words, even inside string literals or comments. This is a coarse
// textual guard, not a parser: it can over-reject a legitimate SELECT
// whose string constant contains one of these words. That trade-off is
// deliberate.
var forbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER",
	"TRUNCATE", "REPLACE", "MERGE", "CALL", "EXEC", "GRANT", "REVOKE",
}

var forbiddenPattern = regexp.MustCompile(
	`(?i)\b(` + strings.Join(forbiddenKeywords, "|") + `)\b`)

// KeywordError names the forbidden keyword that caused rejection.
type KeywordError struct {
	Keyword string
}

func (e *KeywordError) Error() string {
	return fmt.Sprintf("forbidden SQL keyword: %s", e.Keyword)
}

// Validate runs the full gate on a single SQL statement and returns the
// normalized form (trailing semicolon stripped) or the first violation.
//
// Checks, in order:
//  1. non-empty after trimming
//  2. single statement (no semicolon outside string literals after the
//     trailing one is stripped)
//  3. starts with SELECT
//  4. no forbidden keyword anywhere, as a whole word
func Validate(sqlQuery string) (string, error) {
	normalized := stripTrailingSemicolon(strings.TrimSpace(sqlQuery))
	if normalized == "" {
		return "", ErrEmptyQuery
	}

	if hasSemicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}

	if !strings.HasPrefix(strings.ToUpper(normalized), "SELECT") {
		return "", ErrNotSelect
	}

	if m := forbiddenPattern.FindString(normalized); m != "" {
		return "", &KeywordError{Keyword: strings.ToUpper(m)}
	}

	return normalized, nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any
// semicolon outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handles both backslash escape (\') and SQL standard
			// doubled-quote escape ('') - the latter exits and immediately
			// re-enters the string state on the following quote.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes one trailing semicolon plus surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimRight(strings.TrimSuffix(sqlQuery, ";"), " \t\n\r")
	}
	return sqlQuery
}

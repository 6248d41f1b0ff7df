package llm

import (
	"regexp"
	"strings"
)

// thinkTagPattern matches <think>...</think> blocks some models emit at
// the start of a response.
var thinkTagPattern = regexp.MustCompile(`(?s)^[\s]*<think>.*?</think>[\s]*`)

// codeFencePattern captures the body of a fenced code block, with or
// without a language tag.
var codeFencePattern = regexp.MustCompile("(?s)```(?:sql|SQL)?\\s*(.*?)```")

// trailingLimitPattern matches a model-added LIMIT clause at the end of
// the statement. The engine always wants the full result set; display
// truncation is the formatter's concern, not SQL's.
var trailingLimitPattern = regexp.MustCompile(`(?i)\s+LIMIT\s+\d+\s*;?\s*$`)

// ExtractSQL pulls a bare SQL statement out of a model response,
// stripping reasoning tags, Markdown code fences, any trailing LIMIT
// clause, and the trailing semicolon.
func ExtractSQL(response string) string {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	if m := codeFencePattern.FindStringSubmatch(cleaned); len(m) == 2 {
		cleaned = m[1]
	}

	cleaned = strings.TrimSpace(cleaned)
	cleaned = trailingLimitPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), ";"))

	return cleaned
}

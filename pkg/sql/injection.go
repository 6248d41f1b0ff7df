package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes an injection pattern found in a bound
// parameter value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamIndex  int    // Position of the parameter that failed the check
	ParamValue  any    // The value that was checked
}

// CheckParameterForInjection screens one bound parameter with
// libinjection. Only string values are checked; numbers and booleans
// cannot carry injection patterns. Returns nil when the value is clean.
//
// Bound parameters never reach the SQL text, so this is defense in depth
// on top of pgx's parameter binding, not the primary protection.
func CheckParameterForInjection(index int, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ParamIndex:  index,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckAllParameters screens every positional parameter and returns one
// result per dirty value. Empty slice means all parameters are clean.
func CheckAllParameters(params []any) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for i, value := range params {
		if result := CheckParameterForInjection(i, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Arguments is the decoded argument mapping of a tool call.
// Keys are always lower-case.
type Arguments map[string]any

// String returns the value for key as a string. The boolean is false when
// the key is absent, JSON null or blank.
func (a Arguments) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Int returns the value for key as an int, or def when absent or not numeric.
func (a Arguments) Int(key string, def int) int {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// Has reports whether key carries a usable value.
func (a Arguments) Has(key string) bool {
	_, ok := a.String(key)
	return ok
}

// NormalizedCall is the operation extracted from one webhook body.
type NormalizedCall struct {
	// CorrelationID echoes the caller's tool call id. Empty means none.
	CorrelationID string
	// Operation is always lower-case.
	Operation string
	Arguments Arguments
	// Strategy names the extraction strategy that matched.
	Strategy string
}

// ResponseEnvelope is the outcome of dispatching a NormalizedCall.
// Exactly one of Result or Error is meaningful: Error is non-empty on failure.
type ResponseEnvelope struct {
	CorrelationID string
	Result        any
	Error         string
}

// Failed reports whether the envelope carries an error.
func (e ResponseEnvelope) Failed() bool {
	return e.Error != ""
}

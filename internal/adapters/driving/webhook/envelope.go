package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// Shape renders env in the body layout the caller expects.
// An empty correlation id is rendered as null.
func Shape(style domain.EnvelopeStyle, env domain.ResponseEnvelope) map[string]any {
	switch style {
	case domain.EnvelopeVapiLegacy:
		item := map[string]any{"tool_call_id": nullable(env.CorrelationID)}
		if env.Failed() {
			item["error"] = env.Error
		} else {
			item["data"] = env.Result
		}
		return map[string]any{"results": []any{item}}

	case domain.EnvelopeGeneric:
		if env.Failed() {
			return map[string]any{"success": false, "message": env.Error}
		}
		return map[string]any{"success": true, "data": env.Result}

	default:
		item := map[string]any{"toolCallId": nullable(env.CorrelationID)}
		if env.Failed() {
			item["error"] = env.Error
		} else {
			item["result"] = resultString(env.Result)
		}
		return map[string]any{"results": []any{item}}
	}
}

// resultString flattens a result for callers that only accept strings.
func resultString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

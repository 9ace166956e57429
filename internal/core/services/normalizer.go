package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure PayloadNormalizer implements the interface.
var _ driving.Normalizer = (*PayloadNormalizer)(nil)

// maxSearchDepth bounds the fallback depth-first search.
const maxSearchDepth = 32

// Operation assigned to bodies that only carry a title and content.
const createDocumentOperation = "createdocument"

// extraction is what one strategy found.
type extraction struct {
	id   string
	name string
	args domain.Arguments
}

// strategy is a pure function from a parsed body to an extraction.
type strategy struct {
	name    string
	extract func(root gjson.Result) (extraction, bool)
}

// correlationPaths is consulted, in order, when the winning strategy
// carries no id of its own.
var correlationPaths = []string{
	"message.toolCalls.0.id",
	"message.tool_calls.0.id",
	"message.tool_call_list.0.id",
	"message.tool_with_tool_call_list.0.tool_call.id",
	"message.toolCallList.0.id",
	"message.toolWithToolCallList.0.toolCall.id",
	"id",
}

// PayloadNormalizer extracts a NormalizedCall from the several body shapes
// the voice platform may send.
type PayloadNormalizer struct {
	strategies []strategy
	newID      func() string
}

// NewPayloadNormalizer creates a normalizer with the standard strategy order.
func NewPayloadNormalizer() *PayloadNormalizer {
	n := &PayloadNormalizer{
		newID: func() string { return "direct_" + uuid.NewString() },
	}
	n.strategies = []strategy{
		{name: "message.toolCalls", extract: toolCallAt("message.toolCalls.0")},
		{name: "message.tool_calls", extract: toolCallAt("message.tool_calls.0")},
		{name: "message.tool_call_list", extract: toolCallAt("message.tool_call_list.0")},
		{name: "message.tool_with_tool_call_list", extract: toolCallAt("message.tool_with_tool_call_list.0.tool_call")},
		{name: "message.toolCallList", extract: toolCallAt("message.toolCallList.0")},
		{name: "message.toolWithToolCallList", extract: toolCallAt("message.toolWithToolCallList.0.toolCall")},
		{name: "tool_calls", extract: toolCallAt("tool_calls.0")},
		{name: "direct", extract: extractDirect},
		{name: "action", extract: n.extractAction},
		{name: "search", extract: extractBySearch},
	}
	return n
}

// Normalize tries each strategy in order and returns the first that yields
// an operation.
func (n *PayloadNormalizer) Normalize(_ context.Context, raw []byte) (*domain.NormalizedCall, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedPayload)
	}
	root := gjson.ParseBytes(raw)

	for _, s := range n.strategies {
		found, ok := s.extract(root)
		if !ok {
			continue
		}
		operation, args := resolveOperation(found.name, found.args)
		if operation == "" {
			continue
		}

		id := found.id
		if id == "" {
			id = correlationID(root)
		}

		logger.Debug("normalized payload via %s: operation=%s id=%q", s.name, operation, id)
		return &domain.NormalizedCall{
			CorrelationID: id,
			Operation:     operation,
			Arguments:     args,
			Strategy:      s.name,
		}, nil
	}

	return &domain.NormalizedCall{CorrelationID: correlationID(root)},
		fmt.Errorf("%w: no operation found", domain.ErrMalformedPayload)
}

// resolveOperation lets an "action" argument override the function name,
// which is how several operations share one tool definition.
func resolveOperation(name string, args domain.Arguments) (string, domain.Arguments) {
	if args == nil {
		args = domain.Arguments{}
	}
	if action, ok := args.String("action"); ok {
		delete(args, "action")
		name = action
	}
	return strings.ToLower(strings.TrimSpace(name)), args
}

func correlationID(root gjson.Result) string {
	for _, path := range correlationPaths {
		if v := root.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// toolCallAt reads {id, function: {name, arguments}} at path.
func toolCallAt(path string) func(gjson.Result) (extraction, bool) {
	return func(root gjson.Result) (extraction, bool) {
		call := root.Get(path)
		if !call.IsObject() {
			return extraction{}, false
		}
		fn := call.Get("function")
		return extraction{
			id:   call.Get("id").String(),
			name: fn.Get("name").String(),
			args: decodeArguments(fn.Get("arguments")),
		}, true
	}
}

// extractDirect handles {id, function, params|arguments} at the top level.
func extractDirect(root gjson.Result) (extraction, bool) {
	if !root.IsObject() {
		return extraction{}, false
	}
	found, ok := functionCall(root)
	if !ok {
		return extraction{}, false
	}
	found.id = root.Get("id").String()
	return found, true
}

// extractAction treats the whole body as the argument mapping when it has
// an action key in any casing.
func (n *PayloadNormalizer) extractAction(root gjson.Result) (extraction, bool) {
	if !root.IsObject() {
		return extraction{}, false
	}
	hasAction := false
	root.ForEach(func(key, _ gjson.Result) bool {
		if strings.EqualFold(key.String(), "action") {
			hasAction = true
			return false
		}
		return true
	})
	if !hasAction {
		return extraction{}, false
	}

	id := correlationID(root)
	if id == "" {
		id = n.newID()
	}
	return extraction{id: id, args: lowerKeys(root)}, true
}

// extractBySearch walks the body depth-first for the first object holding
// either title+content or function+params/arguments.
func extractBySearch(root gjson.Result) (extraction, bool) {
	return search(root, 0)
}

func search(v gjson.Result, depth int) (extraction, bool) {
	if depth > maxSearchDepth {
		return extraction{}, false
	}
	if v.IsObject() {
		if v.Get("title").Exists() && v.Get("content").Exists() {
			return extraction{name: createDocumentOperation, args: lowerKeys(v)}, true
		}
		if found, ok := functionCall(v); ok {
			return found, true
		}
	}
	if !v.IsObject() && !v.IsArray() {
		return extraction{}, false
	}

	var (
		found extraction
		ok    bool
	)
	v.ForEach(func(_, child gjson.Result) bool {
		found, ok = search(child, depth+1)
		return !ok
	})
	return found, ok
}

// functionCall reads function+params or function+arguments from obj.
// function may be a name or a {name, arguments} object.
func functionCall(obj gjson.Result) (extraction, bool) {
	fn := obj.Get("function")
	if !fn.Exists() {
		return extraction{}, false
	}

	params := obj.Get("params")
	if !params.Exists() {
		params = obj.Get("arguments")
	}

	name := fn.String()
	if fn.IsObject() {
		name = fn.Get("name").String()
		if !params.Exists() {
			params = fn.Get("arguments")
		}
	}
	if !params.Exists() {
		return extraction{}, false
	}

	return extraction{name: name, args: decodeArguments(params)}, true
}

// decodeArguments accepts an object or a JSON-encoded object string.
func decodeArguments(v gjson.Result) domain.Arguments {
	switch {
	case v.IsObject():
		return lowerKeys(v)
	case v.Type == gjson.String:
		s := strings.TrimSpace(v.String())
		if s == "" || !gjson.Valid(s) {
			return domain.Arguments{}
		}
		if inner := gjson.Parse(s); inner.IsObject() {
			return lowerKeys(inner)
		}
	}
	return domain.Arguments{}
}

func lowerKeys(obj gjson.Result) domain.Arguments {
	args := domain.Arguments{}
	obj.ForEach(func(key, value gjson.Result) bool {
		args[strings.ToLower(key.String())] = value.Value()
		return true
	})
	return args
}

package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/vocabz/internal/llm"
)

// A matcher pulls the expected value out of a decoded reply, or reports
// that the reply does not have its shape.
type matcher func(v any) (any, bool)

// bareArray matches a top-level JSON array.
func bareArray(v any) (any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// arrayUnder matches {"<key>": [...]}.
func arrayUnder(key string) matcher {
	return func(v any) (any, bool) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		a, ok := m[key].([]any)
		return a, ok
	}
}

// singleArrayField matches an object with exactly one array-valued field.
func singleArrayField(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	var found []any
	n := 0
	for _, f := range m {
		if a, ok := f.([]any); ok {
			found = a
			n++
		}
	}
	return found, n == 1
}

// singleItem matches a lone object, treating it as a one-element list.
func singleItem(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, f := range m {
		if _, isArr := f.([]any); isArr {
			return nil, false
		}
	}
	return []any{m}, true
}

// listMatchers is the order list replies are tried in.
func listMatchers(key string) []matcher {
	return []matcher{bareArray, arrayUnder(key), singleArrayField, singleItem}
}

// object matches any JSON object as-is.
func object(v any) (any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// objectUnder matches {"<key>": {...}}.
func objectUnder(key string) matcher {
	return func(v any) (any, bool) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		inner, ok := m[key].(map[string]any)
		return inner, ok
	}
}

// textUnder matches an object holding a string under one of keys and
// normalizes it to {"text": ...}.
func textUnder(keys ...string) matcher {
	return func(v any) (any, bool) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		for _, k := range keys {
			if s, ok := m[k].(string); ok {
				return map[string]any{"text": s}, true
			}
		}
		return nil, false
	}
}

// bareString matches a JSON string literal.
func bareString(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return map[string]any{"text": s}, true
}

// stripFences removes a surrounding markdown code fence and any prose
// before the first JSON bracket.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if s != "" && s[0] != '[' && s[0] != '{' && s[0] != '"' {
		if i := strings.IndexAny(s, "[{"); i >= 0 {
			s = s[i:]
		}
	}
	return s
}

var errNoShape = errors.New("reply matched no expected shape")

// decode parses content, runs matchers in order and decodes the first
// match that satisfies schema into out.
func decode(content []byte, schema *llm.Schema, matchers []matcher, out any) error {
	text := stripFences(string(content))

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return &llm.GenerationError{Content: content, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	var firstErr error
	for _, m := range matchers {
		val, ok := m(v)
		if !ok {
			continue
		}
		if err := llm.Validate(schema, val); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return &llm.GenerationError{Content: content, Err: err}
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &llm.GenerationError{Content: content, Err: err}
		}
		return nil
	}

	if firstErr != nil {
		return firstErr
	}
	return &llm.GenerationError{Content: content, Err: errNoShape}
}

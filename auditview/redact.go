package auditview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// RedactedMask replaces the value of every sensitive key.
	RedactedMask = "********"

	// NoData is shown for absent or null payloads.
	NoData = "No data"
)

var sensitiveKeys = map[string]struct{}{
	"fcm_token": {},
	"password":  {},
	"api_key":   {},
}

// IsSensitiveKey reports whether values under key are masked by RedactJSON.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[key]
	return ok
}

// RedactJSON renders v as indented JSON with every sensitive key masked.
//
// v may be a JSON-encoded string, raw JSON bytes, a JSONValue, or any value
// encoding/json can marshal. A string that is not valid JSON is returned
// unchanged. The input itself is never modified.
func RedactJSON(v any) string {
	tree, raw, ok := toTree(v)
	if !ok {
		return raw
	}
	if tree == nil {
		return NoData
	}
	if arr, isArr := tree.([]any); isArr && len(arr) == 0 {
		return "[]"
	}

	redactTree(tree)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return coerceString(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// toTree produces a private, generic copy of v. When v cannot be parsed, ok
// is false and raw holds the string to show instead.
func toTree(v any) (tree any, raw string, ok bool) {
	switch val := v.(type) {
	case nil:
		return nil, "", true
	case string:
		return parseTree([]byte(val))
	case JSONValue:
		if val.IsNull() {
			return nil, "", true
		}
		if s, isString := val.AsString(); isString {
			return parseTree([]byte(s))
		}
		return parseTree(val.Raw())
	case json.RawMessage:
		return toTree(JSONValue(val))
	case []byte:
		if len(bytes.TrimSpace(val)) == 0 {
			return nil, "", true
		}
		return parseTree(val)
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, coerceString(v), false
	}
	tree, _, ok = parseTree(encoded)
	if !ok {
		return nil, coerceString(v), false
	}
	return tree, "", true
}

func parseTree(data []byte) (any, string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, string(data), false
	}
	if dec.More() {
		return nil, string(data), false
	}
	return tree, "", true
}

// redactTree masks sensitive keys in place. The tree comes from a JSON
// decode, so it holds only maps, slices and scalars and cannot be cyclic.
func redactTree(node any) {
	switch n := node.(type) {
	case map[string]any:
		for key, child := range n {
			if IsSensitiveKey(key) {
				n[key] = RedactedMask
				continue
			}
			redactTree(child)
		}
	case []any:
		for _, child := range n {
			redactTree(child)
		}
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return NoData
	case string:
		return val
	case []byte:
		return string(val)
	case JSONValue:
		return string(val)
	case json.RawMessage:
		return string(val)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val)
	default:
		return fmt.Sprintf("[%T]", v)
	}
}

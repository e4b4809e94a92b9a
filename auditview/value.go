// Package auditview turns loosely typed audit records into display-safe strings.
//
// Records arrive from other services with no guaranteed shape, so every
// function here is total: missing fields, wrong types and malformed JSON all
// degrade to a fixed placeholder instead of an error.
package auditview

import (
	"bytes"
	"encoding/json"
)

// JSONValue holds one raw JSON value exactly as it appeared in a record.
// Decoding into a JSONValue never fails, whatever the value's type.
type JSONValue []byte

// StringValue encodes s as a JSON string. An empty s yields an absent value.
func StringValue(s string) JSONValue {
	if s == "" {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return JSONValue(b)
}

// TextValue keeps s verbatim when it is valid JSON and encodes it as a JSON
// string otherwise. Used for stored request and response bodies.
func TextValue(s string) JSONValue {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return JSONValue(s)
	}
	return StringValue(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// Raw returns the trimmed JSON text.
func (v JSONValue) Raw() []byte {
	return bytes.TrimSpace(v)
}

// IsNull reports whether the value is absent or an explicit null.
func (v JSONValue) IsNull() bool {
	raw := v.Raw()
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// AsString returns the value when it is a JSON string.
func (v JSONValue) AsString() (string, bool) {
	raw := v.Raw()
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// object returns the JSON object held by v, unwrapping one level of
// JSON-encoded string. ok is false for anything that is not an object.
func (v JSONValue) object() ([]byte, bool) {
	raw := v.Raw()
	if s, isString := v.AsString(); isString {
		raw = bytes.TrimSpace([]byte(s))
	}
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil, false
	}
	return raw, true
}

// scalar decodes v for strict equality checks. Only strings, numbers and
// booleans are comparable; everything else reports ok=false.
func (v JSONValue) scalar() (any, bool) {
	if v.IsNull() {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(v.Raw(), &out); err != nil {
		return nil, false
	}
	switch out.(type) {
	case string, float64, bool:
		return out, true
	default:
		return nil, false
	}
}

// sameID reports strict equality between two JSON scalars: "7" never equals 7.
func sameID(a, b JSONValue) bool {
	av, ok := a.scalar()
	if !ok {
		return false
	}
	bv, ok := b.scalar()
	if !ok {
		return false
	}
	return av == bv
}

package auditview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by DecodeRecord when the input is not a JSON object.
var ErrNotObject = errors.New("audit record is not a JSON object")

// Record is an audit entry as reported by an external service. No field is
// guaranteed to be present or to carry the expected type.
type Record struct {
	Username     JSONValue `json:"username,omitempty"`
	UserID       JSONValue `json:"user_id,omitempty"`
	UserEmail    JSONValue `json:"user_email,omitempty"`
	EventType    JSONValue `json:"event_type,omitempty"`
	RequestBody  JSONValue `json:"request_body,omitempty"`
	ResponseBody JSONValue `json:"response_body,omitempty"`
	DeviceModel  JSONValue `json:"device_model,omitempty"`
	OS           JSONValue `json:"os,omitempty"`
	Browser      JSONValue `json:"browser,omitempty"`
	DeviceType   JSONValue `json:"device_type,omitempty"`
	IPAddress    JSONValue `json:"ip_address,omitempty"`
}

// DecodeRecord parses data into a Record. On error it still returns an empty,
// non-nil record so callers can keep resolving display fields.
func DecodeRecord(data []byte) (*Record, error) {
	rec := &Record{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return rec, ErrNotObject
	}
	if err := json.Unmarshal(trimmed, rec); err != nil {
		return &Record{}, fmt.Errorf("failed to decode audit record: %w", err)
	}
	return rec, nil
}

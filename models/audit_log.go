package models

import (
	"errors"
	"time"
)

// ErrAuditLogNotFound is returned when no audit log entry has the requested ID
var ErrAuditLogNotFound = errors.New("audit log entry not found")

// Audit entry sources
const (
	SourceConsole = "console" // mutations made through this console
	SourceIngest  = "ingest"  // records posted by other services
)

// Pagination limits for audit log listings
const (
	DefaultAuditPageSize = 25
	MaxAuditPageSize     = 200
)

// AuditLogEntry represents a single stored audit event
type AuditLogEntry struct {
	ID            int64     `json:"id"`
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
	Username      string    `json:"username,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	UserEmail     string    `json:"user_email,omitempty"`
	EventType     string    `json:"event_type,omitempty"`
	EventCategory string    `json:"event_category"`
	Method        string    `json:"method,omitempty"`
	Path          string    `json:"path,omitempty"`
	StatusCode    int       `json:"status_code,omitempty"`
	RequestBody   string    `json:"request_body,omitempty"`
	ResponseBody  string    `json:"response_body,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	DeviceModel   string    `json:"device_model,omitempty"`
	OS            string    `json:"os,omitempty"`
	Browser       string    `json:"browser,omitempty"`
	DeviceType    string    `json:"device_type,omitempty"`
	IPAddress     string    `json:"ip_address,omitempty"`
	// RawRecord holds the original JSON of an ingested record
	RawRecord string `json:"-"`
}

// AuditLogFilter narrows an audit log listing
type AuditLogFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// Normalize clamps the paging values into their allowed ranges
func (f *AuditLogFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditPageSize
	}
	if f.Limit > MaxAuditPageSize {
		f.Limit = MaxAuditPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

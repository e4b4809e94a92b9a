package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/metrics"
	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/repositories"
)

// Errors returned for caller mistakes
var (
	ErrInvalidRecord    = errors.New("invalid audit record")
	ErrInvalidCategory  = errors.New("invalid event category")
	ErrInvalidRetention = errors.New("retention must be at least one day")
)

// Publisher ships stored audit entries to an external sink
type Publisher interface {
	Publish(ctx context.Context, entry *models.AuditLogEntry) error
}

// AuditService interface defines audit log business logic
type AuditService interface {
	Record(ctx context.Context, entry *models.AuditLogEntry) error
	Ingest(ctx context.Context, data []byte) (*models.AuditLogEntry, error)
	List(ctx context.Context, filter models.AuditLogFilter) (*AuditLogPage, error)
	Get(ctx context.Context, id int64) (*AuditLogDetail, error)
	Summary(ctx context.Context) (*DashboardData, error)
	Purge(ctx context.Context, olderThanDays int) (int64, error)
}

// AuditLogView is one audit entry as shown to operators
type AuditLogView struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	EventType  string    `json:"event_type"`
	Method     string    `json:"method,omitempty"`
	Path       string    `json:"path,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	auditview.DisplayFields
}

// AuditLogDetail adds the redacted payloads to a view
type AuditLogDetail struct {
	AuditLogView
	UserAgent    string `json:"user_agent,omitempty"`
	RequestJSON  string `json:"request_json"`
	ResponseJSON string `json:"response_json"`
}

// AuditLogPage is one page of a filtered listing
type AuditLogPage struct {
	Entries    []AuditLogView        `json:"entries"`
	Pagination models.Pagination     `json:"pagination"`
	Filter     models.AuditLogFilter `json:"-"`
}

// CategoryCount is the number of entries in one event category
type CategoryCount struct {
	Category auditview.EventCategory `json:"category"`
	Label    string                  `json:"label"`
	Count    int                     `json:"count"`
}

// DashboardData holds the dashboard summary
type DashboardData struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	Recent     []AuditLogView  `json:"recent"`
}

const dashboardRecentCount = 10

// auditService implements AuditService interface
type auditService struct {
	auditRepo repositories.AuditRepository
	publisher Publisher
}

// NewAuditService creates a new audit service. publisher may be nil.
func NewAuditService(auditRepo repositories.AuditRepository, publisher Publisher) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		publisher: publisher,
	}
}

// Record stores an entry and forwards it to the publisher. A publish failure
// is logged but does not fail the call; the entry is already stored.
func (s *auditService) Record(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidRecord)
	}

	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Source == "" {
		entry.Source = models.SourceConsole
	}
	if entry.EventCategory == "" {
		entry.EventCategory = string(auditview.ClassifyEventTypeString(entry.EventType))
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		metrics.AuditRecordFailures.Inc()
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	metrics.AuditEntriesRecorded.WithLabelValues(entry.Source).Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, entry); err != nil {
			metrics.AuditPublishFailures.Inc()
			log.WithError(err).WithField("event_id", entry.EventID).Warn("Failed to publish audit entry")
		}
	}

	return nil
}

// Ingest stores a record posted by another service. The original JSON is
// kept verbatim so display fields are always resolved from what was sent.
func (s *auditService) Ingest(ctx context.Context, data []byte) (*models.AuditLogEntry, error) {
	rec, err := auditview.DecodeRecord(data)
	if err != nil {
		metrics.AuditIngestRejected.Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, data); err != nil {
		metrics.AuditIngestRejected.Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	entry := EntryFromRecord(rec)
	entry.Source = models.SourceIngest
	// A non-string event_type is stored as JSON text but classifies as default.
	entry.EventCategory = string(auditview.ClassifyEventType(rec.EventType))
	entry.RawRecord = raw.String()
	entry.Timestamp = ingestTimestamp(data)

	if err := s.Record(ctx, entry); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"event_id":   entry.EventID,
		"event_type": entry.EventType,
	}).Debug("Ingested audit record")

	return entry, nil
}

// List returns one page of resolved audit entries
func (s *auditService) List(ctx context.Context, filter models.AuditLogFilter) (*AuditLogPage, error) {
	if filter.Category != "" {
		category, ok := auditview.ParseCategory(filter.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, filter.Category)
		}
		filter.Category = string(category)
	}
	filter.Normalize()

	entries, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	total, err := s.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	views := make([]AuditLogView, 0, len(entries))
	for i := range entries {
		views = append(views, NewAuditLogView(&entries[i]))
	}

	return &AuditLogPage{
		Entries:    views,
		Pagination: models.NewPagination(filter.Offset, filter.Limit, total),
		Filter:     filter,
	}, nil
}

// Get returns one entry with its request and response redacted
func (s *auditService) Get(ctx context.Context, id int64) (*AuditLogDetail, error) {
	if id <= 0 {
		return nil, models.ErrAuditLogNotFound
	}

	entry, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := RecordFromEntry(entry)
	return &AuditLogDetail{
		AuditLogView: newAuditLogView(entry, rec),
		UserAgent:    entry.UserAgent,
		RequestJSON:  auditview.RedactJSON(rec.RequestBody),
		ResponseJSON: auditview.RedactJSON(rec.ResponseBody),
	}, nil
}

// Summary returns per-category counts and the latest entries
func (s *auditService) Summary(ctx context.Context) (*DashboardData, error) {
	counts, err := s.auditRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category counts: %w", err)
	}

	data := &DashboardData{}
	for _, category := range auditview.Categories() {
		count := counts[string(category)]
		data.Total += count
		data.Categories = append(data.Categories, CategoryCount{
			Category: category,
			Label:    auditview.FormatEventLabelString(string(category)),
			Count:    count,
		})
	}

	recent, err := s.auditRepo.List(ctx, models.AuditLogFilter{Limit: dashboardRecentCount})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent audit entries: %w", err)
	}
	for i := range recent {
		data.Recent = append(data.Recent, NewAuditLogView(&recent[i]))
	}

	return data, nil
}

// Purge deletes entries older than the given number of days
func (s *auditService) Purge(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	deleted, err := s.auditRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit entries: %w", err)
	}

	log.WithFields(log.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	}).Info("Purged old audit entries")

	return deleted, nil
}

// NewAuditLogView resolves the display fields of a stored entry
func NewAuditLogView(entry *models.AuditLogEntry) AuditLogView {
	return newAuditLogView(entry, RecordFromEntry(entry))
}

func newAuditLogView(entry *models.AuditLogEntry, rec *auditview.Record) AuditLogView {
	return AuditLogView{
		ID:            entry.ID,
		EventID:       entry.EventID,
		Timestamp:     entry.Timestamp,
		Source:        entry.Source,
		EventType:     entry.EventType,
		Method:        entry.Method,
		Path:          entry.Path,
		StatusCode:    entry.StatusCode,
		DisplayFields: auditview.Resolve(rec),
	}
}

// RecordFromEntry rebuilds the record a stored entry came from. Ingested
// entries decode their original JSON; console entries are built from columns.
func RecordFromEntry(entry *models.AuditLogEntry) *auditview.Record {
	if entry == nil {
		return &auditview.Record{}
	}
	if entry.RawRecord != "" {
		if rec, err := auditview.DecodeRecord([]byte(entry.RawRecord)); err == nil {
			return rec
		}
	}

	return &auditview.Record{
		Username:     auditview.StringValue(entry.Username),
		UserID:       auditview.StringValue(entry.UserID),
		UserEmail:    auditview.StringValue(entry.UserEmail),
		EventType:    auditview.StringValue(entry.EventType),
		RequestBody:  auditview.TextValue(entry.RequestBody),
		ResponseBody: auditview.TextValue(entry.ResponseBody),
		DeviceModel:  auditview.StringValue(entry.DeviceModel),
		OS:           auditview.StringValue(entry.OS),
		Browser:      auditview.StringValue(entry.Browser),
		DeviceType:   auditview.StringValue(entry.DeviceType),
		IPAddress:    auditview.StringValue(entry.IPAddress),
	}
}

// EntryFromRecord copies a record's fields into searchable columns.
// Non-string values are kept as their JSON text.
func EntryFromRecord(rec *auditview.Record) *models.AuditLogEntry {
	if rec == nil {
		rec = &auditview.Record{}
	}
	return &models.AuditLogEntry{
		Username:     columnText(rec.Username),
		UserID:       columnText(rec.UserID),
		UserEmail:    columnText(rec.UserEmail),
		EventType:    columnText(rec.EventType),
		RequestBody:  columnText(rec.RequestBody),
		ResponseBody: columnText(rec.ResponseBody),
		DeviceModel:  columnText(rec.DeviceModel),
		OS:           columnText(rec.OS),
		Browser:      columnText(rec.Browser),
		DeviceType:   columnText(rec.DeviceType),
		IPAddress:    columnText(rec.IPAddress),
	}
}

func columnText(v auditview.JSONValue) string {
	if v.IsNull() {
		return ""
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	return string(v.Raw())
}

// ingestTimestamp reads the record's own timestamp or created_at when it is
// RFC 3339, and falls back to now.
func ingestTimestamp(data []byte) time.Time {
	for _, key := range []string{"timestamp", "created_at"} {
		value, err := jsonparser.GetString(data, key)
		if err != nil {
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

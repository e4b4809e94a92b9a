package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogem/audit-console/models"
)

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	GetByID(ctx context.Context, id int64) (*models.AuditLogEntry, error)
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, error)
	Count(ctx context.Context, filter models.AuditLogFilter) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

const auditColumns = `
	id, event_id, timestamp, source, username, user_id, user_email,
	event_type, event_category, method, path, status_code,
	request_body, response_body, user_agent, device_model, os, browser,
	device_type, ip_address, raw_record
`

// Create inserts a new audit log entry and sets its ID
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_log (
			event_id, timestamp, source, username, user_id, user_email,
			event_type, event_category, method, path, status_code,
			request_body, response_body, user_agent, device_model, os, browser,
			device_type, ip_address, raw_record
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.EventID,
		entry.Timestamp,
		entry.Source,
		entry.Username,
		entry.UserID,
		entry.UserEmail,
		entry.EventType,
		entry.EventCategory,
		entry.Method,
		entry.Path,
		entry.StatusCode,
		entry.RequestBody,
		entry.ResponseBody,
		entry.UserAgent,
		entry.DeviceModel,
		entry.OS,
		entry.Browser,
		entry.DeviceType,
		entry.IPAddress,
		entry.RawRecord,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit log entry ID: %w", err)
	}
	entry.ID = id

	return nil
}

// GetByID retrieves a single audit log entry
func (r *sqliteAuditRepository) GetByID(ctx context.Context, id int64) (*models.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE id = ?`

	entry, err := scanAuditEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAuditLogNotFound
		}
		return nil, fmt.Errorf("failed to get audit log entry: %w", err)
	}

	return entry, nil
}

// List retrieves audit log entries newest first
func (r *sqliteAuditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, error) {
	filter.Normalize()
	where, args := buildAuditWhere(filter)

	query := `SELECT ` + auditColumns + ` FROM audit_log` + where +
		` ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}

// Count returns the number of entries matching the filter, ignoring paging
func (r *sqliteAuditRepository) Count(ctx context.Context, filter models.AuditLogFilter) (int, error) {
	where, args := buildAuditWhere(filter)

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit log entries: %w", err)
	}

	return count, nil
}

// CountByCategory returns the number of entries per event category
func (r *sqliteAuditRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_category, COUNT(*)
		FROM audit_log
		GROUP BY event_category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit log categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	return counts, rows.Err()
}

// DeleteBefore removes entries older than cutoff and returns how many were removed
func (r *sqliteAuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit log entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted row count: %w", err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuditEntry(row rowScanner) (*models.AuditLogEntry, error) {
	var entry models.AuditLogEntry
	err := row.Scan(
		&entry.ID,
		&entry.EventID,
		&entry.Timestamp,
		&entry.Source,
		&entry.Username,
		&entry.UserID,
		&entry.UserEmail,
		&entry.EventType,
		&entry.EventCategory,
		&entry.Method,
		&entry.Path,
		&entry.StatusCode,
		&entry.RequestBody,
		&entry.ResponseBody,
		&entry.UserAgent,
		&entry.DeviceModel,
		&entry.OS,
		&entry.Browser,
		&entry.DeviceType,
		&entry.IPAddress,
		&entry.RawRecord,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// buildAuditWhere turns a filter into a WHERE clause and its arguments
func buildAuditWhere(filter models.AuditLogFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Category != "" {
		clauses = append(clauses, "event_category = ?")
		args = append(args, filter.Category)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		clauses = append(clauses, `(
			username LIKE ? ESCAPE '\' OR
			user_email LIKE ? ESCAPE '\' OR
			event_type LIKE ? ESCAPE '\' OR
			path LIKE ? ESCAPE '\'
		)`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

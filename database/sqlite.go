package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const (
	busyTimeoutMs = 5000
	pingTimeout   = 5 * time.Second
)

var db *sql.DB

// dataSource turns a database path into a go-sqlite3 DSN with the pragmas the
// audit store relies on. Parameters already present in path are kept.
func dataSource(path string) string {
	base, rawQuery, _ := strings.Cut(path, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		params = url.Values{}
	}

	defaults := map[string]string{
		"_foreign_keys": "on",
		"_busy_timeout": fmt.Sprint(busyTimeoutMs),
	}
	if base != ":memory:" && params.Get("mode") != "memory" {
		defaults["_journal_mode"] = "WAL"
	}
	for key, value := range defaults {
		if params.Get(key) == "" {
			params.Set(key, value)
		}
	}

	return "file:" + strings.TrimPrefix(base, "file:") + "?" + params.Encode()
}

// OpenDB opens the audit store at path
func OpenDB(path string) error {
	conn, err := sql.Open("sqlite3", dataSource(path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Audit entries are written from background goroutines; a single
	// connection serializes them instead of failing with "database is locked".
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxIdleTime(0)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db = conn
	return nil
}

// InitializeDatabase opens the audit store and brings its schema up to date
func InitializeDatabase(path string) error {
	if err := OpenDB(path); err != nil {
		return err
	}

	applied, err := RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.WithFields(log.Fields{
		"database":   path,
		"migrations": applied,
	}).Info("Audit store ready")
	return nil
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

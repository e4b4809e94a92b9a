package models

import (
	"time"
)

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// PageData represents common data passed to templates
type PageData struct {
	Title        string        `json:"title"`
	CurrentPage  string        `json:"current_page"`
	Operator     string        `json:"operator,omitempty"`
	FlashMessage *FlashMessage `json:"flash_message,omitempty"`
	Data         interface{}   `json:"data,omitempty"`
}

// FormatDateTime formats a time as YYYY-MM-DD HH:MM:SS
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// NewPagination builds pagination info from an offset-based query
func NewPagination(offset, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultAuditPageSize
	}
	page := offset/limit + 1
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PageSize:   limit,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

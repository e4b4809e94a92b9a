package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/services"
)

// maxIngestBytes caps the size of one posted audit record
const maxIngestBytes = 1 << 20

// AuditController handles audit log pages and the JSON API
type AuditController struct {
	services *services.Services
}

// NewAuditController creates a new audit controller
func NewAuditController(services *services.Services) *AuditController {
	return &AuditController{
		services: services,
	}
}

// auditListPage is the template data for the audit log list
type auditListPage struct {
	Page       *services.AuditLogPage
	Categories []auditview.EventCategory
	Category   string
	Search     string
}

// Index handles GET /audit
func (c *AuditController) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.AuditLogFilter{
		Category: query.Get("category"),
		Search:   query.Get("q"),
		Limit:    models.DefaultAuditPageSize,
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil && page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}

	pageData := models.PageData{
		Title:       "Audit Log",
		CurrentPage: "audit",
		Operator:    signedInOperator(r),
	}
	if purged, err := strconv.ParseInt(query.Get("purged"), 10, 64); err == nil && purged >= 0 {
		pageData.FlashMessage = &models.FlashMessage{
			Type:    "success",
			Message: fmt.Sprintf("Deleted %d old audit entries", purged),
		}
	}

	page, err := c.services.Audit.List(r.Context(), filter)
	if errors.Is(err, services.ErrInvalidCategory) {
		pageData.FlashMessage = &models.FlashMessage{Type: "error", Message: "Unknown category: " + filter.Category}
		pageData.Data = auditListPage{Page: &services.AuditLogPage{}, Categories: auditview.Categories(), Search: filter.Search}
		renderTemplateWithStatus(w, http.StatusBadRequest, "audit_logs", "audit_logs.html", pageData)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to list audit logs")
		http.Error(w, "Failed to load audit logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pageData.Data = auditListPage{
		Page:       page,
		Categories: auditview.Categories(),
		Category:   page.Filter.Category,
		Search:     filter.Search,
	}
	renderTemplate(w, "audit_logs", "audit_logs.html", pageData)
}

// Show handles GET /audit/{id}
func (c *AuditController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	detail, err := c.services.Audit.Get(r.Context(), id)
	if errors.Is(err, models.ErrAuditLogNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.WithError(err).WithField("id", id).Error("Failed to load audit log entry")
		http.Error(w, "Failed to load audit log entry: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "audit_log_detail", "audit_log_detail.html", models.PageData{
		Title:       "Audit Entry " + detail.EventID,
		CurrentPage: "audit",
		Operator:    signedInOperator(r),
		Data:        detail,
	})
}

// Purge handles POST /audit/purge
func (c *AuditController) Purge(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(strings.TrimSpace(r.FormValue("older_than_days")))
	if err != nil {
		http.Error(w, "older_than_days must be a number", http.StatusBadRequest)
		return
	}

	deleted, err := c.services.Audit.Purge(r.Context(), days)
	if errors.Is(err, services.ErrInvalidRetention) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to purge audit logs")
		http.Error(w, "Failed to purge audit logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/audit?purged="+strconv.FormatInt(deleted, 10), http.StatusSeeOther)
}

// APIList handles GET /api/audit-logs
func (c *AuditController) APIList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.AuditLogFilter{
		Category: query.Get("category"),
		Search:   query.Get("q"),
	}
	var err error
	if v := query.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			writeJSONError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
	}
	if v := query.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			writeJSONError(w, http.StatusBadRequest, "offset must be a number")
			return
		}
	}

	page, err := c.services.Audit.List(r.Context(), filter)
	if errors.Is(err, services.ErrInvalidCategory) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to list audit logs")
		writeJSONError(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// APIGet handles GET /api/audit-logs/{id}
func (c *AuditController) APIGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, models.ErrAuditLogNotFound.Error())
		return
	}

	detail, err := c.services.Audit.Get(r.Context(), id)
	if errors.Is(err, models.ErrAuditLogNotFound) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.WithError(err).WithField("id", id).Error("Failed to load audit log entry")
		writeJSONError(w, http.StatusInternalServerError, "failed to load audit log entry")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// APIIngest handles POST /api/audit-logs
func (c *AuditController) APIIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIngestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "audit record too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	entry, err := c.services.Audit.Ingest(r.Context(), body)
	if errors.Is(err, services.ErrInvalidRecord) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to ingest audit record")
		writeJSONError(w, http.StatusInternalServerError, "failed to store audit record")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       entry.ID,
		"event_id": entry.EventID,
		"category": entry.EventCategory,
	})
}

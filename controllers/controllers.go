package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/services"
	"github.com/blogem/audit-console/userctx"
)

// templateDir is where layout.html and the page templates live
var templateDir = "templates"

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	// Create a new template set with only the templates we need
	tmpl := template.New(templateName)
	tmpl.Funcs(template.FuncMap{
		"add":           func(a, b int) int { return a + b },
		"sub":           func(a, b int) int { return a - b },
		"eq":            func(a, b interface{}) bool { return a == b },
		"formatTime":    models.FormatDateTime,
		"categoryClass": categoryClass,
	})

	// Parse layout and page template
	_, err := tmpl.ParseFiles(filepath.Join(templateDir, "layout.html"), filepath.Join(templateDir, pageTemplate))
	if err != nil {
		log.WithError(err).WithField("template", pageTemplate).Error("Failed to parse template")
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	// Set status code if not OK
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.WithError(err).WithField("template", pageTemplate).Error("Failed to render template")
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// signedInOperator names the signed-in operator for the nav bar, or returns
// "" when nobody is signed in
func signedInOperator(r *http.Request) string {
	userID := userctx.GetUserID(r.Context())
	if userID == "" {
		return ""
	}
	if operator := userctx.Operator(r.Context()); operator != userctx.Anonymous {
		return operator
	}
	return userID
}

// categoryClass maps an event category to its badge CSS class
func categoryClass(category auditview.EventCategory) string {
	switch category {
	case auditview.CategoryLogin:
		return "badge-login"
	case auditview.CategoryFetch:
		return "badge-fetch"
	case auditview.CategoryCreate:
		return "badge-create"
	case auditview.CategoryUpdate:
		return "badge-update"
	case auditview.CategoryDelete:
		return "badge-delete"
	default:
		return "badge-default"
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode JSON response")
	}
}

// writeJSONError writes {"error": message}
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Audit     *AuditController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(),
		Dashboard: NewDashboardController(services),
		Audit:     NewAuditController(services),
	}
}

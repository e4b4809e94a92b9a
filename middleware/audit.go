package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/services"
	"github.com/blogem/audit-console/userctx"
)

// auditRecordTimeout bounds the background write of one entry
const auditRecordTimeout = 10 * time.Second

// AuditLogger middleware logs all POST/PUT/PATCH/DELETE requests
func AuditLogger(auditService services.AuditService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			entry := newAuditEntry(r)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry.StatusCode = ww.Status()
			if entry.StatusCode == 0 {
				entry.StatusCode = http.StatusOK
			}

			// Log asynchronously to avoid blocking request
			recordAsync(context.WithoutCancel(r.Context()), auditService, entry)
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// newAuditEntry captures everything about the request that is known before
// the handler runs
func newAuditEntry(r *http.Request) *models.AuditLogEntry {
	ctx := r.Context()
	entry := &models.AuditLogEntry{
		Source:      models.SourceConsole,
		Username:    userctx.Operator(ctx),
		UserID:      userctx.GetUserID(ctx),
		UserEmail:   userctx.GetUserEmail(ctx),
		EventType:   eventType(r.Method, r.URL.Path),
		Method:      r.Method,
		Path:        r.URL.Path,
		RequestBody: captureFormData(r),
		UserAgent:   r.UserAgent(),
		IPAddress:   getIPAddress(r),
	}
	entry.DeviceModel, entry.OS, entry.Browser, entry.DeviceType = describeUserAgent(entry.UserAgent)
	return entry
}

func recordAsync(ctx context.Context, auditService services.AuditService, entry *models.AuditLogEntry) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"panic": rec,
					"path":  entry.Path,
				}).Error("Recovered while recording audit log")
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, auditRecordTimeout)
		defer cancel()

		if err := auditService.Record(ctx, entry); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"method": entry.Method,
				"path":   entry.Path,
			}).Error("Failed to create audit log")
		}
	}()
}

// eventType names a console request after its method and first path
// segment, e.g. "post_audit" for POST /audit/purge
func eventType(method, path string) string {
	event := strings.ToLower(method)
	segment, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if segment == "" {
		return event
	}
	return event + "_" + strings.ReplaceAll(strings.ToLower(segment), "-", "_")
}

// describeUserAgent returns device model, OS, browser and device type
func describeUserAgent(raw string) (model, os, browser, deviceType string) {
	if strings.TrimSpace(raw) == "" {
		return "", "", "", ""
	}

	ua := useragent.New(raw)
	name, version := ua.Browser()
	browser = strings.TrimSpace(name + " " + version)
	os = ua.OS()
	model = ua.Model()

	switch {
	case ua.Bot():
		deviceType = "bot"
	case ua.Mobile():
		deviceType = "mobile"
	default:
		deviceType = "desktop"
	}
	return model, os, browser, deviceType
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return strings.TrimSpace(realIP)
	}

	// Fall back to RemoteAddr without its port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// captureFormData captures form data as JSON string
func captureFormData(r *http.Request) string {
	// Parse form data
	if err := r.ParseForm(); err != nil {
		return ""
	}
	if len(r.Form) == 0 {
		return ""
	}

	// Convert to map
	formMap := make(map[string]interface{})
	for key, values := range r.Form {
		if len(values) == 1 {
			formMap[key] = values[0]
		} else {
			formMap[key] = values
		}
	}

	// Convert to JSON
	jsonData, err := json.Marshal(formMap)
	if err != nil {
		return ""
	}

	return string(jsonData)
}

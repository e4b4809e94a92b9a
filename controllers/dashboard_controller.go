package controllers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/services"
)

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services *services.Services
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services) *DashboardController {
	return &DashboardController{
		services: services,
	}
}

// Index handles GET /
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	data, err := c.services.Audit.Summary(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load dashboard data")
		http.Error(w, "Failed to load dashboard data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "dashboard", "dashboard.html", models.PageData{
		Title:       "Audit Console",
		CurrentPage: "dashboard",
		Operator:    signedInOperator(r),
		Data:        data,
	})
}

package services

import (
	"github.com/blogem/audit-console/repositories"
)

// Services holds all service instances
type Services struct {
	Audit AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, publisher Publisher) *Services {
	return &Services{
		Audit: NewAuditService(repos.Audit, publisher),
	}
}

package handler

import (
	"github.com/rmaksimov/autoservice/internal/auth"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/server"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup receives one object instead of many.
type Handlers struct {
	Auth    *AuthHandler    // Auth serves the operator login endpoint.
	Clients *ClientHandler  // Clients serves CRUD + search for client records.
	Cars    *CarHandler     // Cars serves CRUD + search for car records.
	Repairs *RepairHandler  // Repairs serves CRUD + search for repair records.
	Health  *HealthHandler  // Health serves the service health endpoint.
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, authSvc *auth.Service, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(s, authSvc),
		Clients: NewClientHandler(s, repos.Clients),
		Cars:    NewCarHandler(s, repos.Cars),
		Repairs: NewRepairHandler(s, repos.Repairs),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}

// MessageResponse is the confirmation body for updates and deletes.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// CreatedResponse is the confirmation body for creates, echoing the
// assigned surrogate id.
type CreatedResponse struct {
	ID  int64  `json:"id"`
	Msg string `json:"msg"`
}

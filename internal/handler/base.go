// Package handler is the first entry point for business logic after
// the router.
//
// It parses requests, handles input validation using the validation
// package, and calls the repository layer. It acts as the interface
// between the HTTP request and the core business logic.
package handler

import (
	"github.com/rmaksimov/autoservice/internal/server"
)

// Handler is the base handler type that holds shared application
// dependencies. Concrete handlers embed it to access config, logger,
// and the database through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler. Returning by value is fine:
// the struct only contains a pointer field.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

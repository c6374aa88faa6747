package repository

import (
	"github.com/rmaksimov/autoservice/internal/server"
)

// Repositories is a container for all repository instances, wired once
// and passed to the handler layer.
type Repositories struct {
	Clients ClientRepository
	Cars    CarRepository
	Repairs RepairRepository
}

// NewRepositories constructs the repository container backed by the
// server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Clients: NewPgClientRepository(s.DB.Pool),
		Cars:    NewPgCarRepository(s.DB.Pool),
		Repairs: NewPgRepairRepository(s.DB.Pool),
	}
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/server"
	"github.com/rmaksimov/autoservice/internal/validation"
)

// ClientHandler serves CRUD and search endpoints for client records.
type ClientHandler struct {
	Handler
	repo repository.ClientRepository
}

func NewClientHandler(s *server.Server, repo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{
		Handler: NewHandler(s),
		repo:    repo,
	}
}

// ClientResponse is the wire shape of a client record.
type ClientResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

func newClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
	}
}

func newClientResponses(clients []model.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, newClientResponse(c))
	}
	return out
}

// ListClientsRequest is the (empty) payload of the listing endpoint.
type ListClientsRequest struct{}

func (r *ListClientsRequest) Validate() error { return nil }

// List returns every client record.
func (h *ClientHandler) List(c echo.Context, _ *ListClientsRequest) ([]ClientResponse, error) {
	clients, err := h.repo.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return newClientResponses(clients), nil
}

// SearchClientsRequest binds the ?phone= query parameter. An absent or
// empty value matches nothing and yields an empty list, not an error.
type SearchClientsRequest struct {
	Phone string `query:"phone"`
}

func (r *SearchClientsRequest) Validate() error { return nil }

// Search returns the clients whose phone number exactly equals the
// query value.
func (h *ClientHandler) Search(c echo.Context, req *SearchClientsRequest) ([]ClientResponse, error) {
	clients, err := h.repo.SearchByPhone(c.Request().Context(), req.Phone)
	if err != nil {
		return nil, err
	}
	return newClientResponses(clients), nil
}

// CreateClientRequest carries all required fields for a new client.
type CreateClientRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	Email       string `json:"email" validate:"required,email,max=100"`
}

func (r *CreateClientRequest) Validate() error {
	return validation.Struct(r)
}

// Create inserts a new client. Duplicate phone numbers or emails fail
// the whole create atomically.
func (h *ClientHandler) Create(c echo.Context, req *CreateClientRequest) (*CreatedResponse, error) {
	id, err := h.repo.Create(c.Request().Context(), repository.CreateClientParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		return nil, err
	}
	return &CreatedResponse{ID: id, Msg: "Client created successfully"}, nil
}

// UpdateClientRequest is a merge-patch: only fields present in the
// payload overwrite stored values. Presence is authoritative, so an
// explicitly supplied empty string does overwrite.
type UpdateClientRequest struct {
	ID          int64   `param:"id" json:"-"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=50"`
	LastName    *string `json:"last_name" validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
}

func (r *UpdateClientRequest) Validate() error {
	return validation.Struct(r)
}

// Update applies a partial update to an existing client.
func (h *ClientHandler) Update(c echo.Context, req *UpdateClientRequest) (*MessageResponse, error) {
	err := h.repo.Update(c.Request().Context(), req.ID, repository.UpdateClientParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Client updated successfully"}, nil
}

// DeleteClientRequest identifies the client to remove.
type DeleteClientRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteClientRequest) Validate() error { return nil }

// Delete removes a client and, by relational cascade, all of their
// cars and those cars' repairs.
func (h *ClientHandler) Delete(c echo.Context, req *DeleteClientRequest) (*MessageResponse, error) {
	if err := h.repo.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Client deleted successfully"}, nil
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/server"
	"github.com/rmaksimov/autoservice/internal/validation"
)

// CarHandler serves CRUD and search endpoints for car records.
type CarHandler struct {
	Handler
	repo repository.CarRepository
}

func NewCarHandler(s *server.Server, repo repository.CarRepository) *CarHandler {
	return &CarHandler{
		Handler: NewHandler(s),
		repo:    repo,
	}
}

// CarResponse is the wire shape of a car record.
type CarResponse struct {
	ID       int64  `json:"id"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	VIN      string `json:"vin"`
	ClientID int64  `json:"client_id"`
}

func newCarResponse(c model.Car) CarResponse {
	return CarResponse{
		ID:       c.ID,
		Make:     c.Make,
		Model:    c.Model,
		Year:     c.Year,
		VIN:      c.VIN,
		ClientID: c.ClientID,
	}
}

func newCarResponses(cars []model.Car) []CarResponse {
	out := make([]CarResponse, 0, len(cars))
	for _, c := range cars {
		out = append(out, newCarResponse(c))
	}
	return out
}

// ListCarsRequest is the (empty) payload of the listing endpoint.
type ListCarsRequest struct{}

func (r *ListCarsRequest) Validate() error { return nil }

// List returns every car record.
func (h *CarHandler) List(c echo.Context, _ *ListCarsRequest) ([]CarResponse, error) {
	cars, err := h.repo.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return newCarResponses(cars), nil
}

// SearchCarsRequest binds the ?vin= query parameter.
type SearchCarsRequest struct {
	VIN string `query:"vin"`
}

func (r *SearchCarsRequest) Validate() error { return nil }

// Search returns the cars whose VIN exactly equals the query value.
func (h *CarHandler) Search(c echo.Context, req *SearchCarsRequest) ([]CarResponse, error) {
	cars, err := h.repo.SearchByVIN(c.Request().Context(), req.VIN)
	if err != nil {
		return nil, err
	}
	return newCarResponses(cars), nil
}

// CreateCarRequest carries all required fields for a new car. The
// client_id must reference an existing client.
type CreateCarRequest struct {
	ClientID int64  `json:"client_id" validate:"required"`
	Make     string `json:"make" validate:"required,max=50"`
	Model    string `json:"model" validate:"required,max=50"`
	Year     int    `json:"year" validate:"required"`
	VIN      string `json:"vin" validate:"required,max=17"`
}

func (r *CreateCarRequest) Validate() error {
	return validation.Struct(r)
}

// Create inserts a new car. An unknown client_id or a duplicate VIN
// fails the whole create atomically; no partial record is persisted.
func (h *CarHandler) Create(c echo.Context, req *CreateCarRequest) (*CreatedResponse, error) {
	id, err := h.repo.Create(c.Request().Context(), repository.CreateCarParams{
		ClientID: req.ClientID,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		VIN:      req.VIN,
	})
	if err != nil {
		return nil, err
	}
	return &CreatedResponse{ID: id, Msg: "Car created successfully"}, nil
}

// UpdateCarRequest is a merge-patch over the car's own attributes;
// ownership (client_id) is not revisable.
type UpdateCarRequest struct {
	ID    int64   `param:"id" json:"-"`
	Make  *string `json:"make" validate:"omitempty,max=50"`
	Model *string `json:"model" validate:"omitempty,max=50"`
	Year  *int    `json:"year"`
	VIN   *string `json:"vin" validate:"omitempty,max=17"`
}

func (r *UpdateCarRequest) Validate() error {
	return validation.Struct(r)
}

// Update applies a partial update to an existing car.
func (h *CarHandler) Update(c echo.Context, req *UpdateCarRequest) (*MessageResponse, error) {
	err := h.repo.Update(c.Request().Context(), req.ID, repository.UpdateCarParams{
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
		VIN:   req.VIN,
	})
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Car updated successfully"}, nil
}

// DeleteCarRequest identifies the car to remove.
type DeleteCarRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteCarRequest) Validate() error { return nil }

// Delete removes a car and, by relational cascade, its repairs.
func (h *CarHandler) Delete(c echo.Context, req *DeleteCarRequest) (*MessageResponse, error) {
	if err := h.repo.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Car deleted successfully"}, nil
}

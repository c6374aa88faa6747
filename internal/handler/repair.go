package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/server"
	"github.com/rmaksimov/autoservice/internal/validation"
)

// RepairHandler serves CRUD and search endpoints for repair records.
type RepairHandler struct {
	Handler
	repo repository.RepairRepository
}

func NewRepairHandler(s *server.Server, repo repository.RepairRepository) *RepairHandler {
	return &RepairHandler{
		Handler: NewHandler(s),
		repo:    repo,
	}
}

// RepairResponse is the wire shape of a repair record: the date as a
// "YYYY-MM-DD HH:MM:SS" literal and the cost as a decimal string.
type RepairResponse struct {
	ID          int64           `json:"id"`
	CarID       int64           `json:"car_id"`
	RepairDate  string          `json:"repair_date"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
}

func newRepairResponse(r model.Repair) RepairResponse {
	return RepairResponse{
		ID:          r.ID,
		CarID:       r.CarID,
		RepairDate:  r.RepairDate.Format(model.RepairDateLayout),
		Description: r.Description,
		Cost:        r.Cost,
		Status:      r.Status,
	}
}

func newRepairResponses(repairs []model.Repair) []RepairResponse {
	out := make([]RepairResponse, 0, len(repairs))
	for _, r := range repairs {
		out = append(out, newRepairResponse(r))
	}
	return out
}

// ListRepairsRequest is the (empty) payload of the listing endpoint.
type ListRepairsRequest struct{}

func (r *ListRepairsRequest) Validate() error { return nil }

// List returns every repair record.
func (h *RepairHandler) List(c echo.Context, _ *ListRepairsRequest) ([]RepairResponse, error) {
	repairs, err := h.repo.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return newRepairResponses(repairs), nil
}

// SearchRepairsRequest binds the ?status= query parameter.
type SearchRepairsRequest struct {
	Status string `query:"status"`
}

func (r *SearchRepairsRequest) Validate() error { return nil }

// Search returns the repairs whose status exactly equals the query
// value.
func (h *RepairHandler) Search(c echo.Context, req *SearchRepairsRequest) ([]RepairResponse, error) {
	repairs, err := h.repo.SearchByStatus(c.Request().Context(), req.Status)
	if err != nil {
		return nil, err
	}
	return newRepairResponses(repairs), nil
}

// CreateRepairRequest carries the fields for a new repair. The car_id
// must reference an existing car; repair_date is a literal
// "YYYY-MM-DD HH:MM:SS" timestamp; status defaults to "Pending" when
// omitted.
type CreateRepairRequest struct {
	CarID       int64            `json:"car_id" validate:"required"`
	RepairDate  string           `json:"repair_date" validate:"required"`
	Description string           `json:"description" validate:"required,max=255"`
	Cost        *decimal.Decimal `json:"cost" validate:"required"`
	Status      string           `json:"status" validate:"omitempty,max=20"`
}

func (r *CreateRepairRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if _, err := time.Parse(model.RepairDateLayout, r.RepairDate); err != nil {
		return validation.CustomValidationErrors{{
			Field:   "repair_date",
			Message: "must match format YYYY-MM-DD HH:MM:SS",
		}}
	}
	return nil
}

// Create inserts a new repair. An unknown car_id fails the whole
// create atomically.
func (h *RepairHandler) Create(c echo.Context, req *CreateRepairRequest) (*CreatedResponse, error) {
	// Validate has already checked the layout.
	repairDate, _ := time.Parse(model.RepairDateLayout, req.RepairDate)

	status := req.Status
	if status == "" {
		status = model.RepairStatusDefault
	}

	id, err := h.repo.Create(c.Request().Context(), repository.CreateRepairParams{
		CarID:       req.CarID,
		RepairDate:  repairDate,
		Description: req.Description,
		Cost:        *req.Cost,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	return &CreatedResponse{ID: id, Msg: "Repair created successfully"}, nil
}

// UpdateRepairRequest is a merge-patch over the revisable fields only;
// car_id and repair_date are fixed at creation.
type UpdateRepairRequest struct {
	ID          int64            `param:"id" json:"-"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Cost        *decimal.Decimal `json:"cost"`
	Status      *string          `json:"status" validate:"omitempty,max=20"`
}

func (r *UpdateRepairRequest) Validate() error {
	return validation.Struct(r)
}

// Update applies a partial update to an existing repair.
func (h *RepairHandler) Update(c echo.Context, req *UpdateRepairRequest) (*MessageResponse, error) {
	err := h.repo.Update(c.Request().Context(), req.ID, repository.UpdateRepairParams{
		Description: req.Description,
		Cost:        req.Cost,
		Status:      req.Status,
	})
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Repair updated successfully"}, nil
}

// DeleteRepairRequest identifies the repair to remove.
type DeleteRepairRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteRepairRequest) Validate() error { return nil }

// Delete removes a repair record.
func (h *RepairHandler) Delete(c echo.Context, req *DeleteRepairRequest) (*MessageResponse, error) {
	if err := h.repo.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Msg: "Repair deleted successfully"}, nil
}

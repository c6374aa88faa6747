package sqlerr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaksimov/autoservice/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "clients",
		ConstraintName: "clients_phone_number_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CLIENT_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A client with this Phone Number already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleError_UniqueViolationVIN(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "cars",
		ConstraintName: "cars_vin_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CAR_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A car with this Vin already exists", httpErr.Message)
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name     string
		pgErr    *pgconn.PgError
		wantCode string
		wantMsg  string
	}{
		{
			name: "car references missing client",
			pgErr: &pgconn.PgError{
				Code:           "23503",
				Severity:       "ERROR",
				TableName:      "cars",
				ConstraintName: "cars_client_id_fkey",
			},
			wantCode: "CAR_NOT_FOUND",
			wantMsg:  "The referenced client does not exist",
		},
		{
			name: "repair references missing car",
			pgErr: &pgconn.PgError{
				Code:           "23503",
				Severity:       "ERROR",
				TableName:      "repairs",
				ConstraintName: "repairs_car_id_fkey",
			},
			wantCode: "REPAIR_NOT_FOUND",
			wantMsg:  "The referenced car does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.pgErr))

			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "clients",
		ColumnName: "email",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CLIENT_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "email", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestHandleError_NoRowsTagged(t *testing.T) {
	tests := []struct {
		table   string
		wantMsg string
	}{
		{"clients", "Client not found"},
		{"cars", "Car not found"},
		{"repairs", "Repair not found"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(NotFound(tt.table, pgx.ErrNoRows)))

			assert.Equal(t, http.StatusNotFound, httpErr.Status)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHandleError_NoRowsUntagged(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleError_PassesThroughHTTPError(t *testing.T) {
	original := errs.NewUnauthorizedError("Bad credentials", false)

	assert.Same(t, original, HandleError(original))
}

func TestHandleError_UnknownError(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Severity: "ERROR"}

	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(pgErr)))
	assert.Equal(t, Other, ErrCode(errors.New("nope")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		table      string
		want       string
	}{
		{"clients_phone_number_key", "clients", "phone_number"},
		{"clients_email_key", "clients", "email"},
		{"cars_vin_key", "cars", "vin"},
		{"unique_clients_email", "clients", "email"},
		{"", "clients", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.constraint, tt.table), tt.constraint)
	}
}

func TestReferencedEntityName(t *testing.T) {
	assert.Equal(t, "client", referencedEntityName("cars_client_id_fkey", "cars"))
	assert.Equal(t, "car", referencedEntityName("repairs_car_id_fkey", "repairs"))
	assert.Equal(t, "car", referencedEntityName("some_custom_name", "cars"))
}

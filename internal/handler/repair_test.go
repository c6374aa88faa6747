package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaksimov/autoservice/internal/errs"
	"github.com/rmaksimov/autoservice/internal/handler"
	"github.com/rmaksimov/autoservice/internal/model"
)

func seedGarage(t *testing.T, env *testEnv, token string) (clientID, carID int64) {
	t.Helper()
	clientID = env.seedClient(t, token, "+79990001122", "ivan@example.com")
	carID = env.seedCar(t, token, clientID, "JTDBU4EE9A9123456")
	return clientID, carID
}

func TestRepairs_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)

	rec := env.do(t, http.MethodPost, "/repairs", token, map[string]any{
		"car_id":      carID,
		"repair_date": "2026-03-14 09:30:00",
		"description": "Brake pad replacement",
		"cost":        "149.99",
		"status":      "In Progress",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created handler.CreatedResponse
	decode(t, rec, &created)
	assert.Equal(t, "Repair created successfully", created.Msg)

	rec = env.do(t, http.MethodGet, "/repairs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var repairs []handler.RepairResponse
	decode(t, rec, &repairs)
	require.Len(t, repairs, 1)
	assert.Equal(t, carID, repairs[0].CarID)
	assert.Equal(t, "2026-03-14 09:30:00", repairs[0].RepairDate)
	assert.Equal(t, "Brake pad replacement", repairs[0].Description)
	assert.True(t, repairs[0].Cost.Equal(decimal.RequireFromString("149.99")))
	assert.Equal(t, "In Progress", repairs[0].Status)
}

func TestRepairs_CreateDefaultStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)

	id := env.seedRepair(t, token, carID, "")

	assert.Equal(t, model.RepairStatusDefault, env.store.repairs[id].Status)
}

func TestRepairs_CreateBadDate(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)

	for _, badDate := range []string{"2026-03-14", "14.03.2026 09:30", "not a date"} {
		rec := env.do(t, http.MethodPost, "/repairs", token, map[string]any{
			"car_id":      carID,
			"repair_date": badDate,
			"description": "Brake pad replacement",
			"cost":        "149.99",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, badDate)

		var body errs.HTTPError
		decode(t, rec, &body)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "repair_date", body.Errors[0].Field)
		assert.Equal(t, "must match format YYYY-MM-DD HH:MM:SS", body.Errors[0].Error)
	}

	assert.Empty(t, env.store.repairs)
}

func TestRepairs_CreateUnknownCar(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/repairs", token, map[string]any{
		"car_id":      42,
		"repair_date": "2026-03-14 09:30:00",
		"description": "Brake pad replacement",
		"cost":        "149.99",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	decode(t, rec, &body)
	assert.Equal(t, "The referenced car does not exist", body.Message)
}

func TestRepairs_CreateMissingCost(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)

	rec := env.do(t, http.MethodPost, "/repairs", token, map[string]any{
		"car_id":      carID,
		"repair_date": "2026-03-14 09:30:00",
		"description": "Brake pad replacement",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	decode(t, rec, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "cost", body.Errors[0].Field)
	assert.Equal(t, "is required", body.Errors[0].Error)
}

func TestRepairs_SearchByStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)
	env.seedRepair(t, token, carID, "Pending")
	env.seedRepair(t, token, carID, "Completed")
	env.seedRepair(t, token, carID, "Completed")

	rec := env.do(t, http.MethodGet, "/repairs/search?status=Completed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var repairs []handler.RepairResponse
	decode(t, rec, &repairs)
	assert.Len(t, repairs, 2)

	rec = env.do(t, http.MethodGet, "/repairs/search?status=Cancelled", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRepairs_UpdateMergePatch(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)
	id := env.seedRepair(t, token, carID, "Pending")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/repairs/%d", id), token, map[string]any{
		"status": "Completed",
		"cost":   "210.50",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var msg handler.MessageResponse
	decode(t, rec, &msg)
	assert.Equal(t, "Repair updated successfully", msg.Msg)

	stored := env.store.repairs[id]
	assert.Equal(t, "Completed", stored.Status)
	assert.True(t, stored.Cost.Equal(decimal.RequireFromString("210.50")))
	assert.Equal(t, "Brake pad replacement", stored.Description)
}

func TestRepairs_UpdateNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPut, "/repairs/99", token, map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errs.HTTPError
	decode(t, rec, &body)
	assert.Equal(t, "Repair not found", body.Message)
}

func TestRepairs_Delete(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	_, carID := seedGarage(t, env, token)
	id := env.seedRepair(t, token, carID, "")

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/repairs/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg handler.MessageResponse
	decode(t, rec, &msg)
	assert.Equal(t, "Repair deleted successfully", msg.Msg)

	assert.Empty(t, env.store.repairs)
	// Parents are untouched.
	assert.Len(t, env.store.cars, 1)
	assert.Len(t, env.store.clients, 1)
}

func TestRepairs_DeleteNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodDelete, "/repairs/99", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errs.HTTPError
	decode(t, rec, &body)
	assert.Equal(t, "Repair not found", body.Message)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

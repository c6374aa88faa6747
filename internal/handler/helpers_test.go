package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rmaksimov/autoservice/internal/auth"
	"github.com/rmaksimov/autoservice/internal/config"
	"github.com/rmaksimov/autoservice/internal/handler"
	"github.com/rmaksimov/autoservice/internal/middleware"
	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/router"
	"github.com/rmaksimov/autoservice/internal/server"
	"github.com/rmaksimov/autoservice/internal/sqlerr"
)

// mockStore is an in-memory stand-in for the database that reproduces
// its relevant behavior: surrogate ids, unique and FK violations as
// pgconn errors, and parent-to-child delete cascades.
type mockStore struct {
	mu      sync.Mutex
	clients map[int64]model.Client
	cars    map[int64]model.Car
	repairs map[int64]model.Repair
	nextID  int64
}

func newMockStore() *mockStore {
	return &mockStore{
		clients: make(map[int64]model.Client),
		cars:    make(map[int64]model.Car),
		repairs: make(map[int64]model.Repair),
	}
}

func (s *mockStore) id() int64 {
	s.nextID++
	return s.nextID
}

func uniqueViolation(table, constraint string) error {
	return &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      table,
		ConstraintName: constraint,
	}
}

func fkViolation(table, constraint string) error {
	return &pgconn.PgError{
		Code:           "23503",
		Severity:       "ERROR",
		TableName:      table,
		ConstraintName: constraint,
	}
}

type mockClientRepo struct{ s *mockStore }

func (r *mockClientRepo) List(context.Context) ([]model.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockClientRepo) SearchByPhone(_ context.Context, phone string) ([]model.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Client, 0)
	for _, c := range r.s.clients {
		if c.PhoneNumber == phone {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *mockClientRepo) Create(_ context.Context, p repository.CreateClientParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clients {
		if c.PhoneNumber == p.PhoneNumber {
			return 0, uniqueViolation("clients", "clients_phone_number_key")
		}
		if c.Email == p.Email {
			return 0, uniqueViolation("clients", "clients_email_key")
		}
	}

	id := r.s.id()
	r.s.clients[id] = model.Client{
		ID:               id,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		PhoneNumber:      p.PhoneNumber,
		Email:            p.Email,
		RegistrationDate: time.Now(),
	}
	return id, nil
}

func (r *mockClientRepo) Update(_ context.Context, id int64, p repository.UpdateClientParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients[id]
	if !ok {
		return sqlerr.NotFound("clients", pgx.ErrNoRows)
	}

	if p.PhoneNumber != nil {
		for otherID, other := range r.s.clients {
			if otherID != id && other.PhoneNumber == *p.PhoneNumber {
				return uniqueViolation("clients", "clients_phone_number_key")
			}
		}
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Email != nil {
		for otherID, other := range r.s.clients {
			if otherID != id && other.Email == *p.Email {
				return uniqueViolation("clients", "clients_email_key")
			}
		}
		c.Email = *p.Email
	}
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}

	r.s.clients[id] = c
	return nil
}

func (r *mockClientRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return sqlerr.NotFound("clients", pgx.ErrNoRows)
	}
	delete(r.s.clients, id)

	for carID, car := range r.s.cars {
		if car.ClientID != id {
			continue
		}
		delete(r.s.cars, carID)
		for repairID, repair := range r.s.repairs {
			if repair.CarID == carID {
				delete(r.s.repairs, repairID)
			}
		}
	}
	return nil
}

type mockCarRepo struct{ s *mockStore }

func (r *mockCarRepo) List(context.Context) ([]model.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Car, 0, len(r.s.cars))
	for _, c := range r.s.cars {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockCarRepo) SearchByVIN(_ context.Context, vin string) ([]model.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Car, 0)
	for _, c := range r.s.cars {
		if c.VIN == vin {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *mockCarRepo) Create(_ context.Context, p repository.CreateCarParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[p.ClientID]; !ok {
		return 0, fkViolation("cars", "cars_client_id_fkey")
	}
	for _, c := range r.s.cars {
		if c.VIN == p.VIN {
			return 0, uniqueViolation("cars", "cars_vin_key")
		}
	}

	id := r.s.id()
	r.s.cars[id] = model.Car{
		ID:       id,
		ClientID: p.ClientID,
		Make:     p.Make,
		Model:    p.Model,
		Year:     p.Year,
		VIN:      p.VIN,
	}
	return id, nil
}

func (r *mockCarRepo) Update(_ context.Context, id int64, p repository.UpdateCarParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cars[id]
	if !ok {
		return sqlerr.NotFound("cars", pgx.ErrNoRows)
	}

	if p.VIN != nil {
		for otherID, other := range r.s.cars {
			if otherID != id && other.VIN == *p.VIN {
				return uniqueViolation("cars", "cars_vin_key")
			}
		}
		c.VIN = *p.VIN
	}
	if p.Make != nil {
		c.Make = *p.Make
	}
	if p.Model != nil {
		c.Model = *p.Model
	}
	if p.Year != nil {
		c.Year = *p.Year
	}

	r.s.cars[id] = c
	return nil
}

func (r *mockCarRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[id]; !ok {
		return sqlerr.NotFound("cars", pgx.ErrNoRows)
	}
	delete(r.s.cars, id)

	for repairID, repair := range r.s.repairs {
		if repair.CarID == id {
			delete(r.s.repairs, repairID)
		}
	}
	return nil
}

type mockRepairRepo struct{ s *mockStore }

func (r *mockRepairRepo) List(context.Context) ([]model.Repair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Repair, 0, len(r.s.repairs))
	for _, rec := range r.s.repairs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockRepairRepo) SearchByStatus(_ context.Context, status string) ([]model.Repair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Repair, 0)
	for _, rec := range r.s.repairs {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *mockRepairRepo) Create(_ context.Context, p repository.CreateRepairParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[p.CarID]; !ok {
		return 0, fkViolation("repairs", "repairs_car_id_fkey")
	}

	id := r.s.id()
	r.s.repairs[id] = model.Repair{
		ID:          id,
		CarID:       p.CarID,
		RepairDate:  p.RepairDate,
		Description: p.Description,
		Cost:        p.Cost,
		Status:      p.Status,
	}
	return id, nil
}

func (r *mockRepairRepo) Update(_ context.Context, id int64, p repository.UpdateRepairParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.repairs[id]
	if !ok {
		return sqlerr.NotFound("repairs", pgx.ErrNoRows)
	}

	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Cost != nil {
		rec.Cost = *p.Cost
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}

	r.s.repairs[id] = rec
	return nil
}

func (r *mockRepairRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.repairs[id]; !ok {
		return sqlerr.NotFound("repairs", pgx.ErrNoRows)
	}
	delete(r.s.repairs, id)
	return nil
}

// testEnv wires the full HTTP stack (router, middleware, handlers)
// over the mock store.
type testEnv struct {
	e     *echo.Echo
	store *mockStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			SecretKey:     "test-secret",
			AdminUsername: "admin",
			AdminPassword: "password",
			TokenTTL:      time.Hour,
		},
	}

	logger := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &logger}

	tokens := auth.NewTokenService(cfg.Auth)
	authSvc := auth.NewService(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, tokens)

	store := newMockStore()
	repos := &repository.Repositories{
		Clients: &mockClientRepo{s: store},
		Cars:    &mockCarRepo{s: store},
		Repairs: &mockRepairRepo{s: store},
	}

	mw := middleware.NewMiddlewares(s, tokens)
	handlers := handler.NewHandlers(s, authSvc, repos)

	return &testEnv{
		e:     router.New(handlers, mw),
		store: store,
	}
}

// do performs a request against the in-memory router.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// login obtains a bearer token via the real login endpoint.
func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "admin",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// decode unmarshals a response body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// seedClient inserts a client through the API and returns its id.
func (env *testEnv) seedClient(t *testing.T, token, phone, email string) int64 {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/clients", token, map[string]any{
		"first_name":   "Ivan",
		"last_name":    "Petrov",
		"phone_number": phone,
		"email":        email,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

// seedCar inserts a car through the API and returns its id.
func (env *testEnv) seedCar(t *testing.T, token string, clientID int64, vin string) int64 {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/cars", token, map[string]any{
		"client_id": clientID,
		"make":      "Toyota",
		"model":     "Corolla",
		"year":      2018,
		"vin":       vin,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

// seedRepair inserts a repair through the API and returns its id.
func (env *testEnv) seedRepair(t *testing.T, token string, carID int64, status string) int64 {
	t.Helper()

	payload := map[string]any{
		"car_id":      carID,
		"repair_date": "2026-03-14 09:30:00",
		"description": "Brake pad replacement",
		"cost":        "149.99",
	}
	if status != "" {
		payload["status"] = status
	}

	rec := env.do(t, http.MethodPost, "/repairs", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

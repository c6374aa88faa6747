// Package model defines the entity records managed by the service:
// clients, the cars they own, and the repairs performed on those cars.
//
// Ownership is strict and acyclic: a Client owns its Cars (1:N) and a
// Car owns its Repairs (1:N). Deleting a parent cascades to its
// children at the database level.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepairDateLayout is the wire format for repair timestamps,
// e.g. "2025-06-01 14:30:00".
const RepairDateLayout = "2006-01-02 15:04:05"

// RepairStatusDefault is applied when a repair is created without an
// explicit status. Status is a free-form label; no transition graph is
// enforced.
const RepairStatusDefault = "Pending"

// Client is an identity record for a shop customer.
//
// PhoneNumber and Email are unique across all clients.
// RegistrationDate is set once at creation and never updated.
type Client struct {
	ID               int64
	FirstName        string
	LastName         string
	PhoneNumber      string
	Email            string
	RegistrationDate time.Time
}

// Car is owned by exactly one Client.
//
// VIN is unique across the entire car population, not just within one
// client.
type Car struct {
	ID       int64
	ClientID int64
	Make     string
	Model    string
	Year     int
	VIN      string
}

// Repair is owned by exactly one Car.
//
// Cost carries two fractional digits of precision. CarID and
// RepairDate are fixed at creation; only description, cost, and status
// are revisable.
type Repair struct {
	ID          int64
	CarID       int64
	RepairDate  time.Time
	Description string
	Cost        decimal.Decimal
	Status      string
}

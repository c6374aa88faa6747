// Package repository handles all interactions with the database.
//
// It contains the SQL queries and methods to fetch, persist, update,
// or delete rows, abstracting SQL logic away from the handler layer.
// Each entity exposes an interface so handlers can be tested against
// in-memory implementations; the pgx implementations run every
// operation as a single atomic statement.
package repository

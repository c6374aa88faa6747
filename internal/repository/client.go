package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/sqlerr"
)

// CreateClientParams holds the required fields for a new client row.
type CreateClientParams struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

// UpdateClientParams is a merge-patch: nil fields are left unchanged.
// registration_date is immutable and therefore absent here.
type UpdateClientParams struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Email       *string
}

// ClientRepository is the persistence surface for client records.
type ClientRepository interface {
	List(ctx context.Context) ([]model.Client, error)
	SearchByPhone(ctx context.Context, phone string) ([]model.Client, error)
	Create(ctx context.Context, p CreateClientParams) (int64, error)
	Update(ctx context.Context, id int64, p UpdateClientParams) error
	Delete(ctx context.Context, id int64) error
}

// PgClientRepository implements ClientRepository on a pgx pool.
type PgClientRepository struct {
	pool *pgxpool.Pool
}

func NewPgClientRepository(pool *pgxpool.Pool) *PgClientRepository {
	return &PgClientRepository{pool: pool}
}

const clientColumns = "id, first_name, last_name, phone_number, email, registration_date"

func scanClients(rows pgx.Rows) ([]model.Client, error) {
	defer rows.Close()

	clients := make([]model.Client, 0)
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.RegistrationDate); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *PgClientRepository) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx, "select "+clientColumns+" from clients")
	if err != nil {
		return nil, err
	}
	return scanClients(rows)
}

func (r *PgClientRepository) SearchByPhone(ctx context.Context, phone string) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx, "select "+clientColumns+" from clients where phone_number = $1", phone)
	if err != nil {
		return nil, err
	}
	return scanClients(rows)
}

func (r *PgClientRepository) Create(ctx context.Context, p CreateClientParams) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"insert into clients (first_name, last_name, phone_number, email) values ($1, $2, $3, $4) returning id",
		p.FirstName, p.LastName, p.PhoneNumber, p.Email,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PgClientRepository) Update(ctx context.Context, id int64, p UpdateClientParams) error {
	var sets []setClause
	sets = set(sets, "first_name", p.FirstName)
	sets = set(sets, "last_name", p.LastName)
	sets = set(sets, "phone_number", p.PhoneNumber)
	sets = set(sets, "email", p.Email)

	// An empty patch still has to resolve the target id.
	if len(sets) == 0 {
		return r.exists(ctx, id)
	}

	query, args := updateQuery("clients", id, sets)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("clients", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgClientRepository) Delete(ctx context.Context, id int64) error {
	// Cars and repairs fall with the client via ON DELETE CASCADE,
	// inside this single statement's transaction.
	tag, err := r.pool.Exec(ctx, "delete from clients where id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("clients", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgClientRepository) exists(ctx context.Context, id int64) error {
	var found int64
	err := r.pool.QueryRow(ctx, "select id from clients where id = $1", id).Scan(&found)
	if err != nil {
		return sqlerr.NotFound("clients", err)
	}
	return nil
}

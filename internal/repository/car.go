package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/sqlerr"
)

// CreateCarParams holds the required fields for a new car row.
// ClientID must reference an existing client; the foreign key rejects
// the insert otherwise.
type CreateCarParams struct {
	ClientID int64
	Make     string
	Model    string
	Year     int
	VIN      string
}

// UpdateCarParams is a merge-patch: nil fields are left unchanged.
type UpdateCarParams struct {
	Make  *string
	Model *string
	Year  *int
	VIN   *string
}

// CarRepository is the persistence surface for car records.
type CarRepository interface {
	List(ctx context.Context) ([]model.Car, error)
	SearchByVIN(ctx context.Context, vin string) ([]model.Car, error)
	Create(ctx context.Context, p CreateCarParams) (int64, error)
	Update(ctx context.Context, id int64, p UpdateCarParams) error
	Delete(ctx context.Context, id int64) error
}

// PgCarRepository implements CarRepository on a pgx pool.
type PgCarRepository struct {
	pool *pgxpool.Pool
}

func NewPgCarRepository(pool *pgxpool.Pool) *PgCarRepository {
	return &PgCarRepository{pool: pool}
}

const carColumns = "id, client_id, make, model, year, vin"

func scanCars(rows pgx.Rows) ([]model.Car, error) {
	defer rows.Close()

	cars := make([]model.Car, 0)
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Make, &c.Model, &c.Year, &c.VIN); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *PgCarRepository) List(ctx context.Context) ([]model.Car, error) {
	rows, err := r.pool.Query(ctx, "select "+carColumns+" from cars")
	if err != nil {
		return nil, err
	}
	return scanCars(rows)
}

func (r *PgCarRepository) SearchByVIN(ctx context.Context, vin string) ([]model.Car, error) {
	rows, err := r.pool.Query(ctx, "select "+carColumns+" from cars where vin = $1", vin)
	if err != nil {
		return nil, err
	}
	return scanCars(rows)
}

func (r *PgCarRepository) Create(ctx context.Context, p CreateCarParams) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"insert into cars (client_id, make, model, year, vin) values ($1, $2, $3, $4, $5) returning id",
		p.ClientID, p.Make, p.Model, p.Year, p.VIN,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PgCarRepository) Update(ctx context.Context, id int64, p UpdateCarParams) error {
	var sets []setClause
	sets = set(sets, "make", p.Make)
	sets = set(sets, "model", p.Model)
	sets = set(sets, "year", p.Year)
	sets = set(sets, "vin", p.VIN)

	if len(sets) == 0 {
		return r.exists(ctx, id)
	}

	query, args := updateQuery("cars", id, sets)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("cars", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgCarRepository) Delete(ctx context.Context, id int64) error {
	// Repairs fall with the car via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, "delete from cars where id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("cars", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgCarRepository) exists(ctx context.Context, id int64) error {
	var found int64
	err := r.pool.QueryRow(ctx, "select id from cars where id = $1", id).Scan(&found)
	if err != nil {
		return sqlerr.NotFound("cars", err)
	}
	return nil
}

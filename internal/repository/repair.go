package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rmaksimov/autoservice/internal/model"
	"github.com/rmaksimov/autoservice/internal/sqlerr"
)

// CreateRepairParams holds the fields for a new repair row. CarID must
// reference an existing car.
type CreateRepairParams struct {
	CarID       int64
	RepairDate  time.Time
	Description string
	Cost        decimal.Decimal
	Status      string
}

// UpdateRepairParams is a merge-patch over the revisable fields only:
// car_id and repair_date are fixed at creation.
type UpdateRepairParams struct {
	Description *string
	Cost        *decimal.Decimal
	Status      *string
}

// RepairRepository is the persistence surface for repair records.
type RepairRepository interface {
	List(ctx context.Context) ([]model.Repair, error)
	SearchByStatus(ctx context.Context, status string) ([]model.Repair, error)
	Create(ctx context.Context, p CreateRepairParams) (int64, error)
	Update(ctx context.Context, id int64, p UpdateRepairParams) error
	Delete(ctx context.Context, id int64) error
}

// PgRepairRepository implements RepairRepository on a pgx pool.
type PgRepairRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepairRepository(pool *pgxpool.Pool) *PgRepairRepository {
	return &PgRepairRepository{pool: pool}
}

const repairColumns = "id, car_id, repair_date, description, cost, status"

func scanRepairs(rows pgx.Rows) ([]model.Repair, error) {
	defer rows.Close()

	repairs := make([]model.Repair, 0)
	for rows.Next() {
		var r model.Repair
		if err := rows.Scan(&r.ID, &r.CarID, &r.RepairDate, &r.Description, &r.Cost, &r.Status); err != nil {
			return nil, err
		}
		repairs = append(repairs, r)
	}
	return repairs, rows.Err()
}

func (r *PgRepairRepository) List(ctx context.Context) ([]model.Repair, error) {
	rows, err := r.pool.Query(ctx, "select "+repairColumns+" from repairs")
	if err != nil {
		return nil, err
	}
	return scanRepairs(rows)
}

func (r *PgRepairRepository) SearchByStatus(ctx context.Context, status string) ([]model.Repair, error) {
	rows, err := r.pool.Query(ctx, "select "+repairColumns+" from repairs where status = $1", status)
	if err != nil {
		return nil, err
	}
	return scanRepairs(rows)
}

func (r *PgRepairRepository) Create(ctx context.Context, p CreateRepairParams) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"insert into repairs (car_id, repair_date, description, cost, status) values ($1, $2, $3, $4, $5) returning id",
		p.CarID, p.RepairDate, p.Description, p.Cost, p.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PgRepairRepository) Update(ctx context.Context, id int64, p UpdateRepairParams) error {
	var sets []setClause
	sets = set(sets, "description", p.Description)
	sets = set(sets, "cost", p.Cost)
	sets = set(sets, "status", p.Status)

	if len(sets) == 0 {
		return r.exists(ctx, id)
	}

	query, args := updateQuery("repairs", id, sets)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("repairs", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgRepairRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from repairs where id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("repairs", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgRepairRepository) exists(ctx context.Context, id int64) error {
	var found int64
	err := r.pool.QueryRow(ctx, "select id from repairs where id = $1", id).Scan(&found)
	if err != nil {
		return sqlerr.NotFound("repairs", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-desk/internal/model"
)

type MachineRepository struct {
	pool *pgxpool.Pool
}

func NewMachineRepository(pool *pgxpool.Pool) *MachineRepository {
	return &MachineRepository{pool: pool}
}

const machineSelect = `
	SELECT m.id, m.code, m.location_id, m.model, m.is_active, m.created_at, m.updated_at,
	       l.name
	FROM machines m
	JOIN locations l ON m.location_id = l.id`

func (r *MachineRepository) List(ctx context.Context, locationID string) ([]model.Machine, error) {
	query := machineSelect + " WHERE m.is_active"
	args := []any{}
	if locationID != "" {
		args = append(args, locationID)
		query += " AND m.location_id = $1"
	}
	query += " ORDER BY m.code"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	machines := make([]model.Machine, 0)
	for rows.Next() {
		var m model.Machine
		if err := rows.Scan(&m.ID, &m.Code, &m.LocationID, &m.Model, &m.IsActive,
			&m.CreatedAt, &m.UpdatedAt, &m.LocationName); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

func (r *MachineRepository) FindByID(ctx context.Context, id string) (model.Machine, error) {
	var m model.Machine
	err := r.pool.QueryRow(ctx, machineSelect+" WHERE m.id = $1", id).
		Scan(&m.ID, &m.Code, &m.LocationID, &m.Model, &m.IsActive,
			&m.CreatedAt, &m.UpdatedAt, &m.LocationName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Machine{}, model.ErrMachineNotFound
	}
	if err != nil {
		return model.Machine{}, fmt.Errorf("find machine by id: %w", err)
	}
	return m, nil
}

func (r *MachineRepository) Create(ctx context.Context, m model.Machine) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO machines (id, code, location_id, model, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Code, m.LocationID, m.Model, m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}
	return nil
}

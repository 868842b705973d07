package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-desk/internal/model"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, is_active, created_at, updated_at
		 FROM locations WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (model.Location, error) {
	var l model.Location
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, is_active, created_at, updated_at
		 FROM locations WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Location{}, model.ErrLocationNotFound
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("find location by id: %w", err)
	}
	return l, nil
}

func (r *LocationRepository) Create(ctx context.Context, l model.Location) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO locations (id, name, address, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.Name, l.Address, l.IsActive, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-desk/internal/authz"
	"service-desk/internal/model"
)

// TicketFilter narrows ticket listings. Role-based row scoping is
// separate and always applied on top of it.
type TicketFilter struct {
	Status     string
	Urgency    string
	LocationID string
}

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketSelect = `
	SELECT t.id, t.ticket_number, t.user_id, t.technician_id, t.location_id, t.machine_id,
	       t.title, t.description, t.status, t.urgency, t.created_at, t.updated_at,
	       u.full_name, u.email, tech.full_name, l.name
	FROM tickets t
	JOIN users u ON t.user_id = u.id
	LEFT JOIN users tech ON t.technician_id = tech.id
	JOIN locations l ON t.location_id = l.id`

func scanTicket(row pgx.Row) (model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(&t.ID, &t.TicketNumber, &t.UserID, &t.TechnicianID, &t.LocationID, &t.MachineID,
		&t.Title, &t.Description, &t.Status, &t.Urgency, &t.CreatedAt, &t.UpdatedAt,
		&t.UserName, &t.UserEmail, &t.TechnicianName, &t.LocationName)
	return t, err
}

// scopeClause renders the row-level visibility predicate into SQL. The
// predicate is part of the query itself so rows outside the caller's
// scope neither show up nor affect anything countable.
func scopeClause(scope authz.TicketScope, principalID string, args *[]any) string {
	switch scope {
	case authz.ScopeOwned:
		*args = append(*args, principalID)
		return fmt.Sprintf(" AND t.user_id = $%d", len(*args))
	case authz.ScopeAssignedOrUnassigned:
		*args = append(*args, principalID)
		return fmt.Sprintf(" AND (t.technician_id = $%d OR t.technician_id IS NULL)", len(*args))
	}
	return ""
}

func (r *TicketRepository) Create(ctx context.Context, t model.Ticket) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tickets (id, ticket_number, user_id, technician_id, location_id, machine_id,
		                      title, description, status, urgency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.TicketNumber, t.UserID, t.TechnicianID, t.LocationID, t.MachineID,
		t.Title, t.Description, t.Status, t.Urgency, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// FindByID looks a ticket up within the caller's read scope. A ticket
// outside the scope reports not-found, not forbidden.
func (r *TicketRepository) FindByID(ctx context.Context, id string, scope authz.TicketScope, principalID string) (model.Ticket, error) {
	args := []any{id}
	query := ticketSelect + " WHERE t.id = $1" + scopeClause(scope, principalID, &args)

	t, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, model.ErrTicketNotFound
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("find ticket by id: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context, scope authz.TicketScope, principalID string, filter TicketFilter) ([]model.Ticket, error) {
	args := []any{}
	query := ticketSelect + " WHERE 1=1" + scopeClause(scope, principalID, &args)

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.Urgency != "" {
		args = append(args, filter.Urgency)
		query += fmt.Sprintf(" AND t.urgency = $%d", len(args))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += fmt.Sprintf(" AND t.location_id = $%d", len(args))
	}

	query += " ORDER BY t.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTicketNotFound
	}
	return nil
}

// AssignIfUnassigned claims a ticket for a technician in a single
// conditional update, forcing the status to in_progress. Two racing
// claims cannot both match the technician_id IS NULL predicate, so the
// loser sees zero affected rows and gets a conflict.
func (r *TicketRepository) AssignIfUnassigned(ctx context.Context, id string, technicianID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tickets SET technician_id = $2, status = $3, updated_at = $4
		 WHERE id = $1 AND technician_id IS NULL`,
		id, technicianID, model.StatusInProgress, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check ticket exists: %w", err)
		}
		if !exists {
			return model.ErrTicketNotFound
		}
		return model.ErrAssignmentConflict
	}
	return nil
}

// Assign reassigns unconditionally (admin path): any technician, any
// current state. The status still moves to in_progress as a side effect
// of assignment.
func (r *TicketRepository) Assign(ctx context.Context, id string, technicianID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tickets SET technician_id = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, technicianID, model.StatusInProgress, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reassign ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTicketNotFound
	}
	return nil
}

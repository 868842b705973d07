package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-desk/internal/model"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.ticket_id, c.user_id, c.comment, c.is_internal, c.created_at, c.updated_at,
	       u.full_name
	FROM ticket_comments c
	JOIN users u ON c.user_id = u.id`

// ListByTicket returns a ticket's comments oldest first. Internal rows
// are excluded in the query itself when the caller must not see them.
func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]model.Comment, error) {
	query := commentSelect + " WHERE c.ticket_id = $1"
	if !includeInternal {
		query += " AND c.is_internal = FALSE"
	}
	query += " ORDER BY c.created_at ASC"

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.UserID, &c.Comment, &c.IsInternal,
			&c.CreatedAt, &c.UpdatedAt, &c.UserName); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Create(ctx context.Context, c model.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ticket_comments (id, ticket_id, user_id, comment, is_internal, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.TicketID, c.UserID, c.Comment, c.IsInternal, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (model.Comment, error) {
	var c model.Comment
	err := r.pool.QueryRow(ctx, commentSelect+" WHERE c.id = $1", id).
		Scan(&c.ID, &c.TicketID, &c.UserID, &c.Comment, &c.IsInternal,
			&c.CreatedAt, &c.UpdatedAt, &c.UserName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, model.ErrTicketNotFound
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

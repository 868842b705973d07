package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-desk/internal/authz"
	"service-desk/internal/model"
	"service-desk/pkg/apierror"
)

type commentStore interface {
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]model.Comment, error)
	Create(ctx context.Context, c model.Comment) error
	FindByID(ctx context.Context, id string) (model.Comment, error)
}

type CommentService struct {
	comments commentStore
	tickets  ticketStore
}

func NewCommentService(comments commentStore, tickets ticketStore) *CommentService {
	return &CommentService{comments: comments, tickets: tickets}
}

// ListForTicket returns the ticket's comment thread as the principal is
// allowed to see it. A customer probing a foreign ticket id gets a
// not-found from the scoped ticket lookup, and internal rows are
// excluded from the query for customers, not stripped afterwards.
func (s *CommentService) ListForTicket(ctx context.Context, actor model.User, ticketID string) ([]model.Comment, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID, authz.ReadScope(actor.Role), actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanCommentOn(actor, ticket) {
		return nil, model.ErrForbidden
	}

	return s.comments.ListByTicket(ctx, ticketID, authz.CanSeeInternalComments(actor.Role))
}

// Create appends a comment to the ticket. Customers may only comment on
// their own tickets and may never mark a comment internal; asking for
// an internal comment without the permission is a policy denial, not a
// silent downgrade.
func (s *CommentService) Create(ctx context.Context, actor model.User, ticketID string, req model.CreateCommentRequest) (model.Comment, error) {
	text := strings.TrimSpace(req.Comment)
	if text == "" {
		return model.Comment{}, apierror.New("BAD_REQUEST", "comment text is required", "comment", http.StatusBadRequest)
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID, authz.ReadScope(actor.Role), actor.ID)
	if err != nil {
		return model.Comment{}, err
	}
	if !authz.CanCommentOn(actor, ticket) {
		return model.Comment{}, model.ErrForbidden
	}
	if req.IsInternal && !authz.Can(actor.Role, authz.ActionCreateInternalComment) {
		return model.Comment{}, model.ErrForbidden
	}

	now := time.Now().UTC()
	comment := model.Comment{
		ID:         uuid.NewString(),
		TicketID:   ticketID,
		UserID:     actor.ID,
		Comment:    text,
		IsInternal: req.IsInternal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return model.Comment{}, err
	}

	return s.comments.FindByID(ctx, comment.ID)
}

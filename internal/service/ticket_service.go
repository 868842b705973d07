package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-desk/internal/authz"
	"service-desk/internal/model"
	"service-desk/internal/repository"
	"service-desk/pkg/apierror"
)

type ticketStore interface {
	Create(ctx context.Context, t model.Ticket) error
	FindByID(ctx context.Context, id string, scope authz.TicketScope, principalID string) (model.Ticket, error)
	List(ctx context.Context, scope authz.TicketScope, principalID string, filter repository.TicketFilter) ([]model.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error
	AssignIfUnassigned(ctx context.Context, id string, technicianID string) error
	Assign(ctx context.Context, id string, technicianID string) error
}

type locationStore interface {
	List(ctx context.Context) ([]model.Location, error)
	FindByID(ctx context.Context, id string) (model.Location, error)
	Create(ctx context.Context, l model.Location) error
}

type machineStore interface {
	List(ctx context.Context, locationID string) ([]model.Machine, error)
	FindByID(ctx context.Context, id string) (model.Machine, error)
	Create(ctx context.Context, m model.Machine) error
}

type TicketService struct {
	tickets   ticketStore
	users     userStore
	locations locationStore
	machines  machineStore
}

func NewTicketService(tickets ticketStore, users userStore, locations locationStore, machines machineStore) *TicketService {
	return &TicketService{tickets: tickets, users: users, locations: locations, machines: machines}
}

// Create opens a ticket for the acting customer. Only customers create
// tickets and the creator always becomes the owner; the initial status
// is fixed at new.
func (s *TicketService) Create(ctx context.Context, actor model.User, req model.CreateTicketRequest) (model.Ticket, error) {
	if !authz.Can(actor.Role, authz.ActionCreateTicket) {
		return model.Ticket{}, model.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if len(title) < 5 {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "title must be at least 5 characters", "title", http.StatusBadRequest)
	}
	if len(description) < 10 {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "description must be at least 10 characters", "description", http.StatusBadRequest)
	}
	urgency, ok := model.ParseUrgency(req.Urgency)
	if !ok {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "invalid urgency", req.Urgency, http.StatusBadRequest)
	}

	if _, err := s.locations.FindByID(ctx, req.LocationID); err != nil {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "unknown location", req.LocationID, http.StatusBadRequest)
	}
	machine, err := s.machines.FindByID(ctx, req.MachineID)
	if err != nil {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "unknown machine", req.MachineID, http.StatusBadRequest)
	}
	if machine.LocationID != req.LocationID {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "machine does not belong to location", req.MachineID, http.StatusBadRequest)
	}

	now := time.Now().UTC()
	ticket := model.Ticket{
		ID:           uuid.NewString(),
		TicketNumber: fmt.Sprintf("T%d", now.UnixMilli()),
		UserID:       actor.ID,
		LocationID:   req.LocationID,
		MachineID:    req.MachineID,
		Title:        title,
		Description:  description,
		Status:       model.StatusNew,
		Urgency:      urgency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return model.Ticket{}, err
	}

	return s.tickets.FindByID(ctx, ticket.ID, authz.ScopeAll, "")
}

func (s *TicketService) Get(ctx context.Context, actor model.User, id string) (model.Ticket, error) {
	return s.tickets.FindByID(ctx, id, authz.ReadScope(actor.Role), actor.ID)
}

func (s *TicketService) List(ctx context.Context, actor model.User, filter repository.TicketFilter) ([]model.Ticket, error) {
	if filter.Status != "" {
		if _, ok := model.ParseTicketStatus(filter.Status); !ok {
			return nil, apierror.New("BAD_REQUEST", "invalid status filter", filter.Status, http.StatusBadRequest)
		}
	}
	if filter.Urgency != "" {
		if _, ok := model.ParseUrgency(filter.Urgency); !ok {
			return nil, apierror.New("BAD_REQUEST", "invalid urgency filter", filter.Urgency, http.StatusBadRequest)
		}
	}
	return s.tickets.List(ctx, authz.ListScope(actor.Role), actor.ID, filter)
}

// ChangeStatus moves a ticket to any status in the enumerated set. The
// transition is deliberately unguarded beyond role: support staff may
// correct a ticket from any state to any other, including reopening a
// closed one.
func (s *TicketService) ChangeStatus(ctx context.Context, actor model.User, id string, rawStatus string) (model.Ticket, error) {
	if !authz.Can(actor.Role, authz.ActionChangeTicketStatus) {
		return model.Ticket{}, model.ErrForbidden
	}

	status, ok := model.ParseTicketStatus(rawStatus)
	if !ok {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "invalid status", rawStatus, http.StatusBadRequest)
	}

	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		return model.Ticket{}, err
	}
	return s.tickets.FindByID(ctx, id, authz.ScopeAll, "")
}

// Assign attaches a technician to the ticket and forces the status to
// in_progress. Technicians claim for themselves and only while the
// ticket is unassigned; the claim is a single conditional update, so a
// lost race reports a conflict instead of silently overwriting. Admins
// reassign freely.
func (s *TicketService) Assign(ctx context.Context, actor model.User, id string, technicianID string) (model.Ticket, error) {
	if !authz.CanAssignTo(actor, technicianID) {
		return model.Ticket{}, model.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, technicianID)
	if err != nil {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "unknown technician", technicianID, http.StatusBadRequest)
	}
	if target.Role != model.RoleTechnician {
		return model.Ticket{}, apierror.New("BAD_REQUEST", "assignee is not a technician", technicianID, http.StatusBadRequest)
	}

	switch actor.Role {
	case model.RoleTechnician:
		err = s.tickets.AssignIfUnassigned(ctx, id, technicianID)
	default:
		err = s.tickets.Assign(ctx, id, technicianID)
	}
	if err != nil {
		return model.Ticket{}, err
	}

	return s.tickets.FindByID(ctx, id, authz.ScopeAll, "")
}

// Package authz is the single decision point for who may do what. It is
// pure: no I/O, no clock, just (principal, action, resource) -> verdict.
// Handlers and services must not re-derive permissions from roles
// anywhere else.
package authz

import "service-desk/internal/model"

type Action int

const (
	ActionCreateTicket Action = iota
	ActionChangeTicketStatus
	ActionAssignTicket
	ActionCreateLocation
	ActionCreateMachine
	ActionCreateInternalComment
)

// Can is the central authorization table. Both switches are exhaustive
// with no default-allow: an unknown role or action denies, and adding a
// role means revisiting every action here.
func Can(role model.Role, action Action) bool {
	switch role {
	case model.RoleCustomer:
		switch action {
		case ActionCreateTicket:
			return true
		case ActionChangeTicketStatus, ActionAssignTicket,
			ActionCreateLocation, ActionCreateMachine, ActionCreateInternalComment:
			return false
		}
	case model.RoleTechnician:
		switch action {
		case ActionChangeTicketStatus, ActionAssignTicket, ActionCreateInternalComment:
			return true
		case ActionCreateTicket, ActionCreateLocation, ActionCreateMachine:
			return false
		}
	case model.RoleAdmin:
		switch action {
		case ActionChangeTicketStatus, ActionAssignTicket,
			ActionCreateLocation, ActionCreateMachine, ActionCreateInternalComment:
			return true
		case ActionCreateTicket:
			return false
		}
	}
	return false
}

// TicketScope is the row-level visibility predicate for ticket queries.
// It is applied when building the SQL, never as a post-hoc filter, so
// hidden rows leak neither content nor counts.
type TicketScope int

const (
	// ScopeAll imposes no row restriction.
	ScopeAll TicketScope = iota
	// ScopeOwned restricts to tickets the principal opened.
	ScopeOwned
	// ScopeAssignedOrUnassigned restricts to tickets assigned to the
	// principal plus the unassigned pool. Several technicians can see
	// the same unassigned ticket; only one can claim it.
	ScopeAssignedOrUnassigned
)

func ListScope(role model.Role) TicketScope {
	switch role {
	case model.RoleCustomer:
		return ScopeOwned
	case model.RoleTechnician:
		return ScopeAssignedOrUnassigned
	case model.RoleAdmin:
		return ScopeAll
	}
	return ScopeOwned
}

// ReadScope governs single-ticket reads. Technicians may open any
// ticket by id even outside their list scope; customers stay limited to
// their own, and a foreign id must surface as not-found rather than
// forbidden.
func ReadScope(role model.Role) TicketScope {
	switch role {
	case model.RoleCustomer:
		return ScopeOwned
	case model.RoleTechnician, model.RoleAdmin:
		return ScopeAll
	}
	return ScopeOwned
}

// CanSeeInternalComments reports whether internal comment rows may be
// returned to the principal at all.
func CanSeeInternalComments(role model.Role) bool {
	switch role {
	case model.RoleCustomer:
		return false
	case model.RoleTechnician, model.RoleAdmin:
		return true
	}
	return false
}

// CanAssignTo decides the assignment target rule: technicians may only
// claim tickets for themselves, admins may hand a ticket to anyone.
// Whether the ticket is still unassigned is not decided here; the
// self-assign path enforces that with a conditional update so two
// racing technicians cannot both win.
func CanAssignTo(actor model.User, technicianID string) bool {
	if !Can(actor.Role, ActionAssignTicket) {
		return false
	}
	switch actor.Role {
	case model.RoleTechnician:
		return technicianID == actor.ID
	case model.RoleAdmin:
		return true
	case model.RoleCustomer:
		return false
	}
	return false
}

// CanCommentOn reports whether the principal may read or write comments
// of the given ticket at all.
func CanCommentOn(actor model.User, ticket model.Ticket) bool {
	switch actor.Role {
	case model.RoleCustomer:
		return ticket.UserID == actor.ID
	case model.RoleTechnician, model.RoleAdmin:
		return true
	}
	return false
}

package service

import (
	"context"
	"strings"
	"sync"

	"service-desk/internal/authz"
	"service-desk/internal/model"
	"service-desk/internal/repository"
)

// In-memory stores mirroring the repository contracts, including the
// row-scope and conditional-assignment semantics of the SQL layer.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]model.Ticket
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: map[string]model.Ticket{}}
}

func inScope(t model.Ticket, scope authz.TicketScope, principalID string) bool {
	switch scope {
	case authz.ScopeOwned:
		return t.UserID == principalID
	case authz.ScopeAssignedOrUnassigned:
		return t.TechnicianID == nil || *t.TechnicianID == principalID
	}
	return true
}

func (f *fakeTicketStore) Create(_ context.Context, t model.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeTicketStore) FindByID(_ context.Context, id string, scope authz.TicketScope, principalID string) (model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || !inScope(t, scope, principalID) {
		return model.Ticket{}, model.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketStore) List(_ context.Context, scope authz.TicketScope, principalID string, filter repository.TicketFilter) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Ticket, 0)
	for _, t := range f.tickets {
		if !inScope(t, scope, principalID) {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Urgency != "" && string(t.Urgency) != filter.Urgency {
			continue
		}
		if filter.LocationID != "" && t.LocationID != filter.LocationID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTicketStore) UpdateStatus(_ context.Context, id string, status model.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return model.ErrTicketNotFound
	}
	t.Status = status
	f.tickets[id] = t
	return nil
}

func (f *fakeTicketStore) AssignIfUnassigned(_ context.Context, id string, technicianID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return model.ErrTicketNotFound
	}
	if t.TechnicianID != nil {
		return model.ErrAssignmentConflict
	}
	t.TechnicianID = &technicianID
	t.Status = model.StatusInProgress
	f.tickets[id] = t
	return nil
}

func (f *fakeTicketStore) Assign(_ context.Context, id string, technicianID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return model.ErrTicketNotFound
	}
	t.TechnicianID = &technicianID
	t.Status = model.StatusInProgress
	f.tickets[id] = t
	return nil
}

type fakeLocationStore struct {
	mu        sync.Mutex
	locations map[string]model.Location
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{locations: map[string]model.Location{}}
}

func (f *fakeLocationStore) List(_ context.Context) ([]model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Location, 0)
	for _, l := range f.locations {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLocationStore) FindByID(_ context.Context, id string) (model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locations[id]
	if !ok {
		return model.Location{}, model.ErrLocationNotFound
	}
	return l, nil
}

func (f *fakeLocationStore) Create(_ context.Context, l model.Location) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[l.ID] = l
	return nil
}

type fakeMachineStore struct {
	mu       sync.Mutex
	machines map[string]model.Machine
}

func newFakeMachineStore() *fakeMachineStore {
	return &fakeMachineStore{machines: map[string]model.Machine{}}
}

func (f *fakeMachineStore) List(_ context.Context, locationID string) ([]model.Machine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Machine, 0)
	for _, m := range f.machines {
		if !m.IsActive {
			continue
		}
		if locationID != "" && m.LocationID != locationID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMachineStore) FindByID(_ context.Context, id string) (model.Machine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.machines[id]
	if !ok {
		return model.Machine{}, model.ErrMachineNotFound
	}
	return m, nil
}

func (f *fakeMachineStore) Create(_ context.Context, m model.Machine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.machines[m.ID] = m
	return nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[string]model.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[string]model.Comment{}}
}

func (f *fakeCommentStore) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Comment, 0)
	for _, c := range f.comments {
		if c.TicketID != ticketID {
			continue
		}
		if c.IsInternal && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCommentStore) Create(_ context.Context, c model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentStore) FindByID(_ context.Context, id string) (model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return model.Comment{}, model.ErrTicketNotFound
	}
	return c, nil
}

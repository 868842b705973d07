package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-desk/internal/model"
	"service-desk/internal/repository"
)

type ticketFixture struct {
	svc       *TicketService
	tickets   *fakeTicketStore
	users     *fakeUserStore
	locations *fakeLocationStore
	machines  *fakeMachineStore

	alice model.User // customer
	carol model.User // second customer
	bob   model.User // technician
	dan   model.User // second technician
	eve   model.User // admin

	location model.Location
	machine  model.Machine
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()

	f := &ticketFixture{
		tickets:   newFakeTicketStore(),
		users:     newFakeUserStore(),
		locations: newFakeLocationStore(),
		machines:  newFakeMachineStore(),
	}
	f.svc = NewTicketService(f.tickets, f.users, f.locations, f.machines)

	mkUser := func(email string, role model.Role) model.User {
		u := model.User{ID: uuid.NewString(), Email: email, FullName: email, Role: role, IsActive: true}
		require.NoError(t, f.users.Create(ctx, u))
		return u
	}
	f.alice = mkUser("alice@example.com", model.RoleCustomer)
	f.carol = mkUser("carol@example.com", model.RoleCustomer)
	f.bob = mkUser("bob@example.com", model.RoleTechnician)
	f.dan = mkUser("dan@example.com", model.RoleTechnician)
	f.eve = mkUser("eve@example.com", model.RoleAdmin)

	f.location = model.Location{ID: uuid.NewString(), Name: "Main Office", IsActive: true}
	require.NoError(t, f.locations.Create(ctx, f.location))
	f.machine = model.Machine{ID: uuid.NewString(), Code: "REG-001", LocationID: f.location.ID, IsActive: true}
	require.NoError(t, f.machines.Create(ctx, f.machine))

	return f
}

func (f *ticketFixture) createTicket(t *testing.T, owner model.User) model.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), owner, model.CreateTicketRequest{
		LocationID:  f.location.ID,
		MachineID:   f.machine.ID,
		Title:       "Printer is broken",
		Description: "It makes a grinding noise and refuses to print.",
		Urgency:     "high",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t, f.alice)
	assert.Equal(t, f.alice.ID, ticket.UserID)
	assert.Equal(t, model.StatusNew, ticket.Status)
	assert.Nil(t, ticket.TechnicianID)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "T"))
	assert.Equal(t, model.UrgencyHigh, ticket.Urgency)
}

func TestCreateTicketOnlyCustomers(t *testing.T) {
	f := newTicketFixture(t)
	req := model.CreateTicketRequest{
		LocationID:  f.location.ID,
		MachineID:   f.machine.ID,
		Title:       "Printer is broken",
		Description: "It makes a grinding noise and refuses to print.",
		Urgency:     "low",
	}

	_, err := f.svc.Create(context.Background(), f.bob, req)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.svc.Create(context.Background(), f.eve, req)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	base := model.CreateTicketRequest{
		LocationID:  f.location.ID,
		MachineID:   f.machine.ID,
		Title:       "Printer is broken",
		Description: "It makes a grinding noise and refuses to print.",
		Urgency:     "low",
	}

	short := base
	short.Title = "Bad"
	_, err := f.svc.Create(ctx, f.alice, short)
	assert.Error(t, err)

	thin := base
	thin.Description = "broken"
	_, err = f.svc.Create(ctx, f.alice, thin)
	assert.Error(t, err)

	urgency := base
	urgency.Urgency = "apocalyptic"
	_, err = f.svc.Create(ctx, f.alice, urgency)
	assert.Error(t, err)

	loc := base
	loc.LocationID = uuid.NewString()
	_, err = f.svc.Create(ctx, f.alice, loc)
	assert.Error(t, err)

	machine := base
	machine.MachineID = uuid.NewString()
	_, err = f.svc.Create(ctx, f.alice, machine)
	assert.Error(t, err)
}

func TestGetTicketVisibility(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	got, err := f.svc.Get(ctx, f.alice, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	// A foreign customer probing the id gets not-found, never a
	// forbidden that would confirm existence.
	_, err = f.svc.Get(ctx, f.carol, ticket.ID)
	assert.ErrorIs(t, err, model.ErrTicketNotFound)

	// Technicians and admins can open any ticket by id.
	_, err = f.svc.Get(ctx, f.bob, ticket.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, f.eve, ticket.ID)
	assert.NoError(t, err)
}

func TestListTicketScopes(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	aliceTicket := f.createTicket(t, f.alice)
	carolTicket := f.createTicket(t, f.carol)

	// Assign carol's ticket to dan so bob no longer sees it.
	_, err := f.svc.Assign(ctx, f.dan, carolTicket.ID, f.dan.ID)
	require.NoError(t, err)

	ids := func(tickets []model.Ticket) []string {
		out := make([]string, 0, len(tickets))
		for _, tk := range tickets {
			out = append(out, tk.ID)
		}
		return out
	}

	aliceList, err := f.svc.List(ctx, f.alice, repository.TicketFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceTicket.ID}, ids(aliceList))

	// bob sees the unassigned pool but not dan's ticket.
	bobList, err := f.svc.List(ctx, f.bob, repository.TicketFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceTicket.ID}, ids(bobList))

	// dan sees his own assignment plus the unassigned pool.
	danList, err := f.svc.List(ctx, f.dan, repository.TicketFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceTicket.ID, carolTicket.ID}, ids(danList))

	adminList, err := f.svc.List(ctx, f.eve, repository.TicketFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceTicket.ID, carolTicket.ID}, ids(adminList))
}

func TestListFilterValidation(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.List(context.Background(), f.eve, repository.TicketFilter{Status: "bogus"})
	assert.Error(t, err)
	_, err = f.svc.List(context.Background(), f.eve, repository.TicketFilter{Urgency: "bogus"})
	assert.Error(t, err)
}

func TestChangeStatus(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	_, err := f.svc.ChangeStatus(ctx, f.alice, ticket.ID, "in_progress")
	assert.ErrorIs(t, err, model.ErrForbidden)

	updated, err := f.svc.ChangeStatus(ctx, f.bob, ticket.ID, "waiting_for_part")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaitingForPart, updated.Status)

	// Transitions are free within the enumerated set, including
	// reopening a closed ticket.
	updated, err = f.svc.ChangeStatus(ctx, f.bob, ticket.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, updated.Status)
	updated, err = f.svc.ChangeStatus(ctx, f.eve, ticket.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNew, updated.Status)

	_, err = f.svc.ChangeStatus(ctx, f.bob, ticket.ID, "resolved")
	assert.Error(t, err)

	_, err = f.svc.ChangeStatus(ctx, f.bob, uuid.NewString(), "closed")
	assert.ErrorIs(t, err, model.ErrTicketNotFound)
}

func TestTechnicianSelfAssign(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	updated, err := f.svc.Assign(ctx, f.bob, ticket.ID, f.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TechnicianID)
	assert.Equal(t, f.bob.ID, *updated.TechnicianID)
	// Assignment always drags the status along.
	assert.Equal(t, model.StatusInProgress, updated.Status)
}

func TestTechnicianCannotAssignOthersOrClaimTwice(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	// Claiming for someone else is a policy denial.
	_, err := f.svc.Assign(ctx, f.bob, ticket.ID, f.dan.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.Assign(ctx, f.bob, ticket.ID, f.bob.ID)
	require.NoError(t, err)

	// The second claim loses the conditional update, not the data.
	_, err = f.svc.Assign(ctx, f.dan, ticket.ID, f.dan.ID)
	assert.ErrorIs(t, err, model.ErrAssignmentConflict)

	final, err := f.svc.Get(ctx, f.eve, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, final.TechnicianID)
	assert.Equal(t, f.bob.ID, *final.TechnicianID)
}

func TestAdminReassignsFreely(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	_, err := f.svc.Assign(ctx, f.bob, ticket.ID, f.bob.ID)
	require.NoError(t, err)

	updated, err := f.svc.Assign(ctx, f.eve, ticket.ID, f.dan.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TechnicianID)
	assert.Equal(t, f.dan.ID, *updated.TechnicianID)
}

func TestAssignRejectsNonTechnicianTarget(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t, f.alice)

	_, err := f.svc.Assign(context.Background(), f.eve, ticket.ID, f.carol.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a technician")

	_, err = f.svc.Assign(context.Background(), f.eve, ticket.ID, uuid.NewString())
	assert.Error(t, err)
}

func TestCustomerCannotAssign(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t, f.alice)

	_, err := f.svc.Assign(context.Background(), f.alice, ticket.ID, f.bob.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestConcurrentSelfAssignSingleWinner(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.createTicket(t, f.alice)

	type result struct{ err error }
	results := make(chan result, 2)
	for _, tech := range []model.User{f.bob, f.dan} {
		tech := tech
		go func() {
			_, err := f.svc.Assign(ctx, tech, ticket.ID, tech.ID)
			results <- result{err: err}
		}()
	}

	var conflicts, wins int
	deadline := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			if r.err == nil {
				wins++
			} else {
				require.ErrorIs(t, r.err, model.ErrAssignmentConflict)
				conflicts++
			}
		case <-deadline:
			t.Fatal("assignment goroutines did not finish")
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

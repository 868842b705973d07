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

// CatalogService manages the admin-maintained lookup tables tickets
// reference: locations and the machines installed at them.
type CatalogService struct {
	locations locationStore
	machines  machineStore
}

func NewCatalogService(locations locationStore, machines machineStore) *CatalogService {
	return &CatalogService{locations: locations, machines: machines}
}

func (s *CatalogService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.locations.List(ctx)
}

func (s *CatalogService) CreateLocation(ctx context.Context, actor model.User, req model.CreateLocationRequest) (model.Location, error) {
	if !authz.Can(actor.Role, authz.ActionCreateLocation) {
		return model.Location{}, model.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Location{}, apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	location := model.Location{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   strings.TrimSpace(req.Address),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.locations.Create(ctx, location); err != nil {
		return model.Location{}, err
	}
	return location, nil
}

func (s *CatalogService) ListMachines(ctx context.Context, locationID string) ([]model.Machine, error) {
	return s.machines.List(ctx, locationID)
}

func (s *CatalogService) CreateMachine(ctx context.Context, actor model.User, req model.CreateMachineRequest) (model.Machine, error) {
	if !authz.Can(actor.Role, authz.ActionCreateMachine) {
		return model.Machine{}, model.ErrForbidden
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return model.Machine{}, apierror.New("BAD_REQUEST", "code is required", "code", http.StatusBadRequest)
	}
	if _, err := s.locations.FindByID(ctx, req.LocationID); err != nil {
		return model.Machine{}, apierror.New("BAD_REQUEST", "unknown location", req.LocationID, http.StatusBadRequest)
	}

	now := time.Now().UTC()
	machine := model.Machine{
		ID:         uuid.NewString(),
		Code:       code,
		LocationID: req.LocationID,
		Model:      strings.TrimSpace(req.Model),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.machines.Create(ctx, machine); err != nil {
		return model.Machine{}, err
	}

	return s.machines.FindByID(ctx, machine.ID)
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"fleet-booking/internal/data/repository"
	"fleet-booking/internal/dto/request"
	"fleet-booking/internal/dto/response"
	"fleet-booking/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VehicleService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*response.VehicleResponse, error)
	List(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.VehicleResponse], error)

	// ListAvailable returns active vehicles annotated with their
	// availability over the given window.
	ListAvailable(ctx context.Context, start, end time.Time) ([]response.VehicleAvailabilityResponse, error)
}

type vehicleService struct {
	repo         *repository.Repository
	availability AvailabilityService
	log          *zap.Logger
}

func NewVehicleService(repo *repository.Repository, availability AvailabilityService, log *zap.Logger) VehicleService {
	return &vehicleService{
		repo:         repo,
		availability: availability,
		log:          log.With(zap.String("service", "vehicle")),
	}
}

func (s *vehicleService) GetByID(ctx context.Context, id uuid.UUID) (*response.VehicleResponse, error) {
	vehicle, err := s.repo.Vehicle.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find vehicle %s: %w", id.String(), err)
	}
	if vehicle == nil {
		return nil, apperr.NotFound("vehicle not found")
	}

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) List(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.VehicleResponse], error) {
	vehicles, err := s.repo.Vehicle.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	total, err := s.repo.Vehicle.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count vehicles: %w", err)
	}

	items := make([]response.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, response.VehicleToResponse(v))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *vehicleService) ListAvailable(ctx context.Context, start, end time.Time) ([]response.VehicleAvailabilityResponse, error) {
	vehicles, err := s.repo.Vehicle.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active vehicles: %w", err)
	}

	results := make([]response.VehicleAvailabilityResponse, 0, len(vehicles))
	for _, v := range vehicles {
		status, err := s.availability.VehicleAvailabilityStatus(ctx, v, start, end)
		if err != nil {
			return nil, err
		}
		results = append(results, response.VehicleAvailabilityResponse{
			Vehicle:      response.VehicleToResponse(v),
			Availability: status,
		})
	}

	return results, nil
}

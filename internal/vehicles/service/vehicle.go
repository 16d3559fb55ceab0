package service

import (
	"context"
	"errors"
	"sort"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
)

type VehicleService interface {
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetAll(ctx context.Context, status model.VehicleStatus) ([]*model.Vehicle, error)
}

type vehicleService struct {
	repo repository.VehicleRepository
	cfg  *config.Config
}

func NewVehicleService(repo repository.VehicleRepository, cfg *config.Config) VehicleService {
	return &vehicleService{repo: repo, cfg: cfg}
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", id)
		}
		return nil, apperrors.Internal("Failed to retrieve vehicle", err)
	}
	return vehicle, nil
}

// GetAll lists vehicles ordered by plate number, optionally filtered by status.
func (s *vehicleService) GetAll(ctx context.Context, status model.VehicleStatus) ([]*model.Vehicle, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.InvalidInput("Unknown vehicle status: " + string(status))
	}

	vehicles, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list vehicles", "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicles", err)
	}

	matched := make([]*model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if status == "" || v.Status == status {
			matched = append(matched, v)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PlateNumber < matched[j].PlateNumber
	})
	return matched, nil
}

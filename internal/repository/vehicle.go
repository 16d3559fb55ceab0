package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"
)

type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	FindAll(ctx context.Context) ([]*model.Vehicle, error)
	Save(ctx context.Context, vehicle *model.Vehicle) error
	// Reserve atomically moves an available vehicle to target. It fails with
	// ErrVehicleUnavailable when the vehicle is in any other status.
	Reserve(ctx context.Context, id string, target model.VehicleStatus) (*model.Vehicle, error)
	// SetStatus moves the vehicle to status whatever its current status.
	SetStatus(ctx context.Context, id string, status model.VehicleStatus) (*model.Vehicle, error)
}

type storeVehicleRepository struct {
	vehicles *collection[model.Vehicle]
	now      func() time.Time
}

// NewVehicleRepository stamps status changes from now; nil means time.Now.
func NewVehicleRepository(s store.Store, now func() time.Time) VehicleRepository {
	return &storeVehicleRepository{
		vehicles: newCollection[model.Vehicle](s, PrefixVehicle, "vehicle", ErrVehicleNotFound),
		now:      clockOrDefault(now),
	}
}

func (r *storeVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	return r.vehicles.get(ctx, id)
}

func (r *storeVehicleRepository) FindAll(ctx context.Context) ([]*model.Vehicle, error) {
	return r.vehicles.all(ctx)
}

func (r *storeVehicleRepository) Save(ctx context.Context, vehicle *model.Vehicle) error {
	if vehicle.ID == "" {
		return fmt.Errorf("failed to save vehicle: missing id")
	}
	return r.vehicles.put(ctx, vehicle.ID, vehicle)
}

func (r *storeVehicleRepository) Reserve(ctx context.Context, id string, target model.VehicleStatus) (*model.Vehicle, error) {
	return r.transition(ctx, id, target, func(v *model.Vehicle) error {
		if v.Status != model.VehicleAvailable {
			return ErrVehicleUnavailable
		}
		return nil
	})
}

func (r *storeVehicleRepository) SetStatus(ctx context.Context, id string, status model.VehicleStatus) (*model.Vehicle, error) {
	return r.transition(ctx, id, status, func(*model.Vehicle) error { return nil })
}

// transition reads the vehicle, checks it with guard, and writes the new
// status with a compare-and-set against the bytes it read. A lost race is
// retried from a fresh read so the guard always sees the latest status.
func (r *storeVehicleRepository) transition(ctx context.Context, id string, status model.VehicleStatus, guard func(*model.Vehicle) error) (*model.Vehicle, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		vehicle, raw, err := r.vehicles.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := guard(vehicle); err != nil {
			return nil, err
		}

		vehicle.Status = status
		vehicle.UpdatedAt = r.now().Truncate(time.Millisecond)

		ok, err := r.vehicles.swap(ctx, id, raw, vehicle)
		if err != nil {
			return nil, err
		}
		if ok {
			return vehicle, nil
		}
	}
	return nil, fmt.Errorf("failed to update vehicle %s: too much contention", id)
}

package service

import (
	"context"
	"errors"

	bookingserrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/bookings/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/bookings/validator"
	reminderservice "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo       repository.BookingRepository
	vehicles   repository.VehicleRepository
	reminders  reminderservice.ReminderService
	dispatcher notify.Dispatcher
	validator  *validator.BookingValidator
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	vehicles repository.VehicleRepository,
	reminders reminderservice.ReminderService,
	dispatcher notify.Dispatcher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	if dispatcher == nil {
		dispatcher = notify.Nop{}
	}
	return &bookingService{
		repo:       repo,
		vehicles:   vehicles,
		reminders:  reminders,
		dispatcher: dispatcher,
		validator:  validator,
		cfg:        cfg,
	}
}

// Create reserves the vehicle as booked, whatever the initial status, and
// stores the booking. The reservation is a compare-and-set on the vehicle
// status, so of two concurrent creates for one vehicle exactly one wins. If the
// booking cannot be stored the vehicle is released again.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}
	if !model.InitialBookingStatus(booking.Status) {
		return apperrors.Validation("Invalid booking status", map[string]any{
			"Status": bookingserrors.ErrInvalidInitialStatus.Error(),
		})
	}

	if _, err := s.vehicles.Reserve(ctx, booking.VehicleID, model.VehicleBooked); err != nil {
		return s.vehicleError(booking.VehicleID, err)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "vehicle_id", booking.VehicleID, "error", err)
		s.releaseVehicle(ctx, booking.VehicleID)
		return apperrors.Internal("Failed to create booking", err)
	}

	if _, err := s.reminders.GenerateForBooking(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to generate booking reminders", "id", booking.ID, "error", err)
	}
	s.dispatch(ctx, notify.BookingCreated(booking, booking.CreatedAt))

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"vehicle_id", booking.VehicleID,
		"status", booking.Status,
		"start_date", booking.StartDate,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return apperrors.Internal("Failed to count bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.FindAll(gctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", err)
			return apperrors.Internal("Failed to retrieve bookings", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return bookings, count, nil
}

// Update merges updates into the stored booking. Status changes follow the
// transition table; moving to completed or cancelled frees the vehicle and
// moving to active marks it rented.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, s.validationError("Invalid update input", err)
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := existing.Status
	if updates.Status != "" && !previous.CanTransitionTo(updates.Status) {
		return nil, apperrors.Conflict(bookingserrors.ErrInvalidTransition.Error()).WithDetails(map[string]any{
			"from": previous,
			"to":   updates.Status,
		})
	}

	updates.Apply(existing)
	existing.UpdatedAt = s.cfg.Now()
	s.sanitize(existing)
	if err := s.validate(existing); err != nil {
		return nil, err
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, existing); err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		if existing.Status == previous {
			return nil
		}
		return s.syncVehicle(txCtx, existing)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	if existing.Status != previous {
		s.dispatch(ctx, notify.BookingStatusChanged(existing, previous, existing.UpdatedAt))
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "status", existing.Status)
	return existing, nil
}

// Delete frees the vehicle, removes the booking's reminders, then the booking.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var removed int
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.vehicles.SetStatus(txCtx, booking.VehicleID, model.VehicleAvailable); err != nil {
			if !errors.Is(err, repository.ErrVehicleNotFound) {
				return apperrors.Internal("Failed to release vehicle", err)
			}
			s.cfg.Log.Warn("Booking references a missing vehicle", "id", id, "vehicle_id", booking.VehicleID)
		}

		var err error
		removed, err = s.reminders.DeleteForBooking(txCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete booking reminders", err)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "reminders_removed", removed)
	return nil
}

func (s *bookingService) syncVehicle(ctx context.Context, booking *model.Booking) error {
	var status model.VehicleStatus
	switch {
	case booking.Status.Releasing():
		status = model.VehicleAvailable
	case booking.Status == model.BookingActive:
		status = model.VehicleRented
	default:
		return nil
	}

	if _, err := s.vehicles.SetStatus(ctx, booking.VehicleID, status); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			s.cfg.Log.Warn("Booking references a missing vehicle", "id", booking.ID, "vehicle_id", booking.VehicleID)
			return nil
		}
		return apperrors.Internal("Failed to update vehicle status", err)
	}
	return nil
}

func (s *bookingService) releaseVehicle(ctx context.Context, vehicleID string) {
	if _, err := s.vehicles.SetStatus(ctx, vehicleID, model.VehicleAvailable); err != nil {
		s.cfg.Log.Error("Failed to roll back vehicle reservation", "vehicle_id", vehicleID, "error", err)
	}
}

func (s *bookingService) vehicleError(vehicleID string, err error) error {
	switch {
	case errors.Is(err, repository.ErrVehicleNotFound):
		return apperrors.NotFoundWithID("Vehicle", vehicleID)
	case errors.Is(err, repository.ErrVehicleUnavailable):
		return apperrors.Conflict("Vehicle is not available").WithDetails(map[string]any{"vehicle_id": vehicleID})
	default:
		s.cfg.Log.Error("Failed to reserve vehicle", "vehicle_id", vehicleID, "error", err)
		return apperrors.Internal("Failed to reserve vehicle", err)
	}
}

func (s *bookingService) dispatch(ctx context.Context, n notify.Notification) {
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		s.cfg.Log.Warn("Failed to dispatch notification", "event", n.Event, "key", n.Key(), "error", err)
	}
}

func (s *bookingService) applyDefaults(booking *model.Booking) {
	if booking.Status == "" {
		booking.Status = model.BookingPending
	}
	now := s.cfg.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = booking.CreatedAt
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.CustomerName = sanitizer.NormalizeName(booking.CustomerName)
	if phone := sanitizer.NormalizePhone(booking.CustomerPhone, s.cfg.PhoneRegion); phone != "" {
		booking.CustomerPhone = phone
	}
	booking.VehicleID = sanitizer.SanitizeOptionalID(booking.VehicleID)
	booking.DriverID = sanitizer.SanitizeOptionalID(booking.DriverID)
	booking.PickupLocation = sanitizer.SanitizeLocation(booking.PickupLocation)
	booking.DropoffLocation = sanitizer.SanitizeLocation(booking.DropoffLocation)
	booking.Notes = sanitizer.SanitizeNotes(booking.Notes)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "vehicle_id", booking.VehicleID, "error", err)
		return s.validationError("Invalid booking input", err)
	}
	return nil
}

func (s *bookingService) validationError(msg string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(msg, verrs.Details())
	}
	return apperrors.Validation(msg, map[string]any{"error": err.Error()})
}

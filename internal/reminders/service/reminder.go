package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"

	"github.com/go-playground/validator/v10"
)

type ReminderService interface {
	GenerateForBooking(ctx context.Context, booking *model.Booking) ([]*model.Reminder, error)
	List(ctx context.Context) ([]*model.Reminder, error)
	Sweep(ctx context.Context) (int, error)
	Acknowledge(ctx context.Context, id string, update *model.ReminderUpdate) (*model.Reminder, error)
	DeleteForBooking(ctx context.Context, bookingID string) (int, error)
}

type reminderService struct {
	repo       repository.ReminderRepository
	bookings   repository.BookingRepository
	dispatcher notify.Dispatcher
	validate   *validator.Validate
	cfg        *config.Config
}

func NewReminderService(
	repo repository.ReminderRepository,
	bookings repository.BookingRepository,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
) ReminderService {
	if dispatcher == nil {
		dispatcher = notify.Nop{}
	}
	return &reminderService{
		repo:       repo,
		bookings:   bookings,
		dispatcher: dispatcher,
		validate:   validator.New(),
		cfg:        cfg,
	}
}

// GenerateForBooking creates the reminders known at booking time: due_soon
// while the end date is still outside the warning window, plus delivery and
// pickup when those services are scheduled.
func (s *reminderService) GenerateForBooking(ctx context.Context, booking *model.Booking) ([]*model.Reminder, error) {
	now := s.cfg.Now()

	var candidates []*model.Reminder
	if booking.EndDate.Add(-s.cfg.ReminderDueSoonWindow).After(now) {
		candidates = append(candidates, s.newReminder(booking, model.ReminderDueSoon, booking.EndDate, now))
	}
	if booking.DeliveryRequired && booking.DeliveryTime != nil {
		candidates = append(candidates, s.newReminder(booking, model.ReminderDelivery, *booking.DeliveryTime, now))
	}
	if booking.PickupRequired && booking.PickupTime != nil {
		candidates = append(candidates, s.newReminder(booking, model.ReminderPickup, *booking.PickupTime, now))
	}

	created := make([]*model.Reminder, 0, len(candidates))
	for _, r := range candidates {
		ok, err := s.create(ctx, r, booking)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, r)
		}
	}
	return created, nil
}

func (s *reminderService) List(ctx context.Context) ([]*model.Reminder, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return nil, err
	}

	reminders, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list reminders", "error", err)
		return nil, apperrors.Internal("Failed to retrieve reminders", err)
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
	return reminders, nil
}

// Sweep creates an overdue reminder for every active booking whose end date
// has passed. Reminder ids are deterministic, so repeated sweeps add nothing.
func (s *reminderService) Sweep(ctx context.Context) (int, error) {
	now := s.cfg.Now()

	active, err := s.bookings.FindByStatus(ctx, model.BookingActive)
	if err != nil {
		s.cfg.Log.Error("Failed to load active bookings for sweep", "error", err)
		return 0, apperrors.Internal("Failed to load bookings", err)
	}

	created := 0
	for _, b := range active {
		if !b.EndDate.Before(now) {
			continue
		}
		ok, err := s.create(ctx, s.newReminder(b, model.ReminderOverdue, b.EndDate, now), b)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		s.cfg.Log.Info("Overdue sweep created reminders", "count", created)
	}
	return created, nil
}

func (s *reminderService) Acknowledge(ctx context.Context, id string, update *model.ReminderUpdate) (*model.Reminder, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reminder ID cannot be empty")
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Invalid reminder update", map[string]any{"error": err.Error()})
	}

	reminder, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return nil, apperrors.NotFoundWithID("Reminder", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reminder", err)
	}

	if update.Message != nil {
		reminder.Message = *update.Message
	}
	if update.Acknowledged != nil {
		reminder.Acknowledged = *update.Acknowledged
		if reminder.Acknowledged {
			now := s.cfg.Now()
			reminder.AcknowledgedAt = &now
		} else {
			reminder.AcknowledgedAt = nil
		}
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return nil, apperrors.NotFoundWithID("Reminder", id)
		}
		s.cfg.Log.Error("Failed to update reminder", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reminder", err)
	}

	s.cfg.Log.Info("Reminder updated", "id", id, "acknowledged", reminder.Acknowledged)
	return reminder, nil
}

func (s *reminderService) DeleteForBooking(ctx context.Context, bookingID string) (int, error) {
	n, err := s.repo.DeleteByBooking(ctx, bookingID)
	if err != nil {
		return n, fmt.Errorf("delete reminders of booking %s: %w", bookingID, err)
	}
	return n, nil
}

func (s *reminderService) newReminder(b *model.Booking, kind model.ReminderKind, due, now time.Time) *model.Reminder {
	return &model.Reminder{
		ID:        model.ReminderID(b.ID, kind),
		BookingID: b.ID,
		Kind:      kind,
		Message:   notify.ReminderMessage(b, kind),
		DueDate:   due,
		CreatedAt: now,
	}
}

func (s *reminderService) create(ctx context.Context, r *model.Reminder, b *model.Booking) (bool, error) {
	ok, err := s.repo.CreateIfAbsent(ctx, r)
	if err != nil {
		s.cfg.Log.Error("Failed to create reminder", "id", r.ID, "error", err)
		return false, apperrors.Internal("Failed to create reminder", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.dispatcher.Dispatch(ctx, notify.ReminderCreated(r, b, r.CreatedAt)); err != nil {
		s.cfg.Log.Warn("Failed to dispatch reminder notification", "id", r.ID, "error", err)
	}
	return true, nil
}

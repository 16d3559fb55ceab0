package repository

import (
	"context"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"
)

type ReminderRepository interface {
	// CreateIfAbsent stores the reminder unless one with the same id exists
	// and reports whether it was written.
	CreateIfAbsent(ctx context.Context, reminder *model.Reminder) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Reminder, error)
	FindAll(ctx context.Context) ([]*model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	// DeleteByBooking removes every reminder owned by bookingID and returns
	// how many were removed.
	DeleteByBooking(ctx context.Context, bookingID string) (int, error)
}

type storeReminderRepository struct {
	reminders *collection[model.Reminder]
}

func NewReminderRepository(s store.Store) ReminderRepository {
	return &storeReminderRepository{
		reminders: newCollection[model.Reminder](s, PrefixReminder, "reminder", ErrReminderNotFound),
	}
}

func (r *storeReminderRepository) CreateIfAbsent(ctx context.Context, reminder *model.Reminder) (bool, error) {
	return r.reminders.insert(ctx, reminder.ID, reminder)
}

func (r *storeReminderRepository) FindByID(ctx context.Context, id string) (*model.Reminder, error) {
	return r.reminders.get(ctx, id)
}

func (r *storeReminderRepository) FindAll(ctx context.Context) ([]*model.Reminder, error) {
	return r.reminders.all(ctx)
}

func (r *storeReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	ok, err := r.reminders.exists(ctx, reminder.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReminderNotFound
	}
	return r.reminders.put(ctx, reminder.ID, reminder)
}

func (r *storeReminderRepository) DeleteByBooking(ctx context.Context, bookingID string) (int, error) {
	reminders, err := r.reminders.all(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, rem := range reminders {
		if rem.BookingID != bookingID {
			continue
		}
		if err := r.reminders.remove(ctx, rem.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

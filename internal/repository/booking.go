package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindByStatus(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn store.TxFunc) error
}

type storeBookingRepository struct {
	store    store.Store
	bookings *collection[model.Booking]
	now      func() time.Time
}

// NewBookingRepository stamps missing creation times from now; nil means
// time.Now.
func NewBookingRepository(s store.Store, now func() time.Time) BookingRepository {
	return &storeBookingRepository{
		store:    s,
		bookings: newCollection[model.Booking](s, PrefixBooking, "booking", ErrBookingNotFound),
		now:      clockOrDefault(now),
	}
}

func (r *storeBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = r.now().Truncate(time.Millisecond)
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}

	ok, err := r.bookings.insert(ctx, booking.ID, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to create booking: id %s already exists", booking.ID)
	}
	return nil
}

func (r *storeBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.bookings.get(ctx, id)
}

func (r *storeBookingRepository) all(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := r.bookings.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartDate.Before(bookings[j].StartDate)
	})
	return bookings, nil
}

func (r *storeBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	bookings, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	if offset >= int64(len(bookings)) {
		return []*model.Booking{}, nil
	}
	end := min(int(offset)+limit, len(bookings))
	return bookings[offset:end], nil
}

func (r *storeBookingRepository) FindByStatus(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error) {
	bookings, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*model.Booking, 0)
	for _, b := range bookings {
		if b.Status == status {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (r *storeBookingRepository) Count(ctx context.Context) (int64, error) {
	bookings, err := r.bookings.all(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(bookings)), nil
}

func (r *storeBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	ok, err := r.bookings.exists(ctx, booking.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookingNotFound
	}
	return r.bookings.put(ctx, booking.ID, booking)
}

func (r *storeBookingRepository) Delete(ctx context.Context, id string) error {
	ok, err := r.bookings.exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookingNotFound
	}
	return r.bookings.remove(ctx, id)
}

func (r *storeBookingRepository) ExecuteTransaction(ctx context.Context, fn store.TxFunc) error {
	return r.store.WithTransaction(ctx, fn)
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       ReminderService
	reminders repository.ReminderRepository
	bookings  repository.BookingRepository
	recorder  *notify.Recorder
	now       *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	now := testNow
	f := &fixture{
		reminders: repository.NewReminderRepository(s),
		bookings:  repository.NewBookingRepository(s, func() time.Time { return now }),
		recorder:  &notify.Recorder{},
		now:       &now,
	}
	cfg := &config.Config{
		Log:                   logger.Discard(),
		Location:              time.UTC,
		ReminderDueSoonWindow: 72 * time.Hour,
		Clock:                 func() time.Time { return *f.now },
	}
	f.svc = NewReminderService(f.reminders, f.bookings, f.recorder, cfg)
	return f
}

func (f *fixture) booking(t *testing.T, status model.BookingStatus, end time.Time) *model.Booking {
	t.Helper()
	b := &model.Booking{
		VehicleID:    "v-1",
		CustomerName: "Dewi",
		StartDate:    end.Add(-96 * time.Hour),
		EndDate:      end,
		Status:       status,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func TestGenerateForBooking(t *testing.T) {
	delivery := testNow.Add(24 * time.Hour)
	pickup := testNow.Add(9 * 24 * time.Hour)

	tests := []struct {
		name    string
		booking *model.Booking
		want    []model.ReminderKind
	}{
		{
			name:    "end far away gets due soon",
			booking: &model.Booking{ID: "b-1", EndDate: testNow.Add(10 * 24 * time.Hour)},
			want:    []model.ReminderKind{model.ReminderDueSoon},
		},
		{
			name:    "end inside window gets nothing",
			booking: &model.Booking{ID: "b-2", EndDate: testNow.Add(48 * time.Hour)},
			want:    nil,
		},
		{
			name: "delivery and pickup scheduled",
			booking: &model.Booking{
				ID:               "b-3",
				EndDate:          testNow.Add(10 * 24 * time.Hour),
				DeliveryRequired: true,
				DeliveryTime:     &delivery,
				PickupRequired:   true,
				PickupTime:       &pickup,
			},
			want: []model.ReminderKind{model.ReminderDueSoon, model.ReminderDelivery, model.ReminderPickup},
		},
		{
			name:    "delivery flag without time is skipped",
			booking: &model.Booking{ID: "b-4", EndDate: testNow.Add(time.Hour), DeliveryRequired: true},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			created, err := f.svc.GenerateForBooking(context.Background(), tt.booking)
			require.NoError(t, err)

			var kinds []model.ReminderKind
			for _, r := range created {
				kinds = append(kinds, r.Kind)
				assert.Equal(t, model.ReminderID(tt.booking.ID, r.Kind), r.ID)
			}
			assert.Equal(t, tt.want, kinds)
			assert.Len(t, f.recorder.Sent(), len(tt.want))
		})
	}
}

func TestGenerateForBooking_DueSoonDatedAtEnd(t *testing.T) {
	f := newFixture(t)
	end := testNow.Add(5 * 24 * time.Hour)

	created, err := f.svc.GenerateForBooking(context.Background(), &model.Booking{ID: "b-1", EndDate: end})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].DueDate.Equal(end))
	assert.False(t, created[0].Acknowledged)
}

func TestList_OverdueReminderIsCreatedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, model.BookingActive, testNow.Add(-time.Hour))

	first, err := f.svc.List(ctx)
	require.NoError(t, err)
	second, err := f.svc.List(ctx)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, model.ReminderID(b.ID, model.ReminderOverdue), second[0].ID)
	assert.Equal(t, model.ReminderOverdue, second[0].Kind)
	assert.Equal(t, []string{notify.EventReminderCreated}, f.recorder.Events())
}

func TestSweep_OnlyActiveAndPastEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.booking(t, model.BookingActive, testNow.Add(-24*time.Hour))
	f.booking(t, model.BookingActive, testNow.Add(24*time.Hour))
	f.booking(t, model.BookingConfirmed, testNow.Add(-24*time.Hour))
	f.booking(t, model.BookingCompleted, testNow.Add(-24*time.Hour))
	// end exactly now is not yet overdue
	f.booking(t, model.BookingActive, testNow)

	created, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestList_SortedByDueDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, offset := range []time.Duration{30, 10, 20} {
		r := &model.Reminder{
			ID:        model.ReminderID(string(rune('a'+i)), model.ReminderDueSoon),
			BookingID: string(rune('a' + i)),
			Kind:      model.ReminderDueSoon,
			DueDate:   testNow.Add(offset * 24 * time.Hour),
		}
		_, err := f.reminders.CreateIfAbsent(ctx, r)
		require.NoError(t, err)
	}

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].BookingID)
	assert.Equal(t, "c", list[1].BookingID)
	assert.Equal(t, "a", list[2].BookingID)
}

func TestAcknowledge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.GenerateForBooking(ctx, &model.Booking{ID: "b-1", EndDate: testNow.Add(10 * 24 * time.Hour)})
	require.NoError(t, err)

	id := model.ReminderID("b-1", model.ReminderDueSoon)
	yes := true
	msg := "Call the customer"

	got, err := f.svc.Acknowledge(ctx, id, &model.ReminderUpdate{Acknowledged: &yes, Message: &msg})
	require.NoError(t, err)
	assert.True(t, got.Acknowledged)
	require.NotNil(t, got.AcknowledgedAt)
	assert.True(t, got.AcknowledgedAt.Equal(testNow))
	assert.Equal(t, "Call the customer", got.Message)

	stored, err := f.reminders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Acknowledged)

	no := false
	got, err = f.svc.Acknowledge(ctx, id, &model.ReminderUpdate{Acknowledged: &no})
	require.NoError(t, err)
	assert.False(t, got.Acknowledged)
	assert.Nil(t, got.AcknowledgedAt)
}

func TestAcknowledge_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yes := true

	_, err := f.svc.Acknowledge(ctx, "missing", &model.ReminderUpdate{Acknowledged: &yes})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.svc.Acknowledge(ctx, "", &model.ReminderUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	long := strings.Repeat("x", 501)
	_, err = f.svc.Acknowledge(ctx, "x", &model.ReminderUpdate{Message: &long})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestDeleteForBooking_OnlyThatBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	far := testNow.Add(10 * 24 * time.Hour)
	delivery := testNow.Add(24 * time.Hour)

	_, err := f.svc.GenerateForBooking(ctx, &model.Booking{ID: "b-1", EndDate: far, DeliveryRequired: true, DeliveryTime: &delivery})
	require.NoError(t, err)
	_, err = f.svc.GenerateForBooking(ctx, &model.Booking{ID: "b-2", EndDate: far})
	require.NoError(t, err)

	n, err := f.svc.DeleteForBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := f.reminders.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b-2", left[0].BookingID)
}

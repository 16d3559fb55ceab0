package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVehicle(t *testing.T, s store.Store, id string, status model.VehicleStatus) {
	t.Helper()
	err := NewVehicleRepository(s, nil).Save(context.Background(), &model.Vehicle{ID: id, Brand: "Toyota", Model: "Avanza", Status: status})
	require.NoError(t, err)
}

func TestBookingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(store.NewMemoryStore(), nil)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	b := &model.Booking{VehicleID: "v-1", CustomerName: "Sari", StartDate: start, EndDate: start.Add(48 * time.Hour), Status: model.BookingPending}
	require.NoError(t, repo.Create(ctx, b))
	require.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari", got.CustomerName)
	assert.True(t, got.StartDate.Equal(start))

	got.Status = model.BookingConfirmed
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), ErrBookingNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &model.Booking{ID: "missing"}), ErrBookingNotFound)
}

func TestBookingRepository_FindAllSortedAndPaged(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(store.NewMemoryStore(), nil)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, day := range []int{5, 1, 3} {
		start := base.AddDate(0, 0, day)
		require.NoError(t, repo.Create(ctx, &model.Booking{VehicleID: "v", StartDate: start, EndDate: start.Add(time.Hour), Status: model.BookingActive}))
	}

	page, err := repo.FindAll(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 2, page[0].StartDate.Day())
	assert.Equal(t, 4, page[1].StartDate.Day())

	page, err = repo.FindAll(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)

	page, err = repo.FindAll(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	active, err := repo.FindByStatus(ctx, model.BookingActive)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestReminderRepository_CreateIfAbsentAndCascade(t *testing.T) {
	ctx := context.Background()
	repo := NewReminderRepository(store.NewMemoryStore())

	for _, r := range []*model.Reminder{
		{ID: model.ReminderID("b-1", model.ReminderDueSoon), BookingID: "b-1", Kind: model.ReminderDueSoon},
		{ID: model.ReminderID("b-1", model.ReminderPickup), BookingID: "b-1", Kind: model.ReminderPickup},
		{ID: model.ReminderID("b-2", model.ReminderDueSoon), BookingID: "b-2", Kind: model.ReminderDueSoon},
	} {
		ok, err := repo.CreateIfAbsent(ctx, r)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := repo.CreateIfAbsent(ctx, &model.Reminder{ID: model.ReminderID("b-1", model.ReminderDueSoon), BookingID: "b-1"})
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.DeleteByBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b-2", remaining[0].BookingID)

	_, err = repo.FindByID(ctx, "b-1_due_soon")
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestVehicleRepository_Reserve(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewVehicleRepository(s, nil)
	seedVehicle(t, s, "v-1", model.VehicleAvailable)

	v, err := repo.Reserve(ctx, "v-1", model.VehicleBooked)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleBooked, v.Status)

	_, err = repo.Reserve(ctx, "v-1", model.VehicleBooked)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	_, err = repo.Reserve(ctx, "missing", model.VehicleBooked)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	v, err = repo.SetStatus(ctx, "v-1", model.VehicleAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleAvailable, v.Status)
}

func TestRepositories_StampFromInjectedClock(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	pinned := time.Date(2025, 3, 15, 8, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	clock := func() time.Time { return pinned }
	seedVehicle(t, s, "v-1", model.VehicleAvailable)

	v, err := NewVehicleRepository(s, clock).Reserve(ctx, "v-1", model.VehicleBooked)
	require.NoError(t, err)
	assert.True(t, v.UpdatedAt.Equal(pinned))

	b := &model.Booking{VehicleID: "v-1", StartDate: pinned, EndDate: pinned.Add(time.Hour)}
	require.NoError(t, NewBookingRepository(s, clock).Create(ctx, b))
	assert.True(t, b.CreatedAt.Equal(pinned))
	assert.True(t, b.UpdatedAt.Equal(pinned))
}

func TestVehicleRepository_ReserveConcurrent(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, store.Options{Driver: store.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer s.Close(ctx)

	repo := NewVehicleRepository(s, nil)
	seedVehicle(t, s, "v-1", model.VehicleAvailable)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		wins        int
		unavailable int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve(ctx, "v-1", model.VehicleBooked)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(t, err, ErrVehicleUnavailable) {
				unavailable++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, unavailable)
}

func TestEntityRepository_SaveAndFindAll(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	txs := NewTransactionRepository(s)
	drivers := NewDriverRepository(s)

	require.NoError(t, txs.Save(ctx, &model.Transaction{ID: "t-1", Amount: 100}))
	require.NoError(t, txs.Save(ctx, &model.Transaction{ID: "t-2", Amount: 200}))
	require.NoError(t, drivers.Save(ctx, &model.Driver{ID: "d-1", Name: "Agus"}))
	assert.Error(t, txs.Save(ctx, &model.Transaction{}))

	all, err := txs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 100.0, all[0].Amount)

	ds, err := drivers.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}

package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() *model.Booking {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		VehicleID:     "v-1",
		CustomerName:  "Rina Wulandari",
		CustomerPhone: "+6281234567890",
		StartDate:     start,
		EndDate:       start.Add(48 * time.Hour),
		Status:        model.BookingPending,
		TotalPrice:    700000,
	}
}

func TestBookingValidator_Validate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	later := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{name: "valid", mutate: func(*model.Booking) {}},
		{name: "missing vehicle", mutate: func(b *model.Booking) { b.VehicleID = "" }, wantField: "VehicleID"},
		{name: "missing name", mutate: func(b *model.Booking) { b.CustomerName = "" }, wantField: "CustomerName"},
		{name: "bad phone", mutate: func(b *model.Booking) { b.CustomerPhone = "0812" }, wantField: "CustomerPhone"},
		{name: "end before start", mutate: func(b *model.Booking) { b.EndDate = b.StartDate.Add(-time.Hour) }, wantField: "EndDate"},
		{name: "negative price", mutate: func(b *model.Booking) { b.TotalPrice = -1 }, wantField: "TotalPrice"},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "parked" }, wantField: "Status"},
		{name: "delivery without time", mutate: func(b *model.Booking) { b.DeliveryRequired = true }, wantField: "DeliveryTime"},
		{name: "delivery with time", mutate: func(b *model.Booking) { b.DeliveryRequired = true; b.DeliveryTime = &later }},
		{name: "pickup without time", mutate: func(b *model.Booking) { b.PickupRequired = true }, wantField: "PickupTime"},
		{name: "completed status is known", mutate: func(b *model.Booking) { b.Status = model.BookingCompleted }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			assert.Contains(t, verrs.Details(), tt.wantField)
		})
	}
}

func TestBookingValidator_ValidateUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	negative := -5.0

	assert.NoError(t, v.ValidateUpdate(&model.BookingUpdate{Status: model.BookingCompleted}))
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{Status: "lost"}))
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{StartDate: &start, EndDate: &end}))
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{TotalPrice: &negative}))
}

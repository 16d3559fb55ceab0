package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingOverdue   BookingStatus = "overdue"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingActive, BookingCancelled},
	BookingConfirmed: {BookingActive, BookingCancelled},
	BookingActive:    {BookingCompleted, BookingOverdue, BookingCancelled},
	BookingOverdue:   {BookingCompleted, BookingCancelled},
	BookingCompleted: nil,
	BookingCancelled: nil,
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Re-applying the current status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return s.Valid()
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Holding reports whether a booking in this status occupies its vehicle.
func (s BookingStatus) Holding() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingActive
}

// Releasing reports whether moving into this status frees the vehicle.
func (s BookingStatus) Releasing() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// InitialBookingStatus reports whether a booking may be created directly in s.
func InitialBookingStatus(s BookingStatus) bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingActive
}

type Booking struct {
	ID               string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid"`
	VehicleID        string        `json:"vehicle_id" bson:"vehicle_id" validate:"required,max=100"`
	CustomerName     string        `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone    string        `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	DriverID         string        `json:"driver_id,omitempty" bson:"driver_id,omitempty" validate:"omitempty,max=100"`
	StartDate        time.Time     `json:"start_date" bson:"start_date" validate:"required"`
	EndDate          time.Time     `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	PickupLocation   string        `json:"pickup_location" bson:"pickup_location" validate:"omitempty,max=200"`
	DropoffLocation  string        `json:"dropoff_location" bson:"dropoff_location" validate:"omitempty,max=200"`
	Status           BookingStatus `json:"status" bson:"status" validate:"required,booking_status"`
	TotalPrice       float64       `json:"total_price" bson:"total_price" validate:"min=0"`
	DeliveryRequired bool          `json:"delivery_required" bson:"delivery_required"`
	DeliveryTime     *time.Time    `json:"delivery_time,omitempty" bson:"delivery_time,omitempty" validate:"required_if=DeliveryRequired true"`
	PickupRequired   bool          `json:"pickup_required" bson:"pickup_required"`
	PickupTime       *time.Time    `json:"pickup_time,omitempty" bson:"pickup_time,omitempty" validate:"required_if=PickupRequired true"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}

type BookingUpdate struct {
	CustomerName     string        `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone    string        `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	DriverID         *string       `json:"driver_id,omitempty" validate:"omitempty,max=100"`
	StartDate        *time.Time    `json:"start_date,omitempty"`
	EndDate          *time.Time    `json:"end_date,omitempty"`
	PickupLocation   *string       `json:"pickup_location,omitempty" validate:"omitempty,max=200"`
	DropoffLocation  *string       `json:"dropoff_location,omitempty" validate:"omitempty,max=200"`
	Status           BookingStatus `json:"status,omitempty" validate:"omitempty,booking_status"`
	TotalPrice       *float64      `json:"total_price,omitempty" validate:"omitempty,min=0"`
	DeliveryRequired *bool         `json:"delivery_required,omitempty"`
	DeliveryTime     *time.Time    `json:"delivery_time,omitempty"`
	PickupRequired   *bool         `json:"pickup_required,omitempty"`
	PickupTime       *time.Time    `json:"pickup_time,omitempty"`
	Notes            *string       `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Apply merges the non-empty fields of u into b. Status is applied as given;
// transition legality is the caller's concern.
func (u *BookingUpdate) Apply(b *Booking) {
	if u.CustomerName != "" {
		b.CustomerName = u.CustomerName
	}
	if u.CustomerPhone != "" {
		b.CustomerPhone = u.CustomerPhone
	}
	if u.DriverID != nil {
		b.DriverID = *u.DriverID
	}
	if u.StartDate != nil {
		b.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		b.EndDate = *u.EndDate
	}
	if u.PickupLocation != nil {
		b.PickupLocation = *u.PickupLocation
	}
	if u.DropoffLocation != nil {
		b.DropoffLocation = *u.DropoffLocation
	}
	if u.Status != "" {
		b.Status = u.Status
	}
	if u.TotalPrice != nil {
		b.TotalPrice = *u.TotalPrice
	}
	if u.DeliveryRequired != nil {
		b.DeliveryRequired = *u.DeliveryRequired
	}
	if u.DeliveryTime != nil {
		b.DeliveryTime = u.DeliveryTime
	}
	if u.PickupRequired != nil {
		b.PickupRequired = *u.PickupRequired
	}
	if u.PickupTime != nil {
		b.PickupTime = u.PickupTime
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
}

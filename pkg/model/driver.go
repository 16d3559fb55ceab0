package model

import "time"

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnDuty    DriverStatus = "on_duty"
	DriverOffDuty   DriverStatus = "off_duty"
	DriverInactive  DriverStatus = "inactive"
)

type Driver struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Phone     string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Status    DriverStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// Assignment is a driver's job for a booking or transaction.
type Assignment struct {
	ID            string           `json:"id" bson:"_id"`
	DriverID      string           `json:"driver_id" bson:"driver_id"`
	BookingID     string           `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	Status        AssignmentStatus `json:"status" bson:"status"`
	Fare          float64          `json:"fare" bson:"fare"`
	Rating        *float64         `json:"rating,omitempty" bson:"rating,omitempty"`
	DueAt         *time.Time       `json:"due_at,omitempty" bson:"due_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
}

// OnTime reports whether a completed assignment finished by its due time.
// Completions without a due time are on time.
func (a *Assignment) OnTime() bool {
	if a.Status != AssignmentCompleted {
		return false
	}
	if a.DueAt == nil || a.CompletedAt == nil {
		return true
	}
	return !a.CompletedAt.After(*a.DueAt)
}

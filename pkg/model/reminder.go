package model

import "time"

type ReminderKind string

const (
	ReminderDueSoon  ReminderKind = "due_soon"
	ReminderOverdue  ReminderKind = "overdue"
	ReminderDelivery ReminderKind = "delivery"
	ReminderPickup   ReminderKind = "pickup"
)

func (k ReminderKind) Valid() bool {
	switch k {
	case ReminderDueSoon, ReminderOverdue, ReminderDelivery, ReminderPickup:
		return true
	}
	return false
}

// ReminderID derives the id of the reminder of the given kind for a booking.
// A booking has at most one reminder per kind.
func ReminderID(bookingID string, kind ReminderKind) string {
	return bookingID + "_" + string(kind)
}

type Reminder struct {
	ID             string       `json:"id" bson:"_id"`
	BookingID      string       `json:"booking_id" bson:"booking_id"`
	Kind           ReminderKind `json:"kind" bson:"kind"`
	Message        string       `json:"message" bson:"message"`
	DueDate        time.Time    `json:"due_date" bson:"due_date"`
	Acknowledged   bool         `json:"acknowledged" bson:"acknowledged"`
	AcknowledgedAt *time.Time   `json:"acknowledged_at,omitempty" bson:"acknowledged_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
}

type ReminderUpdate struct {
	Acknowledged *bool   `json:"acknowledged,omitempty"`
	Message      *string `json:"message,omitempty" validate:"omitempty,min=1,max=500"`
}

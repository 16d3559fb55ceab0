package notify

import (
	"context"
	"sync"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventReminderCreated      = "reminder.created"
)

// Notification is the payload handed to the sink. Booking or Reminder is set
// depending on Event.
type Notification struct {
	Event          string              `json:"event"`
	Booking        *model.Booking      `json:"booking,omitempty"`
	Reminder       *model.Reminder     `json:"reminder,omitempty"`
	PreviousStatus model.BookingStatus `json:"previous_status,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

// Key is the partition key: the booking the notification belongs to.
func (n Notification) Key() string {
	switch {
	case n.Booking != nil:
		return n.Booking.ID
	case n.Reminder != nil:
		return n.Reminder.BookingID
	default:
		return n.Event
	}
}

func BookingCreated(b *model.Booking, at time.Time) Notification {
	return Notification{Event: EventBookingCreated, Booking: b, OccurredAt: at}
}

func BookingStatusChanged(b *model.Booking, previous model.BookingStatus, at time.Time) Notification {
	return Notification{Event: EventBookingStatusChanged, Booking: b, PreviousStatus: previous, OccurredAt: at}
}

func ReminderCreated(r *model.Reminder, b *model.Booking, at time.Time) Notification {
	return Notification{Event: EventReminderCreated, Reminder: r, Booking: b, OccurredAt: at}
}

// Dispatcher delivers notifications. Callers treat failures as non-fatal.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Dispatch(context.Context, Notification) error { return nil }

// Recorder keeps dispatched notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Dispatch(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Events lists the event names in dispatch order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]string, len(r.sent))
	for i, n := range r.sent {
		events[i] = n.Event
	}
	return events
}

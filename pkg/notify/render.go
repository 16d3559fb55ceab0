package notify

import (
	"fmt"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
)

const dateLayout = "02 Jan 2006 15:04"

// Render turns a notification into the text sent to the customer.
func Render(n Notification) string {
	switch n.Event {
	case EventBookingCreated:
		if n.Booking == nil {
			break
		}
		return fmt.Sprintf("Hi %s, your booking %s is %s for %s to %s.",
			n.Booking.CustomerName, n.Booking.ID, n.Booking.Status,
			n.Booking.StartDate.Format(dateLayout), n.Booking.EndDate.Format(dateLayout))
	case EventBookingStatusChanged:
		if n.Booking == nil {
			break
		}
		return fmt.Sprintf("Hi %s, your booking %s changed from %s to %s.",
			n.Booking.CustomerName, n.Booking.ID, n.PreviousStatus, n.Booking.Status)
	case EventReminderCreated:
		if n.Reminder == nil {
			break
		}
		return n.Reminder.Message
	}
	return n.Event
}

// Recipient returns the phone the notification is addressed to, if known.
func Recipient(n Notification) string {
	if n.Booking != nil {
		return n.Booking.CustomerPhone
	}
	return ""
}

// ReminderMessage is the default text for a reminder of kind.
func ReminderMessage(b *model.Booking, kind model.ReminderKind) string {
	switch kind {
	case model.ReminderDueSoon:
		return fmt.Sprintf("Booking %s for %s ends on %s.", b.ID, b.CustomerName, b.EndDate.Format(dateLayout))
	case model.ReminderOverdue:
		return fmt.Sprintf("Booking %s for %s is overdue since %s.", b.ID, b.CustomerName, b.EndDate.Format(dateLayout))
	case model.ReminderDelivery:
		return fmt.Sprintf("Deliver vehicle for booking %s to %s.", b.ID, b.PickupLocation)
	case model.ReminderPickup:
		return fmt.Sprintf("Pick up vehicle for booking %s at %s.", b.ID, b.DropoffLocation)
	}
	return string(kind)
}

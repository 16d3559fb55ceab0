package model

import "time"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

// DefaultPaymentTerm is used to derive a due date for transactions that carry
// neither a due date nor a rental end.
const DefaultPaymentTerm = 7 * 24 * time.Hour

type Transaction struct {
	ID            string        `json:"id" bson:"_id"`
	Amount        float64       `json:"amount" bson:"amount"`
	PaidAmount    float64       `json:"paid_amount" bson:"paid_amount"`
	Cost          float64       `json:"cost" bson:"cost"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	RentalStart   *time.Time    `json:"rental_start,omitempty" bson:"rental_start,omitempty"`
	RentalEnd     *time.Time    `json:"rental_end,omitempty" bson:"rental_end,omitempty"`
	DueDate       *time.Time    `json:"due_date,omitempty" bson:"due_date,omitempty"`
	VehicleID     string        `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	DriverID      string        `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	CustomerID    string        `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CustomerName  string        `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	OrderSource   string        `json:"order_source,omitempty" bson:"order_source,omitempty"`
}

func (t *Transaction) IsPaid() bool {
	return t.PaymentStatus == PaymentPaid
}

// Paid is the amount collected so far. A paid transaction is settled in full
// regardless of the recorded paid amount.
func (t *Transaction) Paid() float64 {
	if t.IsPaid() {
		return t.Amount
	}
	return t.PaidAmount
}

// Outstanding is amount minus paid amount for unsettled transactions, 0 otherwise.
func (t *Transaction) Outstanding() float64 {
	if t.IsPaid() {
		return 0
	}
	return t.Amount - t.PaidAmount
}

func (t *Transaction) ImpliedDueDate() time.Time {
	switch {
	case t.DueDate != nil:
		return *t.DueDate
	case t.RentalEnd != nil:
		return *t.RentalEnd
	default:
		return t.CreatedAt.Add(DefaultPaymentTerm)
	}
}

// RentalDays counts whole days between rental start and end, rounding up.
// Missing or inverted dates count as a single day.
func (t *Transaction) RentalDays() int {
	if t.RentalStart == nil || t.RentalEnd == nil || !t.RentalEnd.After(*t.RentalStart) {
		return 1
	}
	d := t.RentalEnd.Sub(*t.RentalStart)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

package model

import "time"

type ExpenseKind string

const (
	ExpenseGeneral ExpenseKind = "general"
	ExpenseDriver  ExpenseKind = "driver"
)

type ExpenseStatus string

const (
	ExpenseUnreviewed ExpenseStatus = ""
	ExpensePending    ExpenseStatus = "pending"
	ExpenseApproved   ExpenseStatus = "approved"
	ExpenseRejected   ExpenseStatus = "rejected"
)

type Expense struct {
	ID        string        `json:"id" bson:"_id"`
	Kind      ExpenseKind   `json:"kind" bson:"kind"`
	Category  string        `json:"category,omitempty" bson:"category,omitempty"`
	Amount    float64       `json:"amount" bson:"amount"`
	Date      time.Time     `json:"date" bson:"date"`
	Status    ExpenseStatus `json:"status,omitempty" bson:"status,omitempty"`
	VehicleID string        `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	DriverID  string        `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
}

// Counts reports whether the expense is included in profit calculations.
// General expenses have no approval workflow unless a status was recorded.
func (e *Expense) Counts() bool {
	if e.Status == ExpenseApproved {
		return true
	}
	return e.Kind != ExpenseDriver && e.Status == ExpenseUnreviewed
}

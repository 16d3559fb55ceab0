package model

import "time"

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleBooked      VehicleStatus = "booked"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleBooked, VehicleRented, VehicleMaintenance, VehicleInactive:
		return true
	}
	return false
}

// InUse reports whether the vehicle is held by a booking.
func (s VehicleStatus) InUse() bool {
	return s == VehicleBooked || s == VehicleRented
}

type Vehicle struct {
	ID          string        `json:"id" bson:"_id"`
	PlateNumber string        `json:"plate_number" bson:"plate_number"`
	Brand       string        `json:"brand" bson:"brand"`
	Model       string        `json:"model" bson:"model"`
	Year        int           `json:"year,omitempty" bson:"year,omitempty"`
	Status      VehicleStatus `json:"status" bson:"status"`
	DailyRate   float64       `json:"daily_rate" bson:"daily_rate"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

func (v *Vehicle) DisplayName() string {
	name := v.Brand
	if v.Model != "" {
		if name != "" {
			name += " "
		}
		name += v.Model
	}
	if name == "" {
		return v.PlateNumber
	}
	return name
}

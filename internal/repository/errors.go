package repository

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrReminderNotFound = errors.New("reminder not found")

	ErrVehicleNotFound = errors.New("vehicle not found")

	ErrVehicleUnavailable = errors.New("vehicle is not available")
)

package analytics

import (
	"sort"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

const (
	VehicleExcellent = "excellent"
	VehicleGood      = "good"
	VehicleAverage   = "average"
	VehiclePoor      = "poor"
)

type VehiclePerformance struct {
	VehicleID   string  `json:"vehicle_id"`
	Name        string  `json:"name"`
	PlateNumber string  `json:"plate_number"`
	Status      string  `json:"status"`
	Rentals     int     `json:"rentals"`
	Revenue     float64 `json:"revenue"`
	RentalDays  int     `json:"rental_days"`
	Utilization float64 `json:"utilization"`
	Performance string  `json:"performance"`
}

// VehicleUtilizationRate is rental days over period days as a percentage,
// capped at 100.
func VehicleUtilizationRate(rentalDays, periodDays int) float64 {
	return min(percent(float64(rentalDays), float64(periodDays)), 100)
}

func VehicleBucket(utilization float64) string {
	switch {
	case utilization >= 80:
		return VehicleExcellent
	case utilization >= 60:
		return VehicleGood
	case utilization >= 30:
		return VehicleAverage
	default:
		return VehiclePoor
	}
}

// VehiclePerformanceIn rates every vehicle over p, highest revenue first.
func VehiclePerformanceIn(d *Dataset, p period.Period) []VehiclePerformance {
	type acc struct {
		rentals int
		revenue float64
		days    int
	}
	byVehicle := make(map[string]*acc)
	for _, t := range d.TransactionsIn(p) {
		if t.VehicleID == "" {
			continue
		}
		a, ok := byVehicle[t.VehicleID]
		if !ok {
			a = &acc{}
			byVehicle[t.VehicleID] = a
		}
		a.rentals++
		a.revenue += t.Amount
		a.days += t.RentalDays()
	}

	periodDays := p.Days()
	rows := make([]VehiclePerformance, 0, len(d.Vehicles))
	for _, v := range d.Vehicles {
		a := byVehicle[v.ID]
		if a == nil {
			a = &acc{}
		}
		utilization := VehicleUtilizationRate(a.days, periodDays)
		rows = append(rows, VehiclePerformance{
			VehicleID:   v.ID,
			Name:        v.DisplayName(),
			PlateNumber: v.PlateNumber,
			Status:      string(v.Status),
			Rentals:     a.rentals,
			Revenue:     a.revenue,
			RentalDays:  a.days,
			Utilization: utilization,
			Performance: VehicleBucket(utilization),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
	return rows
}

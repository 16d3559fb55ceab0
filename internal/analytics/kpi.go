package analytics

import (
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

type KPISummary struct {
	Period             period.Period  `json:"period"`
	TotalRevenue       float64        `json:"total_revenue"`
	PreviousRevenue    float64        `json:"previous_revenue"`
	TransactionCount   int            `json:"transaction_count"`
	AverageTransaction float64        `json:"average_transaction"`
	RevenueGrowth      float64        `json:"revenue_growth"`
	TotalVehicles      int            `json:"total_vehicles"`
	VehiclesByStatus   map[string]int `json:"vehicles_by_status"`
	TotalDrivers       int            `json:"total_drivers"`
	DriversByStatus    map[string]int `json:"drivers_by_status"`
	OutstandingAmount  float64        `json:"outstanding_amount"`
	CollectionRate     float64        `json:"collection_rate"`
	UtilizationRate    float64        `json:"utilization_rate"`
	HeldRate           float64        `json:"held_rate"`
}

// Summarize computes the KPI summary for p. Outstanding amount and collection
// rate cover all transactions regardless of period.
func Summarize(d *Dataset, p period.Period) KPISummary {
	current := d.TransactionsIn(p)
	revenue := sumRevenue(current)
	previous := sumRevenue(d.TransactionsIn(p.Previous()))

	k := KPISummary{
		Period:             p,
		TotalRevenue:       revenue,
		PreviousRevenue:    previous,
		TransactionCount:   len(current),
		AverageTransaction: ratio(revenue, float64(len(current))),
		RevenueGrowth:      Growth(revenue, previous),
		TotalVehicles:      len(d.Vehicles),
		VehiclesByStatus:   make(map[string]int),
		TotalDrivers:       len(d.Drivers),
		DriversByStatus:    make(map[string]int),
		OutstandingAmount:  OutstandingAmount(d.Transactions),
		CollectionRate:     CollectionRate(d.Transactions),
		UtilizationRate:    VehicleUtilization(d.Vehicles),
		HeldRate:           VehicleHeldRate(d.Vehicles),
	}
	for _, v := range d.Vehicles {
		k.VehiclesByStatus[string(v.Status)]++
	}
	for _, dr := range d.Drivers {
		k.DriversByStatus[string(dr.Status)]++
	}
	return k
}

// Growth is the percentage change from previous to current, 0 when there is
// nothing to compare against.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func OutstandingAmount(txs []*model.Transaction) float64 {
	var total float64
	for _, t := range txs {
		total += t.Outstanding()
	}
	return total
}

// CollectionRate is the paid share of everything billed, as a percentage.
func CollectionRate(txs []*model.Transaction) float64 {
	var paid, due float64
	for _, t := range txs {
		paid += t.Paid()
		due += t.Amount
	}
	return percent(paid, due)
}

// VehicleUtilization is the share of the fleet currently rented.
func VehicleUtilization(vehicles []*model.Vehicle) float64 {
	return vehicleShare(vehicles, func(s model.VehicleStatus) bool { return s == model.VehicleRented })
}

// VehicleHeldRate is the share of the fleet booked or rented.
func VehicleHeldRate(vehicles []*model.Vehicle) float64 {
	return vehicleShare(vehicles, model.VehicleStatus.InUse)
}

func vehicleShare(vehicles []*model.Vehicle, match func(model.VehicleStatus) bool) float64 {
	n := 0
	for _, v := range vehicles {
		if match(v.Status) {
			n++
		}
	}
	return percent(float64(n), float64(len(vehicles)))
}

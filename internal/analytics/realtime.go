package analytics

import (
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

const newCustomerWindow = 7 * 24 * time.Hour

type RealTimeSnapshot struct {
	At                  time.Time `json:"at"`
	TodayTransactions   int       `json:"today_transactions"`
	TodayRevenue        float64   `json:"today_revenue"`
	VehicleUtilization  float64   `json:"vehicle_utilization"`
	DriverUtilization   float64   `json:"driver_utilization"`
	VehiclesMaintenance int       `json:"vehicles_in_maintenance"`
	OverduePayments     int       `json:"overdue_payments"`
	NewCustomers        int       `json:"new_customers"`
}

func Snapshot(d *Dataset, now time.Time) RealTimeSnapshot {
	today, _ := period.Resolve(period.Today, now)
	txs := d.TransactionsIn(today)

	s := RealTimeSnapshot{
		At:                 now,
		TodayTransactions:  len(txs),
		TodayRevenue:       sumRevenue(txs),
		VehicleUtilization: VehicleUtilization(d.Vehicles),
	}

	onDuty := 0
	for _, dr := range d.Drivers {
		if dr.Status == model.DriverOnDuty {
			onDuty++
		}
	}
	s.DriverUtilization = percent(float64(onDuty), float64(len(d.Drivers)))

	for _, v := range d.Vehicles {
		if v.Status == model.VehicleMaintenance {
			s.VehiclesMaintenance++
		}
	}
	for _, t := range d.Transactions {
		if !t.IsPaid() && t.ImpliedDueDate().Before(now) {
			s.OverduePayments++
		}
	}
	since := now.Add(-newCustomerWindow)
	for _, c := range d.Customers {
		if !c.CreatedAt.Before(since) && !c.CreatedAt.After(now) {
			s.NewCustomers++
		}
	}
	return s
}

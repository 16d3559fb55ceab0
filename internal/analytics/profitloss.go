package analytics

import (
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

const profitLossMonths = 12

type MonthlyProfitLoss struct {
	Month    string    `json:"month"`
	Start    time.Time `json:"start"`
	Revenue  float64   `json:"revenue"`
	Expenses float64   `json:"expenses"`
	Profit   float64   `json:"profit"`
	Margin   float64   `json:"margin"`
}

// ProfitLoss returns the trailing twelve calendar months ending with the
// month containing now, oldest first.
func ProfitLoss(d *Dataset, now time.Time) []MonthlyProfitLoss {
	y, m, _ := now.Date()
	current := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	series := make([]MonthlyProfitLoss, 0, profitLossMonths)
	for i := profitLossMonths - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		month := period.Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}

		revenue := sumRevenue(d.TransactionsIn(month))
		expenses := SumExpenses(d.ApprovedExpensesIn(month))
		profit := revenue - expenses

		series = append(series, MonthlyProfitLoss{
			Month:    start.Format("2006-01"),
			Start:    start,
			Revenue:  revenue,
			Expenses: expenses,
			Profit:   profit,
			Margin:   Margin(profit, revenue),
		})
	}
	return series
}

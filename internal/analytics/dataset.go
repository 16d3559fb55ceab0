// Package analytics derives KPI, profit/loss and performance figures from a
// snapshot of the rental data. Every function is pure: it reads the Dataset,
// never the store, and any division by zero yields 0.
package analytics

import (
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

// Dataset is a point-in-time copy of every collection the reports read.
type Dataset struct {
	Vehicles     []*model.Vehicle
	Transactions []*model.Transaction
	Drivers      []*model.Driver
	Customers    []*model.Customer
	Expenses     []*model.Expense
	Assignments  []*model.Assignment
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 {
	return ratio(num, den) * 100
}

// TransactionsIn returns the transactions created within p.
func (d *Dataset) TransactionsIn(p period.Period) []*model.Transaction {
	matched := make([]*model.Transaction, 0)
	for _, t := range d.Transactions {
		if p.Contains(t.CreatedAt) {
			matched = append(matched, t)
		}
	}
	return matched
}

// ApprovedExpensesIn returns the expenses dated within p that count toward profit.
func (d *Dataset) ApprovedExpensesIn(p period.Period) []*model.Expense {
	matched := make([]*model.Expense, 0)
	for _, e := range d.Expenses {
		if e.Counts() && p.Contains(e.Date) {
			matched = append(matched, e)
		}
	}
	return matched
}

func sumRevenue(txs []*model.Transaction) float64 {
	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	return total
}

// Margin is profit as a percentage of revenue.
func Margin(profit, revenue float64) float64 {
	return percent(profit, revenue)
}

func SumExpenses(expenses []*model.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// ExpensesByCategory totals the given expenses per category. Expenses without
// a category are grouped under their kind.
func ExpensesByCategory(expenses []*model.Expense) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = string(e.Kind)
		}
		totals[category] += e.Amount
	}
	return totals
}

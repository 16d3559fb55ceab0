package analytics

import (
	"sort"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

const (
	CustomerVIP     = "vip"
	CustomerPremium = "premium"
	CustomerLoyal   = "loyal"
	CustomerRegular = "regular"
	CustomerNew     = "new"

	vipSpend     = 5_000_000
	premiumSpend = 2_000_000
	loyalRentals = 5
)

type CustomerValue struct {
	CustomerID   string     `json:"customer_id"`
	Name         string     `json:"name"`
	Rentals      int        `json:"rentals"`
	TotalSpend   float64    `json:"total_spend"`
	AverageSpend float64    `json:"average_spend"`
	LastRental   *time.Time `json:"last_rental,omitempty"`
	Segment      string     `json:"segment"`
}

// Classify segments a customer by spend first, then by rental count.
func Classify(spend float64, rentals int) string {
	switch {
	case spend > vipSpend:
		return CustomerVIP
	case spend > premiumSpend:
		return CustomerPremium
	case rentals > loyalRentals:
		return CustomerLoyal
	case rentals >= 1:
		return CustomerRegular
	default:
		return CustomerNew
	}
}

// CustomerValues aggregates in-period spend per customer, highest spend
// first. Known customers without rentals are listed as new; transactions
// that reference no customer record are grouped by customer name.
func CustomerValues(d *Dataset, p period.Period) []CustomerValue {
	rows := make(map[string]*CustomerValue)
	order := make([]string, 0, len(d.Customers))

	row := func(key, name string) *CustomerValue {
		if r, ok := rows[key]; ok {
			return r
		}
		r := &CustomerValue{CustomerID: key, Name: name}
		rows[key] = r
		order = append(order, key)
		return r
	}

	for _, c := range d.Customers {
		row(c.ID, c.Name)
	}
	for _, t := range d.TransactionsIn(p) {
		key := t.CustomerID
		if key == "" {
			if t.CustomerName == "" {
				continue
			}
			key = "name:" + t.CustomerName
		}
		r := row(key, t.CustomerName)
		if r.Name == "" {
			r.Name = t.CustomerName
		}
		r.Rentals++
		r.TotalSpend += t.Amount
		if r.LastRental == nil || t.CreatedAt.After(*r.LastRental) {
			created := t.CreatedAt
			r.LastRental = &created
		}
	}

	values := make([]CustomerValue, 0, len(order))
	for _, key := range order {
		r := rows[key]
		r.AverageSpend = ratio(r.TotalSpend, float64(r.Rentals))
		r.Segment = Classify(r.TotalSpend, r.Rentals)
		values = append(values, *r)
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].TotalSpend > values[j].TotalSpend
	})
	return values
}

// SegmentCounts counts customers per segment.
func SegmentCounts(values []CustomerValue) map[string]int {
	counts := map[string]int{
		CustomerVIP:     0,
		CustomerPremium: 0,
		CustomerLoyal:   0,
		CustomerRegular: 0,
		CustomerNew:     0,
	}
	for _, v := range values {
		counts[v.Segment]++
	}
	return counts
}


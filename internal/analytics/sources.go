package analytics

import (
	"sort"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

// UnknownSource labels transactions without a recorded order source.
const UnknownSource = "unknown"

type OrderSource struct {
	Source       string  `json:"source"`
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
	RevenueShare float64 `json:"revenue_share"`
}

// OrderSources breaks in-period revenue down by order source, largest first.
func OrderSources(d *Dataset, p period.Period) []OrderSource {
	txs := d.TransactionsIn(p)
	total := sumRevenue(txs)

	bySource := make(map[string]*OrderSource)
	for _, t := range txs {
		source := t.OrderSource
		if source == "" {
			source = UnknownSource
		}
		s, ok := bySource[source]
		if !ok {
			s = &OrderSource{Source: source}
			bySource[source] = s
		}
		s.Count++
		s.Revenue += t.Amount
	}

	rows := make([]OrderSource, 0, len(bySource))
	for _, s := range bySource {
		s.RevenueShare = percent(s.Revenue, total)
		rows = append(rows, *s)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Source < rows[j].Source
	})
	return rows
}

package analytics

import (
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
)

const day = 24 * time.Hour

// OutstandingDays is the number of whole days t is past its implied due
// date at now, never negative.
func OutstandingDays(t *model.Transaction, now time.Time) int {
	late := now.Sub(t.ImpliedDueDate())
	if late <= 0 {
		return 0
	}
	return int(late / day)
}

// Unpaid returns the transactions that are not fully paid.
func Unpaid(txs []*model.Transaction) []*model.Transaction {
	matched := make([]*model.Transaction, 0)
	for _, t := range txs {
		if !t.IsPaid() {
			matched = append(matched, t)
		}
	}
	return matched
}

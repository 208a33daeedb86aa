package checks

import (
	"github.com/shopspring/decimal"

	"github.com/kwhall/auditdash/internal/dataset"
)

// Reconciliation compares the loaded records against the client's trial
// balance: total revenue recognized for the fiscal year and total
// accounts receivable still open at year end.
type Reconciliation struct {
	Year        int           `json:"year"`
	SalesCount  int           `json:"salesCount"`
	Revenue     dataset.Money `json:"revenue"`
	UnpaidCount int           `json:"unpaidCount"`
	Receivable  dataset.Money `json:"receivable"`
}

// Reconcile sums SubTotal across all fiscal-year sales (revenue) and
// TotalDue across the unpaid subset (receivable). Join misses stay in
// the counts but contribute nothing to the sums.
func Reconcile(view *SalesView) *Reconciliation {
	revenue := decimal.Zero
	receivable := decimal.Zero
	unpaid := 0

	for _, r := range view.Records {
		if r.Order != nil && r.Order.SubTotal.Valid {
			revenue = revenue.Add(r.Order.SubTotal.Decimal)
		}
		if r.Unpaid(view.Year) {
			unpaid++
			if r.Order != nil && r.Order.TotalDue.Valid {
				receivable = receivable.Add(r.Order.TotalDue.Decimal)
			}
		}
	}

	return &Reconciliation{
		Year:        view.Year,
		SalesCount:  len(view.Records),
		Revenue:     dataset.Money{Decimal: revenue, Valid: true},
		UnpaidCount: unpaid,
		Receivable:  dataset.Money{Decimal: receivable, Valid: true},
	}
}

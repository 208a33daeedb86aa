package checks

import (
	"time"

	"github.com/kwhall/auditdash/internal/dataset"
)

// SalesRecord is one fiscal-year invoice joined to its sales order.
// Order is nil when the invoice's SalesOrderID did not resolve, which
// downstream checks treat as missing support documentation.
type SalesRecord struct {
	Invoice *dataset.Invoice
	Order   *dataset.SalesOrder
}

// Unpaid reports whether the invoice counts as unpaid for the fiscal
// year: its PaidDate year differs from the analysis year. This covers
// both never-paid invoices (null PaidDate) and payments recorded in a
// different year.
func (r SalesRecord) Unpaid(year int) bool {
	return r.Invoice.PaidDate.Year() != year
}

// SalesView is the joined fiscal-year sales population every check
// consumes. Records appear in invoice load order.
type SalesView struct {
	Year    int
	Records []SalesRecord
}

// PeriodEnd returns the last day of the fiscal year.
func (v *SalesView) PeriodEnd() dataset.Date {
	return dataset.NewDate(v.Year, time.December, 31)
}

// Unpaid returns the records unpaid as of the fiscal year, in view order.
func (v *SalesView) Unpaid() []SalesRecord {
	var out []SalesRecord
	for _, r := range v.Records {
		if r.Unpaid(v.Year) {
			out = append(out, r)
		}
	}
	return out
}

// BuildSalesView filters invoices to the fiscal year and joins each to
// its sales order. Invoices with a null or out-of-year InvoiceDate are
// excluded; join misses are kept with a nil Order.
func BuildSalesView(ds *dataset.Dataset, year int) *SalesView {
	view := &SalesView{Year: year}
	for i := range ds.Invoices {
		inv := &ds.Invoices[i]
		if inv.InvoiceDate.Year() != year {
			continue
		}

		rec := SalesRecord{Invoice: inv}
		if inv.SalesOrderID != "" {
			if order, ok := ds.OrderByID(inv.SalesOrderID); ok {
				rec.Order = order
			}
		}
		view.Records = append(view.Records, rec)
	}
	return view
}

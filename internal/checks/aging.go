package checks

import (
	"github.com/kwhall/auditdash/internal/dataset"
)

// AgingRecord is one unpaid invoice older than the aging threshold.
type AgingRecord struct {
	InvoiceID    string        `json:"invoiceId"`
	SalesOrderID string        `json:"salesOrderId"`
	InvoiceDate  dataset.Date  `json:"invoiceDate"`
	TotalDue     dataset.Money `json:"totalDue"`
	AgeDays      int           `json:"ageDays"`
}

// AgingResult reports receivables outstanding past the threshold.
type AgingResult struct {
	Year      int           `json:"year"`
	PeriodEnd dataset.Date  `json:"periodEnd"`
	Threshold int           `json:"thresholdDays"`
	Checked   int           `json:"checked"`
	Count     int           `json:"count"`
	Records   []AgingRecord `json:"records"`
}

// AgingThresholdDays is the age past which an unpaid receivable is
// flagged.
const AgingThresholdDays = 90

// Aging computes each unpaid invoice's age in days as of the last day of
// the fiscal year and flags those strictly older than the threshold.
func Aging(view *SalesView) *AgingResult {
	end := view.PeriodEnd()
	unpaid := view.Unpaid()

	res := &AgingResult{
		Year:      view.Year,
		PeriodEnd: end,
		Threshold: AgingThresholdDays,
		Checked:   len(unpaid),
	}

	for _, r := range unpaid {
		age := r.Invoice.InvoiceDate.DaysUntil(end)
		if age <= AgingThresholdDays {
			continue
		}

		rec := AgingRecord{
			InvoiceID:    r.Invoice.InvoiceID,
			SalesOrderID: r.Invoice.SalesOrderID,
			InvoiceDate:  r.Invoice.InvoiceDate,
			AgeDays:      age,
		}
		if r.Order != nil {
			rec.TotalDue = r.Order.TotalDue
		}
		res.Records = append(res.Records, rec)
	}

	res.Count = len(res.Records)
	return res
}

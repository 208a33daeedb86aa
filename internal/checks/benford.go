package checks

import (
	"github.com/shopspring/decimal"

	"github.com/kwhall/auditdash/internal/benford"
)

// BenfordSource names the series fed into the digit analysis.
const BenfordSource = "sales_orders.SubTotal"

// BenfordResult is the first-digit analysis of the fiscal year's sales
// amounts.
type BenfordResult struct {
	Year   int    `json:"year"`
	Source string `json:"source"`
	benford.Result
}

// BenfordAnalysis shapes the fiscal-year SubTotal series and hands it to
// the digit-frequency test. Join misses and null amounts carry no
// digits, so they are simply absent from the series.
func BenfordAnalysis(view *SalesView) *BenfordResult {
	vals := make([]decimal.Decimal, 0, len(view.Records))
	for _, r := range view.Records {
		if r.Order != nil && r.Order.SubTotal.Valid {
			vals = append(vals, r.Order.SubTotal.Decimal)
		}
	}

	return &BenfordResult{
		Year:   view.Year,
		Source: BenfordSource,
		Result: benford.FirstDigits(vals),
	}
}

package checks

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kwhall/auditdash/internal/dataset"
)

// CreditRecord is one customer whose unpaid balance exceeds their credit
// limit. Amounts are truncated to whole currency units before the
// comparison, matching the audit's precision requirements.
type CreditRecord struct {
	CustID        string `json:"custId"`
	CustName      string `json:"custName,omitempty"`
	TotalDue      int64  `json:"totalDue"`
	CredLimit     int64  `json:"credLimit"`
	Excess        int64  `json:"excess"`
	TerritoryID   string `json:"territoryId"`
	MissingMaster bool   `json:"missingMaster,omitempty"`
}

// CreditResult reports customers over their credit limit.
type CreditResult struct {
	Year    int            `json:"year"`
	Checked int            `json:"checked"`
	Count   int            `json:"count"`
	Records []CreditRecord `json:"records"`
}

// CreditLimits sums each customer's unpaid invoices and flags accounts
// whose truncated total strictly exceeds their truncated credit limit.
// A customer carrying unpaid balances with no customer_master row at all
// is flagged too, marked MissingMaster.
func CreditLimits(ds *dataset.Dataset, view *SalesView) *CreditResult {
	totals := make(map[string]decimal.Decimal)
	for _, r := range view.Unpaid() {
		if r.Order == nil || r.Order.CustID == "" {
			continue
		}
		sum := totals[r.Order.CustID]
		if r.Order.TotalDue.Valid {
			sum = sum.Add(r.Order.TotalDue.Decimal)
		}
		totals[r.Order.CustID] = sum
	}

	res := &CreditResult{Year: view.Year, Checked: len(totals)}

	for custID, sum := range totals {
		due := sum.IntPart()

		cust, ok := ds.CustomerByID(custID)
		if !ok {
			res.Records = append(res.Records, CreditRecord{
				CustID:        custID,
				TotalDue:      due,
				MissingMaster: true,
			})
			continue
		}

		limit := cust.CredLimit.IntPart()
		if due > limit {
			res.Records = append(res.Records, CreditRecord{
				CustID:      custID,
				CustName:    cust.CustName,
				TotalDue:    due,
				CredLimit:   limit,
				Excess:      due - limit,
				TerritoryID: cust.TerritoryID,
			})
		}
	}

	sort.Slice(res.Records, func(i, j int) bool {
		return dataset.CompareID(res.Records[i].CustID, res.Records[j].CustID) < 0
	})

	res.Count = len(res.Records)
	return res
}

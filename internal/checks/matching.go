package checks

import (
	"github.com/kwhall/auditdash/internal/dataset"
)

// MatchRecord is one fiscal-year invoice traced through its sales order
// to the shipment record. Missing names the fields that could not be
// filled, either because a join failed or because the source cell was
// null.
type MatchRecord struct {
	SalesOrderID string        `json:"salesOrderId"`
	InvoiceID    string        `json:"invoiceId"`
	CustID       string        `json:"custId"`
	TerritoryID  string        `json:"territoryId"`
	SubTotal     dataset.Money `json:"subTotal"`
	ShipID       string        `json:"shipId"`
	ShipDate     dataset.Date  `json:"shipDate"`
	Missing      []string      `json:"missing"`
}

// MatchingResult reports invoices lacking complete support documentation.
type MatchingResult struct {
	Year    int           `json:"year"`
	Checked int           `json:"checked"`
	Count   int           `json:"count"`
	Records []MatchRecord `json:"records"`
}

// ThreeWayMatch traces every fiscal-year invoice to its sales order and
// shipment. Invoicing triggers revenue recognition, so invoices are the
// traversal root; any hole in the joined row means a support document is
// missing and the record is flagged.
func ThreeWayMatch(ds *dataset.Dataset, view *SalesView) *MatchingResult {
	res := &MatchingResult{Year: view.Year, Checked: len(view.Records)}

	for _, r := range view.Records {
		rec := MatchRecord{InvoiceID: r.Invoice.InvoiceID, SalesOrderID: r.Invoice.SalesOrderID}

		if r.Order != nil {
			rec.CustID = r.Order.CustID
			rec.TerritoryID = r.Order.TerritoryID
			rec.SubTotal = r.Order.SubTotal
			rec.ShipID = r.Order.ShipID

			if rec.ShipID != "" {
				if ship, ok := ds.ShipmentByID(rec.ShipID); ok {
					rec.ShipDate = ship.ShipDate
				}
			}
		}

		if rec.InvoiceID == "" {
			rec.Missing = append(rec.Missing, "InvoiceID")
		}
		if rec.CustID == "" {
			rec.Missing = append(rec.Missing, "CustID")
		}
		if rec.TerritoryID == "" {
			rec.Missing = append(rec.Missing, "TerritoryID")
		}
		if !rec.SubTotal.Valid {
			rec.Missing = append(rec.Missing, "SubTotal")
		}
		if rec.ShipID == "" {
			rec.Missing = append(rec.Missing, "ShipID")
		}
		if !rec.ShipDate.Valid {
			rec.Missing = append(rec.Missing, "ShipDate")
		}

		if len(rec.Missing) > 0 {
			res.Records = append(res.Records, rec)
		}
	}

	res.Count = len(res.Records)
	return res
}

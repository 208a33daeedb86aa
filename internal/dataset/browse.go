package dataset

import (
	"strconv"
	"strings"
)

// browseColumns lists the display columns for each table, matching the
// typed row shape rather than the raw CSV header (ModifiedDate and
// ModifiedTime collapse into a single Modified column).
var browseColumns = map[string][]string{
	TableInvoices:    {"InvoiceID", "SalesOrderID", "InvoiceDate", "PaidDate", "Modified"},
	TableSalesOrders: {"SalesOrderID", "CustID", "TerritoryID", "ShipID", "OrderDate", "SubTotal", "TaxAmt", "Freight", "TotalDue", "Modified"},
	TableShipments:   {"ShipID", "ShipDate", "ShipMethod", "Modified"},
	TableCustomers:   {"CustID", "CustName", "CredLimit", "TerritoryID", "Modified"},
	TableTerritories: {"TerritoryID", "TerritoryName", "SalesGoalQTR", "Modified"},
}

// TableColumns returns the display columns for a table key.
func TableColumns(key string) ([]string, bool) {
	cols, ok := browseColumns[key]
	return cols, ok
}

// TableRows renders every row of a table as display strings, in load
// order. Null values render as empty strings. The second return is false
// for unknown table keys.
func (ds *Dataset) TableRows(key string) ([][]string, bool) {
	switch key {
	case TableInvoices:
		rows := make([][]string, 0, len(ds.Invoices))
		for _, inv := range ds.Invoices {
			rows = append(rows, []string{
				inv.InvoiceID,
				inv.SalesOrderID,
				formatDate(inv.InvoiceDate),
				formatDate(inv.PaidDate),
				formatDateTime(inv.Modified),
			})
		}
		return rows, true
	case TableSalesOrders:
		rows := make([][]string, 0, len(ds.SalesOrders))
		for _, so := range ds.SalesOrders {
			rows = append(rows, []string{
				so.SalesOrderID,
				so.CustID,
				so.TerritoryID,
				so.ShipID,
				formatDate(so.OrderDate),
				formatMoney(so.SubTotal),
				formatMoney(so.TaxAmt),
				formatMoney(so.Freight),
				formatMoney(so.TotalDue),
				formatDateTime(so.Modified),
			})
		}
		return rows, true
	case TableShipments:
		rows := make([][]string, 0, len(ds.Shipments))
		for _, sh := range ds.Shipments {
			rows = append(rows, []string{
				sh.ShipID,
				formatDate(sh.ShipDate),
				sh.ShipMethod,
				formatDateTime(sh.Modified),
			})
		}
		return rows, true
	case TableCustomers:
		rows := make([][]string, 0, len(ds.Customers))
		for _, c := range ds.Customers {
			rows = append(rows, []string{
				c.CustID,
				c.CustName,
				formatMoney(c.CredLimit),
				c.TerritoryID,
				formatDateTime(c.Modified),
			})
		}
		return rows, true
	case TableTerritories:
		rows := make([][]string, 0, len(ds.Territories))
		for _, t := range ds.Territories {
			rows = append(rows, []string{
				t.TerritoryID,
				t.TerritoryName,
				formatMoney(t.SalesGoalQTR),
				formatDateTime(t.Modified),
			})
		}
		return rows, true
	}
	return nil, false
}

func formatDate(d Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

func formatDateTime(dt DateTime) string {
	if !dt.Valid {
		return ""
	}
	return dt.Time.Format("2006-01-02 15:04:05")
}

func formatMoney(m Money) string {
	if !m.Valid {
		return ""
	}
	return m.Decimal.String()
}

// CompareID orders identifier strings numerically when both sides parse
// as integers, lexically otherwise. Source IDs are digit strings, so this
// gives 2 < 10 instead of "10" < "2".
func CompareID(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

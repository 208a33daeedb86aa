package tables

import (
	"github.com/kwhall/auditdash/internal/dataset"
)

func init() {
	registerCustomerInvoices()
	registerSalesOrders()
	registerShipments()
}

func registerCustomerInvoices() {
	dataset.Register(dataset.TableSpec{
		Info: dataset.TableInfo{
			Key:       dataset.TableInvoices,
			Label:     "Customer Invoices",
			FileName:  "customer_invoices.csv",
			KeyColumn: "InvoiceID",
		},
		Fields: []dataset.FieldSpec{
			{Name: "InvoiceID", Type: dataset.FieldText, Required: true},
			{Name: "InvoiceDate", Type: dataset.FieldDate, AllowEmpty: true},
			// A PaidDate that fails to parse means the invoice is not yet
			// paid, so parse failures coerce to null without an issue.
			{Name: "PaidDate", Type: dataset.FieldDate, AllowEmpty: true, Coerce: true},
			{Name: "SalesOrderID", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "ModifiedDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ModifiedTime", Type: dataset.FieldTime, AllowEmpty: true},
		},
		Append: func(ds *dataset.Dataset, row *dataset.RowReader) {
			ds.Invoices = append(ds.Invoices, dataset.Invoice{
				InvoiceID:    row.Text("InvoiceID"),
				SalesOrderID: row.Text("SalesOrderID"),
				InvoiceDate:  row.Date("InvoiceDate"),
				PaidDate:     row.Date("PaidDate"),
				Modified:     row.Modified(),
			})
		},
	})
}

func registerSalesOrders() {
	dataset.Register(dataset.TableSpec{
		Info: dataset.TableInfo{
			Key:       dataset.TableSalesOrders,
			Label:     "Sales Orders",
			FileName:  "sales_orders.csv",
			KeyColumn: "SalesOrderID",
		},
		Fields: []dataset.FieldSpec{
			{Name: "SalesOrderID", Type: dataset.FieldText, Required: true},
			{Name: "CustID", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "TerritoryID", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "ShipID", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "OrderDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "SubTotal", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "TaxAmt", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "Freight", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "TotalDue", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "ModifiedDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ModifiedTime", Type: dataset.FieldTime, AllowEmpty: true},
		},
		Append: func(ds *dataset.Dataset, row *dataset.RowReader) {
			ds.SalesOrders = append(ds.SalesOrders, dataset.SalesOrder{
				SalesOrderID: row.Text("SalesOrderID"),
				CustID:       row.Text("CustID"),
				TerritoryID:  row.Text("TerritoryID"),
				ShipID:       row.Text("ShipID"),
				OrderDate:    row.Date("OrderDate"),
				SubTotal:     row.Money("SubTotal"),
				TaxAmt:       row.Money("TaxAmt"),
				Freight:      row.Money("Freight"),
				TotalDue:     row.Money("TotalDue"),
				Modified:     row.Modified(),
			})
		},
	})
}

func registerShipments() {
	dataset.Register(dataset.TableSpec{
		Info: dataset.TableInfo{
			Key:       dataset.TableShipments,
			Label:     "Shipments",
			FileName:  "shipments.csv",
			KeyColumn: "ShipID",
		},
		Fields: []dataset.FieldSpec{
			{Name: "ShipID", Type: dataset.FieldText, Required: true},
			{Name: "ShipDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ShipMethod", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "ModifiedDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ModifiedTime", Type: dataset.FieldTime, AllowEmpty: true},
		},
		Append: func(ds *dataset.Dataset, row *dataset.RowReader) {
			ds.Shipments = append(ds.Shipments, dataset.Shipment{
				ShipID:     row.Text("ShipID"),
				ShipDate:   row.Date("ShipDate"),
				ShipMethod: row.Text("ShipMethod"),
				Modified:   row.Modified(),
			})
		},
	})
}

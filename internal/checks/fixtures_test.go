package checks

import (
	"time"

	"github.com/kwhall/auditdash/internal/dataset"
)

// fixtureDataset builds the in-memory snapshot shared by the check tests.
//
// Fiscal 2017 contains eight invoiced sales with deliberate holes:
//
//	invoice 100  paid in 2017, fully documented
//	invoice 101  never paid, 286 days old at year end
//	invoice 102  never paid, pushes customer 10 over its 5000 limit
//	invoice 103  never paid, 87 days old (under the aging threshold);
//	             customer 12 lands exactly on its limit after truncation
//	invoice 104  never paid, customer 99 has no customer_master row
//	invoice 105  paid in January 2018, so still unpaid for 2017; its
//	             order has no shipment reference
//	invoice 106  never paid, null SubTotal, shipment has no ship date
//	invoice 107  references sales order 999 which does not exist
//	invoice 108  dated 2016, outside the fiscal year
//	invoice 109  unparseable invoice date, excluded by the year filter
//
// Territory 9 (Pacific) has no sales at all.
func fixtureDataset() *dataset.Dataset {
	d := func(y int, m time.Month, day int) dataset.Date { return dataset.NewDate(y, m, day) }

	invoices := []dataset.Invoice{
		{InvoiceID: "100", SalesOrderID: "900", InvoiceDate: d(2017, time.January, 15), PaidDate: d(2017, time.February, 1)},
		{InvoiceID: "101", SalesOrderID: "901", InvoiceDate: d(2017, time.March, 20)},
		{InvoiceID: "102", SalesOrderID: "902", InvoiceDate: d(2017, time.June, 10)},
		{InvoiceID: "103", SalesOrderID: "903", InvoiceDate: d(2017, time.October, 5)},
		{InvoiceID: "104", SalesOrderID: "904", InvoiceDate: d(2017, time.April, 15)},
		{InvoiceID: "105", SalesOrderID: "905", InvoiceDate: d(2017, time.February, 20), PaidDate: d(2018, time.January, 15)},
		{InvoiceID: "106", SalesOrderID: "906", InvoiceDate: d(2017, time.July, 20)},
		{InvoiceID: "107", SalesOrderID: "999", InvoiceDate: d(2017, time.August, 1)},
		{InvoiceID: "108", SalesOrderID: "900", InvoiceDate: d(2016, time.December, 28)},
		{InvoiceID: "109", SalesOrderID: "901"},
	}

	orders := []dataset.SalesOrder{
		{SalesOrderID: "900", CustID: "10", TerritoryID: "5", ShipID: "800", OrderDate: d(2017, time.January, 10),
			SubTotal: dataset.MoneyFromString("1500"), TotalDue: dataset.MoneyFromString("1650")},
		{SalesOrderID: "901", CustID: "11", TerritoryID: "2", ShipID: "801", OrderDate: d(2017, time.March, 15),
			SubTotal: dataset.MoneyFromString("250.75"), TotalDue: dataset.MoneyFromString("280.81")},
		{SalesOrderID: "902", CustID: "10", TerritoryID: "5", ShipID: "802", OrderDate: d(2017, time.June, 5),
			SubTotal: dataset.MoneyFromString("9800"), TotalDue: dataset.MoneyFromString("10634")},
		{SalesOrderID: "903", CustID: "12", TerritoryID: "5", ShipID: "803", OrderDate: d(2017, time.September, 30),
			SubTotal: dataset.MoneyFromString("1850"), TotalDue: dataset.MoneyFromString("2000.99")},
		{SalesOrderID: "904", CustID: "99", TerritoryID: "5", ShipID: "804", OrderDate: d(2017, time.April, 10),
			SubTotal: dataset.MoneyFromString("720"), TotalDue: dataset.MoneyFromString("800")},
		{SalesOrderID: "905", CustID: "11", TerritoryID: "2", ShipID: "", OrderDate: d(2017, time.February, 15),
			SubTotal: dataset.MoneyFromString("3300"), TotalDue: dataset.MoneyFromString("3400")},
		{SalesOrderID: "906", CustID: "10", TerritoryID: "5", ShipID: "806", OrderDate: d(2017, time.July, 15),
			SubTotal: dataset.Money{}, TotalDue: dataset.MoneyFromString("500")},
	}

	shipments := []dataset.Shipment{
		{ShipID: "800", ShipDate: d(2017, time.January, 12), ShipMethod: "GROUND"},
		{ShipID: "801", ShipDate: d(2017, time.March, 17), ShipMethod: "AIR"},
		{ShipID: "802", ShipDate: d(2017, time.June, 7), ShipMethod: "GROUND"},
		{ShipID: "803", ShipDate: d(2017, time.October, 2), ShipMethod: "AIR"},
		{ShipID: "804", ShipDate: d(2017, time.April, 12), ShipMethod: "GROUND"},
		{ShipID: "806", ShipDate: dataset.Date{}, ShipMethod: "GROUND"},
	}

	customers := []dataset.Customer{
		{CustID: "10", CustName: "Mercy General Hospital", CredLimit: dataset.MoneyFromString("5000"), TerritoryID: "5"},
		{CustID: "11", CustName: "Lakeside Clinic", CredLimit: dataset.MoneyFromString("100000"), TerritoryID: "2"},
		{CustID: "12", CustName: "Valley Surgical", CredLimit: dataset.MoneyFromString("2000"), TerritoryID: "5"},
	}

	territories := []dataset.Territory{
		{TerritoryID: "5", TerritoryName: "Southwest", SalesGoalQTR: dataset.MoneyFromString("300000")},
		{TerritoryID: "2", TerritoryName: "Northeast", SalesGoalQTR: dataset.MoneyFromString("250000")},
		{TerritoryID: "9", TerritoryName: "Pacific", SalesGoalQTR: dataset.MoneyFromString("100000")},
	}

	return dataset.NewDataset(invoices, orders, shipments, customers, territories)
}

func fixtureView() (*dataset.Dataset, *SalesView) {
	ds := fixtureDataset()
	return ds, BuildSalesView(ds, 2017)
}

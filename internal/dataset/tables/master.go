package tables

import (
	"github.com/kwhall/auditdash/internal/dataset"
)

func init() {
	registerCustomerMaster()
	registerSalesTerritory()
}

func registerCustomerMaster() {
	dataset.Register(dataset.TableSpec{
		Info: dataset.TableInfo{
			Key:       dataset.TableCustomers,
			Label:     "Customer Master",
			FileName:  "customer_master.csv",
			KeyColumn: "CustID",
		},
		Fields: []dataset.FieldSpec{
			{Name: "CustID", Type: dataset.FieldText, Required: true},
			{Name: "CustName", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "CredLimit", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "TerritoryID", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "ModifiedDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ModifiedTime", Type: dataset.FieldTime, AllowEmpty: true},
		},
		Append: func(ds *dataset.Dataset, row *dataset.RowReader) {
			ds.Customers = append(ds.Customers, dataset.Customer{
				CustID:      row.Text("CustID"),
				CustName:    row.Text("CustName"),
				CredLimit:   row.Money("CredLimit"),
				TerritoryID: row.Text("TerritoryID"),
				Modified:    row.Modified(),
			})
		},
	})
}

func registerSalesTerritory() {
	dataset.Register(dataset.TableSpec{
		Info: dataset.TableInfo{
			Key:       dataset.TableTerritories,
			Label:     "Sales Territory",
			FileName:  "sales_territory.csv",
			KeyColumn: "TerritoryID",
		},
		Fields: []dataset.FieldSpec{
			{Name: "TerritoryID", Type: dataset.FieldText, Required: true},
			{Name: "TerritoryName", Type: dataset.FieldText, AllowEmpty: true},
			{Name: "SalesGoalQTR", Type: dataset.FieldNumeric, AllowEmpty: true},
			{Name: "ModifiedDate", Type: dataset.FieldDate, AllowEmpty: true},
			{Name: "ModifiedTime", Type: dataset.FieldTime, AllowEmpty: true},
		},
		Append: func(ds *dataset.Dataset, row *dataset.RowReader) {
			ds.Territories = append(ds.Territories, dataset.Territory{
				TerritoryID:   row.Text("TerritoryID"),
				TerritoryName: row.Text("TerritoryName"),
				SalesGoalQTR:  row.Money("SalesGoalQTR"),
				Modified:      row.Modified(),
			})
		},
	})
}

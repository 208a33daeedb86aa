package dataset

import "time"

// Invoice is one row of customer_invoices. InvoiceID is the key;
// SalesOrderID references sales_orders. A null PaidDate means the invoice
// has not been paid.
type Invoice struct {
	InvoiceID    string   `json:"invoiceId"`
	SalesOrderID string   `json:"salesOrderId"`
	InvoiceDate  Date     `json:"invoiceDate"`
	PaidDate     Date     `json:"paidDate"`
	Modified     DateTime `json:"modified"`
}

// SalesOrder is one row of sales_orders. SalesOrderID is the key; CustID,
// TerritoryID and ShipID reference the master tables.
type SalesOrder struct {
	SalesOrderID string   `json:"salesOrderId"`
	CustID       string   `json:"custId"`
	TerritoryID  string   `json:"territoryId"`
	ShipID       string   `json:"shipId"`
	OrderDate    Date     `json:"orderDate"`
	SubTotal     Money    `json:"subTotal"`
	TaxAmt       Money    `json:"taxAmt"`
	Freight      Money    `json:"freight"`
	TotalDue     Money    `json:"totalDue"`
	Modified     DateTime `json:"modified"`
}

// Shipment is one row of shipments, keyed by ShipID.
type Shipment struct {
	ShipID     string   `json:"shipId"`
	ShipDate   Date     `json:"shipDate"`
	ShipMethod string   `json:"shipMethod"`
	Modified   DateTime `json:"modified"`
}

// Customer is one row of customer_master, keyed by CustID.
type Customer struct {
	CustID      string   `json:"custId"`
	CustName    string   `json:"custName"`
	CredLimit   Money    `json:"credLimit"`
	TerritoryID string   `json:"territoryId"`
	Modified    DateTime `json:"modified"`
}

// Territory is one row of sales_territory, keyed by TerritoryID.
// SalesGoalQTR is the fixed quarterly sales goal for the territory.
type Territory struct {
	TerritoryID   string   `json:"territoryId"`
	TerritoryName string   `json:"territoryName"`
	SalesGoalQTR  Money    `json:"salesGoalQtr"`
	Modified      DateTime `json:"modified"`
}

// Dataset is one immutable snapshot of all five source tables plus lookup
// indexes and load metadata. After Load returns, nothing mutates it; it is
// safe to share across goroutines without locking.
type Dataset struct {
	Invoices    []Invoice
	SalesOrders []SalesOrder
	Shipments   []Shipment
	Customers   []Customer
	Territories []Territory

	ordersByID      map[string]*SalesOrder
	shipmentsByID   map[string]*Shipment
	customersByID   map[string]*Customer
	territoriesByID map[string]*Territory

	// Fingerprint identifies the exact source bytes this snapshot was
	// built from. Identical files always produce an identical fingerprint.
	Fingerprint string

	LoadedAt time.Time
	Report   *LoadReport
}

// NewDataset assembles an in-memory snapshot from typed rows and builds
// its indexes. Load is the production path; this exists for tools and
// tests that already hold typed data.
func NewDataset(invoices []Invoice, orders []SalesOrder, shipments []Shipment, customers []Customer, territories []Territory) *Dataset {
	ds := &Dataset{
		Invoices:    invoices,
		SalesOrders: orders,
		Shipments:   shipments,
		Customers:   customers,
		Territories: territories,
		LoadedAt:    time.Now(),
	}
	ds.buildIndexes()
	return ds
}

// OrderByID resolves a sales order by key. An empty id never resolves.
func (ds *Dataset) OrderByID(id string) (*SalesOrder, bool) {
	o, ok := ds.ordersByID[id]
	return o, ok
}

// ShipmentByID resolves a shipment by key. An empty id never resolves.
func (ds *Dataset) ShipmentByID(id string) (*Shipment, bool) {
	s, ok := ds.shipmentsByID[id]
	return s, ok
}

// CustomerByID resolves a customer by key. An empty id never resolves.
func (ds *Dataset) CustomerByID(id string) (*Customer, bool) {
	c, ok := ds.customersByID[id]
	return c, ok
}

// TerritoryByID resolves a territory by key. An empty id never resolves.
func (ds *Dataset) TerritoryByID(id string) (*Territory, bool) {
	t, ok := ds.territoriesByID[id]
	return t, ok
}

// RowCount returns the number of loaded rows for a table key,
// or -1 for an unknown key.
func (ds *Dataset) RowCount(key string) int {
	switch key {
	case TableInvoices:
		return len(ds.Invoices)
	case TableSalesOrders:
		return len(ds.SalesOrders)
	case TableShipments:
		return len(ds.Shipments)
	case TableCustomers:
		return len(ds.Customers)
	case TableTerritories:
		return len(ds.Territories)
	}
	return -1
}

// buildIndexes seals the dataset by building the key lookup maps.
// Rows with an empty key are loaded but never indexed, so a reference to
// them is a join miss.
func (ds *Dataset) buildIndexes() {
	ds.ordersByID = make(map[string]*SalesOrder, len(ds.SalesOrders))
	for i := range ds.SalesOrders {
		if id := ds.SalesOrders[i].SalesOrderID; id != "" {
			ds.ordersByID[id] = &ds.SalesOrders[i]
		}
	}

	ds.shipmentsByID = make(map[string]*Shipment, len(ds.Shipments))
	for i := range ds.Shipments {
		if id := ds.Shipments[i].ShipID; id != "" {
			ds.shipmentsByID[id] = &ds.Shipments[i]
		}
	}

	ds.customersByID = make(map[string]*Customer, len(ds.Customers))
	for i := range ds.Customers {
		if id := ds.Customers[i].CustID; id != "" {
			ds.customersByID[id] = &ds.Customers[i]
		}
	}

	ds.territoriesByID = make(map[string]*Territory, len(ds.Territories))
	for i := range ds.Territories {
		if id := ds.Territories[i].TerritoryID; id != "" {
			ds.territoriesByID[id] = &ds.Territories[i]
		}
	}
}

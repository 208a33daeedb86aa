package dataset

import (
	"fmt"
	"strings"
)

// CaseTitle is the audited company, shown on the dashboard and the
// console report.
const CaseTitle = "Urgent Medical Device, Inc."

// Table keys, exactly the source file names minus extension.
const (
	TableInvoices    = "customer_invoices"
	TableSalesOrders = "sales_orders"
	TableShipments   = "shipments"
	TableCustomers   = "customer_master"
	TableTerritories = "sales_territory"
)

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldTime
	FieldNumeric
)

// FieldSpec defines parsing rules for a single CSV column. All declared
// columns must be present in the file header; the flags below govern
// cell-level handling only.
type FieldSpec struct {
	Name       string    // Column header name (must match CSV, case-insensitive)
	Type       FieldType // Expected data type
	Required   bool      // Empty cells are recorded as load issues
	AllowEmpty bool      // Suppresses the empty-cell issue for a required column
	Coerce     bool      // Parse failures silently become null (no issue)
}

// TableInfo contains identifying information about a table.
type TableInfo struct {
	Key       string   // Table key: "customer_invoices"
	Label     string   // Display name: "Customer Invoices"
	FileName  string   // Source file name: "customer_invoices.csv"
	Columns   []string // Header column names
	KeyColumn string   // Primary key column
}

// HeaderIndex maps column names (lowercase) to their position in a CSV row.
type HeaderIndex map[string]int

// AppendFunc parses one CSV data row into the dataset under construction.
// Parse problems are reported through the row's issue recorder; the row is
// appended regardless, with null markers for whatever failed.
type AppendFunc func(ds *Dataset, row *RowReader)

// TableSpec contains everything needed to load one table.
type TableSpec struct {
	Info   TableInfo
	Fields []FieldSpec
	Append AppendFunc

	fieldsByName map[string]FieldSpec
}

// Field returns the spec for a column name, case-insensitive.
func (t *TableSpec) Field(name string) (FieldSpec, bool) {
	f, ok := t.fieldsByName[strings.ToLower(name)]
	return f, ok
}

// issueFunc records a row-level load issue.
type issueFunc func(line int, column, message string)

// RowReader gives an AppendFunc typed, null-aware access to one CSV row.
// Getters consult the table's field specs to decide whether an empty or
// unparseable cell is an issue worth recording.
type RowReader struct {
	spec   *TableSpec
	cells  []string
	header HeaderIndex
	line   int
	issue  issueFunc
}

// Text returns the cleaned cell for a column. The empty string is the
// null marker for identifiers and names.
func (r *RowReader) Text(col string) string {
	raw, ok := r.cell(col)
	if !ok {
		return ""
	}
	if raw == "" {
		r.reportEmpty(col)
	}
	return raw
}

// Date parses the cell for a column as a calendar date.
func (r *RowReader) Date(col string) Date {
	raw, ok := r.cell(col)
	if !ok || raw == "" {
		if ok {
			r.reportEmpty(col)
		}
		return Date{}
	}

	d := ToDate(raw)
	if !d.Valid && !r.coerces(col) {
		r.issue(r.line, col, fmt.Sprintf("invalid date %q", raw))
	}
	return d
}

// Money parses the cell for a column as a monetary amount.
func (r *RowReader) Money(col string) Money {
	raw, ok := r.cell(col)
	if !ok || raw == "" {
		if ok {
			r.reportEmpty(col)
		}
		return Money{}
	}

	m := ToMoney(raw)
	if !m.Valid && !r.coerces(col) {
		r.issue(r.line, col, fmt.Sprintf("invalid amount %q", raw))
	}
	return m
}

// Modified combines the ModifiedDate and ModifiedTime column pair into a
// single timestamp. An unparseable time degrades to the date at midnight;
// an unparseable date yields null.
func (r *RowReader) Modified() DateTime {
	dateRaw, _ := r.cell("ModifiedDate")
	timeRaw, _ := r.cell("ModifiedTime")

	if dateRaw == "" {
		return DateTime{}
	}

	d := ToDate(dateRaw)
	if !d.Valid {
		r.issue(r.line, "ModifiedDate", fmt.Sprintf("invalid date %q", dateRaw))
		return DateTime{}
	}

	ts := d.Time
	if timeRaw != "" {
		clock, ok := ToClock(timeRaw)
		if ok {
			ts = ts.Add(clock)
		} else {
			r.issue(r.line, "ModifiedTime", fmt.Sprintf("invalid time %q", timeRaw))
		}
	}

	return DateTime{Time: ts, Valid: true}
}

// cell returns the cleaned raw cell for a column, or ok=false when the
// column position is absent from this row.
func (r *RowReader) cell(col string) (string, bool) {
	pos, ok := r.header[strings.ToLower(col)]
	if !ok || pos >= len(r.cells) {
		return "", false
	}
	return CleanCell(r.cells[pos]), true
}

func (r *RowReader) reportEmpty(col string) {
	if f, ok := r.spec.Field(col); ok && f.Required && !f.AllowEmpty {
		r.issue(r.line, col, "empty required field")
	}
}

func (r *RowReader) coerces(col string) bool {
	f, ok := r.spec.Field(col)
	return ok && f.Coerce
}

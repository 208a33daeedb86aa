// Package dataset loads the case-study source tables into an immutable
// in-memory snapshot.
//
// # Overview
//
// Five CSV files make up one snapshot: customer_invoices, sales_orders,
// shipments, customer_master and sales_territory. Each file has a table
// spec registered in the tables subpackage describing its columns, field
// types and null policy. Load reads every file through a streaming reader
// stack (BOM skipping, UTF-8 sanitization, byte counting), locates the
// header row, parses each data row into typed records, and seals the
// result into a Dataset with lookup indexes and an xxhash fingerprint.
//
// # Null handling
//
// Nullable values use Valid-struct types (Date, DateTime, Money) rather
// than pointers. A field that is empty or fails to parse becomes a null
// marker and is recorded as a LoadIssue; the row itself is always kept so
// the audit checks can surface it as a finding. The one exception is the
// invoice PaidDate column, where an unparseable value is the encoding for
// "not yet paid" and produces no issue at all.
//
// # Failure model
//
// A missing or malformed source file fails the whole load: no partial
// dataset is ever returned. Row-level problems never fail a load.
//
// # Adding a table
//
// Register a TableSpec from an init function (see the tables subpackage).
// Registration panics on duplicate keys; the registration order fixes the
// load order and the fingerprint composition.
package dataset

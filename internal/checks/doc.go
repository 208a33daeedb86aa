// Package checks implements the substantive audit procedures run against
// a loaded dataset.
//
// Every check is a pure function over an immutable dataset.Dataset
// snapshot: no check mutates the dataset, no check depends on another
// check's output, and all checks for the same snapshot and fiscal year
// can run concurrently. BuildReport runs the full battery and bundles
// the findings into a single Report.
//
// The checks share one derived structure, the SalesView: fiscal-year
// invoices joined to their sales orders. A failed join is represented,
// not dropped, because missing support documents are exactly what the
// three-way matching check reports on.
package checks

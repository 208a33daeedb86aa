// This file contains handlers for raw-data browsing and CSV export.
package web

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kwhall/auditdash/internal/checks"
	"github.com/kwhall/auditdash/internal/dataset"
)

// handleListTables returns the load inventory of every table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	rep, err := s.mgr.LoadReport()
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, r, map[string]any{"tables": rep.Tables}, http.StatusOK)
}

// browseResponse is one page of a table rendered as display strings.
type browseResponse struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalRows  int        `json:"totalRows"`
	TotalPages int        `json:"totalPages"`
}

// handleBrowseTable serves one page of raw table data with optional
// substring search and single-column sort.
func (s *Server) handleBrowseTable(w http.ResponseWriter, r *http.Request) {
	ds, err := s.mgr.Current()
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	key := chi.URLParam(r, "tableKey")
	rows, ok := ds.TableRows(key)
	if !ok {
		respondError(w, r, fmt.Errorf("table not found: %s", key), http.StatusNotFound)
		return
	}
	columns, _ := dataset.TableColumns(key)

	label := key
	if spec, ok := dataset.Get(key); ok {
		label = spec.Info.Label
	}

	if term := r.URL.Query().Get("search"); term != "" {
		rows = filterRows(rows, term)
	}

	if sortCol := r.URL.Query().Get("sort"); sortCol != "" {
		idx, ok := columnIndex(columns, sortCol)
		if !ok {
			respondError(w, r, fmt.Errorf("invalid sort column %q", sortCol), http.StatusBadRequest)
			return
		}
		sortRows(rows, idx, r.URL.Query().Get("dir") == "desc")
	}

	pageSize, err := parsePageParam(r, "pageSize", DefaultPageSize)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	totalRows := len(rows)
	totalPages := (totalRows + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page, err := parsePageParam(r, "page", 1)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalRows {
		end = totalRows
	}

	respondJSON(w, r, browseResponse{
		Key:        key,
		Label:      label,
		Columns:    columns,
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  totalRows,
		TotalPages: totalPages,
	}, http.StatusOK)
}

// handleExportCheck downloads one check's records as CSV.
func (s *Server) handleExportCheck(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rep, err := s.mgr.Report(year)
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	name := chi.URLParam(r, "check")
	if _, err := checkSection(rep, name); err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%d.csv", name, rep.Year))

	cw := csv.NewWriter(w)
	switch name {
	case "reconciliation":
		writeReconciliationCSV(cw, rep.Reconciliation)
	case "three-way-matching":
		writeMatchingCSV(cw, rep.Matching)
	case "credit-limit":
		writeCreditCSV(cw, rep.Credit)
	case "receivables-aging":
		writeAgingCSV(cw, rep.Aging)
	case "benford":
		writeBenfordCSV(cw, rep.Benford)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Error("csv export failed", "check", name, "error", err)
		return
	}

	s.mgr.RecordExport(fmt.Sprintf("%s for fiscal year %d", name, rep.Year))
}

func writeReconciliationCSV(cw *csv.Writer, rec *checks.Reconciliation) {
	cw.Write([]string{"Measure", "Value"})
	cw.Write([]string{"Fiscal Year", strconv.Itoa(rec.Year)})
	cw.Write([]string{"Sales Count", strconv.Itoa(rec.SalesCount)})
	cw.Write([]string{"Total Revenue", moneyCell(rec.Revenue)})
	cw.Write([]string{"Unpaid Count", strconv.Itoa(rec.UnpaidCount)})
	cw.Write([]string{"Total Receivable", moneyCell(rec.Receivable)})
}

func writeMatchingCSV(cw *csv.Writer, res *checks.MatchingResult) {
	cw.Write([]string{"InvoiceID", "SalesOrderID", "CustID", "TerritoryID", "SubTotal", "ShipID", "ShipDate", "Missing"})
	for _, rec := range res.Records {
		cw.Write([]string{
			rec.InvoiceID,
			rec.SalesOrderID,
			rec.CustID,
			rec.TerritoryID,
			moneyCell(rec.SubTotal),
			rec.ShipID,
			dateCell(rec.ShipDate),
			strings.Join(rec.Missing, ", "),
		})
	}
}

func writeCreditCSV(cw *csv.Writer, res *checks.CreditResult) {
	cw.Write([]string{"CustID", "CustName", "TotalDue", "CredLimit", "Excess", "TerritoryID", "MissingMaster"})
	for _, rec := range res.Records {
		cw.Write([]string{
			rec.CustID,
			rec.CustName,
			strconv.FormatInt(rec.TotalDue, 10),
			strconv.FormatInt(rec.CredLimit, 10),
			strconv.FormatInt(rec.Excess, 10),
			rec.TerritoryID,
			yesNo(rec.MissingMaster),
		})
	}
}

func writeAgingCSV(cw *csv.Writer, res *checks.AgingResult) {
	cw.Write([]string{"InvoiceID", "SalesOrderID", "InvoiceDate", "TotalDue", "AgeDays"})
	for _, rec := range res.Records {
		cw.Write([]string{
			rec.InvoiceID,
			rec.SalesOrderID,
			dateCell(rec.InvoiceDate),
			moneyCell(rec.TotalDue),
			strconv.Itoa(rec.AgeDays),
		})
	}
}

func writeBenfordCSV(cw *csv.Writer, res *checks.BenfordResult) {
	cw.Write([]string{"Digit", "Count", "FoundPct", "ExpectedPct"})
	for _, d := range res.Digits {
		cw.Write([]string{
			strconv.Itoa(d.Digit),
			strconv.Itoa(d.Count),
			strconv.FormatFloat(d.Found, 'f', 2, 64),
			strconv.FormatFloat(d.Expected, 'f', 2, 64),
		})
	}
}

// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/kwhall/auditdash/internal/checks"
	"github.com/kwhall/auditdash/internal/dataset"
)

// DefaultPageSize is the browse page size when none is requested.
const DefaultPageSize = 50

// MaxPageSize caps how many rows a single browse page may return.
const MaxPageSize = 500

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parsePageParam parses a pagination query parameter. Absent means the
// default; anything present must be a positive integer.
func parsePageParam(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return 0, fmt.Errorf("invalid page parameter %s=%q", name, val)
	}
	return i, nil
}

// parseYearParam parses the optional fiscal year parameter. Zero means
// "use the configured default"; anything present must be a four-digit
// year.
func parseYearParam(r *http.Request) (int, error) {
	val := r.URL.Query().Get("year")
	if val == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(val)
	if err != nil || y < 1000 || y > 9999 {
		return 0, fmt.Errorf("invalid fiscal year %q", val)
	}
	return y, nil
}

// parseVariant resolves the quarterly aggregation shape from the query.
// goals=true wins over by=; the bare endpoint is company-wide totals.
func parseVariant(r *http.Request) (checks.VizVariant, error) {
	if goals := r.URL.Query().Get("goals"); goals == "true" || goals == "1" {
		return checks.VizGoals, nil
	}
	switch by := r.URL.Query().Get("by"); by {
	case "", "totals":
		return checks.VizTotals, nil
	case "territory":
		return checks.VizByTerritory, nil
	default:
		return "", fmt.Errorf("unknown visualization variant %q", by)
	}
}

// compareCells orders two display strings numerically when both parse as
// numbers, lexically otherwise. Dates are ISO formatted so lexical order
// is already chronological.
func compareCells(a, b string) int {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// sortRows orders rows by one column. Empty cells sort last regardless of
// direction so nulls never bury real values.
func sortRows(rows [][]string, col int, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][col], rows[j][col]
		if (a == "") != (b == "") {
			return b == ""
		}
		c := compareCells(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// filterRows keeps rows where any cell contains the search term,
// case-insensitive.
func filterRows(rows [][]string, term string) [][]string {
	term = strings.ToLower(term)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// columnIndex resolves a sort column name to its position,
// case-insensitive.
func columnIndex(columns []string, name string) (int, bool) {
	for i, col := range columns {
		if strings.EqualFold(col, name) {
			return i, true
		}
	}
	return 0, false
}

// moneyCell formats a nullable amount for CSV export.
func moneyCell(m dataset.Money) string {
	if !m.Valid {
		return ""
	}
	return m.Decimal.String()
}

// dateCell formats a nullable date for CSV export.
func dateCell(d dataset.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// yesNo formats a flag for CSV export.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

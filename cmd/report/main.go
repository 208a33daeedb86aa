// Command report prints a one-shot console rendering of the full audit
// battery: load the sources, run every check for the configured fiscal
// year, write the results to stdout and exit. Configuration comes from
// the environment exactly as it does for the server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/kwhall/auditdash/internal/checks"
	"github.com/kwhall/auditdash/internal/config"
	"github.com/kwhall/auditdash/internal/dataset"
	_ "github.com/kwhall/auditdash/internal/dataset/tables" // Register all tables
	"github.com/kwhall/auditdash/internal/logging"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ds, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		slog.Error("failed to load source data", "error", err, "dir", cfg.Data.Dir)
		fmt.Fprintln(os.Stderr, checks.FormatUserError(err))
		os.Exit(1)
	}

	rep, err := checks.BuildReport(ds, cfg.Data.FiscalYear)
	if err != nil {
		slog.Error("failed to build report", "error", err)
		os.Exit(1)
	}

	printReport(os.Stdout, ds, rep)
}

func printReport(w io.Writer, ds *dataset.Dataset, rep *checks.Report) {
	title := fmt.Sprintf("%s / audit summary, fiscal %d", dataset.CaseTitle, rep.Year)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	rows := 0
	for _, t := range ds.Report.Tables {
		rows += t.Rows
	}
	fmt.Fprintf(w, "%d tables, %s rows, %s load issues (snapshot %s)\n",
		len(ds.Report.Tables), group(rows), group(ds.Report.IssueCount), shortFP(rep.Fingerprint))

	printReconciliation(w, rep.Reconciliation)
	printQuarterly(w, rep.Quarterly[checks.VizTotals], rep.Quarterly[checks.VizGoals])
	printMatching(w, rep.Matching)
	printCredit(w, rep.Credit)
	printAging(w, rep.Aging)
	printBenford(w, rep.Benford)
}

func printReconciliation(w io.Writer, rec *checks.Reconciliation) {
	section(w, "Revenue reconciliation")
	fmt.Fprintf(w, "Number of valid sales records: %s. Total sales revenue: %s.\n",
		group(rec.SalesCount), money(rec.Revenue))
	fmt.Fprintf(w, "Number of unpaid invoices: %s. Total accounts receivable: %s.\n",
		group(rec.UnpaidCount), money(rec.Receivable))
}

func printQuarterly(w io.Writer, totals, goals *checks.QuarterlySales) {
	section(w, "Quarterly sales by territory")
	tw := newTable(w)
	fmt.Fprintln(tw, "Territory\tGoal/qtr\tQ1\tQ2\tQ3\tQ4\tYear")
	for _, s := range goals.Series {
		year := decimal.Zero
		cells := make([]string, 4)
		for q, m := range s.Quarters {
			cells[q] = money(m)
			if m.Valid {
				year = year.Add(m.Decimal)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.TerritoryName, money(s.Goal), cells[0], cells[1], cells[2], cells[3], dollars(year))
	}

	year := decimal.Zero
	cells := make([]string, 4)
	for q, t := range totals.Totals {
		cells[q] = money(t.Total)
		if t.Total.Valid {
			year = year.Add(t.Total.Decimal)
		}
	}
	fmt.Fprintf(tw, "All territories\t\t%s\t%s\t%s\t%s\t%s\n",
		cells[0], cells[1], cells[2], cells[3], dollars(year))
	tw.Flush()
}

func printMatching(w io.Writer, m *checks.MatchingResult) {
	section(w, fmt.Sprintf("Three-way matching: %s of %s invoices missing support",
		group(m.Count), group(m.Checked)))
	if m.Count == 0 {
		fmt.Fprintln(w, "Every invoice traces to a sales order and a shipment.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Invoice\tOrder\tCustomer\tSubTotal\tShipment\tShipped\tMissing")
	for _, r := range m.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			blank(r.InvoiceID), blank(r.SalesOrderID), blank(r.CustID),
			money(r.SubTotal), blank(r.ShipID), date(r.ShipDate),
			strings.Join(r.Missing, ", "))
	}
	tw.Flush()
}

func printCredit(w io.Writer, c *checks.CreditResult) {
	section(w, fmt.Sprintf("Credit limits: %s of %s customers over limit",
		group(c.Count), group(c.Checked)))
	if c.Count == 0 {
		fmt.Fprintln(w, "No customer's unpaid balance exceeds its credit limit.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Customer\tName\tUnpaid total\tLimit\tOver by")
	for _, r := range c.Records {
		name := r.CustName
		if r.MissingMaster {
			name = "(no master record)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CustID, name, dollarsInt(r.TotalDue), dollarsInt(r.CredLimit), dollarsInt(r.Excess))
	}
	tw.Flush()
}

func printAging(w io.Writer, a *checks.AgingResult) {
	section(w, fmt.Sprintf("Receivables aging: %s of %s unpaid invoices older than %d days as of %s",
		group(a.Count), group(a.Checked), a.Threshold, date(a.PeriodEnd)))
	if a.Count == 0 {
		fmt.Fprintln(w, "No open receivable is past the threshold.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Invoice\tOrder\tInvoiced\tAge (days)\tTotal due")
	for _, r := range a.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.InvoiceID, blank(r.SalesOrderID), date(r.InvoiceDate), r.AgeDays, money(r.TotalDue))
	}
	tw.Flush()
}

func printBenford(w io.Writer, b *checks.BenfordResult) {
	section(w, fmt.Sprintf("Benford first-digit analysis: %s amounts from %s", group(b.N), b.Source))
	if b.N == 0 {
		fmt.Fprintln(w, "No amounts to test.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Digit\tCount\tFound\tExpected")
	for _, d := range b.Digits {
		fmt.Fprintf(tw, "%d\t%s\t%.1f%%\t%.1f%%\n", d.Digit, group(d.Count), d.Found, d.Expected)
	}
	tw.Flush()
	fmt.Fprintf(w, "chi-square %.2f (p = %.3f), MAD %.4f (%s conformity)\n",
		b.ChiSquare, b.PValue, b.MAD, madBand(b.MAD))
}

// madBand names the Nigrini first-digit conformity band for a MAD value.
func madBand(mad float64) string {
	switch {
	case mad < 0.006:
		return "close"
	case mad < 0.012:
		return "acceptable"
	case mad < 0.015:
		return "marginal"
	}
	return "nonconforming"
}

func section(w io.Writer, heading string) {
	fmt.Fprintf(w, "\n%s\n%s\n", heading, strings.Repeat("-", len(heading)))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// money renders a nullable amount as whole dollars, "n/a" when null.
func money(m dataset.Money) string {
	if !m.Valid {
		return "n/a"
	}
	return dollars(m.Decimal)
}

// dollars renders an amount as whole dollars with thousands separators,
// matching the dashboard's display format.
func dollars(d decimal.Decimal) string {
	r := d.Round(0)
	if r.Sign() < 0 {
		return "-$" + group3(r.Neg().String())
	}
	return "$" + group3(r.String())
}

func dollarsInt(n int64) string {
	return dollars(decimal.NewFromInt(n))
}

func group(n int) string {
	return group3(strconv.Itoa(n))
}

// group3 inserts comma separators into a non-negative integer string.
func group3(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// shortFP abbreviates a snapshot fingerprint for display, the way git
// abbreviates commit hashes.
func shortFP(fp string) string {
	if len(fp) > 8 {
		return fp[:8]
	}
	return fp
}

func date(d dataset.Date) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Time.Format("2006-01-02")
}

func blank(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

package dataset

import "time"

// MaxIssuesPerTable caps how many row-level issues are kept per table.
// Issues beyond the cap are still counted.
var MaxIssuesPerTable = 100

// LoadIssue records one row-level problem found during a load. Issues are
// informational: the affected row is kept with null markers and the load
// succeeds regardless.
type LoadIssue struct {
	Table   string `json:"table"`
	Line    int    `json:"line"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// TableLoadInfo summarizes one table's load.
type TableLoadInfo struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	FileName string `json:"fileName"`
	Bytes    int64  `json:"bytes"`
	Checksum string `json:"checksum"`
	Rows     int    `json:"rows"`
	Issues   int    `json:"issues"`
}

// LoadReport is the byproduct of a load: per-table stats plus a capped
// list of row-level issues.
type LoadReport struct {
	Tables      []TableLoadInfo `json:"tables"`
	Issues      []LoadIssue     `json:"issues"`
	IssueCount  int             `json:"issueCount"`
	Fingerprint string          `json:"fingerprint"`
	StartedAt   time.Time       `json:"startedAt"`
	Duration    time.Duration   `json:"duration"`
}

// HasIssues reports whether any row-level issue was recorded.
func (r *LoadReport) HasIssues() bool {
	return r.IssueCount > 0
}

// issuesForTable counts recorded issues for one table key.
func (r *LoadReport) issuesForTable(key string) int {
	n := 0
	for _, iss := range r.Issues {
		if iss.Table == key {
			n++
		}
	}
	return n
}

// recorder returns an issueFunc that appends issues for one table,
// honoring the per-table cap. The returned counter tracks the true total
// including capped-out issues.
func (r *LoadReport) recorder(table string) (issueFunc, *int) {
	total := new(int)
	kept := r.issuesForTable(table)

	fn := func(line int, column, message string) {
		*total++
		r.IssueCount++
		if kept >= MaxIssuesPerTable {
			return
		}
		kept++
		r.Issues = append(r.Issues, LoadIssue{
			Table:   table,
			Line:    line,
			Column:  column,
			Message: message,
		})
	}
	return fn, total
}

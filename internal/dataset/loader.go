package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrSourceMissing marks a load that failed because a required source
// file is absent or unreadable. No partial dataset is returned.
var ErrSourceMissing = errors.New("source file missing")

// ErrSourceMalformed marks a load that failed because a source file could
// not be parsed or its header row was not found.
var ErrSourceMalformed = errors.New("source file malformed")

// MaxHeaderSearchRows is the maximum number of rows scanned for the header.
var MaxHeaderSearchRows = 20

// Load reads every registered table from dir and seals the result into an
// immutable Dataset. The whole load fails on the first missing or
// malformed file; row-level problems become LoadIssues instead.
//
// Loading is idempotent: identical source bytes produce an identical
// Dataset and fingerprint.
func Load(dir string) (*Dataset, error) {
	specs := All()
	if len(specs) == 0 {
		return nil, errors.New("no tables registered")
	}

	start := time.Now()
	ds := &Dataset{}
	report := &LoadReport{StartedAt: start}
	combined := newFingerprint()

	for _, spec := range specs {
		info, err := loadTable(ds, report, spec, filepath.Join(dir, spec.Info.FileName))
		if err != nil {
			return nil, err
		}
		report.Tables = append(report.Tables, info)
		combined.add(spec.Info.Key, info.Checksum)
	}

	ds.buildIndexes()
	ds.Fingerprint = combined.sum()
	ds.LoadedAt = time.Now()

	report.Fingerprint = ds.Fingerprint
	report.Duration = time.Since(start)
	ds.Report = report

	return ds, nil
}

// loadTable reads, parses and appends one table's rows.
func loadTable(ds *Dataset, report *LoadReport, spec *TableSpec, path string) (TableLoadInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return TableLoadInfo{}, fmt.Errorf("%w: %s (expected at %s)", ErrSourceMissing, spec.Info.Key, path)
		}
		return TableLoadInfo{}, fmt.Errorf("%w: %s: %v", ErrSourceMissing, spec.Info.Key, err)
	}
	defer f.Close()

	dr := NewDigestReader(f)
	data, err := io.ReadAll(dr)
	if err != nil {
		return TableLoadInfo{}, fmt.Errorf("%w: %s: %v", ErrSourceMissing, spec.Info.Key, err)
	}

	data = sanitizeUTF8(trimBOM(data))

	records, err := parseCSV(data)
	if err != nil {
		return TableLoadInfo{}, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, spec.Info.Key, err)
	}

	headerRow, headerIdx := findHeader(records, spec.Info.Columns)
	if headerRow < 0 {
		return TableLoadInfo{}, fmt.Errorf("%w: %s: header not found (expected columns: %s)",
			ErrSourceMalformed, spec.Info.Key, strings.Join(spec.Info.Columns, ", "))
	}

	record, issueTotal := report.recorder(spec.Info.Key)

	rows := 0
	for i, cells := range records[headerRow+1:] {
		if isEmptyRow(cells) {
			continue
		}
		spec.Append(ds, &RowReader{
			spec:   spec,
			cells:  cells,
			header: headerIdx,
			line:   headerRow + i + 2, // 1-indexed, after header
			issue:  record,
		})
		rows++
	}

	return TableLoadInfo{
		Key:      spec.Info.Key,
		Label:    spec.Info.Label,
		FileName: filepath.Base(path),
		Bytes:    dr.BytesRead(),
		Checksum: dr.Sum(),
		Rows:     rows,
		Issues:   *issueTotal,
	}, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// findHeader scans the leading records for a row containing every
// declared column, in any order. Returns -1 when no row qualifies.
func findHeader(records [][]string, columns []string) (int, HeaderIndex) {
	maxRows := MaxHeaderSearchRows
	if len(records) < maxRows {
		maxRows = len(records)
	}

	for i := 0; i < maxRows; i++ {
		idx := MakeHeaderIndex(records[i])
		if len(missingColumns(idx, columns)) == 0 {
			return i, idx
		}
	}
	return -1, nil
}

// missingColumns returns the declared columns absent from a header index.
func missingColumns(idx HeaderIndex, columns []string) []string {
	var missing []string
	for _, col := range columns {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

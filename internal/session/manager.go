// Package session owns the lifecycle of the loaded dataset: the initial
// load, operator-triggered reloads, report memoization and the activity
// trail. All consumers read through the Manager, which swaps snapshots
// atomically so readers never observe a half-loaded state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kwhall/auditdash/internal/checks"
	"github.com/kwhall/auditdash/internal/dataset"
)

// ErrNotLoaded is returned when a snapshot is requested before the first
// successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Manager holds the current dataset snapshot and serves reports built
// from it. Reloads go through a single-slot gate; lookups and report
// reads never block behind one.
type Manager struct {
	dataDir string
	year    int
	log     *slog.Logger

	gate     *ReloadGate
	cache    *checks.ReportCache
	activity *ActivityLog

	mu          sync.RWMutex
	ds          *dataset.Dataset
	report      *checks.Report
	reloadCount int
	drift       string
}

// Options tunes manager internals. The zero value selects the package
// defaults.
type Options struct {
	ReloadMaxWait time.Duration // cap on waiting for the reload slot during Load
	ActivityLimit int           // entries retained in the activity trail
}

// NewManager creates a manager serving snapshots loaded from dataDir,
// with reports defaulting to the given fiscal year.
func NewManager(dataDir string, year int, log *slog.Logger, opts Options) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if opts.ReloadMaxWait <= 0 {
		opts.ReloadMaxWait = DefaultReloadWait
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = DefaultActivityLimit
	}
	return &Manager{
		dataDir:  dataDir,
		year:     year,
		log:      log,
		gate:     NewReloadGate(opts.ReloadMaxWait),
		cache:    checks.NewReportCache(),
		activity: NewActivityLog(opts.ActivityLimit),
	}
}

// LoadResult summarizes one load or reload.
type LoadResult struct {
	Fingerprint  string                  `json:"fingerprint"`
	Changed      bool                    `json:"changed"`
	ReportCached bool                    `json:"reportCached"`
	Tables       []dataset.TableLoadInfo `json:"tables"`
	IssueCount   int                     `json:"issueCount"`
	ElapsedMS    int64                   `json:"elapsedMs"`
}

// swap loads the sources, ensures a report exists for the default fiscal
// year and installs the new snapshot. Callers must hold the reload gate.
func (m *Manager) swap() (*LoadResult, error) {
	start := time.Now()

	ds, err := dataset.Load(m.dataDir)
	if err != nil {
		return nil, err
	}

	rep, cached := m.cache.Get(ds.Fingerprint, m.year)
	if !cached {
		rep, err = checks.BuildReport(ds, m.year)
		if err != nil {
			return nil, err
		}
		m.cache.Put(rep)
	}

	m.mu.Lock()
	prev := ""
	if m.ds != nil {
		prev = m.ds.Fingerprint
	}
	m.ds = ds
	m.report = rep
	m.drift = ""
	m.mu.Unlock()

	return &LoadResult{
		Fingerprint:  ds.Fingerprint,
		Changed:      prev != "" && prev != ds.Fingerprint,
		ReportCached: cached,
		Tables:       ds.Report.Tables,
		IssueCount:   ds.Report.IssueCount,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}, nil
}

// Load performs the initial load. It waits for the reload gate, so it is
// safe to call even if a reload races it.
func (m *Manager) Load(ctx context.Context) (*LoadResult, error) {
	if err := m.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer m.gate.Release()

	res, err := m.swap()
	if err != nil {
		m.activity.Record(RecordParams{Action: ActionLoad, Err: err})
		return nil, err
	}

	m.log.Info("dataset loaded",
		"fingerprint", res.Fingerprint,
		"tables", len(res.Tables),
		"issues", res.IssueCount,
		"duration_ms", res.ElapsedMS,
	)
	m.activity.Record(RecordParams{
		Action:      ActionLoad,
		Detail:      fmt.Sprintf("%d tables loaded", len(res.Tables)),
		Fingerprint: res.Fingerprint,
	})
	return res, nil
}

// Reload re-reads the sources and swaps the snapshot. Only one reload may
// run at a time; a concurrent request fails fast with ErrReloadInProgress
// rather than queueing.
func (m *Manager) Reload(ctx context.Context) (*LoadResult, error) {
	if !m.gate.TryAcquire() {
		m.activity.Record(RecordParams{Action: ActionReloadDenied, Detail: "a reload is already running"})
		return nil, ErrReloadInProgress
	}
	defer m.gate.Release()

	res, err := m.swap()
	if err != nil {
		m.log.Error("reload failed", "error", err)
		m.activity.Record(RecordParams{Action: ActionReload, Err: err})
		return nil, err
	}

	m.mu.Lock()
	m.reloadCount++
	m.mu.Unlock()

	m.log.Info("dataset reloaded",
		"fingerprint", res.Fingerprint,
		"changed", res.Changed,
		"report_cached", res.ReportCached,
		"duration_ms", res.ElapsedMS,
	)

	var detail string
	switch {
	case !res.Changed:
		detail = "sources unchanged"
	case res.ReportCached:
		detail = "sources changed, report served from cache"
	default:
		detail = "sources changed, report rebuilt"
	}
	m.activity.Record(RecordParams{Action: ActionReload, Detail: detail, Fingerprint: res.Fingerprint})
	return res, nil
}

// Current returns the loaded snapshot.
func (m *Manager) Current() (*dataset.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil {
		return nil, ErrNotLoaded
	}
	return m.ds, nil
}

// Report returns the audit report for a fiscal year, building and caching
// it on first request. year <= 0 selects the configured default.
func (m *Manager) Report(year int) (*checks.Report, error) {
	if year <= 0 {
		year = m.year
	}

	m.mu.RLock()
	ds := m.ds
	rep := m.report
	m.mu.RUnlock()
	if ds == nil {
		return nil, ErrNotLoaded
	}

	if year == m.year && rep != nil && rep.Fingerprint == ds.Fingerprint {
		return rep, nil
	}
	if cached, ok := m.cache.Get(ds.Fingerprint, year); ok {
		return cached, nil
	}

	built, err := checks.BuildReport(ds, year)
	if err != nil {
		return nil, err
	}
	m.cache.Put(built)

	m.log.Info("report built", "year", year, "fingerprint", ds.Fingerprint, "elapsed_ms", built.ElapsedMS)
	m.activity.Record(RecordParams{
		Action:      ActionReportBuild,
		Detail:      fmt.Sprintf("fiscal year %d", year),
		Fingerprint: ds.Fingerprint,
	})
	return built, nil
}

// LoadReport returns the load statistics of the current snapshot.
func (m *Manager) LoadReport() (*dataset.LoadReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil {
		return nil, ErrNotLoaded
	}
	return m.ds.Report, nil
}

// Status is a snapshot of the session state for monitoring.
type Status struct {
	Loaded        bool                    `json:"loaded"`
	FiscalYear    int                     `json:"fiscalYear"`
	Fingerprint   string                  `json:"fingerprint,omitempty"`
	LoadedAt      time.Time               `json:"loadedAt"`
	Tables        []dataset.TableLoadInfo `json:"tables,omitempty"`
	IssueCount    int                     `json:"issueCount"`
	ReloadCount   int                     `json:"reloadCount"`
	ReloadActive  bool                    `json:"reloadActive"`
	SourceChanged bool                    `json:"sourceChanged"`
	CachedReports int                     `json:"cachedReports"`
}

// Status returns the current session state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	st := Status{
		Loaded:        m.ds != nil,
		FiscalYear:    m.year,
		ReloadCount:   m.reloadCount,
		SourceChanged: m.drift != "",
	}
	if m.ds != nil {
		st.Fingerprint = m.ds.Fingerprint
		st.LoadedAt = m.ds.LoadedAt
		st.Tables = m.ds.Report.Tables
		st.IssueCount = m.ds.Report.IssueCount
	}
	m.mu.RUnlock()

	st.ReloadActive = m.gate.Busy()
	st.CachedReports = m.cache.Len()
	return st
}

// Activity returns recent session events, newest first.
func (m *Manager) Activity(limit int) []Entry {
	return m.activity.Recent(limit)
}

// RecordExport notes a completed export in the activity trail.
func (m *Manager) RecordExport(detail string) {
	m.mu.RLock()
	fp := ""
	if m.ds != nil {
		fp = m.ds.Fingerprint
	}
	m.mu.RUnlock()

	m.activity.Record(RecordParams{Action: ActionExport, Detail: detail, Fingerprint: fp})
}

// Year returns the default fiscal year.
func (m *Manager) Year() int {
	return m.year
}

// Drain blocks until no reload is running, for graceful shutdown.
func (m *Manager) Drain(ctx context.Context) error {
	return m.gate.WaitForDrain(ctx)
}

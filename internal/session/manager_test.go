package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/kwhall/auditdash/internal/dataset/tables"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const ordersCSV = "SalesOrderID,CustID,TerritoryID,ShipID,OrderDate,SubTotal,TaxAmt,Freight,TotalDue,ModifiedDate,ModifiedTime\n" +
	"900,10,5,800,2017-01-10,1500.00,120.00,30.00,1650.00,2017-01-10,08:00:00\n" +
	"901,11,2,801,2017-03-15,250.75,20.06,10.00,280.81,2017-03-15,08:30:00\n"

// writeSources writes a complete source directory for the manager tests.
func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeSource(t, dir, "customer_invoices.csv",
		"InvoiceID,InvoiceDate,PaidDate,SalesOrderID,ModifiedDate,ModifiedTime\n"+
			"100,2017-01-15,2017-02-01,900,2017-02-01,09:30:00\n"+
			"101,2017-03-20,,901,2017-03-20,10:00:00\n")

	writeSource(t, dir, "sales_orders.csv", ordersCSV)

	writeSource(t, dir, "shipments.csv",
		"ShipID,ShipDate,ShipMethod,ModifiedDate,ModifiedTime\n"+
			"800,2017-01-12,GROUND,2017-01-12,14:00:00\n"+
			"801,2017-03-17,AIR,2017-03-17,15:30:00\n")

	writeSource(t, dir, "customer_master.csv",
		"CustID,CustName,CredLimit,TerritoryID,ModifiedDate,ModifiedTime\n"+
			"10,Mercy General Hospital,5000,5,2016-11-01,12:00:00\n"+
			"11,Lakeside Clinic,12000,2,2016-11-01,12:00:00\n")

	writeSource(t, dir, "sales_territory.csv",
		"TerritoryID,TerritoryName,SalesGoalQTR,ModifiedDate,ModifiedTime\n"+
			"2,Northeast,250000,2016-10-01,09:00:00\n"+
			"5,Southwest,300000,2016-10-01,09:00:00\n")

	return dir
}

func TestManager_LoadAndCurrent(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})

	res, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Fingerprint == "" {
		t.Error("load result should carry a fingerprint")
	}
	if res.Changed {
		t.Error("initial load should not report a change")
	}
	if len(res.Tables) != 5 {
		t.Errorf("loaded %d tables, want 5", len(res.Tables))
	}

	ds, err := m.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if ds.Fingerprint != res.Fingerprint {
		t.Errorf("Current fingerprint = %s, want %s", ds.Fingerprint, res.Fingerprint)
	}

	st := m.Status()
	if !st.Loaded {
		t.Error("Status should report loaded")
	}
	if st.Fingerprint != res.Fingerprint {
		t.Errorf("Status fingerprint = %s, want %s", st.Fingerprint, res.Fingerprint)
	}
	if st.FiscalYear != 2017 {
		t.Errorf("Status FiscalYear = %d, want 2017", st.FiscalYear)
	}
}

func TestManager_NotLoaded(t *testing.T) {
	m := NewManager(t.TempDir(), 2017, testLogger(), Options{})

	if _, err := m.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Current before load: err = %v, want ErrNotLoaded", err)
	}
	if _, err := m.Report(0); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Report before load: err = %v, want ErrNotLoaded", err)
	}
	if _, err := m.LoadReport(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("LoadReport before load: err = %v, want ErrNotLoaded", err)
	}
	if st := m.Status(); st.Loaded {
		t.Error("Status should report not loaded")
	}
}

func TestManager_LoadFailure(t *testing.T) {
	m := NewManager(t.TempDir(), 2017, testLogger(), Options{})

	if _, err := m.Load(context.Background()); err == nil {
		t.Fatal("Load from an empty directory should fail")
	}

	recent := m.Activity(1)
	if len(recent) != 1 || recent[0].Severity != SeverityCritical {
		t.Errorf("failed load should record a critical entry, got %+v", recent)
	}
}

func TestManager_ReloadUnchanged(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	res, err := m.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if res.Changed {
		t.Error("byte-identical sources should not report a change")
	}
	if !res.ReportCached {
		t.Error("unchanged sources should reuse the cached report")
	}

	st := m.Status()
	if st.ReloadCount != 1 {
		t.Errorf("ReloadCount = %d, want 1", st.ReloadCount)
	}
}

func TestManager_ReloadPicksUpChanges(t *testing.T) {
	dir := writeSources(t)
	m := NewManager(dir, 2017, testLogger(), Options{})

	first, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	before, err := m.Report(0)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	// A third order lands in the sources.
	writeSource(t, dir, "sales_orders.csv", ordersCSV+
		"902,10,5,801,2017-06-05,9800.00,784.00,50.00,10634.00,2017-06-05,09:45:00\n")

	res, err := m.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !res.Changed {
		t.Error("changed sources should report a change")
	}
	if res.Fingerprint == first.Fingerprint {
		t.Error("changed sources should produce a new fingerprint")
	}
	if res.ReportCached {
		t.Error("a new fingerprint should rebuild the report")
	}

	after, err := m.Report(0)
	if err != nil {
		t.Fatalf("Report after reload failed: %v", err)
	}
	if after.RunID == before.RunID {
		t.Error("reload with new sources should produce a new report run")
	}
	if after.Fingerprint != res.Fingerprint {
		t.Errorf("report fingerprint = %s, want %s", after.Fingerprint, res.Fingerprint)
	}
}

func TestManager_ReloadConflict(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Simulate an in-flight reload holding the gate.
	if !m.gate.TryAcquire() {
		t.Fatal("could not take the gate")
	}
	defer m.gate.Release()

	if _, err := m.Reload(context.Background()); !errors.Is(err, ErrReloadInProgress) {
		t.Errorf("concurrent Reload: err = %v, want ErrReloadInProgress", err)
	}

	recent := m.Activity(1)
	if len(recent) != 1 || recent[0].Action != ActionReloadDenied {
		t.Errorf("denied reload should be recorded, got %+v", recent)
	}
	if !m.Status().ReloadActive {
		t.Error("Status should report the reload slot as held")
	}
}

func TestManager_ReportCaching(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	first, err := m.Report(0)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	second, err := m.Report(2017)
	if err != nil {
		t.Fatalf("Report(2017) failed: %v", err)
	}
	if first.RunID != second.RunID {
		t.Error("repeated Report calls for one snapshot should hit the cache")
	}

	other, err := m.Report(2016)
	if err != nil {
		t.Fatalf("Report(2016) failed: %v", err)
	}
	if other.RunID == first.RunID {
		t.Error("a different fiscal year should build its own report")
	}
	if other.Year != 2016 {
		t.Errorf("Year = %d, want 2016", other.Year)
	}

	if got := m.Status().CachedReports; got != 2 {
		t.Errorf("CachedReports = %d, want 2", got)
	}
}

func TestManager_ActivityTrail(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := m.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	recent := m.Activity(0)
	if len(recent) != 2 {
		t.Fatalf("Activity returned %d entries, want 2", len(recent))
	}
	if recent[0].Action != ActionReload || recent[1].Action != ActionLoad {
		t.Errorf("Activity order = [%s, %s], want [reload, load]", recent[0].Action, recent[1].Action)
	}
	if recent[0].Fingerprint == "" {
		t.Error("reload entry should carry the fingerprint")
	}
}

func TestManager_Options(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{
		ReloadMaxWait: 50 * time.Millisecond,
		ActivityLimit: 2,
	})

	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.Reload(context.Background()); err != nil {
			t.Fatalf("Reload %d failed: %v", i, err)
		}
	}

	// Three events happened but the trail keeps only the newest two.
	if got := len(m.Activity(0)); got != 2 {
		t.Errorf("Activity retained %d entries, want 2", got)
	}

	// A held gate makes Load give up after the configured wait.
	if !m.gate.TryAcquire() {
		t.Fatal("could not take the gate")
	}
	defer m.gate.Release()

	start := time.Now()
	if _, err := m.Load(context.Background()); !errors.Is(err, ErrReloadInProgress) {
		t.Fatalf("Load with held gate: err = %v, want ErrReloadInProgress", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Load waited %v before giving up, want roughly the configured 50ms", elapsed)
	}
}

func TestManager_SourceDriftDetection(t *testing.T) {
	dir := writeSources(t)
	m := NewManager(dir, 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// In sync: no drift recorded.
	m.checkSources()
	if m.Status().SourceChanged {
		t.Error("unchanged sources should not flag drift")
	}

	writeSource(t, dir, "sales_orders.csv", ordersCSV+
		"902,10,5,801,2017-06-05,9800.00,784.00,50.00,10634.00,2017-06-05,09:45:00\n")

	m.checkSources()
	if !m.Status().SourceChanged {
		t.Fatal("modified sources should flag drift")
	}

	recent := m.Activity(1)
	if len(recent) != 1 || recent[0].Action != ActionSourceChange {
		t.Errorf("drift should be recorded, got %+v", recent)
	}

	// The same drift is reported once.
	m.checkSources()
	if got := len(m.Activity(0)); got != 2 { // load + source_change
		t.Errorf("repeated checks recorded %d entries, want 2", got)
	}

	// Restoring the original bytes clears the drift.
	writeSource(t, dir, "sales_orders.csv", ordersCSV)
	m.checkSources()
	if m.Status().SourceChanged {
		t.Error("restored sources should clear the drift flag")
	}

	// A reload also clears it.
	writeSource(t, dir, "sales_orders.csv", ordersCSV+
		"903,11,2,801,2017-07-01,300.00,24.00,10.00,334.00,2017-07-01,10:00:00\n")
	m.checkSources()
	if !m.Status().SourceChanged {
		t.Fatal("second drift should flag again")
	}
	if _, err := m.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if m.Status().SourceChanged {
		t.Error("reload should clear the drift flag")
	}
}

func TestManager_WatcherStops(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.StartSourceWatcher(ctx, WatchConfig{Interval: 10 * time.Millisecond})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("watcher did not stop on context cancellation")
	}
}

func TestManager_Drain(t *testing.T) {
	m := NewManager(writeSources(t), 2017, testLogger(), Options{})

	if !m.gate.TryAcquire() {
		t.Fatal("could not take the gate")
	}

	drainDone := make(chan error, 1)
	go func() {
		drainDone <- m.Drain(context.Background())
	}()

	select {
	case <-drainDone:
		t.Error("Drain returned while the gate was held")
	case <-time.After(50 * time.Millisecond):
	}

	m.gate.Release()

	select {
	case err := <-drainDone:
		if err != nil {
			t.Errorf("Drain returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Drain did not complete after release")
	}
}

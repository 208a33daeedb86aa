package session

// watcher.go provides background monitoring of the source directory.
//
// The watcher periodically fingerprints the CSV files on disk and compares
// them against the loaded snapshot. Drift is logged and recorded in the
// activity trail, and surfaces as SourceChanged in Status. The snapshot is
// never swapped automatically: an operator has to trigger the reload, so a
// half-written export can never silently replace audited figures.

import (
	"context"
	"time"

	"github.com/kwhall/auditdash/internal/dataset"
)

// DefaultWatchInterval is how often the watcher checks the sources.
const DefaultWatchInterval = 30 * time.Second

// WatchConfig holds configuration for the source watcher.
type WatchConfig struct {
	Interval time.Duration // How often to check (default: 30s)
}

// StartSourceWatcher starts a background goroutine that periodically
// compares the on-disk sources against the loaded snapshot.
// It runs immediately on start, then every Interval.
// The watcher stops when the context is cancelled.
func (m *Manager) StartSourceWatcher(ctx context.Context, cfg WatchConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWatchInterval
	}

	m.log.Info("source watcher started",
		"dir", m.dataDir,
		"interval", cfg.Interval.String(),
	)

	m.checkSources()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("source watcher stopped")
			return
		case <-ticker.C:
			m.checkSources()
		}
	}
}

// checkSources performs one drift check. Each distinct drift is reported
// once; deleting and restoring the original bytes clears it.
func (m *Manager) checkSources() {
	m.mu.RLock()
	loaded := ""
	if m.ds != nil {
		loaded = m.ds.Fingerprint
	}
	lastWarned := m.drift
	m.mu.RUnlock()

	if loaded == "" {
		return
	}

	onDisk, err := dataset.DirFingerprint(m.dataDir)
	if err != nil {
		m.log.Warn("source check failed", "error", err)
		return
	}

	if onDisk == loaded {
		if lastWarned != "" {
			m.mu.Lock()
			m.drift = ""
			m.mu.Unlock()
			m.log.Info("sources match the loaded snapshot again")
		}
		return
	}

	if onDisk == lastWarned {
		return
	}

	m.mu.Lock()
	m.drift = onDisk
	m.mu.Unlock()

	m.log.Warn("source files changed on disk",
		"loaded_fingerprint", loaded,
		"disk_fingerprint", onDisk,
	)
	m.activity.Record(RecordParams{
		Action:      ActionSourceChange,
		Detail:      "source files changed on disk, reload to pick them up",
		Fingerprint: onDisk,
	})
}

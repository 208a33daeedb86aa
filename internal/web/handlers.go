package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kwhall/auditdash/internal/checks"
	"github.com/kwhall/auditdash/internal/dataset"
	"github.com/kwhall/auditdash/internal/session"
)

// handleDashboard serves the embedded single-page dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// http.ServeFileFS needs Go 1.22; this is its equivalent on the 1.21
	// toolchain (embedded files implement io.ReadSeeker, modtime is zero).
	f, err := staticFiles.Open("static/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	http.ServeContent(w, r, "index.html", time.Time{}, f.(io.ReadSeeker))
}

// handleHealth reports liveness plus the loaded snapshot and reload-gate
// state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.mgr.Status()
	respondJSON(w, r, map[string]any{
		"status":       "ok",
		"loaded":       st.Loaded,
		"fingerprint":  st.Fingerprint,
		"reloadActive": st.ReloadActive,
	}, http.StatusOK)
}

// metaResponse is the session summary served at /api/meta.
type metaResponse struct {
	Case string `json:"case"`
	session.Status
}

// handleMeta returns the case title and the full session status.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, metaResponse{
		Case:   dataset.CaseTitle,
		Status: s.mgr.Status(),
	}, http.StatusOK)
}

// handleLoadReport returns the load statistics of the current snapshot.
func (s *Server) handleLoadReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.mgr.LoadReport()
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, r, rep, http.StatusOK)
}

// handleReport returns the full audit report. The snapshot fingerprint
// plus fiscal year doubles as the ETag, so an unchanged report answers
// 304 without touching the checks.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
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

	etag := fmt.Sprintf("\"%s-%d\"", rep.Fingerprint, rep.Year)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, r, rep, http.StatusOK)
}

// checkSection resolves an API check name to its report section.
func checkSection(rep *checks.Report, name string) (any, error) {
	switch name {
	case "reconciliation":
		return rep.Reconciliation, nil
	case "three-way-matching":
		return rep.Matching, nil
	case "credit-limit":
		return rep.Credit, nil
	case "receivables-aging":
		return rep.Aging, nil
	case "benford":
		return rep.Benford, nil
	}
	return nil, fmt.Errorf("unknown check %q", name)
}

// handleCheck returns one check's result from the memoized report.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
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

	section, err := checkSection(rep, chi.URLParam(r, "check"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	respondJSON(w, r, section, http.StatusOK)
}

// handleQuarterlySales returns the quarterly aggregation in the shape
// selected by the query: bare for company totals, by=territory for the
// territory breakout, goals=true for the goal comparison.
func (s *Server) handleQuarterlySales(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	variant, err := parseVariant(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rep, err := s.mgr.Report(year)
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, r, rep.Quarterly[variant], http.StatusOK)
}

// handleReload re-reads the source files and swaps the snapshot. A
// concurrent reload answers 409; a failed load answers 503 and the old
// snapshot stays current.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	res, err := s.mgr.Reload(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrReloadInProgress) {
			respondError(w, r, err, http.StatusConflict)
			return
		}
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, r, res, http.StatusOK)
}

// handleActivity returns recent session events, newest first, optionally
// filtered by action.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	action := r.URL.Query().Get("action")

	entries := s.mgr.Activity(0)
	if action != "" {
		filtered := make([]session.Entry, 0, len(entries))
		for _, e := range entries {
			if string(e.Action) == action {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	respondJSON(w, r, map[string]any{
		"entries": entries,
		"count":   len(entries),
	}, http.StatusOK)
}

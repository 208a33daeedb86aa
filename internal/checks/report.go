package checks

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kwhall/auditdash/internal/dataset"
)

// Report bundles one full run of the audit battery over a single dataset
// snapshot. RunID identifies the run; Fingerprint identifies the exact
// source bytes it was computed from.
type Report struct {
	RunID       string    `json:"runId"`
	Year        int       `json:"year"`
	Fingerprint string    `json:"fingerprint"`
	GeneratedAt time.Time `json:"generatedAt"`
	ElapsedMS   int64     `json:"elapsedMs"`

	Reconciliation *Reconciliation                `json:"reconciliation"`
	Quarterly      map[VizVariant]*QuarterlySales `json:"quarterly"`
	Matching       *MatchingResult                `json:"matching"`
	Credit         *CreditResult                  `json:"credit"`
	Aging          *AgingResult                   `json:"aging"`
	Benford        *BenfordResult                 `json:"benford"`
}

// BuildReport runs every check against the snapshot for the fiscal year.
// The checks are independent pure functions over immutable data, so each
// runs in its own goroutine writing its own result field.
func BuildReport(ds *dataset.Dataset, year int) (*Report, error) {
	start := time.Now()
	view := BuildSalesView(ds, year)

	rep := &Report{
		RunID:       uuid.NewString(),
		Year:        year,
		Fingerprint: ds.Fingerprint,
		GeneratedAt: start.UTC(),
		Quarterly:   make(map[VizVariant]*QuarterlySales, len(Variants)),
	}

	var g errgroup.Group
	g.Go(func() error {
		rep.Reconciliation = Reconcile(view)
		return nil
	})
	g.Go(func() error {
		for _, variant := range Variants {
			qs, err := Quarterly(ds, view, variant)
			if err != nil {
				return err
			}
			rep.Quarterly[variant] = qs
		}
		return nil
	})
	g.Go(func() error {
		rep.Matching = ThreeWayMatch(ds, view)
		return nil
	})
	g.Go(func() error {
		rep.Credit = CreditLimits(ds, view)
		return nil
	})
	g.Go(func() error {
		rep.Aging = Aging(view)
		return nil
	})
	g.Go(func() error {
		rep.Benford = BenfordAnalysis(view)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.ElapsedMS = time.Since(start).Milliseconds()
	return rep, nil
}

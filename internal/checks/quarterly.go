package checks

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kwhall/auditdash/internal/dataset"
)

// VizVariant selects one of the sales aggregation shapes.
type VizVariant string

const (
	// VizTotals is company-wide sales per quarter.
	VizTotals VizVariant = "totals"
	// VizByTerritory is sales per quarter broken out by territory,
	// restricted to territories observed in the sales data.
	VizByTerritory VizVariant = "territory"
	// VizGoals is VizByTerritory extended to every territory on file,
	// each paired with its quarterly sales goal.
	VizGoals VizVariant = "goals"
)

// Variants lists the supported aggregation shapes in display order.
var Variants = []VizVariant{VizTotals, VizByTerritory, VizGoals}

// VariantLabels maps each variant to its dashboard label.
var VariantLabels = map[VizVariant]string{
	VizTotals:      "Sales by quarter",
	VizByTerritory: "Sales by territory by quarter",
	VizGoals:       "Sales by territory by quarter vs. quarterly sales goal",
}

// QuarterTotal is summed sales for one fiscal quarter.
type QuarterTotal struct {
	Quarter int           `json:"quarter"`
	Total   dataset.Money `json:"total"`
	Count   int           `json:"count"`
}

// TerritorySeries is one territory's quarterly sales, with the quarterly
// goal attached in the goals variant.
type TerritorySeries struct {
	TerritoryID   string           `json:"territoryId"`
	TerritoryName string           `json:"territoryName"`
	Goal          dataset.Money    `json:"goal"`
	Quarters      [4]dataset.Money `json:"quarters"`
}

// QuarterlySales is a chart-ready aggregation of fiscal-year sales.
// Totals always covers all four quarters; Series is populated for the
// territory and goals variants, sorted by territory name so renderers
// can pair series to panels by index.
type QuarterlySales struct {
	Year    int               `json:"year"`
	Variant VizVariant        `json:"variant"`
	Label   string            `json:"label"`
	Totals  [4]QuarterTotal   `json:"totals"`
	Series  []TerritorySeries `json:"series,omitempty"`
}

// Quarterly aggregates the sales view into the requested variant.
// An unknown variant is the only error condition.
func Quarterly(ds *dataset.Dataset, view *SalesView, variant VizVariant) (*QuarterlySales, error) {
	switch variant {
	case VizTotals, VizByTerritory, VizGoals:
	default:
		return nil, fmt.Errorf("unknown visualization variant %q", variant)
	}

	out := &QuarterlySales{Year: view.Year, Variant: variant, Label: VariantLabels[variant]}
	for q := 0; q < 4; q++ {
		out.Totals[q] = QuarterTotal{Quarter: q + 1, Total: dataset.MoneyFromInt(0)}
	}

	// Company-wide totals include every sales record with an amount,
	// territory known or not.
	sums := [4]decimal.Decimal{}
	byTerritory := make(map[string]*[4]decimal.Decimal)
	for _, r := range view.Records {
		q := r.Invoice.InvoiceDate.Quarter()
		if q == 0 {
			continue
		}
		out.Totals[q-1].Count++
		if r.Order == nil || !r.Order.SubTotal.Valid {
			continue
		}
		sums[q-1] = sums[q-1].Add(r.Order.SubTotal.Decimal)

		if tid := r.Order.TerritoryID; tid != "" {
			cells, ok := byTerritory[tid]
			if !ok {
				cells = &[4]decimal.Decimal{}
				byTerritory[tid] = cells
			}
			cells[q-1] = cells[q-1].Add(r.Order.SubTotal.Decimal)
		}
	}
	for q := 0; q < 4; q++ {
		out.Totals[q].Total = dataset.Money{Decimal: sums[q], Valid: true}
	}

	if variant == VizTotals {
		return out, nil
	}

	switch variant {
	case VizByTerritory:
		// Only territories observed in the data, resolved to names.
		for tid, cells := range byTerritory {
			terr, ok := ds.TerritoryByID(tid)
			if !ok {
				continue
			}
			out.Series = append(out.Series, territorySeries(terr, cells, false))
		}
	case VizGoals:
		// Every territory on file, including those without sales, each
		// carrying its quarterly goal.
		for i := range ds.Territories {
			terr := &ds.Territories[i]
			cells := byTerritory[terr.TerritoryID]
			if cells == nil {
				cells = &[4]decimal.Decimal{}
			}
			out.Series = append(out.Series, territorySeries(terr, cells, true))
		}
	}

	sort.Slice(out.Series, func(i, j int) bool {
		a, b := out.Series[i], out.Series[j]
		if a.TerritoryName != b.TerritoryName {
			return a.TerritoryName < b.TerritoryName
		}
		return dataset.CompareID(a.TerritoryID, b.TerritoryID) < 0
	})

	return out, nil
}

func territorySeries(terr *dataset.Territory, cells *[4]decimal.Decimal, withGoal bool) TerritorySeries {
	s := TerritorySeries{
		TerritoryID:   terr.TerritoryID,
		TerritoryName: terr.TerritoryName,
	}
	if withGoal {
		s.Goal = terr.SalesGoalQTR
	}
	for q := 0; q < 4; q++ {
		s.Quarters[q] = dataset.Money{Decimal: cells[q], Valid: true}
	}
	return s
}

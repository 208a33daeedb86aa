// Package benford implements first-digit (Benford's law) frequency
// analysis for monetary series.
//
// Benford's law predicts the leading-digit distribution of naturally
// occurring numeric populations: P(d) = log10(1 + 1/d). Fabricated
// figures tend to deviate from it, which makes the comparison a cheap
// audit screen for invented transactions.
package benford

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DigitStat is the observed vs. expected frequency for one leading digit.
type DigitStat struct {
	Digit    int     `json:"digit"`
	Count    int     `json:"count"`
	Found    float64 `json:"found"`    // observed frequency, percent
	Expected float64 `json:"expected"` // Benford frequency, percent
}

// Result is a complete first-digit analysis.
//
// ChiSquare and PValue come from a chi-square goodness-of-fit test with 8
// degrees of freedom. MAD is the mean absolute deviation between observed
// and expected digit proportions; Nigrini's first-digit conformity bands
// apply to it (close < 0.006, acceptable < 0.012, marginal < 0.015).
type Result struct {
	N         int         `json:"n"`
	Digits    []DigitStat `json:"digits"`
	ChiSquare float64     `json:"chiSquare"`
	PValue    float64     `json:"pValue"`
	MAD       float64     `json:"mad"`
}

// FirstDigit extracts the first significant digit of a value.
// Returns ok=false for zero, which has no leading digit.
func FirstDigit(d decimal.Decimal) (int, bool) {
	for _, c := range d.Abs().String() {
		if c >= '1' && c <= '9' {
			return int(c - '0'), true
		}
	}
	return 0, false
}

// FirstDigits analyzes the leading-digit distribution of vals against
// Benford's law. Zeros carry no leading digit and are excluded from N.
// An empty series yields N=0 with a neutral test (p-value 1).
func FirstDigits(vals []decimal.Decimal) Result {
	var counts [10]int
	n := 0
	for _, v := range vals {
		d, ok := FirstDigit(v)
		if !ok {
			continue
		}
		counts[d]++
		n++
	}

	res := Result{N: n, Digits: make([]DigitStat, 0, 9)}

	obs := make([]float64, 9)
	exp := make([]float64, 9)
	for d := 1; d <= 9; d++ {
		p := math.Log10(1 + 1/float64(d))
		st := DigitStat{
			Digit:    d,
			Count:    counts[d],
			Expected: p * 100,
		}
		if n > 0 {
			st.Found = float64(counts[d]) / float64(n) * 100
		}
		res.Digits = append(res.Digits, st)

		obs[d-1] = float64(counts[d])
		exp[d-1] = p * float64(n)
	}

	if n == 0 {
		res.PValue = 1
		return res
	}

	res.ChiSquare = stat.ChiSquare(obs, exp)
	res.PValue = distuv.ChiSquared{K: 8}.Survival(res.ChiSquare)

	mad := 0.0
	for d := 1; d <= 9; d++ {
		p := math.Log10(1 + 1/float64(d))
		mad += math.Abs(float64(counts[d])/float64(n) - p)
	}
	res.MAD = mad / 9

	return res
}

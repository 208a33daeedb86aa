package benford

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// ----------------------------------------------------------------------------
// FirstDigit Tests
// ----------------------------------------------------------------------------

func TestFirstDigit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "integer", input: "123.45", want: 1, wantOK: true},
		{name: "large amount", input: "9800", want: 9, wantOK: true},
		{name: "negative uses absolute value", input: "-250", want: 2, wantOK: true},
		{name: "fraction skips leading zeros", input: "0.0072", want: 7, wantOK: true},
		{name: "zero has no leading digit", input: "0", wantOK: false},
		{name: "zero with scale", input: "0.00", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			got, ok := FirstDigit(d)
			if ok != tt.wantOK {
				t.Fatalf("FirstDigit(%s) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("FirstDigit(%s) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// FirstDigits Tests
// ----------------------------------------------------------------------------

// benfordCounts is a 10000-value population matching the Benford
// distribution to the nearest whole count.
var benfordCounts = [10]int{0, 3010, 1761, 1249, 969, 792, 669, 580, 512, 458}

func syntheticSeries(counts [10]int) []decimal.Decimal {
	var vals []decimal.Decimal
	for d := 1; d <= 9; d++ {
		for i := 0; i < counts[d]; i++ {
			vals = append(vals, decimal.NewFromInt(int64(d*100+i%100)))
		}
	}
	return vals
}

func TestFirstDigitsConforming(t *testing.T) {
	res := FirstDigits(syntheticSeries(benfordCounts))

	if res.N != 10000 {
		t.Fatalf("N = %d, want 10000", res.N)
	}
	if len(res.Digits) != 9 {
		t.Fatalf("Digits has %d entries, want 9", len(res.Digits))
	}

	for i, st := range res.Digits {
		if st.Digit != i+1 {
			t.Errorf("Digits[%d].Digit = %d, want %d", i, st.Digit, i+1)
		}
		if st.Count != benfordCounts[i+1] {
			t.Errorf("digit %d count = %d, want %d", st.Digit, st.Count, benfordCounts[i+1])
		}
	}

	// Frequencies are percentages summing to 100.
	foundSum, expectedSum := 0.0, 0.0
	for _, st := range res.Digits {
		foundSum += st.Found
		expectedSum += st.Expected
	}
	if math.Abs(foundSum-100) > 1e-9 {
		t.Errorf("Found percentages sum to %f, want 100", foundSum)
	}
	if math.Abs(expectedSum-100) > 1e-9 {
		t.Errorf("Expected percentages sum to %f, want 100", expectedSum)
	}

	// Near-perfect conformity: the test must not reject.
	if res.PValue < 0.5 {
		t.Errorf("conforming data PValue = %f, want >= 0.5 (chi2 %f)", res.PValue, res.ChiSquare)
	}
	if res.MAD > 0.006 {
		t.Errorf("conforming data MAD = %f, want close conformity (< 0.006)", res.MAD)
	}
}

func TestFirstDigitsUniform(t *testing.T) {
	// Uniform leading digits are a strong Benford violation.
	uniform := [10]int{0, 500, 500, 500, 500, 500, 500, 500, 500, 500}
	res := FirstDigits(syntheticSeries(uniform))

	if res.N != 4500 {
		t.Fatalf("N = %d, want 4500", res.N)
	}
	if res.PValue > 0.001 {
		t.Errorf("uniform digits PValue = %f, want < 0.001", res.PValue)
	}
	if res.MAD < 0.015 {
		t.Errorf("uniform digits MAD = %f, want nonconformity (>= 0.015)", res.MAD)
	}
}

func TestFirstDigitsEmpty(t *testing.T) {
	res := FirstDigits(nil)

	if res.N != 0 {
		t.Fatalf("N = %d, want 0", res.N)
	}
	if len(res.Digits) != 9 {
		t.Fatalf("Digits has %d entries, want 9", len(res.Digits))
	}
	if res.PValue != 1 {
		t.Errorf("empty series PValue = %f, want 1", res.PValue)
	}
	for _, st := range res.Digits {
		if st.Count != 0 || st.Found != 0 {
			t.Errorf("digit %d should have zero observations, got %+v", st.Digit, st)
		}
		if st.Expected <= 0 {
			t.Errorf("digit %d Expected = %f, want > 0", st.Digit, st.Expected)
		}
	}
}

func TestFirstDigitsSkipsZeros(t *testing.T) {
	vals := []decimal.Decimal{
		decimal.NewFromInt(0),
		decimal.NewFromInt(150),
		decimal.Zero,
		decimal.NewFromInt(920),
	}
	res := FirstDigits(vals)

	if res.N != 2 {
		t.Errorf("N = %d, want 2 (zeros excluded)", res.N)
	}
	if res.Digits[0].Count != 1 || res.Digits[8].Count != 1 {
		t.Errorf("digit counts = %+v, want one 1 and one 9", res.Digits)
	}
}

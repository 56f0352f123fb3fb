// Package hypothesis implements the assumption checks and significance
// tests used to compare the two bidding cohorts.
//
// Every function returns a model.TestResult; none of them decides which
// test to run next. Choosing between the parametric and non-parametric
// path is left to the operator.
package hypothesis

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Errors returned for inputs a test cannot be computed on.
var (
	ErrSampleSize = eris.New("sample size out of range")
	ErrZeroRange  = eris.New("sample values are all identical")
	ErrNaN        = eris.New("sample contains NaN")
	ErrNonFinite  = eris.New("sample contains an infinite value")
)

// Null hypotheses, as printed next to each result.
const (
	NullNormal         = "sample is normally distributed"
	NullEqualVariances = "group variances are equal"
	NullEqualMeans     = "group means are equal"
	NullSameLocation   = "groups come from the same distribution"
)

// Method names a two-sample significance test.
type Method string

// Supported significance tests.
const (
	MethodStudent     Method = "ttest"
	MethodWelch       Method = "welch"
	MethodMannWhitney Method = "mannwhitney"
)

// Methods lists the supported significance tests.
var Methods = []Method{MethodStudent, MethodWelch, MethodMannWhitney}

// ParseMethod resolves a configured test name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", eris.Errorf("hypothesis: unknown test %q (want ttest, welch or mannwhitney)", s)
}

// Parametric reports whether the test assumes normally distributed samples.
func (m Method) Parametric() bool {
	return m == MethodStudent || m == MethodWelch
}

// PoolsVariance reports whether the test assumes equal group variances.
func (m Method) PoolsVariance() bool {
	return m == MethodStudent
}

func checkSample(x []float64, minN int) error {
	if len(x) < minN {
		return eris.Wrapf(ErrSampleSize, "need at least %d values, got %d", minN, len(x))
	}
	for _, v := range x {
		if math.IsNaN(v) {
			return ErrNaN
		}
		if math.IsInf(v, 0) {
			return eris.Wrapf(ErrNonFinite, "value %v", v)
		}
	}
	return nil
}

package hypothesis

import (
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/abtest-cli/internal/model"
)

// Center selects the location each group's deviations are measured from.
type Center string

const (
	// CenterMedian is the Brown-Forsythe variant, robust to skew.
	CenterMedian Center = "median"
	// CenterMean is the classic Levene statistic.
	CenterMean Center = "mean"
)

// ParseCenter resolves a configured Levene center.
func ParseCenter(s string) (Center, error) {
	switch c := Center(strings.ToLower(strings.TrimSpace(s))); c {
	case CenterMedian, CenterMean:
		return c, nil
	default:
		return "", eris.Errorf("hypothesis: unknown levene center %q (want median or mean)", s)
	}
}

func (c Center) locate(x []float64) float64 {
	if c == CenterMean {
		return stat.Mean(x, nil)
	}
	return stats.Sample{Xs: x}.Quantile(0.5)
}

// Levene tests the null hypothesis that all groups have equal variances.
// The statistic follows an F(k-1, N-k) distribution under the null.
func Levene(center Center, groups ...[]float64) (model.TestResult, error) {
	k := len(groups)
	if k < 2 {
		return model.TestResult{}, eris.Wrapf(ErrSampleSize, "hypothesis: levene needs at least 2 groups, got %d", k)
	}

	z := make([][]float64, k)
	zMeans := make([]float64, k)
	var total int
	var grand float64
	for i, g := range groups {
		if err := checkSample(g, 1); err != nil {
			return model.TestResult{}, eris.Wrapf(err, "hypothesis: levene group %d", i)
		}
		loc := center.locate(g)
		z[i] = make([]float64, len(g))
		for j, v := range g {
			z[i][j] = math.Abs(v - loc)
			grand += z[i][j]
		}
		zMeans[i] = stat.Mean(z[i], nil)
		total += len(g)
	}
	if total <= k {
		return model.TestResult{}, eris.Wrapf(ErrSampleSize, "hypothesis: levene needs more than %d values, got %d", k, total)
	}
	grand /= float64(total)

	var between, within float64
	for i := range z {
		d := zMeans[i] - grand
		between += float64(len(z[i])) * d * d
		for _, v := range z[i] {
			e := v - zMeans[i]
			within += e * e
		}
	}
	if within == 0 {
		return model.TestResult{}, eris.Wrap(ErrZeroRange, "hypothesis: levene deviations are constant within every group")
	}

	d1, d2 := float64(k-1), float64(total-k)
	w := d2 * between / (d1 * within)
	return model.TestResult{
		Test:       "Levene (" + string(center) + ")",
		Hypothesis: NullEqualVariances,
		Statistic:  w,
		PValue:     distuv.F{D1: d1, D2: d2}.Survival(w),
	}, nil
}

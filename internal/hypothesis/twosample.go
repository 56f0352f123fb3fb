package hypothesis

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/rotisserie/eris"

	"github.com/sells-group/abtest-cli/internal/model"
)

// StudentT runs the independent two-sample t-test with pooled variance
// (df = n1 + n2 - 2), two-sided.
func StudentT(x1, x2 []float64) (model.TestResult, error) {
	if err := checkPair(x1, x2, 1); err != nil {
		return model.TestResult{}, eris.Wrap(err, "hypothesis: student t")
	}
	if len(x1)+len(x2) < 3 {
		return model.TestResult{}, eris.Wrap(ErrSampleSize, "hypothesis: student t needs at least 3 values in total")
	}
	res, err := stats.TwoSampleTTest(stats.Sample{Xs: x1}, stats.Sample{Xs: x2}, stats.LocationDiffers)
	if err != nil {
		return model.TestResult{}, eris.Wrap(translate(err), "hypothesis: student t")
	}
	return model.TestResult{
		Test:       "Student t (equal variances)",
		Hypothesis: NullEqualMeans,
		Statistic:  res.T,
		PValue:     res.P,
		DoF:        res.DoF,
	}, nil
}

// WelchT runs Welch's two-sample t-test, which does not pool variances.
func WelchT(x1, x2 []float64) (model.TestResult, error) {
	if err := checkPair(x1, x2, 2); err != nil {
		return model.TestResult{}, eris.Wrap(err, "hypothesis: welch t")
	}
	res, err := stats.TwoSampleWelchTTest(stats.Sample{Xs: x1}, stats.Sample{Xs: x2}, stats.LocationDiffers)
	if err != nil {
		return model.TestResult{}, eris.Wrap(translate(err), "hypothesis: welch t")
	}
	return model.TestResult{
		Test:       "Welch t",
		Hypothesis: NullEqualMeans,
		Statistic:  res.T,
		PValue:     res.P,
		DoF:        res.DoF,
	}, nil
}

// MannWhitneyU runs the two-sided Mann-Whitney U test. The statistic is
// U for x1: the number of pairs where the x1 value is larger, ties
// counting one half.
func MannWhitneyU(x1, x2 []float64) (model.TestResult, error) {
	if err := checkPair(x1, x2, 1); err != nil {
		return model.TestResult{}, eris.Wrap(err, "hypothesis: mann-whitney")
	}
	res, err := stats.MannWhitneyUTest(x1, x2, stats.LocationDiffers)
	if err != nil {
		return model.TestResult{}, eris.Wrap(translate(err), "hypothesis: mann-whitney")
	}
	return model.TestResult{
		Test:       "Mann-Whitney U",
		Hypothesis: NullSameLocation,
		Statistic:  res.U,
		PValue:     res.P,
	}, nil
}

// Compare runs the significance test m on the two samples.
func Compare(m Method, x1, x2 []float64) (model.TestResult, error) {
	switch m {
	case MethodStudent:
		return StudentT(x1, x2)
	case MethodWelch:
		return WelchT(x1, x2)
	case MethodMannWhitney:
		return MannWhitneyU(x1, x2)
	default:
		return model.TestResult{}, eris.Errorf("hypothesis: unknown test %q", m)
	}
}

func checkPair(x1, x2 []float64, minN int) error {
	if err := checkSample(x1, minN); err != nil {
		return eris.Wrap(err, "first sample")
	}
	if err := checkSample(x2, minN); err != nil {
		return eris.Wrap(err, "second sample")
	}
	return nil
}

// translate maps moremath errors onto this package's sentinels.
func translate(err error) error {
	switch err {
	case stats.ErrZeroVariance, stats.ErrSamplesEqual:
		return ErrZeroRange
	case stats.ErrSampleSize:
		return ErrSampleSize
	default:
		return err
	}
}

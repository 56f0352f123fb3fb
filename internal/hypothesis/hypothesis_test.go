package hypothesis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Purchase values of an eight-row excerpt of each cohort.
var (
	controlPurchase = []float64{665.21125, 315.08489, 458.08374, 487.09077, 441.03405, 601.33568, 520.45463, 563.51837}
	testPurchase    = []float64{382.04712, 449.82459, 472.45373, 425.35910, 521.31073, 702.16035, 834.05429, 422.93426}
)

// Datasets with published R results.
var (
	// Shapiro & Wilk (1965) weights example.
	weights = []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}
	// R datasets::women.
	womenHeight = []float64{58, 59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71, 72}
	womenWeight = []float64{115, 117, 120, 123, 126, 129, 132, 135, 139, 142, 146, 150, 154, 159, 164}
)

func TestShapiroWilk_Reference(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		w, p float64
	}{
		{"n=3", []float64{1, 2, 4}, 0.9642857, 0.6368868},
		{"n=4", []float64{2.1, 3.5, 3.9, 7.2}, 0.9119715, 0.4929097},
		{"n=5", []float64{1, 2, 3, 4, 10}, 0.8357883, 0.1536126},
		{"weights n=11", weights, 0.78881, 0.006704},
		{"women height n=15", womenHeight, 0.96359, 0.7545},
		{"women weight n=15", womenWeight, 0.96036, 0.6986},
		{"control purchase", controlPurchase, 0.9846994, 0.9823362},
		{"test purchase", testPurchase, 0.8195472, 0.0461551},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ShapiroWilk(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.w, res.Statistic, 1e-4)
			assert.InDelta(t, tt.p, res.PValue, 1e-4)
			assert.Equal(t, "Shapiro-Wilk", res.Test)
			assert.Equal(t, NullNormal, res.Hypothesis)
		})
	}
}

func TestShapiroWilk_OrderIndependent(t *testing.T) {
	reversed := make([]float64, len(weights))
	for i, v := range weights {
		reversed[len(weights)-1-i] = v
	}
	a, err := ShapiroWilk(weights)
	require.NoError(t, err)
	b, err := ShapiroWilk(reversed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 148.0, reversed[len(reversed)-1], "input must not be sorted in place")
}

func TestShapiroWilk_Errors(t *testing.T) {
	_, err := ShapiroWilk([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = ShapiroWilk([]float64{3, 3, 3, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroRange))

	_, err = ShapiroWilk([]float64{1, math.NaN(), 3, 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNaN))
}

func TestInfiniteValueRejected(t *testing.T) {
	withInf := []float64{1, 2, 3, math.Inf(1), 5}

	_, err := ShapiroWilk(withInf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))

	_, err = Levene(CenterMedian, withInf, testPurchase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))

	for _, m := range Methods {
		_, err = Compare(m, controlPurchase, []float64{math.Inf(-1), 4, 6})
		require.Error(t, err, string(m))
		assert.True(t, errors.Is(err, ErrNonFinite), "%s: got %v", m, err)
	}
}

func TestLevene_Reference(t *testing.T) {
	res, err := Levene(CenterMedian, controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.InDelta(t, 0.2372323, res.Statistic, 1e-6)
	assert.InDelta(t, 0.6337498, res.PValue, 1e-6)
	assert.Equal(t, "Levene (median)", res.Test)
	assert.Equal(t, NullEqualVariances, res.Hypothesis)

	res, err = Levene(CenterMean, controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.InDelta(t, 1.0096403, res.Statistic, 1e-6)
	assert.InDelta(t, 0.3320410, res.PValue, 1e-6)

	res, err = Levene(CenterMedian, womenHeight, womenWeight)
	require.NoError(t, err)
	assert.InDelta(t, 16.902350, res.Statistic, 1e-5)
	assert.InDelta(t, 0.000311614, res.PValue, 1e-8)
}

func TestLevene_ThreeGroups(t *testing.T) {
	res, err := Levene(CenterMedian, []float64{1, 2, 3}, []float64{4, 6, 9}, []float64{1, 1, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.2916667, res.Statistic, 1e-6)
	assert.InDelta(t, 0.7570354, res.PValue, 1e-6)
}

func TestLevene_Errors(t *testing.T) {
	_, err := Levene(CenterMedian, controlPurchase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = Levene(CenterMedian, []float64{1}, []float64{2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = Levene(CenterMedian, controlPurchase, nil)
	require.Error(t, err)

	_, err = Levene(CenterMean, []float64{1, 1}, []float64{5, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroRange))
}

func TestParseCenter(t *testing.T) {
	c, err := ParseCenter(" Median ")
	require.NoError(t, err)
	assert.Equal(t, CenterMedian, c)

	c, err = ParseCenter("mean")
	require.NoError(t, err)
	assert.Equal(t, CenterMean, c)

	_, err = ParseCenter("trimmed")
	require.Error(t, err)
}

func TestStudentT_Reference(t *testing.T) {
	res, err := StudentT(controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.InDelta(t, -0.2919378, res.Statistic, 1e-6)
	assert.InDelta(t, 0.7746155, res.PValue, 1e-5)
	assert.InDelta(t, 14, res.DoF, 1e-12)
	assert.Equal(t, NullEqualMeans, res.Hypothesis)

	res, err = StudentT(womenHeight, womenWeight)
	require.NoError(t, err)
	assert.InDelta(t, -17.22285, res.Statistic, 1e-4)
	assert.Less(t, res.PValue, 1e-10)
}

func TestStudentT_SymmetricInSign(t *testing.T) {
	a, err := StudentT(controlPurchase, testPurchase)
	require.NoError(t, err)
	b, err := StudentT(testPurchase, controlPurchase)
	require.NoError(t, err)
	assert.InDelta(t, -a.Statistic, b.Statistic, 1e-12)
	assert.InDelta(t, a.PValue, b.PValue, 1e-12)
}

func TestWelchT_Reference(t *testing.T) {
	res, err := WelchT(controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.InDelta(t, -0.2919378, res.Statistic, 1e-6)
	assert.InDelta(t, 0.7751892, res.PValue, 1e-5)
	assert.InDelta(t, 12.3268614, res.DoF, 1e-6)
}

func TestMannWhitneyU_Reference(t *testing.T) {
	res, err := MannWhitneyU(controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.Equal(t, 35.0, res.Statistic)
	assert.InDelta(t, 0.7984460, res.PValue, 1e-6)
	assert.Equal(t, NullSameLocation, res.Hypothesis)
}

func TestTwoSample_Errors(t *testing.T) {
	_, err := StudentT(nil, testPurchase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = StudentT([]float64{1}, []float64{2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = StudentT([]float64{2, 2}, []float64{2, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroRange))

	_, err = WelchT([]float64{1}, testPurchase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = MannWhitneyU([]float64{4, 4}, []float64{4, 4, 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroRange))

	_, err = MannWhitneyU(controlPurchase, []float64{math.NaN()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNaN))
}

func TestCompare_Dispatch(t *testing.T) {
	for _, m := range Methods {
		res, err := Compare(m, controlPurchase, testPurchase)
		require.NoError(t, err, m)
		assert.NotEmpty(t, res.Test, m)
	}

	student, err := Compare(MethodStudent, controlPurchase, testPurchase)
	require.NoError(t, err)
	direct, err := StudentT(controlPurchase, testPurchase)
	require.NoError(t, err)
	assert.Equal(t, direct, student)

	_, err = Compare(Method("anova"), controlPurchase, testPurchase)
	require.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("TTest")
	require.NoError(t, err)
	assert.Equal(t, MethodStudent, m)
	assert.True(t, m.Parametric())
	assert.True(t, m.PoolsVariance())

	m, err = ParseMethod("welch")
	require.NoError(t, err)
	assert.True(t, m.Parametric())
	assert.False(t, m.PoolsVariance())

	m, err = ParseMethod("mannwhitney")
	require.NoError(t, err)
	assert.False(t, m.Parametric())

	_, err = ParseMethod("kruskal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown test")
}

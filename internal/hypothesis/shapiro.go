package hypothesis

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/abtest-cli/internal/model"
)

// Polynomial coefficients of Royston's (1995) approximation (algorithm AS R94).
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// swSmallP is reported when W falls outside the small-sample approximation.
const swSmallP = 1e-99

// ShapiroWilk tests the null hypothesis that x was drawn from a normal
// distribution. It needs at least three values that are not all equal.
// The approximation is calibrated for n <= 5000.
func ShapiroWilk(x []float64) (model.TestResult, error) {
	if err := checkSample(x, 3); err != nil {
		return model.TestResult{}, eris.Wrap(err, "hypothesis: shapiro-wilk")
	}

	xs := append([]float64(nil), x...)
	sort.Float64s(xs)
	n := len(xs)
	if xs[n-1]-xs[0] == 0 {
		return model.TestResult{}, eris.Wrap(ErrZeroRange, "hypothesis: shapiro-wilk")
	}

	a := swCoefficients(n)
	var num float64
	for i, ai := range a {
		num += ai * (xs[n-1-i] - xs[i])
	}
	mean := stat.Mean(xs, nil)
	var ss float64
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	w := math.Min(num*num/ss, 1)

	return model.TestResult{
		Test:       "Shapiro-Wilk",
		Hypothesis: NullNormal,
		Statistic:  w,
		PValue:     swPValue(w, n),
	}, nil
}

// swCoefficients returns the first n/2 weights of the W statistic. The
// remaining weights are their mirror image with opposite sign.
func swCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	an25 := an + 0.25
	m := make([]float64, nn2)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swPValue(w float64, n int) float64 {
	if n == 3 {
		const stqr = math.Pi / 3 // asin(sqrt(3/4))
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return swSmallP
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		lx := math.Log(an)
		mu = poly(swC5, lx)
		sigma = math.Exp(poly(swC6, lx))
	}
	return distuv.UnitNormal.Survival((y - mu) / sigma)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

package analysis

import (
	"fmt"

	"github.com/sells-group/abtest-cli/internal/hypothesis"
	"github.com/sells-group/abtest-cli/internal/model"
)

// assumptionWarnings compares the assumption checks with the configured
// test. The configured test always runs; these only flag a mismatch for
// the operator.
func assumptionWarnings(m hypothesis.Method, r *model.AnalysisResult, alpha float64) []string {
	var out []string
	normal := true
	for _, n := range r.Normality {
		if n.Result.Reject(alpha) {
			normal = false
			if m.Parametric() {
				out = append(out, fmt.Sprintf("normality rejected for %s group (p=%.4f); consider test=mannwhitney", n.Group, n.Result.PValue))
			}
		}
	}

	equalVar := r.Variance == nil || !r.Variance.Reject(alpha)
	if !equalVar && m.PoolsVariance() && normal {
		out = append(out, fmt.Sprintf("variances differ (p=%.4f); consider test=welch", r.Variance.PValue))
	}
	if m == hypothesis.MethodMannWhitney && normal && equalVar {
		out = append(out, "normality and equal variances both hold; consider test=ttest")
	}
	return out
}

func warnDropped(n int, metric string) string {
	return fmt.Sprintf("dropped %d rows with missing %s", n, metric)
}

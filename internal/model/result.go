package model

import "time"

// TestResult is the outcome of one hypothesis test.
type TestResult struct {
	Test       string  `json:"test" yaml:"test"`
	Hypothesis string  `json:"null_hypothesis" yaml:"null_hypothesis"`
	Statistic  float64 `json:"statistic" yaml:"statistic"`
	PValue     float64 `json:"p_value" yaml:"p_value"`
	DoF        float64 `json:"dof,omitempty" yaml:"dof,omitempty"` // zero when the test has no degrees of freedom
}

// Reject reports whether the null hypothesis is rejected at level alpha.
func (r TestResult) Reject(alpha float64) bool {
	return r.PValue < alpha
}

// Verdict returns the conventional wording for the decision at alpha.
func (r TestResult) Verdict(alpha float64) string {
	if r.Reject(alpha) {
		return "reject H0"
	}
	return "fail to reject H0"
}

// ColumnStats is one row of a describe table.
type ColumnStats struct {
	Column    string    `json:"column" yaml:"column"`
	Count     int       `json:"count" yaml:"count"`
	Mean      float64   `json:"mean" yaml:"mean"`
	Std       float64   `json:"std" yaml:"std"`
	Min       float64   `json:"min" yaml:"min"`
	Max       float64   `json:"max" yaml:"max"`
	Quantiles []float64 `json:"quantiles" yaml:"quantiles"` // aligned with Summary.Percentiles
}

// Summary is the descriptive inspection of one table.
type Summary struct {
	Name        string            `json:"name" yaml:"name"`
	Rows        int               `json:"rows" yaml:"rows"`
	Cols        int               `json:"cols" yaml:"cols"`
	Columns     []string          `json:"columns" yaml:"columns"`
	Types       map[string]string `json:"types" yaml:"types"`
	Head        [][]string        `json:"head" yaml:"head"`
	Tail        [][]string        `json:"tail" yaml:"tail"`
	TailStart   int               `json:"tail_start" yaml:"tail_start"` // row index of Tail[0]
	Nulls       map[string]int    `json:"nulls" yaml:"nulls"`
	Percentiles []float64         `json:"percentiles" yaml:"percentiles"`
	Stats       []ColumnStats     `json:"stats" yaml:"stats"`
}

// GroupMean is the mean of the analysed metric within one cohort.
type GroupMean struct {
	Group Group   `json:"group" yaml:"group"`
	N     int     `json:"n" yaml:"n"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// NormalityCheck pairs a cohort with its normality test.
type NormalityCheck struct {
	Group  Group      `json:"group" yaml:"group"`
	Result TestResult `json:"result" yaml:"result"`
}

// AnalysisResult is everything a single analysis run reports.
type AnalysisResult struct {
	RunID        string           `json:"run_id" yaml:"run_id"`
	Source       string           `json:"source" yaml:"source"`
	Metric       string           `json:"metric" yaml:"metric"`
	Alpha        float64          `json:"alpha" yaml:"alpha"`
	StartedAt    time.Time        `json:"started_at" yaml:"started_at"`
	Summaries    []Summary        `json:"summaries" yaml:"summaries"`
	MergedRows   int              `json:"merged_rows" yaml:"merged_rows"`
	GroupMeans   []GroupMean      `json:"group_means" yaml:"group_means"`
	Normality    []NormalityCheck `json:"normality,omitempty" yaml:"normality,omitempty"`
	Variance     *TestResult      `json:"variance,omitempty" yaml:"variance,omitempty"`
	Significance *TestResult      `json:"significance,omitempty" yaml:"significance,omitempty"`
	Warnings     []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

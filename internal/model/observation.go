package model

// Group labels the bidding cohort an observation belongs to.
type Group string

const (
	// GroupControl is the maximum bidding cohort.
	GroupControl Group = "control"
	// GroupTest is the average bidding cohort.
	GroupTest Group = "test"
)

// Groups lists the cohorts in report order.
var Groups = []Group{GroupControl, GroupTest}

// Valid reports whether g is one of the known cohorts.
func (g Group) Valid() bool {
	return g == GroupControl || g == GroupTest
}

// Column names of a campaign sheet, plus the group label added after load.
const (
	ColImpression = "Impression"
	ColClick      = "Click"
	ColPurchase   = "Purchase"
	ColEarning    = "Earning"
	ColGroup      = "group"
)

// MetricColumns lists the numeric sheet columns in canonical order.
var MetricColumns = []string{ColImpression, ColClick, ColPurchase, ColEarning}

// IsMetricColumn reports whether name is one of MetricColumns.
func IsMetricColumn(name string) bool {
	for _, c := range MetricColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Observation is one row of a campaign sheet. Blank cells load as NaN.
type Observation struct {
	Impression float64 `json:"impression" yaml:"impression" dataframe:"Impression"` // ad views
	Click      float64 `json:"click" yaml:"click" dataframe:"Click"`                // ad clicks
	Purchase   float64 `json:"purchase" yaml:"purchase" dataframe:"Purchase"`       // purchases after a click
	Earning    float64 `json:"earning" yaml:"earning" dataframe:"Earning"`          // profit from purchases
}

// Set assigns the value of the named metric column. Unknown names are ignored.
func (o *Observation) Set(column string, v float64) {
	switch column {
	case ColImpression:
		o.Impression = v
	case ColClick:
		o.Click = v
	case ColPurchase:
		o.Purchase = v
	case ColEarning:
		o.Earning = v
	}
}

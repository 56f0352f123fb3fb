// Package datasettest builds campaign workbooks for tests.
package datasettest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/abtest-cli/internal/model"
)

// Default sheet names of the campaign workbook.
const (
	ControlSheet = "Control Group"
	TestSheet    = "Test Group"
)

// Header is the canonical header row.
var Header = []string{model.ColImpression, model.ColClick, model.ColPurchase, model.ColEarning}

// ControlRows and TestRows are an eight-row excerpt in the shape of the
// bidding campaign data (Impression, Click, Purchase, Earning).
var (
	ControlRows = [][]float64{
		{82529.45927, 6090.07732, 665.21125, 2311.27714},
		{98050.45193, 3382.86179, 315.08489, 1742.80686},
		{82696.02355, 4167.96575, 458.08374, 1797.82745},
		{109914.40040, 4910.88224, 487.09077, 1696.22918},
		{108457.76263, 5987.65581, 441.03405, 1543.72018},
		{77773.63390, 5235.53484, 601.33568, 2120.53427},
		{95110.58627, 4884.81468, 520.45463, 1815.00685},
		{106649.18301, 3961.52380, 563.51837, 2098.51209},
	}
	TestRows = [][]float64{
		{79234.91193, 6002.21358, 382.04712, 2277.86398},
		{130702.23941, 3626.32007, 449.82459, 2530.84133},
		{116481.87337, 4702.78247, 472.45373, 2597.91763},
		{79033.83492, 4495.42818, 425.35910, 2595.85788},
		{102257.45409, 4800.06832, 521.31073, 2967.51839},
		{120103.50380, 3216.54796, 702.16035, 1939.61124},
		{134775.94336, 3635.08242, 834.05429, 2929.40580},
		{107806.62079, 3057.14356, 422.93426, 2526.24496},
	}
)

// Sheet is the content of one worksheet. Header is written as strings,
// Rows as numeric cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]float64
}

// WriteWorkbook saves the sheets to a new XLSX file under t.TempDir and
// returns its path.
func WriteWorkbook(t *testing.T, sheets ...Sheet) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.Name)
		require.NoError(t, err)
		if s.Header != nil {
			row := sheet.AddRow()
			for _, h := range s.Header {
				row.AddCell().SetString(h)
			}
		}
		for _, values := range s.Rows {
			row := sheet.AddRow()
			for _, v := range values {
				row.AddCell().SetFloat(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "ab_testing.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

// WriteRaw saves sheets whose cells are all given as strings. Use it for
// malformed inputs.
func WriteRaw(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, values := range rows {
			row := sheet.AddRow()
			for _, v := range values {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

// CampaignWorkbook writes the default control and test excerpt.
func CampaignWorkbook(t *testing.T) string {
	t.Helper()
	return WriteWorkbook(t,
		Sheet{Name: ControlSheet, Header: Header, Rows: ControlRows},
		Sheet{Name: TestSheet, Header: Header, Rows: TestRows},
	)
}

// Column extracts column j of rows.
func Column(rows [][]float64, j int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[j]
	}
	return out
}

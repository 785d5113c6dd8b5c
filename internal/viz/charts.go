package viz

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/urbansense/siteimpact/internal/timeseries"
)

const timestampLayout = "2006-01-02 15:04"

// RenderCorrelation writes an HTML heatmap of the pairwise correlation
// matrix. Cells without enough overlapping data render as gaps.
func RenderCorrelation(w io.Writer, m *timeseries.CorrelationMatrix) error {
	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Variable Correlation", Width: "1200px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Pairwise Correlation", Subtitle: fmt.Sprintf("%d variables", len(m.Columns))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 90}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Columns}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#ffffbf", "#a50026"}},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(m.Columns)*len(m.Columns))
	for i := range m.Columns {
		for j := range m.Columns {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, round3(r)}})
		}
	}

	heatmap.SetXAxis(m.Columns).AddSeries("correlation", data)
	return heatmap.Render(w)
}

// RenderDecomposition writes an HTML page with one line chart per
// decomposition component, sharing the time axis.
func RenderDecomposition(w io.Writer, d *timeseries.DecompositionResult) error {
	page := components.NewPage()
	page.PageTitle = "Journey Time Decomposition"

	names, series := d.Components()
	for _, name := range names {
		page.AddCharts(componentChart(name, d.Index, series[name]))
	}
	return page.Render(w)
}

// RenderSeasonalProfiles writes an HTML page with one chart per seasonal
// component showing a single cycle, phase position on the x axis.
func RenderSeasonalProfiles(w io.Writer, d *timeseries.DecompositionResult) error {
	page := components.NewPage()
	page.PageTitle = "Seasonal Profiles"

	for _, label := range d.SeasonalLabels {
		period := d.Periods[label]
		values := d.Seasonal[label]
		if period <= 0 || len(values) < period {
			continue
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "300px"}),
			charts.WithTitleOpts(opts.Title{Title: label + " profile", Subtitle: fmt.Sprintf("%d buckets per cycle", period)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		)

		phases := make([]string, period)
		for i := range phases {
			phases[i] = fmt.Sprintf("%d", i)
		}
		line.SetXAxis(phases)
		line.AddSeries(label, lineData(values[:period]))
		page.AddCharts(line)
	}

	return page.Render(w)
}

// RenderSeries writes an HTML line chart of selected wide-table columns,
// typically the cleaned series around the scenario dates.
func RenderSeries(w io.Writer, title string, ws *timeseries.WideSeries, columns []string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1400px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(formatIndex(ws.Index))
	for _, name := range columns {
		values, ok := ws.Column(name)
		if !ok {
			continue
		}
		line.AddSeries(name, lineData(values), charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}
	return line.Render(w)
}

// WriteReport renders every chart into dir as standalone HTML files.
// Components that were not produced this run are skipped.
func WriteReport(dir string, corr *timeseries.CorrelationMatrix, decomp *timeseries.DecompositionResult, cleaned *timeseries.WideSeries, seriesColumns []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if corr != nil {
		if err := renderToFile(filepath.Join(dir, "correlation.html"), func(w io.Writer) error {
			return RenderCorrelation(w, corr)
		}); err != nil {
			return err
		}
	}

	if decomp != nil {
		if err := renderToFile(filepath.Join(dir, "decomposition.html"), func(w io.Writer) error {
			return RenderDecomposition(w, decomp)
		}); err != nil {
			return err
		}
		if err := renderToFile(filepath.Join(dir, "seasonal_profiles.html"), func(w io.Writer) error {
			return RenderSeasonalProfiles(w, decomp)
		}); err != nil {
			return err
		}
	}

	if cleaned != nil && len(seriesColumns) > 0 {
		if err := renderToFile(filepath.Join(dir, "series.html"), func(w io.Writer) error {
			return RenderSeries(w, "Cleaned Series", cleaned, seriesColumns)
		}); err != nil {
			return err
		}
	}

	return nil
}

func renderToFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func componentChart(name string, index []time.Time, values []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1400px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(formatIndex(index))
	line.AddSeries(name, lineData(values))
	return line
}

func formatIndex(index []time.Time) []string {
	out := make([]string, len(index))
	for i, t := range index {
		out[i] = t.Format(timestampLayout)
	}
	return out
}

// lineData maps nulls to "-" so echarts draws a gap instead of zero.
func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = opts.LineData{Value: "-"}
			continue
		}
		out[i] = opts.LineData{Value: round3(v)}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

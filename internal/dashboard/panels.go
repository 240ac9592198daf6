package dashboard

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rewired-gh/churnlens/internal/models"
)

func newPlot(title string, s Style) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.BackgroundColor = s.Background
	return p
}

func noBorder(clr color.Color) draw.LineStyle {
	return draw.LineStyle{Color: clr, Width: 0}
}

func dashed(clr color.Color) draw.LineStyle {
	return draw.LineStyle{
		Color:  clr,
		Width:  vg.Points(2),
		Dashes: []vg.Length{vg.Points(6), vg.Points(4)},
	}
}

// valueLabel places txt just above (or right of, when horizontal) a bar end
func valueLabel(x, y float64, txt string, horizontal bool) (*plotter.Labels, error) {
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{txt},
	})
	if err != nil {
		return nil, err
	}
	if horizontal {
		l.TextStyle[0].YAlign = draw.YCenter
		l.Offset = vg.Point{X: vg.Points(4)}
	} else {
		l.TextStyle[0].XAlign = draw.XCenter
		l.Offset = vg.Point{Y: vg.Points(3)}
	}
	return l, nil
}

func donutPanel(o Overview, s Style) *plot.Plot {
	p := newPlot("Customer Churn Distribution", s)
	p.HideAxes()
	p.Add(&donut{
		Slices: []slice{
			{Label: "Retained", Value: float64(o.Retained), Color: s.Primary},
			{Label: "Churned", Value: float64(o.Churned), Color: s.Accent},
		},
		Hole: 0.55,
		Text: color.White,
	})
	return p
}

// Overview is the part of the dataset summary the donut needs
type Overview struct {
	Churned  int
	Retained int
}

// ratePanel draws churn rate per category in percent. Bars above the style
// threshold use the accent color.
func ratePanel(title, xlabel string, rates []models.CategoryRate, s Style) (*plot.Plot, error) {
	p := newPlot(title, s)
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Churn Rate (%)"
	if len(rates) == 0 {
		return p, nil
	}

	names := make([]string, len(rates))
	peak := 0.0
	for i, r := range rates {
		names[i] = r.Value
		pct := r.Rate * 100
		peak = math.Max(peak, pct)

		bar, err := plotter.NewBarChart(plotter.Values{pct}, vg.Points(48))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar for %s: %w", r.Value, err)
		}
		bar.XMin = float64(i)
		bar.Color = s.Primary
		if pct > s.Threshold {
			bar.Color = s.Accent
		}
		bar.LineStyle = noBorder(bar.Color)
		p.Add(bar)

		label, err := valueLabel(float64(i), pct, fmt.Sprintf("%.1f%%", pct), false)
		if err != nil {
			return nil, err
		}
		p.Add(label)
	}

	threshold, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: s.Threshold},
		{X: float64(len(rates)) - 0.5, Y: s.Threshold},
	})
	if err != nil {
		return nil, err
	}
	threshold.LineStyle = dashed(s.Muted)
	threshold.LineStyle.Width = vg.Points(1)
	p.Add(threshold)

	p.NominalX(names...)
	p.Y.Min = 0
	p.Y.Max = 1.25 * math.Max(peak, s.Threshold)
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}
	return p, nil
}

// histogramBins counts values into bins equal-width intervals of [lo, hi]
func histogramBins(values []float64, lo, hi float64, bins int) []plotter.HistogramBin {
	width := (hi - lo) / float64(bins)
	out := make([]plotter.HistogramBin, bins)
	for i := range out {
		out[i].Min = lo + float64(i)*width
		out[i].Max = lo + float64(i+1)*width
	}
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Weight++
	}
	return out
}

// Group is one churn status worth of a numeric attribute
type Group struct {
	Label  string
	Values []float64
}

// tenurePanel overlays one histogram per group on shared bins and marks each
// group's mean with a dashed line.
func tenurePanel(groups []Group, colors []color.Color, s Style) (*plot.Plot, error) {
	p := newPlot("Tenure Distribution by Churn Status", s)
	p.X.Label.Text = "Tenure (months)"
	p.Y.Label.Text = "Customers"
	p.Legend.Top = true

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return p, nil
	}
	if hi == lo {
		hi = lo + 1
	}

	peak := 0.0
	hists := make([]*plotter.Histogram, len(groups))
	for i, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		h := &plotter.Histogram{
			Bins:      histogramBins(g.Values, lo, hi, s.HistogramBins),
			Width:     (hi - lo) / float64(s.HistogramBins),
			FillColor: fade(colors[i], 150),
			LineStyle: noBorder(colors[i]),
		}
		for _, b := range h.Bins {
			peak = math.Max(peak, b.Weight)
		}
		hists[i] = h
		p.Add(h)
	}

	for i, g := range groups {
		if hists[i] == nil {
			continue
		}
		mean := stat.Mean(g.Values, nil)
		line, err := plotter.NewLine(plotter.XYs{{X: mean, Y: 0}, {X: mean, Y: peak}})
		if err != nil {
			return nil, err
		}
		line.LineStyle = dashed(colors[i])
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (mean %.1f mo)", g.Label, mean), hists[i])
	}
	return p, nil
}

// chargesPanel draws one box per group. Empty groups are left out.
func chargesPanel(groups []Group, colors []color.Color, s Style) (*plot.Plot, error) {
	p := newPlot("Monthly Charges by Churn Status", s)
	p.Y.Label.Text = "Monthly Charges ($)"

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Label
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(60), float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("failed to build box for %s: %w", g.Label, err)
		}
		box.FillColor = fade(colors[i], 180)
		p.Add(box)
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}
	return p, nil
}

// importancePanel draws the strongest features as horizontal bars, best on top.
// The first three use the accent color.
func importancePanel(importances []models.FeatureImportance, s Style) (*plot.Plot, error) {
	p := newPlot("Top Churn Predictors (Feature Importance)", s)
	p.X.Label.Text = "Importance"

	k := min(s.TopFeatures, len(importances))
	if k == 0 {
		return p, nil
	}

	names := make([]string, k)
	peak := 0.0
	for i, fi := range importances[:k] {
		pos := k - 1 - i
		names[pos] = fi.Feature
		peak = math.Max(peak, fi.Score)

		bar, err := plotter.NewBarChart(plotter.Values{fi.Score}, vg.Points(22))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar for %s: %w", fi.Feature, err)
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = s.Primary
		if i < 3 {
			bar.Color = s.Accent
		}
		bar.LineStyle = noBorder(bar.Color)
		p.Add(bar)

		label, err := valueLabel(fi.Score, float64(pos), fmt.Sprintf("%.3f", fi.Score), true)
		if err != nil {
			return nil, err
		}
		p.Add(label)
	}

	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = 1.2 * peak
	if p.X.Max == 0 {
		p.X.Max = 1
	}
	return p, nil
}

func confusionPanel(cm models.ConfusionMatrix, auc float64, s Style) *plot.Plot {
	p := newPlot(fmt.Sprintf("Confusion Matrix (AUC = %.3f)", auc), s)
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"
	p.Add(&matrix{Cells: cm.Cells(), Low: color.White, High: s.Primary})
	p.NominalX("Retained", "Churned")
	p.NominalY("Churned", "Retained")
	return p
}

// Package dashboard renders the churn report as a single PNG: seven panels laid
// out on a 3x3 grid under a title line.
//
//	| distribution | by contract   | by internet |
//	| tenure histogram (2 cols)    | charges box |
//	| feature importance (2 cols)  | confusion   |
package dashboard

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/rewired-gh/churnlens/internal/models"
)

// Input is the data shown on the dashboard
type Input struct {
	Customers   int
	Overview    Overview
	ByContract  []models.CategoryRate
	ByInternet  []models.CategoryRate
	Tenure      []Group // retained, churned
	Charges     []Group // retained, churned
	Importances []models.FeatureImportance
	Confusion   models.ConfusionMatrix
	AUC         float64
}

const (
	rows       = 3
	cols       = 3
	titleSpace = vg.Length(0.6 * vg.Inch)
	cellMargin = vg.Length(0.15 * vg.Inch)
)

// cell returns the canvas of grid cell (row, col) spanning span columns. Row 0 is the top.
func cell(dc draw.Canvas, row, col, span int) draw.Canvas {
	area := dc.Rectangle
	area.Max.Y -= titleSpace

	w := (area.Max.X - area.Min.X) / cols
	h := (area.Max.Y - area.Min.Y) / rows

	minPt := vg.Point{
		X: area.Min.X + w*vg.Length(col),
		Y: area.Max.Y - h*vg.Length(row+1),
	}
	maxPt := vg.Point{X: minPt.X + w*vg.Length(span), Y: minPt.Y + h}

	c := draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{Min: minPt, Max: maxPt}}
	return draw.Crop(c, cellMargin, -cellMargin, cellMargin, -cellMargin)
}

// Render draws the dashboard onto a new image canvas
func Render(in Input, s Style) (*vgimg.Canvas, error) {
	if s.Width <= 0 || s.Height <= 0 || s.DPI <= 0 {
		return nil, fmt.Errorf("invalid canvas size %vx%v at %d dpi", s.Width, s.Height, s.DPI)
	}
	if s.HistogramBins <= 0 {
		return nil, fmt.Errorf("histogram bins must be positive, got %d", s.HistogramBins)
	}

	groupColors := []color.Color{s.Primary, s.Accent}

	contract, err := ratePanel("Churn Rate by Contract Type", "Contract", in.ByContract, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract panel: %w", err)
	}
	internet, err := ratePanel("Churn Rate by Internet Service", "Internet Service", in.ByInternet, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build internet panel: %w", err)
	}
	tenure, err := tenurePanel(in.Tenure, groupColors, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenure panel: %w", err)
	}
	charges, err := chargesPanel(in.Charges, groupColors, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build charges panel: %w", err)
	}
	importance, err := importancePanel(in.Importances, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build importance panel: %w", err)
	}

	panels := []struct {
		plot           *plot.Plot
		row, col, span int
	}{
		{donutPanel(in.Overview, s), 0, 0, 1},
		{contract, 0, 1, 1},
		{internet, 0, 2, 1},
		{tenure, 1, 0, 2},
		{charges, 1, 2, 1},
		{importance, 2, 0, 2},
		{confusionPanel(in.Confusion, in.AUC, s), 2, 2, 1},
	}

	img := vgimg.NewWith(
		vgimg.UseWH(s.Width, s.Height),
		vgimg.UseDPI(s.DPI),
		vgimg.UseBackgroundColor(s.Background),
	)
	dc := draw.New(img)

	if s.Title != "" {
		title := fmt.Sprintf("%s (%s customers)", s.Title, humanize.Comma(int64(in.Customers)))
		sty := textStyle(22, color.Black)
		sty.YAlign = draw.YTop
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - titleSpace/4}, title)
	}

	for _, p := range panels {
		p.plot.Draw(cell(dc, p.row, p.col, p.span))
	}
	return img, nil
}

// Write renders the dashboard as PNG to w
func Write(w io.Writer, in Input, s Style) error {
	img, err := Render(in, s)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Save renders the dashboard to path. The image is written to a temporary file in
// the same directory and renamed into place.
func Save(path string, in Input, s Style) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := Write(tmp, in, s); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

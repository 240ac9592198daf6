package dashboard

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func textStyle(size float64, clr color.Color) draw.TextStyle {
	return draw.TextStyle{
		Color:   clr,
		Font:    font.From(plot.DefaultFont, vg.Points(size)),
		Handler: plot.DefaultTextHandler,
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
	}
}

// slice is one wedge of a donut
type slice struct {
	Label string
	Value float64
	Color color.Color
}

// donut draws a ring chart filling the data area. It ignores the plot axes.
type donut struct {
	Slices []slice
	Hole   float64 // inner radius as a fraction of the outer radius
	Text   color.Color
}

func (d *donut) Plot(c draw.Canvas, _ *plot.Plot) {
	var total float64
	for _, s := range d.Slices {
		total += s.Value
	}
	if total <= 0 {
		return
	}

	center := c.Center()
	outer := min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2 * 0.8
	inner := outer * vg.Length(d.Hole)

	// start at twelve o'clock and run counterclockwise
	angle := math.Pi / 2
	for _, s := range d.Slices {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / total
		c.FillPolygon(s.Color, wedge(center, inner, outer, angle, sweep))

		mid := angle + sweep/2
		pct := strconv.FormatFloat(100*s.Value/total, 'f', 1, 64) + "%"
		c.FillText(textStyle(12, d.Text), polar(center, (inner+outer)/2, mid), pct)
		c.FillText(textStyle(12, color.Black), polar(center, outer*1.15, mid),
			fmt.Sprintf("%s (%d)", s.Label, int(s.Value)))

		angle += sweep
	}
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

// wedge returns the outline of a ring segment
func wedge(center vg.Point, inner, outer vg.Length, start, sweep float64) []vg.Point {
	steps := max(int(math.Ceil(sweep/(2*math.Pi)*180)), 2)
	pts := make([]vg.Point, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		pts = append(pts, polar(center, outer, start+sweep*float64(i)/float64(steps)))
	}
	for i := steps; i >= 0; i-- {
		pts = append(pts, polar(center, inner, start+sweep*float64(i)/float64(steps)))
	}
	return pts
}

// matrix draws a 2x2 grid of counts centered on the integer coordinates 0 and 1.
// Row 0 of Cells is drawn at the top.
type matrix struct {
	Cells [2][2]int
	Low   color.Color
	High  color.Color
}

func (m *matrix) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	peak := 0
	for _, row := range m.Cells {
		for _, v := range row {
			peak = max(peak, v)
		}
	}

	for r, row := range m.Cells {
		y := float64(1 - r)
		for col, v := range row {
			x := float64(col)
			t := 0.0
			if peak > 0 {
				t = float64(v) / float64(peak)
			}

			pts := []vg.Point{
				{X: trX(x - 0.5), Y: trY(y - 0.5)},
				{X: trX(x + 0.5), Y: trY(y - 0.5)},
				{X: trX(x + 0.5), Y: trY(y + 0.5)},
				{X: trX(x - 0.5), Y: trY(y + 0.5)},
			}
			c.FillPolygon(mix(m.Low, m.High, t), pts)

			txt := color.Color(color.Black)
			if t > 0.5 {
				txt = color.White
			}
			c.FillText(textStyle(16, txt), vg.Point{X: trX(x), Y: trY(y)}, strconv.Itoa(v))
		}
	}
}

func (m *matrix) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -0.5, 1.5, -0.5, 1.5
}

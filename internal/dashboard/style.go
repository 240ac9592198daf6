package dashboard

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/rewired-gh/churnlens/internal/config"
)

// Style is the explicit look of the dashboard. Every panel reads its colors and
// limits from here; nothing is taken from package state.
type Style struct {
	Title         string
	Width, Height vg.Length
	DPI           int

	Background color.Color
	Primary    color.Color // retained customers, regular bars
	Accent     color.Color // churned customers, highlighted bars
	Muted      color.Color // reference lines and secondary text

	Threshold     float64 // churn rate in percent above which a bar is highlighted
	TopFeatures   int
	HistogramBins int
}

// NewStyle builds a Style from the dashboard configuration
func NewStyle(cfg config.DashboardConfig) (Style, error) {
	s := Style{
		Title:         cfg.Title,
		Width:         vg.Length(cfg.Width) * vg.Inch,
		Height:        vg.Length(cfg.Height) * vg.Inch,
		DPI:           cfg.DPI,
		Threshold:     cfg.Threshold,
		TopFeatures:   cfg.TopFeatures,
		HistogramBins: cfg.HistogramBins,
	}

	var err error
	for _, c := range []struct {
		name string
		hex  string
		dst  *color.Color
	}{
		{"background", cfg.Background, &s.Background},
		{"primary", cfg.Primary, &s.Primary},
		{"accent", cfg.Accent, &s.Accent},
		{"muted", cfg.Muted, &s.Muted},
	} {
		if *c.dst, err = ParseHexColor(c.hex); err != nil {
			return Style{}, fmt.Errorf("invalid %s color: %w", c.name, err)
		}
	}
	return s, nil
}

// ParseHexColor parses "#rgb" or "#rrggbb"
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// fade returns c with alpha a
func fade(c color.Color, a uint8) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

// mix blends from towards to by t in [0,1]
func mix(from, to color.Color, t float64) color.RGBA {
	fr, fg, fb, _ := from.RGBA()
	tr, tg, tb, _ := to.RGBA()
	lerp := func(a, b uint32) uint8 {
		return uint8((float64(a) + (float64(b)-float64(a))*t) / 257)
	}
	return color.RGBA{R: lerp(fr, tr), G: lerp(fg, tg), B: lerp(fb, tb), A: 0xff}
}

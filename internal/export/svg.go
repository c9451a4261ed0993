// Package export renders stored trajectories as standalone SVG line plots.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// Plot configures an SVG line plot.
type Plot struct {
	Width, Height int
	Stroke        string
	// LogX spaces the x axis logarithmically. All x must be positive.
	LogX  bool
	Title string
}

func DefaultPlot() Plot {
	return Plot{Width: 800, Height: 400, Stroke: "#00ff00", LogX: true}
}

// WriteSVG draws ys against xs. Non-finite y values break the line.
func WriteSVG(w io.Writer, xs, ys []float64, p Plot) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values, %d y values", dynamo.ErrDimensionMismatch, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", dynamo.ErrParameterBounds, len(xs))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", dynamo.ErrParameterBounds, p.Width, p.Height)
	}

	tx := func(x float64) float64 { return x }
	if p.LogX {
		for _, x := range xs {
			if !(x > 0) {
				return fmt.Errorf("%w: log axis needs positive x, got %g", dynamo.ErrParameterBounds, x)
			}
		}
		tx = math.Log10
	}

	minX, maxX := tx(xs[0]), tx(xs[0])
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x := tx(xs[i])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		if y := ys[i]; !math.IsNaN(y) && !math.IsInf(y, 0) {
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = math.Max(math.Abs(maxY), 1)
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	width, height := float64(p.Width), float64(p.Height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, p.Width, p.Height, p.Width, p.Height)

	if minY < 0 && minY+rangeY > 0 {
		y0 := height - (0-minY)/rangeY*height
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-dasharray="4 4"/>
`, y0, p.Width, y0)
	}
	if p.Title != "" {
		fmt.Fprintf(&sb, `<text x="10" y="20" fill="#cccccc" font-family="monospace" font-size="14">%s</text>
`, escape(p.Title))
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, p.Stroke)
	pen, started := false, false
	for i := range xs {
		y := ys[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			pen = false
			continue
		}
		px := (tx(xs[i]) - minX) / rangeX * width
		py := height - (y-minY)/rangeY*height
		if pen {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
		} else {
			if started {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", px, py)
			pen, started = true, true
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

package report

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/quadlab/internal/convergence"
)

type point struct{ X, Y float64 }

// PassesToSVG draws log10|diff1| against log2(n), one polyline per pass.
// Rows with a zero error are skipped.
func PassesToSVG(passes []*convergence.Pass, width, height int) string {
	lines := make([][]point, len(passes))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range passes {
		for _, r := range p.Rows {
			y := math.Log10(math.Abs(r.Diff1))
			if math.IsInf(y, 0) || math.IsNaN(y) {
				continue
			}
			x := math.Log2(float64(r.N))
			lines[i] = append(lines[i], point{x, y})
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, pts := range lines {
		if len(pts) == 0 {
			continue
		}
		color := seriesColors[i%len(seriesColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range pts {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), color, html.EscapeString(passes[i].Rule)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

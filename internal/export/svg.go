package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/viz"
	"github.com/soypat/geometry/md3"
)

const background = "#0a0a0a"

// CanvasToSVG converts a braille canvas to an SVG of filled dots, each dot
// taking scale pixels.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}
	w, h := canvas.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, theme.Primary)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the samples as a vector path seen through cam, with
// the central body outlined when bodyRadius > 0. The first sample is marked
// with the accent color.
func TrajectoryToSVG(samples []orbit.Sample, cam viz.Camera, bodyRadius float64, width, height int, theme viz.Theme) string {
	if len(samples) < 2 {
		return ""
	}

	extent := math.Max(viz.Extent(samples), bodyRadius) * 1.1
	scale := cam.Zoom * float64(min(width, height)) / (2 * extent)
	ox, oy := float64(width)/2, float64(height)/2
	project := func(v md3.Vec) (float64, float64) {
		r := cam.View(v)
		return ox + r.X*scale, oy - r.Y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	if bodyRadius > 0 {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"none\" stroke=\"%s\"/>\n",
			ox, oy, bodyRadius*scale, theme.Muted)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, theme.Primary)
	for i, s := range samples {
		x, y := project(s.Position)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	x0, y0 := project(samples[0].Position)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x0, y0, theme.Accent)
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes the trajectory of h to path.
func WriteSVG(path string, h *orbit.History, cam viz.Camera, bodyRadius float64, width, height int, theme viz.Theme) error {
	svg := TrajectoryToSVG(h.Samples(), cam, bodyRadius, width, height, theme)
	if svg == "" {
		return fmt.Errorf("export svg: %w: need at least two samples", orbit.ErrInvalidArgument)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

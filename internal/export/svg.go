// Package export renders recorded link trajectories as standalone SVG
// files.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigsim/internal/storage"
	"github.com/san-kum/rigsim/internal/viz"
)

var pathColors = []string{
	"#00ff00", "#00bfff", "#ff6347", "#ffd700", "#da70d6", "#7fffd4",
}

// PathSVG draws the world XZ path of each given link as one polyline per
// link. All links share one coordinate window so relative motion stays
// visible; an empty link list selects every link in the run.
func PathSVG(tr *storage.Trajectory, links []string, width, height int) (string, error) {
	if len(tr.Poses) < 2 {
		return "", fmt.Errorf("export: need at least 2 samples, got %d", len(tr.Poses))
	}
	if len(links) == 0 {
		links = tr.Links
	}

	type path struct {
		name string
		xs   []float64
		zs   []float64
	}

	paths := make([]path, 0, len(links))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, l := range links {
		xs, err := viz.Series(tr, l, 0)
		if err != nil {
			return "", err
		}
		zs, err := viz.Series(tr, l, 2)
		if err != nil {
			return "", err
		}
		for i := range xs {
			minX = math.Min(minX, xs[i])
			maxX = math.Max(maxX, xs[i])
			minZ = math.Min(minZ, zs[i])
			maxZ = math.Max(maxZ, zs[i])
		}
		paths = append(paths, path{name: l, xs: xs, zs: zs})
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeX = maxX - minX
	rangeZ = maxZ - minZ

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, p := range paths {
		color := pathColors[i%len(pathColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j := range p.xs {
			x := (p.xs[j] - minX) / rangeX * float64(width)
			y := float64(height) - (p.zs[j]-minZ)/rangeZ*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(fmt.Sprintf(`"><title>%s</title></path>`, p.name))
		sb.WriteString("\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigsim/internal/storage"
)

// Series extracts one position component per recorded step for a link.
// Axis 0, 1, 2 selects world x, y, z.
func Series(tr *storage.Trajectory, link string, axis int) ([]float64, error) {
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("viz: axis %d out of range", axis)
	}
	col := -1
	for i, l := range tr.Links {
		if l == link {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("viz: link %q not in run", link)
	}
	out := make([]float64, len(tr.Poses))
	for i, row := range tr.Poses {
		out[i] = row[col].Pos[axis]
	}
	return out, nil
}

// Chart renders a series as an ascii line chart.
func Chart(series []float64, caption string, width, height int) string {
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

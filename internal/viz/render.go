package viz

import (
	"sort"

	"github.com/san-kum/rigsim/internal/rig"
)

// Renderer projects link positions onto the world XZ plane and draws them
// on a braille canvas: one marker per link plus a ground line at z = 0.
// The window only ever grows, so the view stays steady while bodies move.
type Renderer struct {
	Width, Height int
	XMin, XMax    float64
	ZMin, ZMax    float64
}

func NewRenderer() *Renderer {
	return &Renderer{
		Width: 72, Height: 22,
		XMin: -3, XMax: 3,
		ZMin: -0.5, ZMax: 4.5,
	}
}

// Fit widens the window to keep every given pose in view with a margin.
func (r *Renderer) Fit(poses map[string]rig.Pose) {
	const margin = 0.5
	for _, p := range poses {
		if p.Pos[0]-margin < r.XMin {
			r.XMin = p.Pos[0] - margin
		}
		if p.Pos[0]+margin > r.XMax {
			r.XMax = p.Pos[0] + margin
		}
		if p.Pos[2]-margin < r.ZMin {
			r.ZMin = p.Pos[2] - margin
		}
		if p.Pos[2]+margin > r.ZMax {
			r.ZMax = p.Pos[2] + margin
		}
	}
}

func (r *Renderer) Render(poses map[string]rig.Pose) string {
	c := NewCanvas(r.Width, r.Height)

	if gy, ok := r.dotY(0); ok {
		for x := 0; x < r.Width*2; x++ {
			c.Set(x, gy)
		}
	}

	names := make([]string, 0, len(poses))
	for name := range poses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := poses[name]
		x, okX := r.dotX(p.Pos[0])
		y, okY := r.dotY(p.Pos[2])
		if okX && okY {
			marker(c, x, y)
		}
	}
	return c.String()
}

func (r *Renderer) dotX(x float64) (int, bool) {
	if x < r.XMin || x > r.XMax {
		return 0, false
	}
	w := float64(r.Width*2 - 1)
	return int((x - r.XMin) / (r.XMax - r.XMin) * w), true
}

func (r *Renderer) dotY(z float64) (int, bool) {
	if z < r.ZMin || z > r.ZMax {
		return 0, false
	}
	h := float64(r.Height*4 - 1)
	return int((r.ZMax - z) / (r.ZMax - r.ZMin) * h), true
}

// marker draws a small plus so single links stay visible at braille
// resolution.
func marker(c *Canvas, x, y int) {
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}

package layout

import "github.com/matzehuels/archgraph/pkg/arch"

// Viewport is the pan/zoom state of the rendering surface.
// X and Y are the screen-space offset of the graph origin.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// ToGraph converts a screen-space point to graph space. A zoom of zero or
// less is treated as 1.
func (v Viewport) ToGraph(screen arch.Position) arch.Position {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return arch.Position{
		X: (screen.X - v.X) / zoom,
		Y: (screen.Y - v.Y) / zoom,
	}
}

// ToScreen converts a graph-space point to screen space.
func (v Viewport) ToScreen(p arch.Position) arch.Position {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return arch.Position{
		X: p.X*zoom + v.X,
		Y: p.Y*zoom + v.Y,
	}
}

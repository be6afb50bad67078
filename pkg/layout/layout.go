package layout

import "github.com/matzehuels/archgraph/pkg/arch"

// Default spacing for layered layouts, in graph-space units.
const (
	DefaultStartX            = 100.0
	DefaultStartY            = 300.0
	DefaultHorizontalSpacing = 300.0
	DefaultVerticalSpacing   = 150.0
)

// Config places layers at fixed horizontal intervals and centres each
// layer's nodes vertically around StartY.
type Config struct {
	StartX            float64 `json:"startX" toml:"start_x"`
	StartY            float64 `json:"startY" toml:"start_y"`
	HorizontalSpacing float64 `json:"horizontalSpacing" toml:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"verticalSpacing" toml:"vertical_spacing"`
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		StartX:            DefaultStartX,
		StartY:            DefaultStartY,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
	}
}

// Position returns the coordinate of the node at index within a layer of
// size nodes:
//
//	x = StartX + layer*HorizontalSpacing
//	y = StartY + (index - (size-1)/2) * VerticalSpacing
//
// A layer of n nodes spans (n-1)*VerticalSpacing, centred on StartY. Sizes
// below one are treated as one.
func (c Config) Position(layer, index, size int) arch.Position {
	if size < 1 {
		size = 1
	}
	offset := float64(index) - float64(size-1)/2
	return arch.Position{
		X: c.StartX + float64(layer)*c.HorizontalSpacing,
		Y: c.StartY + offset*c.VerticalSpacing,
	}
}

// Layers is an ordered layer assignment: Layers[i] lists the node IDs of
// layer i, top to bottom.
type Layers [][]string

// Add appends id to layer, growing the assignment as needed.
func (l *Layers) Add(layer int, id string) {
	for len(*l) <= layer {
		*l = append(*l, nil)
	}
	(*l)[layer] = append((*l)[layer], id)
}

// Size returns the number of nodes in layer, or 0 if the layer is absent.
func (l Layers) Size(layer int) int {
	if layer < 0 || layer >= len(l) {
		return 0
	}
	return len(l[layer])
}

// Apply writes a position for every node listed in layers. IDs that do not
// resolve to a node in g are skipped; nodes not listed keep their position.
func (c Config) Apply(g *arch.Graph, layers Layers) {
	for layer, ids := range layers {
		for i, id := range ids {
			if n, ok := g.Node(id); ok {
				n.Position = c.Position(layer, i, len(ids))
			}
		}
	}
}

// Relayout assigns layers from the edges of g and positions every
// non-group node accordingly.
func (c Config) Relayout(g *arch.Graph) Layers {
	layers := AssignLayers(g)
	c.Apply(g, layers)
	return layers
}

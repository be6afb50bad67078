package layout

import "github.com/matzehuels/archgraph/pkg/arch"

// AssignLayers assigns every non-group node of g to a layer based on its
// depth along edge direction.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Each node is placed at one plus the maximum layer of any of its
// predecessors, so that:
//   - Nodes without incoming edges are in layer 0
//   - Every edge points to a strictly higher layer
//
// Within a layer, nodes keep their order in g.Nodes.
//
// # Cycles
//
// Nodes on a directed cycle never reach zero in-degree and stay in layer 0.
// User-drawn connections may form cycles, so this is tolerated rather than
// reported.
//
// # Performance
//
// Time complexity is O(V + E); space is O(V).
func AssignLayers(g *arch.Graph) Layers {
	inDegree := make(map[string]int, len(g.Nodes))
	children := make(map[string][]string, len(g.Nodes))
	rows := make(map[string]int, len(g.Nodes))

	for _, n := range g.Nodes {
		if !n.IsGroup() {
			inDegree[n.ID] = 0
		}
	}
	for _, e := range g.Edges {
		_, okS := inDegree[e.Source]
		_, okT := inDegree[e.Target]
		if !okS || !okT || e.Source == e.Target {
			continue
		}
		children[e.Source] = append(children[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(inDegree))
	for _, n := range g.Nodes {
		if d, ok := inDegree[n.ID]; ok && d == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	var layers Layers
	for _, n := range g.Nodes {
		if n.IsGroup() {
			continue
		}
		layers.Add(rows[n.ID], n.ID)
	}
	return layers
}

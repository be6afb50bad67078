package arch_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
)

func ExampleGraph_Validate() {
	g := arch.New("demo", "Demo", time.Now())
	g.Nodes = []arch.Node{
		{ID: "api", Type: arch.TypeAPIService, Data: arch.NodeData{Name: "API"}},
		{ID: "db", Type: arch.TypeDatabase, Data: arch.NodeData{Name: "DB"}},
	}
	g.Edges = []arch.Edge{
		{ID: "e1", Source: "api", Target: "db", Label: "Query"},
		{ID: "e2", Source: "db", Target: "api", Label: "Notify"},
	}

	fmt.Println(g.Validate() != nil)
	// Output:
	// true
}

func ExampleGraph_Stats() {
	g := arch.New("demo", "Demo", time.Now())
	g.Nodes = []arch.Node{
		{ID: "tier", Type: arch.TypeGroup, Data: arch.NodeData{Name: "Data Tier"}},
		{ID: "db", Type: arch.TypeDatabase, Data: arch.NodeData{Name: "DB"}},
		{ID: "cache", Type: arch.TypeCache, Data: arch.NodeData{Name: "Cache"}},
	}

	s := g.Stats()
	fmt.Println("Components:", s.Components)
	fmt.Println("Groups:", s.Groups)
	// Output:
	// Components: 2
	// Groups: 1
}

// Package render groups the output adapters for architecture graphs.
//
// # Subpackages
//
//   - [nodelink]: Graphviz DOT generation plus in-process SVG and PNG
//     rendering through go-graphviz
//   - [flow]: the React Flow projection consumed by the web editor, and the
//     drag surface that turns canvas events into editor mutations
//
// Neither subpackage mutates the graph it is given. Callers normally reach
// them through pipeline.Runner, which adds format validation and caching.
//
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/render/nodelink
// [flow]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/render/flow
package render

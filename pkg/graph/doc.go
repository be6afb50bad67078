// Package graph provides the persistence snapshot format for architecture
// graphs.
//
// This package defines the canonical wire format used for saved files, store
// values, API responses, and cache entries. It sits at the serialization
// boundary between the in-memory [arch.Graph] and JSON.
//
// # Format
//
//	{
//	  "id": "9b2f...",
//	  "name": "Shop",
//	  "nodes": [
//	    {"id": "cdn-1", "type": "cdn", "position": {"x": 100, "y": 225},
//	     "data": {"name": "CDN", "metadata": {"technology": "CloudFront"}}}
//	  ],
//	  "edges": [
//	    {"id": "e-cdn-1-frontend-1", "source": "cdn-1", "target": "frontend-1",
//	     "type": "smoothstep", "label": "Serve", "data": {"protocol": "HTTPS"}}
//	  ],
//	  "metadata": {"createdAt": "2024-05-01T12:00:00Z",
//	               "updatedAt": "2024-05-01T12:00:00Z", "version": "1.0.0"}
//	}
//
// Timestamps are RFC 3339 with nanosecond precision, so a marshal/unmarshal
// round trip reproduces the graph exactly.
//
// # Load Boundary
//
// Reading is the single place where untrusted graphs enter the core. Null
// node and edge entries are dropped, then [arch.Graph.Validate] runs once;
// any violation is rejected with an INVALID_SNAPSHOT error rather than
// repaired.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("shop.json")    // File → Graph
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct graphs.
package graph

// Package api serves the interactive editor over HTTP.
//
// Every route under /api/v1/graphs/{id} operates on an editor session that
// is loaded from the store on first use and kept in memory until the server
// stops. Mutation routes map one-to-one onto editor operations:
//
//	POST   /api/v1/graphs                          synthesize and save a graph
//	GET    /api/v1/graphs                          list stored graphs
//	GET    /api/v1/graphs/{id}                     current snapshot
//	DELETE /api/v1/graphs/{id}                     delete from the store
//	GET    /api/v1/graphs/{id}/flow                rendering projection (?edges=false)
//	POST   /api/v1/graphs/{id}/nodes               add node
//	PATCH  /api/v1/graphs/{id}/nodes/{nodeID}      edit name and description
//	POST   /api/v1/graphs/{id}/nodes/{nodeID}/duplicate
//	DELETE /api/v1/graphs/{id}/nodes/{nodeID}      delete node and its edges
//	PUT    /api/v1/graphs/{id}/nodes/{nodeID}/position
//	POST   /api/v1/graphs/{id}/edges               connect (replaces any edge on the pair)
//	PATCH  /api/v1/graphs/{id}/edges/{edgeID}      relabel
//	DELETE /api/v1/graphs/{id}/edges/{edgeID}
//	POST   /api/v1/graphs/{id}/relayout
//	POST   /api/v1/graphs/{id}/save
//	GET    /api/v1/graphs/{id}/status              save indicator and dirty flag
//	GET    /api/v1/graphs/{id}/export.{format}     json, flow, dot, svg or png
//
// A mutation that references a missing node or edge leaves the graph
// unchanged and answers 404 with code NOT_FOUND. Errors are JSON objects of
// the form {"error": {"code": "...", "message": "..."}}.
package api

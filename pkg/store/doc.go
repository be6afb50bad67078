// Package store persists architecture graphs.
//
// The [Store] interface is the persistence collaborator used by editor
// sessions, the CLI, and the HTTP API. Four backends are provided:
//   - memory: in-process, for tests and ephemeral servers
//   - file: one JSON snapshot per graph, for the CLI and single instances
//   - redis: JSON value per key plus an ID index set, for shared deployments
//   - mongo: one document per graph with the JSON snapshot embedded
//
// Every backend stores the wire format of pkg/graph, so snapshots move
// between backends unchanged and every load passes the same validation.
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: "redis", Redis: store.RedisConfig{Addr: "localhost:6379"}})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	g, err := s.Get(ctx, id)
//	if errors.IsNotFound(err) {
//	    // graph does not exist
//	}
//
// Writes are last-write-wins. Concurrent editing of the same graph from
// several sessions is not guarded against.
package store

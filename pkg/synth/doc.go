// Package synth builds starter architecture graphs from a database schema and
// a grouped API-endpoint list.
//
// # Tiers
//
// [Synthesize] fills six layers from left to right:
//
//	0 client    cdn, frontend
//	1 edge      api-gateway, authentication (if any group name contains "auth")
//	2 service   one api-service per distinct group (first 4), cache (if load is "High")
//	3 data      database, search-engine (if the schema has 3 or more tables)
//	4 platform  monitoring, logging, notification-service
//	5 ops       ci-cd, secrets-manager, backup-storage
//
// and wires them with labelled edges carrying a protocol: HTTPS for client and
// API hops, SQL for queries, TCP for cache and index sync, "Encrypted" for
// backups. Positions come from [layout.Config.Position].
//
// # Inputs
//
// Inputs are decoded leniently by [ReadSchemaInput] and [ReadEndpointInput].
// Malformed or missing input never stops synthesis: the result degrades to
// the unconditional tiers.
//
// # Determinism
//
// IDs are readable slugs ("cdn-1", "api-users", "e-api-users-database-1"), so
// identical inputs yield identical nodes and edges. The graph ID and
// timestamps come from [Options.NewID] and [Options.Now].
package synth

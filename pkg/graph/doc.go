// Package graph implements the weighted directed graph backing Wayfinder's
// route search: labeled nodes with 2-D positions connected by weighted edges.
//
// # Model
//
// Node ids are dense integers assigned from 0 in insertion order and never
// reused. Removal is a soft delete: the node keeps its slot and id but is
// flagged inactive, and every edge touching it is deactivated. Edges are
// directed; a two-way road is two independent edges that can be removed
// separately.
//
// The node table and the per-node adjacency lists grow on demand. The only
// hard ceiling is the configurable node capacity (default [DefaultMaxNodes]),
// which exists so that a store can promise it fits the on-disk slot table.
//
// # Queries
//
// [Graph.FindByName] resolves user-typed labels (exact case-insensitive match
// first, then substring). [Graph.NodeAt] answers "which node is near this
// point", backed by an R-tree so click-style lookups stay cheap on large maps.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Hosts that serve searches while
// accepting mutations must serialize writers against in-flight readers (see
// internal/server for the reader-writer discipline).
package graph

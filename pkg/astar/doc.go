// Package astar implements heuristic-guided best-first search (A*) over a
// [graph.Graph].
//
// # Algorithm
//
// The open set is an indexed binary min-heap ordered by f = g + w*h, where g
// is the best known cost from the start, h the configured heuristic estimate
// to the goal, and w the heuristic multiplier. The heap keeps an id-to-entry
// table, so lowering a queued node's priority is O(log n) instead of a linear
// scan, and each node holds at most one live entry. Worst-case cost is
// O(E log V).
//
// With an admissible heuristic (Euclidean on Euclidean edge weights, or
// [Zero], which degrades the search to Dijkstra) and multiplier 1, the
// returned path is optimal. Multipliers above 1 bias the search toward the
// goal and give up optimality for speed; the result is then a greedy variant,
// not A* in the textbook sense.
//
// # Observation
//
// The same search loop serves both [FindPath] and [ExplorationOrder]: as each
// node is closed the loop notifies an observer. FindPath exposes that stream
// through [WithObserver] so a caller animating the search sees exactly the
// run that produced the path.
package astar

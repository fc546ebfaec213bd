// SPDX-License-Identifier: MIT

// Package depgraph: reflexive transitive closure queries.

package depgraph

// direction selects which adjacency list a closure walk follows.
type direction int

const (
	towardSources direction = iota // follow dependencies
	towardTargets                  // follow dependents
)

// closureWalker encapsulates state during a closure walk.
type closureWalker struct {
	graph   *Graph
	dir     direction
	visited Set
}

// AllDependencies returns id together with every node it transitively
// depends on. Unknown IDs yield an empty set. Cycles terminate through the
// visited guard.
// Complexity: O(V + E) over the reachable subgraph.
func (g *Graph) AllDependencies(id string) Set {
	w := &closureWalker{graph: g, dir: towardSources, visited: make(Set)}
	w.walk(id)

	return w.visited
}

// AllDependents returns id together with every node that transitively
// depends on it.
// Complexity: O(V + E) over the reachable subgraph.
func (g *Graph) AllDependents(id string) Set {
	w := &closureWalker{graph: g, dir: towardTargets, visited: make(Set)}
	w.walk(id)

	return w.visited
}

// walk runs an explicit-stack depth-first traversal from start.
func (w *closureWalker) walk(start string) {
	if _, ok := w.graph.nodes[start]; !ok {
		return
	}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.visited.Has(id) {
			continue
		}
		n, ok := w.graph.nodes[id]
		if !ok {
			continue
		}
		w.visited[id] = struct{}{}

		next := n.dependencies.items
		if w.dir == towardTargets {
			next = n.dependents.items
		}
		for _, nid := range next {
			if !w.visited.Has(nid) {
				stack = append(stack, nid)
			}
		}
	}
}

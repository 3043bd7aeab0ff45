// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for topological sorting
// and cycle detection. It is used by the installation engine to order steps from
// their declared prerequisites.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle holds the nodes still caught in the cycle; enough to point
		// at the problem, not necessarily the full loop.
		Cycle []string
	}

	// Graph is a directed graph over string-named nodes. An edge from A to B
	// means A must complete before B starts.
	Graph struct {
		// out maps each node to the nodes that depend on it.
		out map[string][]string
		// order remembers insertion order so sorting stays deterministic.
		order []string
		// seen backs Has with O(1) membership checks.
		seen map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		out:  make(map[string][]string),
		seen: make(map[string]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.seen[name] {
		return
	}
	g.seen[name] = true
	g.order = append(g.order, name)
}

// AddEdge records that from must run before to. Unknown endpoints are added
// implicitly.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.out[from] = append(g.out[from], to)
}

// Has reports whether the named node is in the graph.
func (g *Graph) Has(name string) bool {
	return g.seen[name]
}

// TopologicalSort returns an execution order via Kahn's algorithm, or a
// CycleError when no order exists. Nodes at the same depth come out in the
// order they were first added, so repeated sorts of the same graph agree.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.order) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(g.order))
	for _, n := range g.order {
		pending[n] = 0
	}
	for _, targets := range g.out {
		for _, t := range targets {
			pending[t]++
		}
	}

	var ready []string
	for _, n := range g.order {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	result := make([]string, 0, len(g.order))
	for i := 0; i < len(ready); i++ {
		n := ready[i]
		result = append(result, n)
		for _, t := range g.out[n] {
			pending[t]--
			if pending[t] == 0 {
				ready = append(ready, t)
			}
		}
	}

	if len(result) != len(g.order) {
		// Whatever still has unmet prerequisites is part of, or downstream
		// of, the cycle.
		var stuck []string
		for _, n := range g.order {
			if pending[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}

	return result, nil
}

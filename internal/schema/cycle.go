package schema

import (
	"fmt"
	"strings"
)

// CycleWarning reports a loop in the relationship graph between entity types.
//
// Loops are legal (Person.friends -> Person, Order.lines -> Line.order), but
// comparing instances of these types recursively revisits pairs, so the
// engine's cycle strategy matters for them.
type CycleWarning struct {
	Path    []string `json:"path"`    // ["Person", "Person"] or ["Order", "Line", "Order"]
	Message string   `json:"message"` // Human-readable description
}

// relationGraph maps an entity name to the targets of its relationships.
type relationGraph map[string][]string

// AnalyzeCycles finds loops in the entity relationship graph using Tarjan's
// strongly connected components algorithm. Inherited relationships count for
// the subtype. Results follow declaration order.
func (m *Model) AnalyzeCycles() []CycleWarning {
	graph := make(relationGraph, len(m.order))
	for _, name := range m.order {
		graph[name] = []string{}
		for _, r := range AllRelationships(m, name) {
			if _, ok := m.entities[r.Target]; ok {
				graph[name] = append(graph[name], r.Target)
			}
		}
	}

	var warnings []CycleWarning
	for _, scc := range tarjanSCC(m.order, graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, m.sccToWarning(scc, graph))
		}
	}
	return warnings
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph relationGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components, visiting roots in order.
// Single-node SCCs without self-loops are not cycles.
func tarjanSCC(order []string, graph relationGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack into an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// sccToWarning converts an SCC to a CycleWarning whose path starts at the
// member declared first.
func (m *Model) sccToWarning(scc []string, graph relationGraph) CycleWarning {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	var start string
	for _, n := range m.order {
		if members[n] {
			start = n
			break
		}
	}

	if len(scc) == 1 {
		return CycleWarning{
			Path:    []string{start, start},
			Message: fmt.Sprintf("self-referencing entity: %s -> %s", start, start),
		}
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	for current := start; ; {
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}

	return CycleWarning{
		Path:    path,
		Message: "relationship cycle: " + strings.Join(path, " -> "),
	}
}

package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/unitgate/internal/unit"
)

// CycleWarning describes a requirement cycle found before running.
//
// Cycles are not errors: the registry breaks them at run time. They are
// reported because a NeedOK edge on a cycle can never be satisfied by the
// unit it points back to, so at least one unit on a gated cycle is skipped.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Gated   bool     `json:"gated"`   // Some edge on the path needs OK
	Message string   `json:"message"` // Human-readable description
}

type requirementEdge struct {
	to     string
	needOK bool
}

// requirementGraph maps identity → requirements, with nodes in discovery
// order for deterministic output.
type requirementGraph struct {
	edges map[string][]requirementEdge
	nodes []string
}

// AnalyzeCycles finds the requirement cycles reachable from units.
//
// Targets that are not in units are built with Requirement.New to read
// their own requirements; nothing is run.
//
// The algorithm:
//  1. Build the identity → requirement graph breadth-first from units
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each component with more than one node, or with a self-loop
func AnalyzeCycles(units []unit.Unit) []CycleWarning {
	graph := buildRequirementGraph(units)

	var warnings []CycleWarning
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || graph.hasEdge(scc[0], scc[0]) {
			warnings = append(warnings, graph.warning(scc))
		}
	}
	slices.SortFunc(warnings, func(a, b CycleWarning) int {
		return strings.Compare(a.Path[0], b.Path[0])
	})
	return warnings
}

func buildRequirementGraph(units []unit.Unit) *requirementGraph {
	g := &requirementGraph{edges: make(map[string][]requirementEdge)}
	queue := slices.Clone(units)
	seen := make(map[string]bool)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		id := unit.IdentityOf(u)
		if seen[id] {
			continue
		}
		seen[id] = true
		g.nodes = append(g.nodes, id)
		g.edges[id] = []requirementEdge{}

		for _, req := range u.Requirements() {
			g.edges[id] = append(g.edges[id], requirementEdge{to: req.Target, needOK: req.NeedOK})
			if !seen[req.Target] && req.New != nil {
				queue = append(queue, req.New())
			}
		}
	}
	return g
}

func (g *requirementGraph) hasEdge(from, to string) bool {
	for _, e := range g.edges[from] {
		if e.to == to {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node components without self-loops are not cycles.
func tarjanSCC(g *requirementGraph) [][]string {
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

		for _, e := range g.edges[v] {
			w := e.to
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

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

	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// warning builds the shortest cycle through the component's first
// discovered node.
func (g *requirementGraph) warning(scc []string) CycleWarning {
	members := make(map[string]bool, len(scc))
	for _, id := range scc {
		members[id] = true
	}
	start := ""
	for _, id := range g.nodes {
		if members[id] {
			start = id
			break
		}
	}

	// Breadth-first search inside the component back to start.
	type step struct {
		prev   string
		needOK bool
	}
	parent := map[string]step{}
	queue := []string{start}
	var last string
	var lastGate bool
search:
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges[cur] {
			if e.to == start {
				last, lastGate = cur, e.needOK
				break search
			}
			if _, ok := parent[e.to]; ok || !members[e.to] {
				continue
			}
			parent[e.to] = step{prev: cur, needOK: e.needOK}
			queue = append(queue, e.to)
		}
	}

	path := []string{start}
	gated := lastGate
	for cur := last; cur != start; cur = parent[cur].prev {
		path = append(path, cur)
		gated = gated || parent[cur].needOK
	}
	slices.Reverse(path[1:])
	path = append(path, start)

	return CycleWarning{
		Path:    path,
		Gated:   gated,
		Message: fmt.Sprintf("requirement cycle: %s", strings.Join(path, " → ")),
	}
}

package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vera/internal/ir"
)

// CycleWarning flags rules that may keep a program from reaching a fixed
// point.
//
// Warnings are not errors: a program whose rules feed each other can still
// terminate when some condition symbol runs out.
type CycleWarning struct {
	Rules   []int  `json:"rules"`   // rule indices; a self-loop lists one rule twice
	Message string `json:"message"` // human-readable description
	Level   string `json:"level"`   // "warning" or "info"
}

// AnalyzeCycles inspects the rule dependency graph of p.
//
// Rule i feeds rule j when i's result contains a condition symbol of j. A
// strongly connected set of rules (or a rule that feeds itself) in which
// some rule does not shrink the bag is reported at "warning" level: mass
// never decreases around the loop. A non-shrinking rule outside any loop
// is reported at "info" level.
//
// A rule shrinks the bag when its result total is below the size of its
// condition support, which is what every firing removes per execution.
func AnalyzeCycles(p *ir.Program) []CycleWarning {
	graph := buildDependencyGraph(p)
	sccs := tarjanSCC(graph)

	inCycle := make(map[int]bool)
	var warnings []CycleWarning
	for _, scc := range sccs {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		for _, r := range scc {
			inCycle[r] = true
		}
		if growing := growingRules(p, scc); len(growing) > 0 {
			warnings = append(warnings, cycleSCCToWarning(p, scc, graph))
		}
	}

	for i, r := range p.Rules {
		if r.IsFact() || inCycle[i] || !grows(r) {
			continue
		}
		warnings = append(warnings, CycleWarning{
			Rules:   []int{i},
			Message: fmt.Sprintf("rule %d does not shrink the bag: %s", i, p.FormatRule(i)),
			Level:   "info",
		})
	}
	return warnings
}

func grows(r ir.Rule) bool {
	return r.RHS.Total() >= r.LHS.Len()
}

func growingRules(p *ir.Program, rules []int) []int {
	var out []int
	for _, i := range rules {
		if grows(p.Rules[i]) {
			out = append(out, i)
		}
	}
	return out
}

// dependencyGraph maps rule index → rules its result can enable.
type dependencyGraph [][]int

func buildDependencyGraph(p *ir.Program) dependencyGraph {
	consumers := make(map[ir.SymbolID][]int)
	for i, r := range p.Rules {
		for _, id := range r.LHS.Support() {
			consumers[id] = append(consumers[id], i)
		}
	}

	graph := make(dependencyGraph, len(p.Rules))
	for i, r := range p.Rules {
		if r.IsFact() {
			continue
		}
		var edges []int
		for _, id := range r.RHS.Support() {
			edges = append(edges, consumers[id]...)
		}
		slices.Sort(edges)
		graph[i] = slices.Compact(edges)
	}
	return graph
}

func hasSelfLoop(node int, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in index order and each SCC is sorted, so the result is
// deterministic.
func tarjanSCC(graph dependencyGraph) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
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

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for node := range graph {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	slices.SortFunc(sccs, func(a, b []int) int { return a[0] - b[0] })
	return sccs
}

func cycleSCCToWarning(p *ir.Program, scc []int, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		i := scc[0]
		return CycleWarning{
			Rules:   []int{i, i},
			Message: fmt.Sprintf("rule %d feeds itself without shrinking the bag: %s", i, p.FormatRule(i)),
			Level:   "warning",
		}
	}

	path := reconstructCyclePath(scc, graph)
	parts := make([]string, len(path))
	for i, r := range path {
		parts[i] = fmt.Sprint(r)
	}
	return CycleWarning{
		Rules:   path,
		Message: fmt.Sprintf("rules may cycle without shrinking the bag: %s", strings.Join(parts, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath follows edges inside the SCC from its first member
// until it returns to it.
func reconstructCyclePath(scc []int, graph dependencyGraph) []int {
	members := make(map[int]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := scc[0]
	current := start
	path := []int{current}
	visited := make(map[int]bool)
	for {
		visited[current] = true

		next := -1
		for _, n := range graph[current] {
			if members[n] && (!visited[n] || n == start) {
				next = n
				break
			}
		}
		if next == -1 {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}

package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devscan/devscan/internal/practice"
)

// DependencyCycleError reports a cycle among practice dependency
// constraints. A cycle is a configuration defect: the affected
// component produces no records, but the run continues for other
// components.
type DependencyCycleError struct {
	// Members are the practice IDs forming the cycle, in path order
	// with the first ID repeated at the end.
	Members []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("circular practice dependency: %s", strings.Join(e.Members, " → "))
}

// resolveOrder produces a linear evaluation order for the applicable
// practices such that every practice appears after all practices it
// references in its dependency constraints. References to IDs outside
// the applicable set are ignored here; the pipeline's fulfillment check
// treats them as permanently unsatisfied.
//
// Ties are broken by catalog registration order so output is
// deterministic across runs.
func resolveOrder(applicable []practice.Practice, catalog *practice.Catalog) ([]practice.Practice, error) {
	byID := make(map[string]practice.Practice, len(applicable))
	for _, p := range applicable {
		byID[p.Metadata().ID] = p
	}

	// dependency -> dependents, so Kahn's algorithm emits
	// prerequisites first.
	graph := make(map[string][]string, len(applicable))
	inDegree := make(map[string]int, len(applicable))
	for id := range byID {
		graph[id] = nil
		inDegree[id] = 0
	}

	for id, p := range byID {
		for _, dep := range p.Metadata().Requires.All() {
			if _, ok := byID[dep]; !ok {
				continue // outside the applicable set
			}
			graph[dep] = append(graph[dep], id)
			inDegree[id]++
		}
	}

	queue := make([]string, 0, len(byID))
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]practice.Practice, 0, len(byID))
	for len(queue) > 0 {
		// Pick the ready practice registered earliest.
		sort.Slice(queue, func(i, j int) bool {
			return catalog.Index(queue[i]) < catalog.Index(queue[j])
		})
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, byID[current])

		for _, dependent := range graph[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(byID) {
		return nil, &DependencyCycleError{Members: extractCycle(byID)}
	}

	return sorted, nil
}

// extractCycle runs a DFS over the dependency references to name the
// members of a cycle for the error message. Called only after Kahn's
// algorithm has proven one exists.
func extractCycle(byID map[string]practice.Practice) []string {
	// dependent -> dependencies, restricted to the applicable set.
	deps := make(map[string][]string, len(byID))
	ids := make([]string, 0, len(byID))
	for id, p := range byID {
		ids = append(ids, id)
		for _, dep := range p.Metadata().Requires.All() {
			if _, ok := byID[dep]; ok {
				deps[id] = append(deps[id], dep)
			}
		}
	}
	sort.Strings(ids)

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var dfs func(string) bool
	dfs = func(node string) bool {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range deps[node] {
			if !visited[next] {
				if dfs(next) {
					return true
				}
			} else if onStack[next] {
				// Trim the path down to the cycle and close it.
				start := 0
				for i, id := range path {
					if id == next {
						start = i
						break
					}
				}
				path = append(path[start:], next)
				return true
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return false
	}

	for _, id := range ids {
		if !visited[id] {
			path = path[:0]
			if dfs(id) {
				return path
			}
		}
	}

	return nil
}

package cluster

import "sort"

// extractComponents partitions hashed items into connected components
// of the similarity graph and collects items without any incident edge
// as unique. It runs single-threaded after both worker pools have
// joined; the graph is read-only here.
//
// Because edges are stored symmetrically, an empty adjacency set means
// the item truly has no similar counterpart in either direction, and a
// traversal seeded anywhere inside a component discovers all of it.
func extractComponents(present []bool, adj []map[int]bool) (clusters [][]int, unique []int) {
	n := len(present)
	visited := make([]bool, n)

	for v := range n {
		if !present[v] {
			continue
		}
		if len(adj[v]) == 0 {
			unique = append(unique, v)
			continue
		}
		if visited[v] {
			continue
		}
		clusters = append(clusters, collectComponent(adj, visited, v))
	}
	return clusters, unique
}

// collectComponent runs a depth-first traversal from seed using an
// explicit stack, so arbitrarily large components cannot exhaust the
// call stack. Marking vertices visited at push time prevents the same
// vertex from entering the stack twice.
func collectComponent(adj []map[int]bool, visited []bool, seed int) []int {
	stack := []int{seed}
	visited[seed] = true
	var component []int

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, v)

		for neighbor := range adj[v] {
			if !visited[neighbor] {
				visited[neighbor] = true
				stack = append(stack, neighbor)
			}
		}
	}

	sort.Ints(component)
	return component
}

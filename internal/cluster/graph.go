package cluster

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// simGraph is the shared adjacency structure built by the comparison
// stage. Edges are stored symmetrically: an edge (i, j) puts j into
// adj[i] and i into adj[j], so the extractor never has to scan for
// incoming edges.
type simGraph struct {
	mu  sync.Mutex
	adj []map[int]bool
}

func newSimGraph(n int) *simGraph {
	return &simGraph{adj: make([]map[int]bool, n)}
}

// addEdge records an undirected edge. The lock covers the whole
// check-create-insert so two workers discovering the same missing
// adjacency set cannot both create it.
func (g *simGraph) addEdge(i, j int) {
	g.mu.Lock()
	if g.adj[i] == nil {
		g.adj[i] = make(map[int]bool)
	}
	g.adj[i][j] = true
	if g.adj[j] == nil {
		g.adj[j] = make(map[int]bool)
	}
	g.adj[j][i] = true
	g.mu.Unlock()
}

// buildGraph compares every unordered pair of hashed items and records
// an edge whenever distance <= threshold. Worker t handles first
// indices in the half-open range ranges[t], comparing each against all
// later indices, so each pair (i, j), j > i is examined exactly once
// and self comparisons never happen.
//
// This stage is O(n²) and dominates runtime, so the ranges balance
// total pair count rather than index count: a plain i mod workers split
// would leave the worker owning low indices with far more comparisons.
func buildGraph[H any](ctx context.Context, table *Table[H], oracle Oracle[H], threshold float64, workers int, onProgress func(ProgressInfo)) ([]map[int]bool, error) {
	n := table.Len()
	graph := newSimGraph(n)

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range balancedRanges(n, workers) {
		g.Go(func() error {
			for i := r[0]; i < r[1]; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				comparePairs(table, oracle, graph, threshold, i)
				if onProgress != nil {
					onProgress(ProgressInfo{Phase: PhaseCompare, Current: i + 1, Total: n})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return graph.adj, nil
}

// comparePairs evaluates item i against every later item. Distance
// computation runs outside the graph lock.
func comparePairs[H any](table *Table[H], oracle Oracle[H], graph *simGraph, threshold float64, i int) {
	hi, ok := table.At(i)
	if !ok {
		return
	}
	for j := i + 1; j < table.Len(); j++ {
		hj, ok := table.At(j)
		if !ok {
			continue
		}
		if oracle.Distance(hi, hj) <= threshold {
			graph.addEdge(i, j)
		}
	}
}

// balancedRanges partitions [0, n) into at most workers contiguous
// half-open ranges of first indices such that the total pair count
// sum(n-1-i) is roughly equal per range. Every index belongs to
// exactly one range; trailing workers may receive none.
func balancedRanges(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	ranges := make([][2]int, 0, workers)
	remaining := n * (n - 1) / 2
	start := 0
	for w := workers; w > 0 && start < n; w-- {
		target := (remaining + w - 1) / w
		pairs := 0
		end := start
		for end < n && (pairs < target || end == start) {
			pairs += n - 1 - end
			end++
		}
		if w == 1 {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
		remaining -= pairs
		start = end
	}
	return ranges
}

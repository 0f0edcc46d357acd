// Package cluster groups corpus items into sets of mutual visual similarity.
//
// The pipeline runs in strict stages: a parallel hashing pass over the
// corpus, a parallel pairwise comparison pass that builds a similarity
// graph, and a single-threaded traversal that extracts the connected
// components of that graph. Each stage fully completes before the next
// one starts.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Provider supplies the corpus: an ordered, indexable list of items.
// Indices are stable for the lifetime of a run.
type Provider interface {
	// Len returns the number of items in the corpus.
	Len() int
	// ID returns the external identifier of item i.
	ID(i int) string
	// Load returns the raw bytes of item i. A load failure is an
	// expected outcome (unreadable or non-image file), not an abort.
	Load(i int) ([]byte, error)
}

// Oracle computes hashes and pairwise distances. The hash type H is
// opaque to the engine; it is only ever produced by Compute and
// consumed by Distance.
type Oracle[H any] interface {
	// Compute derives a hash from raw item bytes.
	Compute(data []byte) (H, error)
	// Distance returns a non-negative, symmetric distance between two
	// hashes. Identical hashes have distance zero.
	Distance(a, b H) float64
}

// Phase names reported through Options.OnProgress.
const (
	PhaseHash    = "hashing"
	PhaseCompare = "comparing"
)

// ProgressInfo describes one unit of finished work within a phase.
type ProgressInfo struct {
	Phase   string
	Current int
	Total   int
}

// Options configures a clustering run.
type Options struct {
	// Threshold is the inclusive distance cutoff: two items are
	// similar iff Distance(a, b) <= Threshold. Must be >= 0.
	Threshold float64

	// Workers is the pool size for the hashing and comparison stages.
	// Zero or negative means host parallelism.
	Workers int

	// OnProgress, if set, is called once per processed item in the
	// hashing stage and once per outer index in the comparison stage.
	// It may be called concurrently from multiple workers.
	OnProgress func(ProgressInfo)
}

// Result holds the outcome of a run. Cluster members and unique items
// are corpus indices; mapping back to identifiers is the caller's
// concern (see the report package).
type Result struct {
	// Clusters are the connected components of the similarity graph,
	// each of size >= 2. Clusters appear in discovery order (ascending
	// smallest member index); members are sorted ascending.
	Clusters [][]int

	// Unique lists hashed items with no similar counterpart, ascending.
	Unique []int

	// Hashed counts items that produced a hash. Items that failed to
	// load or hash are excluded from Clusters and Unique entirely.
	Hashed int
}

// ErrNegativeThreshold is returned by Run for a threshold below zero.
var ErrNegativeThreshold = errors.New("similarity threshold must not be negative")

// Run executes the full pipeline: hash every item, compare all pairs,
// extract components. The corpus and oracle are never mutated.
func Run[H any](ctx context.Context, corpus Provider, oracle Oracle[H], opts Options) (*Result, error) {
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: %g", ErrNegativeThreshold, opts.Threshold)
	}
	workers := poolSize(opts.Workers)

	table, err := HashAll(ctx, corpus, oracle, workers, opts.OnProgress)
	if err != nil {
		return nil, fmt.Errorf("hashing stage: %w", err)
	}

	adj, err := buildGraph(ctx, table, oracle, opts.Threshold, workers, opts.OnProgress)
	if err != nil {
		return nil, fmt.Errorf("comparison stage: %w", err)
	}

	clusters, unique := extractComponents(table.present, adj)
	return &Result{
		Clusters: clusters,
		Unique:   unique,
		Hashed:   table.Count(),
	}, nil
}

// poolSize clamps a configured worker count to at least one, defaulting
// to the host core count.
func poolSize(configured int) int {
	if configured > 0 {
		return configured
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

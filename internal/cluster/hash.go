package cluster

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Table stores one hash per corpus index. Slots for items that failed
// to load or hash stay empty; such items take no part in comparison.
type Table[H any] struct {
	mu      sync.Mutex
	hashes  []H
	present []bool
	count   int
}

// newTable pre-sizes storage for n items so that inserts never grow
// the structure; the write lock covers a single slot assignment.
func newTable[H any](n int) *Table[H] {
	return &Table[H]{
		hashes:  make([]H, n),
		present: make([]bool, n),
	}
}

func (t *Table[H]) set(i int, h H) {
	t.mu.Lock()
	t.hashes[i] = h
	t.present[i] = true
	t.count++
	t.mu.Unlock()
}

// Len returns the corpus size the table was built for.
func (t *Table[H]) Len() int { return len(t.hashes) }

// At returns the hash of item i and whether one was computed.
func (t *Table[H]) At(i int) (H, bool) {
	return t.hashes[i], t.present[i]
}

// Count returns the number of items that produced a hash.
func (t *Table[H]) Count() int { return t.count }

// HashAll computes a hash for every loadable corpus item using a pool
// of workers. Item i is handled by worker i mod workers, each worker
// walking its indices in increasing order, so the assignment of work is
// reproducible across runs. Load and hash failures skip the item.
//
// The returned table is read-only once HashAll returns.
func HashAll[H any](ctx context.Context, corpus Provider, oracle Oracle[H], workers int, onProgress func(ProgressInfo)) (*Table[H], error) {
	n := corpus.Len()
	table := newTable[H](n)
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				hashItem(corpus, oracle, table, i)
				if onProgress != nil {
					onProgress(ProgressInfo{Phase: PhaseHash, Current: i + 1, Total: n})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

// hashItem loads and hashes a single item. Loading and hashing happen
// outside the table lock; only the slot write is synchronized.
func hashItem[H any](corpus Provider, oracle Oracle[H], table *Table[H], i int) {
	data, err := corpus.Load(i)
	if err != nil {
		return
	}
	h, err := oracle.Compute(data)
	if err != nil {
		return
	}
	table.set(i, h)
}

package cluster

import (
	"fmt"
	"testing"
)

func TestBalancedRanges_CoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 5, 10, 100, 1000} {
		for _, workers := range []int{1, 2, 4, 8, 13} {
			t.Run(fmt.Sprintf("n=%d/workers=%d", n, workers), func(t *testing.T) {
				ranges := balancedRanges(n, workers)

				if len(ranges) > workers {
					t.Fatalf("got %d ranges for %d workers", len(ranges), workers)
				}

				// Ranges must tile [0, n) contiguously.
				next := 0
				for _, r := range ranges {
					if r[0] != next {
						t.Fatalf("range %v starts at %d, want %d", r, r[0], next)
					}
					if r[1] < r[0] {
						t.Fatalf("range %v is inverted", r)
					}
					next = r[1]
				}
				if next != n {
					t.Fatalf("ranges end at %d, want %d", next, n)
				}
			})
		}
	}
}

func TestBalancedRanges_BalancesPairCounts(t *testing.T) {
	const n = 1000
	const workers = 4

	pairCount := func(r [2]int) int {
		count := 0
		for i := r[0]; i < r[1]; i++ {
			count += n - 1 - i
		}
		return count
	}

	ranges := balancedRanges(n, workers)
	if len(ranges) != workers {
		t.Fatalf("got %d ranges, want %d", len(ranges), workers)
	}

	total := n * (n - 1) / 2
	fair := total / workers
	for _, r := range ranges {
		count := pairCount(r)
		// A plain index split would give the first worker ~44% of all
		// pairs; the balanced split should stay close to the fair
		// share.
		if count > fair*3/2 {
			t.Errorf("range %v owns %d pairs, fair share is %d", r, count, fair)
		}
	}

	// The naive equal-index split is wildly unbalanced at this size;
	// make sure we actually improved on it.
	naiveFirst := pairCount([2]int{0, n / workers})
	balancedFirst := pairCount(ranges[0])
	if balancedFirst >= naiveFirst {
		t.Errorf("first range owns %d pairs, no better than naive split's %d", balancedFirst, naiveFirst)
	}
}

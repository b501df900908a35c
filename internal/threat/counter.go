// Package threat implements the per-cell threat counter (spec.md §4.4) and
// the whole-board threat scanner (spec.md §4.5).
package threat

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/pattern"
)

// Counts tallies, for one candidate cell and player, how many of the four
// lines through that cell fall into each named category, per spec.md §4.4.
// Each line is counted in one category at most (see Count).
type Counts struct {
	Fives         int
	OpenFours     int
	ClosedFours   int
	OpenThrees    int
	SplitThrees   int
	PreOpenFours  int
	BuildingTwos  int
}

// Any reports whether at least one category fired.
func (c Counts) Any() bool {
	return c.Fives > 0 || c.OpenFours > 0 || c.ClosedFours > 0 ||
		c.OpenThrees > 0 || c.SplitThrees > 0 || c.PreOpenFours > 0 || c.BuildingTwos > 0
}

const windowRadius = 4

// Count scans the four line windows through (x,y) as the board stands and
// tallies one category per direction: the first that matches in the order
// five, open four, closed or split four, open three (also counted as a
// pre-open four), split three, open two. A direction matching several
// categories counts only the first. Count does not treat (x,y) as occupied
// by p and does not mutate the board: callers probe candidate cells by
// placing, counting, and undoing (spec.md §4.6's paired place/undo
// probing), or call Count directly against a cell p already occupies.
func Count(b *board.Board, x, y int, p board.Player) Counts {
	cat := pattern.For(p)
	var c Counts
	for _, d := range board.Directions() {
		window := b.Window(x, y, d, windowRadius)
		switch {
		case containsStr(window, cat.Five):
			c.Fives++
		case containsStr(window, cat.OpenFour):
			c.OpenFours++
		case pattern.MatchAny(window, cat.ClosedFour) || pattern.MatchAny(window, cat.SplitFour):
			c.ClosedFours++
		case containsStr(window, cat.OpenThree):
			// The glossary treats "pre-open-four" as the same shape as an
			// open three, named for the side that is about to be completed
			// into an open four; both counters fire together.
			c.OpenThrees++
			c.PreOpenFours++
		case pattern.MatchAny(window, cat.SplitThree):
			c.SplitThrees++
		case containsStr(window, cat.OpenTwo):
			c.BuildingTwos++
		}
	}
	return c
}

func containsStr(window, p string) bool {
	if p == "" {
		return false
	}
	for i := 0; i+len(p) <= len(window); i++ {
		if window[i:i+len(p)] == p {
			return true
		}
	}
	return false
}

// key identifies a cached count: the board position (by hash), the cell and
// the counting perspective. Scoped to one epoch — Counter.Reset must be
// called between decisions since a hash collision across epochs would
// otherwise return a stale count (spec.md §11's epoch-scoped caches).
type key struct {
	hash uint64
	x, y int
	p    board.Player
}

// maxEntries bounds the cache at the hard limit spec.md §4.4 names.
const maxEntries = 10000

// Counter caches Count results bounded to maxEntries, keyed by
// (board hash, x, y, player). The underlying ristretto cache is a
// best-effort admission cache: a miss on a just-set key only costs a
// recompute, never a correctness problem.
type Counter struct {
	cache *ristretto.Cache[key, Counts]
}

// NewCounter builds a threat counter cache bounded to maxEntries entries.
func NewCounter() (*Counter, error) {
	c, err := ristretto.NewCache(&ristretto.Config[key, Counts]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Counter{cache: c}, nil
}

// Count returns the cached Counts for (x,y,p) on b, computing and storing it
// on a miss.
func (tc *Counter) Count(b *board.Board, x, y int, p board.Player) Counts {
	k := key{hash: b.Hash(), x: x, y: y, p: p}
	if v, ok := tc.cache.Get(k); ok {
		return v
	}
	c := Count(b, x, y, p)
	tc.cache.Set(k, c, 1)
	return c
}

// Reset discards every cached entry, called once per decision epoch
// (spec.md §11) since counts are only valid for the board positions they
// were computed against within that epoch.
func (tc *Counter) Reset() {
	tc.cache.Clear()
}

// Close releases the underlying cache's background goroutines.
func (tc *Counter) Close() {
	tc.cache.Close()
}

// Package engine implements the negamax search engine (spec.md §4.8): the
// transposition table, move ordering, time management and the negamax/
// quiescence search itself.
package engine

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hailam/gomoku/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

// TTEntry is one transposition table record, keyed by Zobrist hash.
type TTEntry struct {
	BestMove board.Point
	HasMove  bool
	Score    int
	Depth    int
	Flag     TTFlag
	Age      uint8
}

// TranspositionTable is a hash-keyed, size-bounded, LRU-evicted cache of
// search results (spec.md §4.10: "evicts the least-recently-updated entry
// when size exceeds TT_MAX_SIZE... reads move the key to most recent").
// github.com/hashicorp/golang-lru/v2's Cache.Get/Add both promote to
// most-recently-used, which realizes that rule directly — unlike the
// teacher's fixed always/depth-replace array, which cannot express true
// LRU eviction.
type TranspositionTable struct {
	cache  *lru.Cache[uint64, TTEntry]
	age    atomic.Uint32
	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTranspositionTable creates a table bounded to maxEntries records.
func NewTranspositionTable(maxEntries int) (*TranspositionTable, error) {
	c, err := lru.New[uint64, TTEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &TranspositionTable{cache: c}, nil
}

// Probe looks up hash. The caller is responsible for checking Age against
// the table's current age and Depth against the requested depth, per
// spec.md §4.8's transposition-probe rule.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)
	e, ok := tt.cache.Get(hash)
	if ok {
		tt.hits.Add(1)
	}
	return e, ok
}

// Store records hash's search result, always promoting it to
// most-recently-used (spec.md §4.10's "updates move the key to most
// recent").
func (tt *TranspositionTable) Store(hash uint64, depth, score int, flag TTFlag, best board.Point, hasMove bool) {
	tt.cache.Add(hash, TTEntry{BestMove: best, HasMove: hasMove, Score: score, Depth: depth, Flag: flag, Age: tt.Age()})
}

// NewSearch increments the table's age, disambiguating entries from the
// current decision from stale ones left by a previous decision. Atomic
// since a decision's search worker and its pondering workers (internal/
// orchestrator) all share one TranspositionTable.
func (tt *TranspositionTable) NewSearch() { tt.age.Add(1) }

// Age returns the table's current decision-epoch age.
func (tt *TranspositionTable) Age() uint8 { return uint8(tt.age.Load()) }

// Clear discards every entry and resets age and statistics. Only called on
// an explicit reset, per spec.md §4.10.
func (tt *TranspositionTable) Clear() {
	tt.cache.Purge()
	tt.age.Store(0)
	tt.hits.Store(0)
	tt.probes.Store(0)
}

// Len returns the number of entries currently stored.
func (tt *TranspositionTable) Len() int { return tt.cache.Len() }

// HitRate returns the probe hit rate as a percentage, for diagnostics.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// MateScore and MaxPly bound the search's win-score range; scores beyond
// MateScore-MaxPly are treated as forced-win/loss scores whose distance to
// mate must be ply-adjusted before storage, mirroring the teacher's
// AdjustScoreFromTT/AdjustScoreToTT (internal/engine/transposition.go).
const (
	MateScore = 1_000_000_000
	MaxPly    = 256
)

// AdjustScoreFromTT converts a stored mate-distance score back to the
// current search ply.
func AdjustScoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	default:
		return score
	}
}

// AdjustScoreToTT converts a ply-relative mate score to a ply-independent
// value safe to store in the table.
func AdjustScoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	default:
		return score
	}
}

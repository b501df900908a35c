package engine

import (
	"sync"

	"github.com/hailam/gomoku/internal/board"
)

// Move ordering priorities, spec.md §4.8's "TT best → killers → descending
// history score".
const (
	TTMoveScore  = 1 << 30
	KillerScore1 = 1 << 20
	KillerScore2 = 1 << 19
)

// historyMax bounds history scores before decay, spec.md §4.8's
// HISTORY_MAX_VALUE.
const historyMax = 400000

// historyDecayFactor is spec.md §4.8's HISTORY_DECAY_FACTOR≈0.9, applied to
// every history score at the start of each decision.
const historyDecayFactor = 0.9

// MoveOrderer tracks killer moves and the history heuristic for one
// engine instance across its lifetime, decayed once per decision. Unlike
// the teacher's [from][to]-keyed tables (squares have both an origin and a
// destination in chess), gomoku moves are single-cell placements, so both
// tables are keyed by destination cell alone. Gomoku has no captures, so
// the teacher's MVV-LVA/capture-history/countermove-history machinery has
// no equivalent here — dropped, see DESIGN.md.
//
// mu guards killers/history: spec.md §5's shared-state discipline calls
// for this table to survive concurrently across a decision's search
// worker and any pondering workers sharing the same Engine, so every
// access is taken under the lock rather than assuming a single caller.
type MoveOrderer struct {
	mu      sync.RWMutex
	w, h    int
	killers [MaxPly][2]board.Point
	history map[board.Point]int
}

// NewMoveOrderer creates an orderer for a w×h board.
func NewMoveOrderer(w, h int) *MoveOrderer {
	return &MoveOrderer{w: w, h: h, history: make(map[board.Point]int, w*h)}
}

// Clear resets killers for a new decision and decays the history table
// (spec.md §4.8's per-decision HISTORY_DECAY_FACTOR).
func (mo *MoveOrderer) Clear() {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	for i := range mo.killers {
		mo.killers[i][0] = noMove
		mo.killers[i][1] = noMove
	}
	for pt, v := range mo.history {
		decayed := int(float64(v) * historyDecayFactor)
		if decayed == 0 {
			delete(mo.history, pt)
		} else {
			mo.history[pt] = decayed
		}
	}
}

// noMove is the sentinel "no killer recorded" point, chosen off-board so
// it can never equal a legal candidate cell.
var noMove = board.Point{X: -1, Y: -1}

// Score returns the ordering score for move m at the given ply, with
// ttMove (if any) taking absolute priority.
func (mo *MoveOrderer) Score(m board.Point, ply int, ttMove board.Point, hasTTMove bool) int {
	if hasTTMove && m == ttMove {
		return TTMoveScore
	}
	mo.mu.RLock()
	defer mo.mu.RUnlock()
	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return KillerScore1
		}
		if m == mo.killers[ply][1] {
			return KillerScore2
		}
	}
	return mo.history[m]
}

// UpdateKillers records m as a killer at ply after a beta cutoff.
func (mo *MoveOrderer) UpdateKillers(m board.Point, ply int) {
	if ply >= MaxPly {
		return
	}
	mo.mu.Lock()
	defer mo.mu.Unlock()
	if mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory adds depth² to m's history score after a beta cutoff,
// capped at historyMax (spec.md §4.8).
func (mo *MoveOrderer) UpdateHistory(m board.Point, depth int) {
	bonus := depth * depth
	mo.mu.Lock()
	defer mo.mu.Unlock()
	v := mo.history[m] + bonus
	if v > historyMax {
		v = historyMax
	}
	mo.history[m] = v
}

// sortByScore orders moves descending by Score, TT move first.
func sortByScore(moves []board.Point, mo *MoveOrderer, ply int, ttMove board.Point, hasTTMove bool) {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = mo.Score(m, ply, ttMove, hasTTMove)
	}
	for i := 1; i < len(moves); i++ {
		j := i
		for j > 0 && scores[j-1] < scores[j] {
			scores[j-1], scores[j] = scores[j], scores[j-1]
			moves[j-1], moves[j] = moves[j], moves[j-1]
			j--
		}
	}
}

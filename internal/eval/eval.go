// Package eval implements the windowed-line evaluator (spec.md §4.3): a
// per-stone score built from the pattern catalog, maintained incrementally
// against a board's dirty set.
package eval

import (
	"strings"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/pattern"
)

// Category scores, spec.md §4.3.
const (
	ScoreFive            = 1000000
	ScoreOpenFour        = 100000
	ScoreClosedFour      = 10000
	ScoreSplitFour       = 15000
	ScoreOpenThree       = 5000
	ScoreClosedThree     = 1000
	ScoreSplitThree      = 3000
	ScoreBrokenOpenThree = 4000
	ScoreOpenTwo         = 300
	ScoreClosedTwo       = 50
)

// Default board-level multipliers, slightly defensive per spec.md §4.3.
const (
	DefaultAttack  = 0.9
	DefaultDefense = 1.1
)

// Line scores a single extracted window for one player's perspective,
// adding the fixed constant for every category that matches. Multi-variant
// categories (closed four, split four, ...) contribute their score at most
// once per window even if more than one variant matches.
func Line(window string, cat pattern.Catalog) int {
	score := 0
	if contains(window, cat.Five) {
		score += ScoreFive
	}
	if contains(window, cat.OpenFour) {
		score += ScoreOpenFour
	}
	if pattern.MatchAny(window, cat.ClosedFour) {
		score += ScoreClosedFour
	}
	if pattern.MatchAny(window, cat.SplitFour) {
		score += ScoreSplitFour
	}
	if contains(window, cat.OpenThree) {
		score += ScoreOpenThree
	}
	if pattern.MatchAny(window, cat.ClosedThree) {
		score += ScoreClosedThree
	}
	if pattern.MatchAny(window, cat.SplitThree) {
		score += ScoreSplitThree
	}
	if pattern.MatchAny(window, cat.BrokenOpenThree) {
		score += ScoreBrokenOpenThree
	}
	if contains(window, cat.OpenTwo) {
		score += ScoreOpenTwo
	}
	if pattern.MatchAny(window, cat.ClosedTwo) {
		score += ScoreClosedTwo
	}
	return score
}

func contains(window, p string) bool {
	return p != "" && strings.Contains(window, p)
}

const windowRadius = 4 // length-9 window per spec.md §3

// CellScore is the score a single stone of player p contributes, summed
// over the four scan directions. Empty or opponent-held cells score 0: the
// evaluator attributes score per placed stone, not per candidate cell.
func CellScore(b *board.Board, x, y int, p board.Player) int {
	if b.At(x, y) != p {
		return 0
	}
	cat := pattern.For(p)
	total := 0
	for _, d := range board.Directions() {
		total += Line(b.Window(x, y, d, windowRadius), cat)
	}
	return total
}

type cellKey struct {
	X, Y int
	P    board.Player
}

// Evaluator maintains the per-player running score totals for a board,
// recomputing only dirty cells (spec.md §4.3's incremental maintenance).
type Evaluator struct {
	cache  map[cellKey]int
	totals map[board.Player]int
}

// New creates an Evaluator with empty caches. Call Sync once against a
// freshly populated board (after marking it fully dirty) before reading
// totals.
func New() *Evaluator {
	return &Evaluator{
		cache:  make(map[cellKey]int),
		totals: make(map[board.Player]int),
	}
}

// Sync recomputes the score for every cell in b's dirty set and clears it.
func (e *Evaluator) Sync(b *board.Board) {
	for _, pt := range b.DirtyCells() {
		for _, p := range [2]board.Player{board.Player1, board.Player2} {
			key := cellKey{pt.X, pt.Y, p}
			old := e.cache[key]
			next := CellScore(b, pt.X, pt.Y, p)
			if next == 0 {
				delete(e.cache, key)
			} else {
				e.cache[key] = next
			}
			e.totals[p] += next - old
		}
	}
	b.ClearDirty()
}

// Total returns player p's accumulated score.
func (e *Evaluator) Total(p board.Player) int {
	return e.totals[p]
}

// Score returns the board-level evaluation from own's perspective:
// ATTACK*total(own) - DEFENSE*total(opp).
func (e *Evaluator) Score(own board.Player, attack, defense float64) int {
	return int(attack*float64(e.Total(own)) - defense*float64(e.Total(own.Opponent())))
}

// Recompute rescans the whole board from scratch, using no cache, and
// returns each player's raw total (attack and defense are not applied),
// used to verify the incremental path (spec.md §8). It does not touch any
// Evaluator.
func Recompute(b *board.Board, attack, defense float64) (own1, own2 int) {
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			own1 += CellScore(b, x, y, board.Player1)
			own2 += CellScore(b, x, y, board.Player2)
		}
	}
	return own1, own2
}

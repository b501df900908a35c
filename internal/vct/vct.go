// Package vct implements the threat-space search (spec.md §4.7): a
// depth-bounded DFS that tries to prove a forced win through continuous
// threats, without the full negamax engine's general-purpose search.
package vct

import (
	"sort"
	"time"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/heuristic"
	"github.com/hailam/gomoku/internal/threat"
)

// candidateRadius bounds move generation to cells near existing stones,
// matching the negamax engine's own candidate generation.
const candidateRadius = 2

const (
	attackerBranch = 8
	defenderBranch = 6
)

// depthBounds is the iterative-deepening schedule spec.md §4.7 names:
// {6, 10, max}. maxDepth is computed from the board's empty-cell count so
// the final pass can, in principle, exhaust the position.
func depthBounds(b *board.Board) []int {
	maxDepth := b.W*b.H - b.MoveCount()
	return []int{6, 10, maxDepth}
}

// Search attempts to prove player attacker has a forced win on b before
// deadline. On success it returns the first move of a winning line.
func Search(b *board.Board, attacker board.Player, tc *threat.Counter, deadline time.Time) (board.Point, bool) {
	seen := -1
	for _, depth := range depthBounds(b) {
		if depth <= seen {
			continue
		}
		seen = depth
		if time.Now().After(deadline) {
			return board.Point{}, false
		}
		if mv, ok := dfsAttackerRoot(b, attacker, depth, tc, deadline); ok {
			return mv, true
		}
	}
	return board.Point{}, false
}

// dfsAttackerRoot runs one attacker ply and reports the first candidate
// that forces a win, so the caller can recover the actual move (the
// recursive dfsAttacker only needs a bool).
func dfsAttackerRoot(b *board.Board, attacker board.Player, depth int, tc *threat.Counter, deadline time.Time) (board.Point, bool) {
	for _, m := range threatMoves(b, attacker, tc) {
		if time.Now().After(deadline) {
			return board.Point{}, false
		}
		if _, ok := tryAttackerMove(b, attacker, m, depth, tc, deadline); ok {
			return m, true
		}
	}
	return board.Point{}, false
}

func dfsAttacker(b *board.Board, attacker board.Player, depth int, tc *threat.Counter, deadline time.Time) bool {
	if time.Now().After(deadline) {
		return false
	}
	for _, m := range threatMoves(b, attacker, tc) {
		if _, ok := tryAttackerMove(b, attacker, m, depth, tc, deadline); ok {
			return true
		}
	}
	return false
}

func tryAttackerMove(b *board.Board, attacker board.Player, m board.Point, depth int, tc *threat.Counter, deadline time.Time) (board.Point, bool) {
	if err := b.PlaceStone(m.X, m.Y, attacker); err != nil {
		return board.Point{}, false
	}
	defer func() { _ = b.UndoStone(m.X, m.Y, attacker) }()

	if b.CheckWin(m.X, m.Y, attacker) {
		return m, true
	}
	if depth == 0 {
		return board.Point{}, false
	}
	if dfsDefender(b, attacker, depth-1, tc, deadline) {
		return m, true
	}
	return board.Point{}, false
}

// dfsDefender is an AND-node over the defender's replies: the attacker's
// move only forces a win if every defense still loses, or there is no
// legal defense at all (spec.md §4.7's third terminal condition).
func dfsDefender(b *board.Board, attacker board.Player, depth int, tc *threat.Counter, deadline time.Time) bool {
	if time.Now().After(deadline) {
		return false
	}
	defender := attacker.Opponent()
	moves := defenseMoves(b, attacker, tc)
	if len(moves) == 0 {
		return true
	}
	for _, m := range moves {
		if err := b.PlaceStone(m.X, m.Y, defender); err != nil {
			continue
		}
		ok := dfsAttacker(b, attacker, depth, tc, deadline)
		_ = b.UndoStone(m.X, m.Y, defender)
		if !ok {
			return false
		}
	}
	return true
}

type scored struct {
	pt    board.Point
	score int
}

// threatMoves ranks empty candidate cells by heuristic.Score for side,
// keeping those at spec.md §4.6 rank 14 (split three) or better, capped at
// attackerBranch. That threshold also admits the defensive block ranks
// (6–13), so a move that only blocks an opponent threat is kept as well.
func threatMoves(b *board.Board, side board.Player, tc *threat.Counter) []board.Point {
	var ranked []scored
	for _, m := range b.ValidMoves(candidateRadius) {
		s := heuristic.Score(b, tc, m, side, 0)
		if s >= heuristic.ScoreSplitThreeRank {
			ranked = append(ranked, scored{m, s})
		}
	}
	return topN(ranked, attackerBranch)
}

// defenseMoves ranks empty candidate cells by how well they serve the
// defender: block one of attacker's threats, or create a counter-four of
// their own — both are exactly what heuristic.Score reports from the
// defender's perspective, capped at defenderBranch.
func defenseMoves(b *board.Board, attacker board.Player, tc *threat.Counter) []board.Point {
	defender := attacker.Opponent()
	var ranked []scored
	for _, m := range b.ValidMoves(candidateRadius) {
		s := heuristic.Score(b, tc, m, defender, 0)
		if s >= heuristic.ScoreBlockBuildingTwo {
			ranked = append(ranked, scored{m, s})
		}
	}
	return topN(ranked, defenderBranch)
}

func topN(ranked []scored, n int) []board.Point {
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]board.Point, len(ranked))
	for i, r := range ranked {
		out[i] = r.pt
	}
	return out
}

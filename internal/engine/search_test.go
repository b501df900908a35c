package engine

import (
	"sync/atomic"
	"testing"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/eval"
	"github.com/hailam/gomoku/internal/threat"
)

func newSearchTestBoard(t *testing.T) (*board.Board, *eval.Evaluator, *threat.Counter, *TranspositionTable, *MoveOrderer) {
	t.Helper()
	b, err := board.NewBoard(15, 15)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	tc, err := threat.NewCounter()
	if err != nil {
		t.Fatalf("NewCounter: %v", err)
	}
	tt, err := NewTranspositionTable(4096)
	if err != nil {
		t.Fatalf("NewTranspositionTable: %v", err)
	}
	return b, eval.New(), tc, tt, NewMoveOrderer(15, 15)
}

func TestNegamaxFindsImmediateWin(t *testing.T) {
	b, ev, tc, tt, mo := newSearchTestBoard(t)
	defer tc.Close()

	for _, x := range []int{4, 5, 6, 7} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	ev.Sync(b)

	s := NewSearcher(b, ev, tc, tt, mo, eval.DefaultAttack, eval.DefaultDefense)
	var stop atomic.Bool
	s.stop = &stop

	score, mv, has := s.negamax(2, -MateScore, MateScore, 0, board.Player1)
	if !has {
		t.Fatalf("expected a best move")
	}
	if mv.X != 3 && mv.X != 8 {
		t.Fatalf("expected winning completion at x=3 or x=8, got %+v", mv)
	}
	if score < MateScore-MaxPly {
		t.Fatalf("score %d does not look like a mate score", score)
	}
}

func TestQuiescenceStandPatBoundsScore(t *testing.T) {
	b, ev, tc, tt, mo := newSearchTestBoard(t)
	defer tc.Close()
	ev.Sync(b)

	s := NewSearcher(b, ev, tc, tt, mo, eval.DefaultAttack, eval.DefaultDefense)
	var stop atomic.Bool
	s.stop = &stop

	score := s.quiescence(-MateScore, MateScore, 0, board.Player1, 0)
	if score < -MateScore || score > MateScore {
		t.Fatalf("quiescence score %d out of range", score)
	}
}

func TestIsTacticalDetectsFourCreation(t *testing.T) {
	b, ev, tc, tt, mo := newSearchTestBoard(t)
	defer tc.Close()

	for _, x := range []int{4, 5, 6} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	ev.Sync(b)

	s := NewSearcher(b, ev, tc, tt, mo, eval.DefaultAttack, eval.DefaultDefense)
	if !s.isTactical(board.Point{X: 7, Y: 7}, board.Player1) {
		t.Fatalf("expected extending to a four to be tactical")
	}
	if s.isTactical(board.Point{X: 0, Y: 0}, board.Player1) {
		t.Fatalf("expected an isolated corner move not to be tactical")
	}
}

func TestAdjacentOpponentCount(t *testing.T) {
	b, err := board.NewBoard(15, 15)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	for _, pt := range []board.Point{{X: 6, Y: 6}, {X: 7, Y: 6}, {X: 6, Y: 7}} {
		if err := b.PlaceStone(pt.X, pt.Y, board.Player2); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	if got := adjacentOpponentCount(b, board.Point{X: 7, Y: 7}, board.Player2); got != 3 {
		t.Fatalf("adjacentOpponentCount = %d, want 3", got)
	}
}

package engine

import (
	"testing"

	"github.com/hailam/gomoku/internal/board"
)

func TestMoveOrdererPrioritizesTTMoveThenKillers(t *testing.T) {
	mo := NewMoveOrderer(15, 15)
	ttMove := board.Point{X: 7, Y: 7}
	killer := board.Point{X: 3, Y: 4}
	mo.UpdateKillers(killer, 2)

	if got := mo.Score(ttMove, 2, ttMove, true); got != TTMoveScore {
		t.Fatalf("TT move score = %d, want %d", got, TTMoveScore)
	}
	if got := mo.Score(killer, 2, board.Point{}, false); got != KillerScore1 {
		t.Fatalf("killer score = %d, want %d", got, KillerScore1)
	}
	other := board.Point{X: 0, Y: 0}
	if got := mo.Score(other, 2, board.Point{}, false); got != 0 {
		t.Fatalf("unseen move score = %d, want 0", got)
	}
}

func TestMoveOrdererHistoryAccumulatesAndDecays(t *testing.T) {
	mo := NewMoveOrderer(15, 15)
	m := board.Point{X: 5, Y: 5}
	mo.UpdateHistory(m, 4)
	first := mo.Score(m, 0, board.Point{}, false)
	if first != 16 {
		t.Fatalf("history after depth=4 cutoff = %d, want 16", first)
	}
	mo.UpdateHistory(m, 4)
	if second := mo.Score(m, 0, board.Point{}, false); second != 32 {
		t.Fatalf("history after second cutoff = %d, want 32", second)
	}

	mo.Clear()
	if decayed := mo.Score(m, 0, board.Point{}, false); decayed != 28 {
		t.Fatalf("history after decay = %d, want 28 (32*0.9)", decayed)
	}
}

func TestSortByScoreOrdersDescending(t *testing.T) {
	mo := NewMoveOrderer(15, 15)
	a := board.Point{X: 1, Y: 1}
	b := board.Point{X: 2, Y: 2}
	c := board.Point{X: 3, Y: 3}
	mo.UpdateHistory(a, 2)
	mo.UpdateHistory(b, 5)

	moves := []board.Point{a, b, c}
	sortByScore(moves, mo, 0, board.Point{}, false)

	if moves[0] != b || moves[1] != a || moves[2] != c {
		t.Fatalf("unexpected order: %+v", moves)
	}
}

func TestSortByScorePutsTTMoveFirst(t *testing.T) {
	mo := NewMoveOrderer(15, 15)
	a := board.Point{X: 1, Y: 1}
	b := board.Point{X: 2, Y: 2}
	mo.UpdateHistory(b, 10)

	moves := []board.Point{a, b}
	sortByScore(moves, mo, 0, a, true)

	if moves[0] != a {
		t.Fatalf("expected TT move first, got %+v", moves)
	}
}

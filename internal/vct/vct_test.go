package vct

import (
	"testing"
	"time"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/threat"
)

func newTestBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.NewBoard(15, 15)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestSearchFindsOneMoveWin(t *testing.T) {
	b := newTestBoard(t)
	tc, err := threat.NewCounter()
	if err != nil {
		t.Fatalf("NewCounter: %v", err)
	}
	defer tc.Close()

	for _, x := range []int{4, 5, 6, 7} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}

	mv, ok := Search(b, board.Player1, tc, time.Now().Add(time.Second))
	if !ok {
		t.Fatalf("expected a proven win")
	}
	if mv.X != 8 && mv.X != 3 {
		t.Fatalf("expected the winning completion at x=3 or x=8, got %+v", mv)
	}
	if b.At(mv.X, mv.Y) != board.Empty {
		t.Fatalf("Search leaked a placed stone")
	}
}

func TestSearchFailsOnQuietBoard(t *testing.T) {
	b := newTestBoard(t)
	tc, err := threat.NewCounter()
	if err != nil {
		t.Fatalf("NewCounter: %v", err)
	}
	defer tc.Close()

	_, ok := Search(b, board.Player1, tc, time.Now().Add(100*time.Millisecond))
	if ok {
		t.Fatalf("did not expect a proven win on an empty board")
	}
}

package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/eval"
)

func newTestSetup(t *testing.T) (*board.Board, *eval.Evaluator, *Engine) {
	t.Helper()
	b, err := board.NewBoard(15, 15)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	e, err := NewEngine(15, 15, 1024)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return b, eval.New(), e
}

func TestIterativeDeepeningFindsOneMoveWin(t *testing.T) {
	b, ev, e := newTestSetup(t)
	defer e.Close()

	for _, x := range []int{4, 5, 6, 7} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	ev.Sync(b)

	var stop atomic.Bool
	tm := NewTimeManager(500 * time.Millisecond)
	res := e.Think(b, ev, board.Player1, 4, tm, &stop)
	if !res.HasMove {
		t.Fatalf("expected a move")
	}
	if res.Move.X != 3 && res.Move.X != 8 {
		t.Fatalf("expected the winning completion at x=3 or x=8, got %+v", res.Move)
	}
	if b.At(res.Move.X, res.Move.Y) != board.Empty {
		t.Fatalf("search leaked a placed stone")
	}
}

func TestSearchRespectsStopFlag(t *testing.T) {
	b, ev, e := newTestSetup(t)
	defer e.Close()
	ev.Sync(b)

	var stop atomic.Bool
	stop.Store(true)
	tm := NewTimeManager(500 * time.Millisecond)
	res := e.Think(b, ev, board.Player1, 4, tm, &stop)
	if res.HasMove {
		t.Fatalf("expected no move once stop is set before the first depth completes")
	}
}

func TestTranspositionTableStoresAndEvicts(t *testing.T) {
	tt, err := NewTranspositionTable(2)
	if err != nil {
		t.Fatalf("NewTranspositionTable: %v", err)
	}
	tt.Store(1, 4, 100, TTExact, board.Point{X: 1, Y: 1}, true)
	tt.Store(2, 4, 200, TTExact, board.Point{X: 2, Y: 2}, true)
	tt.Store(3, 4, 300, TTExact, board.Point{X: 3, Y: 3}, true)

	if _, ok := tt.Probe(1); ok {
		t.Fatalf("expected key 1 to have been evicted as least-recently-used")
	}
	if _, ok := tt.Probe(3); !ok {
		t.Fatalf("expected the most recently stored key to remain")
	}
}

func TestTimeManagerStopsAtMaximum(t *testing.T) {
	tm := NewTimeManager(100 * time.Millisecond)
	if tm.ShouldStop() {
		t.Fatalf("should not stop immediately")
	}
	time.Sleep(tm.MaximumTime() + 5*time.Millisecond)
	if !tm.ShouldStop() {
		t.Fatalf("expected ShouldStop after maximum time elapses")
	}
}

package board

import "testing"

func TestPlaceUndoRoundTrip(t *testing.T) {
	b, err := NewBoard(20, 20)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}

	before := snapshot(b)

	if err := b.PlaceStone(10, 10, Player1); err != nil {
		t.Fatalf("PlaceStone: %v", err)
	}
	if err := b.UndoStone(10, 10, Player1); err != nil {
		t.Fatalf("UndoStone: %v", err)
	}

	after := snapshot(b)
	if before.hash != after.hash || before.moveCount != after.moveCount {
		t.Fatalf("round trip changed board state: before=%+v after=%+v", before, after)
	}
	if b.At(10, 10) != Empty {
		t.Fatalf("expected (10,10) empty after undo, got %v", b.At(10, 10))
	}
}

type snap struct {
	hash      uint64
	moveCount int
}

func snapshot(b *Board) snap {
	return snap{hash: b.Hash(), moveCount: b.MoveCount()}
}

func TestPlaceStoneRejectsOccupied(t *testing.T) {
	b, _ := NewBoard(20, 20)
	if err := b.PlaceStone(5, 5, Player1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PlaceStone(5, 5, Player2); err != ErrOccupied {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if err := b.PlaceStone(-1, 0, Player1); err != ErrOccupied {
		t.Fatalf("expected ErrOccupied for out-of-bounds, got %v", err)
	}
}

func TestValidMovesEmptyBoardReturnsCenter(t *testing.T) {
	b, _ := NewBoard(20, 20)
	moves := b.ValidMoves(2)
	if len(moves) != 1 || moves[0] != (Point{10, 10}) {
		t.Fatalf("expected center-only moves, got %v", moves)
	}
}

func TestValidMovesBoundedByRadius(t *testing.T) {
	b, _ := NewBoard(20, 20)
	_ = b.PlaceStone(10, 10, Player1)
	moves := b.ValidMoves(2)
	for _, m := range moves {
		dx, dy := m.X-10, m.Y-10
		if abs(dx) > 2 || abs(dy) > 2 {
			t.Fatalf("move %v outside radius 2 of (10,10)", m)
		}
	}
	if len(moves) != 24 { // 5x5 box minus the occupied center
		t.Fatalf("expected 24 candidate moves, got %d", len(moves))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestCheckWinHorizontalFive(t *testing.T) {
	b, _ := NewBoard(20, 20)
	for x := 5; x <= 8; x++ {
		_ = b.PlaceStone(x, 10, Player1)
	}
	if b.CheckWin(8, 10, Player1) {
		t.Fatalf("four stones should not be a win")
	}
	_ = b.PlaceStone(9, 10, Player1)
	if !b.CheckWin(9, 10, Player1) {
		t.Fatalf("five in a row should be a win")
	}
}

func TestWindowEmitsWallAtBoundary(t *testing.T) {
	b, _ := NewBoard(20, 20)
	_ = b.PlaceStone(0, 0, Player1)
	w := b.Window(0, 0, Direction{1, 0}, 2)
	if w[0] != Wall || w[1] != Wall {
		t.Fatalf("expected leading wall sentinels, got %q", w)
	}
	if w[2] != '1' {
		t.Fatalf("expected center stone, got %q", w)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b, _ := NewBoard(20, 20)
	_ = b.PlaceStone(3, 3, Player1)
	c := b.Copy()
	_ = c.PlaceStone(4, 4, Player2)
	if b.At(4, 4) != Empty {
		t.Fatalf("mutating the copy leaked into the original")
	}
	if c.Hash() == b.Hash() {
		t.Fatalf("expected copy hash to diverge after mutation")
	}
}

func TestZobristDeterministicAcrossInstances(t *testing.T) {
	b1, _ := NewBoard(20, 20)
	b2, _ := NewBoard(20, 20)
	_ = b1.PlaceStone(1, 1, Player1)
	_ = b2.PlaceStone(1, 1, Player1)
	if b1.Hash() != b2.Hash() {
		t.Fatalf("expected identical Zobrist hash for identical boards")
	}
}

package threat

import (
	"testing"

	"github.com/hailam/gomoku/internal/board"
)

func TestScanFindsOpenFour(t *testing.T) {
	b := newTestBoard(t)
	for _, x := range []int{5, 6, 7, 8} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	records := Scan(b, board.Player1)
	found := false
	for _, r := range records {
		if r.Pattern == "open_four" {
			found = true
			if len(r.Blocks) != 2 {
				t.Fatalf("expected two blocking cells for an open four, got %v", r.Blocks)
			}
		}
	}
	if !found {
		t.Fatalf("expected an open_four record, got %+v", records)
	}
}

func TestScanFindsSplitFourGap(t *testing.T) {
	b := newTestBoard(t)
	for _, x := range []int{4, 5, 7, 8} {
		if err := b.PlaceStone(x, 7, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	records := Scan(b, board.Player1)
	found := false
	for _, r := range records {
		if r.Pattern == "split_four" {
			found = true
			if r.Gap == nil || *r.Gap != (board.Point{X: 6, Y: 7}) {
				t.Fatalf("expected split-four gap at (6,7), got %+v", r.Gap)
			}
		}
	}
	if !found {
		t.Fatalf("expected a split_four record, got %+v", records)
	}
}

func TestScanIgnoresOpponentStones(t *testing.T) {
	b := newTestBoard(t)
	for _, x := range []int{5, 6, 7} {
		if err := b.PlaceStone(x, 7, board.Player2); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	records := Scan(b, board.Player1)
	for _, r := range records {
		if r.Pattern == "open_three" {
			t.Fatalf("did not expect player1 open_three from player2 stones: %+v", r)
		}
	}
}

func TestScanEachLineOnce(t *testing.T) {
	b := newTestBoard(t)
	for _, x := range []int{3, 4, 5} {
		if err := b.PlaceStone(x, 9, board.Player1); err != nil {
			t.Fatalf("PlaceStone: %v", err)
		}
	}
	records := Scan(b, board.Player1)
	count := 0
	for _, r := range records {
		if r.Pattern == "open_three" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one open_three record, got %d (%+v)", count, records)
	}
}

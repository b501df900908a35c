package pattern

import (
	"strings"
	"testing"

	"github.com/hailam/gomoku/internal/board"
)

func TestBuildUsesPlayerDigits(t *testing.T) {
	c := Build(board.Player1)
	if c.Five != "11111" {
		t.Fatalf("expected five=11111, got %q", c.Five)
	}
	if c.OpenFour != ".1111." {
		t.Fatalf("expected open four=.1111., got %q", c.OpenFour)
	}
	if !strings.Contains(strings.Join(c.ClosedFour, "|"), "2") {
		t.Fatalf("expected a closed-four variant blocked by opponent digit 2")
	}
	if !strings.Contains(strings.Join(c.ClosedFour, "|"), string(board.Wall)) {
		t.Fatalf("expected a closed-four variant blocked by the wall sentinel")
	}
}

func TestBuildIsPerspectiveSwapped(t *testing.T) {
	c1 := Build(board.Player1)
	c2 := Build(board.Player2)
	if c1.Five == c2.Five {
		t.Fatalf("player perspectives should not share the same five pattern")
	}
	if c2.Five != "22222" {
		t.Fatalf("expected player2 five=22222, got %q", c2.Five)
	}
}

func TestForIsMemoized(t *testing.T) {
	a := For(board.Player1)
	b := For(board.Player1)
	if a.Five != b.Five {
		t.Fatalf("expected stable catalog across calls")
	}
}

func TestMatchAny(t *testing.T) {
	c := For(board.Player1)
	if !MatchAny("##.1111.#", []string{c.OpenFour}) {
		t.Fatalf("expected open four to match within a larger window")
	}
	if MatchAny("##.2222.#", []string{c.OpenFour}) {
		t.Fatalf("did not expect opponent stones to match player1's open four")
	}
}

package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/book"
	"github.com/hailam/gomoku/internal/identity"
)

// fakeEngine is a scripted collaborator double, so the driver's protocol
// handling is tested independently of the real search engine.
type fakeEngine struct {
	initErr     error
	openMove    board.Point
	turnMove    board.Point
	boardMove   board.Point
	lastOpp     board.Point
	lastStones  []book.Stone
}

func (f *fakeEngine) InitializeBoard(w, h int) error { return f.initErr }
func (f *fakeEngine) OpeningMove() (board.Point, error) { return f.openMove, nil }
func (f *fakeEngine) ProcessOpponentMove(x, y int) error {
	f.lastOpp = board.Point{X: x, Y: y}
	return nil
}
func (f *fakeEngine) BestMove() (board.Point, error) { return f.turnMove, nil }
func (f *fakeEngine) ReplaceBoard(stones []book.Stone) error {
	f.lastStones = stones
	return nil
}
func (f *fakeEngine) About() identity.Info { return identity.Info{Name: "gomoku-core", Version: "1.0"} }

func newDriver(f *fakeEngine) (*driver, *bytes.Buffer) {
	var buf bytes.Buffer
	return &driver{eng: f, out: bufio.NewWriter(&buf)}, &buf
}

func TestDriverStartReportsOK(t *testing.T) {
	d, buf := newDriver(&fakeEngine{})
	d.run(strings.NewReader("START 15\nEND\n"))
	d.out.Flush()
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK response, got %q", buf.String())
	}
}

func TestDriverBeginReturnsOpeningMove(t *testing.T) {
	d, buf := newDriver(&fakeEngine{openMove: board.Point{X: 7, Y: 7}})
	d.run(strings.NewReader("START 15\nBEGIN\nEND\n"))
	d.out.Flush()
	if !strings.Contains(buf.String(), "7,7") {
		t.Fatalf("expected opening move 7,7, got %q", buf.String())
	}
}

func TestDriverTurnForwardsOpponentMoveAndReplies(t *testing.T) {
	f := &fakeEngine{turnMove: board.Point{X: 3, Y: 4}}
	d, buf := newDriver(f)
	d.run(strings.NewReader("START 15\nTURN 1,2\nEND\n"))
	d.out.Flush()
	if f.lastOpp != (board.Point{X: 1, Y: 2}) {
		t.Fatalf("expected opponent move forwarded as (1,2), got %v", f.lastOpp)
	}
	if !strings.Contains(buf.String(), "3,4") {
		t.Fatalf("expected reply 3,4, got %q", buf.String())
	}
}

func TestDriverBoardParsesStonesUntilDone(t *testing.T) {
	f := &fakeEngine{boardMove: board.Point{X: 0, Y: 0}, turnMove: board.Point{X: 5, Y: 5}}
	d, buf := newDriver(f)
	d.run(strings.NewReader("START 15\nBOARD\n1,1,1\n2,2,2\nDONE\nEND\n"))
	d.out.Flush()
	if len(f.lastStones) != 2 {
		t.Fatalf("expected 2 parsed stones, got %d", len(f.lastStones))
	}
	if f.lastStones[0].Player != board.Player1 || f.lastStones[1].Player != board.Player2 {
		t.Fatalf("expected stone players 1,2 in order, got %+v", f.lastStones)
	}
	if !strings.Contains(buf.String(), "5,5") {
		t.Fatalf("expected reply 5,5, got %q", buf.String())
	}
}

func TestDriverMalformedStartReportsParseError(t *testing.T) {
	d, buf := newDriver(&fakeEngine{})
	d.run(strings.NewReader("START notanumber\nEND\n"))
	d.out.Flush()
	if !strings.Contains(buf.String(), "ERROR Parse error") {
		t.Fatalf("expected parse error, got %q", buf.String())
	}
}

func TestDriverAboutFormatsIdentity(t *testing.T) {
	d, buf := newDriver(&fakeEngine{})
	d.run(strings.NewReader("ABOUT\nEND\n"))
	d.out.Flush()
	if !strings.Contains(buf.String(), "gomoku-core") {
		t.Fatalf("expected identity name in ABOUT response, got %q", buf.String())
	}
}

func TestDriverUnknownCommandIsIgnored(t *testing.T) {
	d, buf := newDriver(&fakeEngine{})
	code := d.run(strings.NewReader("FROBNICATE\nEND\n"))
	d.out.Flush()
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an unknown command, got %q", buf.String())
	}
}

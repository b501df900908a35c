package threat

import (
	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/pattern"
)

// Severity buckets group scanned threats by how urgently they must be
// answered, per spec.md §4.5.
type Severity int

const (
	SeverityFour Severity = iota
	SeverityOpenThree
	SeveritySplitThree
	SeverityBuildingTwo
)

// Record describes one matched threat line: the stones that realize it, the
// scan direction, and the empty cell(s) that would complete or block it.
type Record struct {
	Severity  Severity
	Direction board.Direction
	Stones    []board.Point
	Blocks    []board.Point
	Gap       *board.Point
	Pattern   string
}

// Scan enumerates every maximal line on b in all four directions and
// returns every pattern match for player p's perspective, each tagged with
// its Severity; the slice is ordered by direction and line, not by
// severity. The caller typically scans for p == the side to move's
// opponent, to find threats that must be answered.
func Scan(b *board.Board, p board.Player) []Record {
	cat := pattern.For(p)
	var records []Record

	for _, d := range canonicalDirections() {
		for _, origin := range lineOrigins(b, d) {
			line := b.Line(origin.X, origin.Y, d)
			records = append(records, scanLine(line, origin, d, cat)...)
		}
	}
	return records
}

// canonicalDirections returns one representative of each undirected line
// direction — {1,0} and {0,1} are each other's own reverse, {1,1}/{1,-1}
// likewise, so scanning both signs of all four would double every line.
func canonicalDirections() []board.Direction {
	return []board.Direction{{DX: 1, DY: 0}, {DX: 0, DY: 1}, {DX: 1, DY: 1}, {DX: 1, DY: -1}}
}

// lineOrigins returns one representative cell per distinct maximal line
// along d; board.Line always walks back to the true start of the line from
// whatever cell it is called on, so any cell on the line works as long as
// every line is touched by at least one chosen origin.
func lineOrigins(b *board.Board, d board.Direction) []board.Point {
	var origins []board.Point
	switch {
	case d.DX == 1 && d.DY == 0: // horizontal: one per row
		for y := 0; y < b.H; y++ {
			origins = append(origins, board.Point{X: 0, Y: y})
		}
	case d.DX == 0 && d.DY == 1: // vertical: one per column
		for x := 0; x < b.W; x++ {
			origins = append(origins, board.Point{X: x, Y: 0})
		}
	case d.DX == 1 && d.DY == 1: // diagonal ↘: top row, then left column
		for x := 0; x < b.W; x++ {
			origins = append(origins, board.Point{X: x, Y: 0})
		}
		for y := 1; y < b.H; y++ {
			origins = append(origins, board.Point{X: 0, Y: y})
		}
	case d.DX == 1 && d.DY == -1: // diagonal ↗: bottom row, then left column
		for x := 0; x < b.W; x++ {
			origins = append(origins, board.Point{X: x, Y: b.H - 1})
		}
		for y := 0; y < b.H-1; y++ {
			origins = append(origins, board.Point{X: 0, Y: y})
		}
	}
	return origins
}

// scanLine finds every non-overlapping-start occurrence of each threat
// pattern within line, translating string indices back into board
// coordinates via origin+d. line[0] is always the leading Wall pad, so
// line[i] corresponds to origin + (i-1)*d for i>=1.
func scanLine(line string, origin board.Point, d board.Direction, cat pattern.Catalog) []Record {
	var out []Record

	cellAt := func(idx int) board.Point {
		return board.Point{X: origin.X + (idx-1)*d.DX, Y: origin.Y + (idx-1)*d.DY}
	}

	findAll := func(pat string) []int {
		var idxs []int
		for i := 0; i+len(pat) <= len(line); i++ {
			if line[i:i+len(pat)] == pat {
				idxs = append(idxs, i)
			}
		}
		return idxs
	}

	for _, idx := range findAll(cat.Five) {
		out = append(out, Record{Severity: SeverityFour, Direction: d, Pattern: "five",
			Stones: stonesRange(cellAt, idx, 5)})
	}
	for _, idx := range findAll(cat.OpenFour) {
		out = append(out, Record{Severity: SeverityFour, Direction: d, Pattern: "open_four",
			Stones: stonesRange(cellAt, idx+1, 4),
			Blocks: []board.Point{cellAt(idx), cellAt(idx + 5)}})
	}
	ownByte := cat.Five[0]
	for _, pat := range cat.ClosedFour {
		gapIdx := gapIndex(pat)
		for _, idx := range findAll(pat) {
			rec := Record{Severity: SeverityFour, Direction: d, Pattern: "closed_four"}
			for i := 0; i < len(pat); i++ {
				switch {
				case i == gapIdx:
					rec.Blocks = append(rec.Blocks, cellAt(idx+i))
				case pat[i] == ownByte:
					rec.Stones = append(rec.Stones, cellAt(idx+i))
				}
			}
			out = append(out, rec)
		}
	}
	for _, pat := range cat.SplitFour {
		gapIdx := gapIndex(pat)
		for _, idx := range findAll(pat) {
			out = append(out, Record{
				Severity: SeverityFour, Direction: d, Pattern: "split_four",
				Stones: stonesExcept(cellAt, idx, len(pat), gapIdx),
				Gap:    ptr(cellAt(idx + gapIdx)),
				Blocks: []board.Point{cellAt(idx + gapIdx)},
			})
		}
	}
	for _, idx := range findAll(cat.OpenThree) {
		out = append(out, Record{Severity: SeverityOpenThree, Direction: d, Pattern: "open_three",
			Stones: stonesRange(cellAt, idx+1, 3),
			Blocks: []board.Point{cellAt(idx), cellAt(idx + 4)}})
	}
	for _, pat := range cat.SplitThree {
		gapIdx := gapIndex(pat)
		for _, idx := range findAll(pat) {
			out = append(out, Record{
				Severity: SeveritySplitThree, Direction: d, Pattern: "split_three",
				Stones: stonesExcept(cellAt, idx, len(pat), gapIdx),
				Gap:    ptr(cellAt(idx + gapIdx)),
				Blocks: []board.Point{cellAt(idx + gapIdx)},
			})
		}
	}
	for _, idx := range findAll(cat.OpenTwo) {
		out = append(out, Record{Severity: SeverityBuildingTwo, Direction: d, Pattern: "building_two",
			Stones: stonesRange(cellAt, idx+1, 2),
			Blocks: []board.Point{cellAt(idx), cellAt(idx + 3)}})
	}
	return out
}

func gapIndex(pat string) int {
	for i := 0; i < len(pat); i++ {
		if pat[i] == '.' {
			return i
		}
	}
	return -1
}

func stonesRange(cellAt func(int) board.Point, start, n int) []board.Point {
	out := make([]board.Point, n)
	for i := 0; i < n; i++ {
		out[i] = cellAt(start + i)
	}
	return out
}

func stonesExcept(cellAt func(int) board.Point, start, length, skip int) []board.Point {
	var out []board.Point
	for i := 0; i < length; i++ {
		if i == skip {
			continue
		}
		out = append(out, cellAt(start+i))
	}
	return out
}

func ptr(p board.Point) *board.Point { return &p }

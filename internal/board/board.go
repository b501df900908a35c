// Package board implements the Gomoku grid: stone placement, legal-move
// generation, win detection and an incrementally maintained Zobrist hash.
package board

import (
	"errors"
	"fmt"
)

// Player identifies the occupant of a cell.
type Player uint8

const (
	Empty Player = iota
	Player1
	Player2
)

// Opponent returns the other player. Empty has no opponent and returns Empty.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

// Byte returns the alphabet character spec.md uses for this player
// ('.' for empty, '1'/'2' for the two players).
func (p Player) Byte() byte {
	switch p {
	case Player1:
		return '1'
	case Player2:
		return '2'
	default:
		return '.'
	}
}

func (p Player) String() string {
	return string(p.Byte())
}

// Wall is the out-of-bounds sentinel used in extracted line windows.
const Wall = '#'

// Point is a board coordinate.
type Point struct {
	X, Y int
}

var (
	// ErrInvalidSize is returned by NewBoard for non-positive dimensions.
	ErrInvalidSize = errors.New("board: width and height must be positive")
	// ErrOccupied is returned by PlaceStone on a non-empty or out-of-bounds cell.
	ErrOccupied = errors.New("board: cell occupied or out of bounds")
	// ErrNotPresent is returned by UndoStone when the cell does not hold the
	// expected stone.
	ErrNotPresent = errors.New("board: cell does not hold the stone being undone")
)

// dirtyRadius is the Chebyshev radius around a mutated cell that must be
// marked dirty, per spec.md §3 invariant (c). Line windows only ever reach
// 4 cells from center (windowRadius in eval and threat), so 4 is sufficient; kept as a named
// constant since implementers may narrow it (spec.md §9 open question).
const dirtyRadius = 4

// Board is a square or rectangular Gomoku grid.
//
// Board is the sole owner of its cell grid, move count and Zobrist hash.
// It is not safe for concurrent mutation: callers that need to search from
// a board while another goroutine reads it must Copy() first (spec.md §5).
type Board struct {
	W, H      int
	cells     []Player
	moveCount int
	hash      uint64
	zobrist   *zobristTable
	dirty     map[Point]struct{}
}

// NewBoard creates an empty W×H board.
func NewBoard(w, h int) (*Board, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, w, h)
	}
	return &Board{
		W:       w,
		H:       h,
		cells:   make([]Player, w*h),
		zobrist: zobristFor(w, h),
		dirty:   make(map[Point]struct{}, (2*dirtyRadius+1)*(2*dirtyRadius+1)),
	}, nil
}

func (b *Board) index(x, y int) int { return y*b.W + x }

// InBounds reports whether (x,y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.W && y < b.H
}

// At returns the occupant of (x,y), or Empty if out of bounds.
func (b *Board) At(x, y int) Player {
	if !b.InBounds(x, y) {
		return Empty
	}
	return b.cells[b.index(x, y)]
}

// MoveCount returns the number of stones placed on the board.
func (b *Board) MoveCount() int { return b.moveCount }

// Hash returns the current Zobrist hash.
func (b *Board) Hash() uint64 { return b.hash }

// PlaceStone writes p at (x,y). It fails with ErrOccupied if the cell is
// non-empty or out of bounds.
func (b *Board) PlaceStone(x, y int, p Player) error {
	if !b.InBounds(x, y) || b.cells[b.index(x, y)] != Empty {
		return ErrOccupied
	}
	b.cells[b.index(x, y)] = p
	b.moveCount++
	b.hash ^= b.zobrist.key(x, y, p)
	b.markDirty(x, y)
	return nil
}

// UndoStone is the exact inverse of PlaceStone. It requires the cell to
// currently hold p.
func (b *Board) UndoStone(x, y int, p Player) error {
	if !b.InBounds(x, y) || b.cells[b.index(x, y)] != p {
		return ErrNotPresent
	}
	b.cells[b.index(x, y)] = Empty
	b.moveCount--
	b.hash ^= b.zobrist.key(x, y, p)
	b.markDirty(x, y)
	return nil
}

func (b *Board) markDirty(x, y int) {
	for dy := -dirtyRadius; dy <= dirtyRadius; dy++ {
		for dx := -dirtyRadius; dx <= dirtyRadius; dx++ {
			px, py := x+dx, y+dy
			if b.InBounds(px, py) {
				b.dirty[Point{px, py}] = struct{}{}
			}
		}
	}
}

// DirtyCells returns the cells whose cached evaluation must be recomputed
// since the last ClearDirty call. Order is unspecified.
func (b *Board) DirtyCells() []Point {
	out := make([]Point, 0, len(b.dirty))
	for pt := range b.dirty {
		out = append(out, pt)
	}
	return out
}

// ClearDirty empties the dirty set.
func (b *Board) ClearDirty() {
	for k := range b.dirty {
		delete(b.dirty, k)
	}
}

// MarkAllDirty forces every cell to be considered dirty, used to seed a
// fresh Evaluator cache against an already-populated board.
func (b *Board) MarkAllDirty() {
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			b.dirty[Point{x, y}] = struct{}{}
		}
	}
}

// center returns the board's center cell, used when no stones are placed.
func (b *Board) center() Point {
	return Point{b.W / 2, b.H / 2}
}

// ValidMoves returns every empty cell within Chebyshev distance radius of
// any occupied cell, or the center cell alone on an empty board. The
// returned order is deterministic (row-major scan).
func (b *Board) ValidMoves(radius int) []Point {
	if b.moveCount == 0 {
		return []Point{b.center()}
	}

	candidate := make(map[Point]struct{})
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.cells[b.index(x, y)] == Empty {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if b.InBounds(nx, ny) && b.cells[b.index(nx, ny)] == Empty {
						candidate[Point{nx, ny}] = struct{}{}
					}
				}
			}
		}
	}

	moves := make([]Point, 0, len(candidate))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if _, ok := candidate[Point{x, y}]; ok {
				moves = append(moves, Point{x, y})
			}
		}
	}
	return moves
}

// Direction is a scan step used by line-window extraction and win checks.
type Direction struct{ DX, DY int }

// Directions returns the four principal directions: horizontal, vertical
// and both diagonals.
func Directions() []Direction {
	return []Direction{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
}

// CheckWin reports whether the stone at (x,y) lies on a maximal line of at
// least 5 same-colored stones in any of the four directions.
func (b *Board) CheckWin(x, y int, p Player) bool {
	if b.At(x, y) != p {
		return false
	}
	for _, d := range Directions() {
		count := 1
		count += b.run(x, y, d.DX, d.DY, p)
		count += b.run(x, y, -d.DX, -d.DY, p)
		if count >= 5 {
			return true
		}
	}
	return false
}

func (b *Board) run(x, y, dx, dy int, p Player) int {
	n := 0
	cx, cy := x+dx, y+dy
	for b.At(cx, cy) == p {
		n++
		cx += dx
		cy += dy
	}
	return n
}

// Window extracts the length (2*radius+1) string centered on (x,y) along
// direction d, emitting Wall for any step that leaves the board.
func (b *Board) Window(x, y int, d Direction, radius int) string {
	buf := make([]byte, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		cx, cy := x+i*d.DX, y+i*d.DY
		if !b.InBounds(cx, cy) {
			buf[i+radius] = Wall
			continue
		}
		buf[i+radius] = b.At(cx, cy).Byte()
	}
	return string(buf)
}

// LineOrigin returns the first in-bounds cell of the maximal line through
// (x,y) along direction d — the cell that Line's byte 1 corresponds to
// (byte 0 is always the leading Wall pad).
func (b *Board) LineOrigin(x, y int, d Direction) Point {
	sx, sy := x, y
	for b.InBounds(sx-d.DX, sy-d.DY) {
		sx -= d.DX
		sy -= d.DY
	}
	return Point{sx, sy}
}

// Line extracts the entire maximal line through (x,y) along direction d,
// padded with one Wall sentinel on each end, used by the global threat
// scanner which must see the whole line rather than a fixed window.
func (b *Board) Line(x, y int, d Direction) string {
	origin := b.LineOrigin(x, y, d)
	buf := []byte{Wall}
	cx, cy := origin.X, origin.Y
	for b.InBounds(cx, cy) {
		buf = append(buf, b.At(cx, cy).Byte())
		cx += d.DX
		cy += d.DY
	}
	buf = append(buf, Wall)
	return string(buf)
}

// Copy deep-clones the board including hash and dirty set.
func (b *Board) Copy() *Board {
	nb := &Board{
		W:         b.W,
		H:         b.H,
		cells:     make([]Player, len(b.cells)),
		moveCount: b.moveCount,
		hash:      b.hash,
		zobrist:   b.zobrist,
		dirty:     make(map[Point]struct{}, len(b.dirty)),
	}
	copy(nb.cells, b.cells)
	for k := range b.dirty {
		nb.dirty[k] = struct{}{}
	}
	return nb
}

// Package book implements the opening book (spec.md §4.9): a
// symmetry-normalized lookup table from an early frozen stone-set to a
// response cell.
package book

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hailam/gomoku/internal/board"
)

// MaxMoves is spec.md §4.9's OPENING_BOOK_MAX_MOVES: queries with more
// stones than this are never consulted.
const MaxMoves = 6

// Stone is one placed cell, used both to describe a seed pattern and to
// freeze a query board's position into a lookup key.
type Stone struct {
	X, Y   int
	Player board.Player
}

// Seed is one opening-theory pattern: the stones already on the board and
// the response this book recommends for the player to move.
type Seed struct {
	Stones   []Stone
	Response board.Point
}

// Book is a process-wide immutable lookup table built once at
// construction (spec.md §4.3's "Pattern Catalog and Opening Book are
// process-wide immutable caches initialized once"), grounded on the
// teacher's internal/book/book.go Polyglot table (map[uint64][]BookEntry)
// — generalized from a single 64-bit Zobrist key to a frozen stone-set
// string key, since gomoku's opening book is keyed by the literal set of
// placed stones rather than a position hash (spec.md §3's glossary entry
// for "Opening Book Entry").
type Book struct {
	w, h  int
	table map[string]board.Point
}

// New builds an empty book for a w×h board.
func New(w, h int) *Book {
	return &Book{w: w, h: h, table: make(map[string]board.Point)}
}

// Load expands each seed under the board's 8-element dihedral symmetry
// group around the center and inserts every resulting image, per spec.md
// §4.9's "at build time, a seed list of patterns is expanded under all 8
// symmetries... each symmetric image is inserted with the transformed
// response". When several symmetries map a seed onto the same stone set,
// the first image inserted keeps its response (identity comes first, so a
// seed's own stones always map to its own response). The board must be
// square (w == h) for all 8 symmetries to be well-formed; spec.md's gomoku
// boards are always square.
func (bk *Book) Load(seeds []Seed) {
	for _, seed := range seeds {
		for _, sym := range allSymmetries() {
			stones := make([]Stone, len(seed.Stones))
			for i, s := range seed.Stones {
				p := transform(board.Point{X: s.X, Y: s.Y}, bk.w, bk.h, sym)
				stones[i] = Stone{X: p.X, Y: p.Y, Player: s.Player}
			}
			resp := transform(seed.Response, bk.w, bk.h, sym)
			key := freeze(stones)
			if _, taken := bk.table[key]; taken {
				continue
			}
			bk.table[key] = resp
		}
	}
}

// Probe returns the book's response for b's current position and the
// player to move, iff the position has at most MaxMoves stones, the
// frozen stone-set has a recorded entry, and the recorded response cell
// is still empty (spec.md §4.9's "on hit, return the response iff still
// empty").
func (bk *Book) Probe(b *board.Board) (board.Point, bool) {
	if bk == nil || b.MoveCount() > MaxMoves {
		return board.Point{}, false
	}
	resp, ok := bk.table[freeze(stonesOf(b))]
	if !ok {
		return board.Point{}, false
	}
	if b.At(resp.X, resp.Y) != board.Empty {
		return board.Point{}, false
	}
	return resp, true
}

func stonesOf(b *board.Board) []Stone {
	stones := make([]Stone, 0, b.MoveCount())
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if p := b.At(x, y); p != board.Empty {
				stones = append(stones, Stone{X: x, Y: y, Player: p})
			}
		}
	}
	return stones
}

// freeze serializes an order-independent stone set into a stable map key,
// grounded on the teacher's sorted-then-compared Probe path (the teacher
// sorts BookEntry slices by weight before selection; here the sort makes
// the key itself order-independent rather than the selection order).
func freeze(stones []Stone) string {
	codes := make([]uint32, len(stones))
	for i, s := range stones {
		codes[i] = uint32(s.Player)<<24 | uint32(s.Y)<<12 | uint32(s.X)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var sb strings.Builder
	for _, c := range codes {
		fmt.Fprintf(&sb, "%08x", c)
	}
	return sb.String()
}

// symmetry is one element of the dihedral group of order 8.
type symmetry int

const (
	identity symmetry = iota
	rotate90
	rotate180
	rotate270
	reflectX
	reflectY
	reflectDiag
	reflectAntiDiag
)

func allSymmetries() []symmetry {
	return []symmetry{identity, rotate90, rotate180, rotate270, reflectX, reflectY, reflectDiag, reflectAntiDiag}
}

// transform maps p through sym around a w×h board, assuming the square
// case (w == h) that spec.md's dihedral group describes.
func transform(p board.Point, w, h int, sym symmetry) board.Point {
	maxX, maxY := w-1, h-1
	switch sym {
	case identity:
		return p
	case rotate90:
		return board.Point{X: p.Y, Y: maxX - p.X}
	case rotate180:
		return board.Point{X: maxX - p.X, Y: maxY - p.Y}
	case rotate270:
		return board.Point{X: maxY - p.Y, Y: p.X}
	case reflectX:
		return board.Point{X: maxX - p.X, Y: p.Y}
	case reflectY:
		return board.Point{X: p.X, Y: maxY - p.Y}
	case reflectDiag:
		return board.Point{X: p.Y, Y: p.X}
	case reflectAntiDiag:
		return board.Point{X: maxY - p.Y, Y: maxX - p.X}
	default:
		return p
	}
}

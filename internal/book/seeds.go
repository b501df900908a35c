package book

import "github.com/hailam/gomoku/internal/board"

// DefaultSeeds returns a small set of standard opening responses for a
// w×h board, expressed relative to the board center so they remain valid
// across board sizes. These are common-knowledge Gomoku opening replies
// (the "direct" and "indirect" star openings), not derived from any
// teacher file — the teacher is a chess engine and carries no gomoku
// opening theory to adapt.
func DefaultSeeds(w, h int) []Seed {
	cx, cy := w/2, h/2
	return []Seed{
		// Center opening: answer a single center stone one diagonal step
		// away, the conventional "direct star" reply.
		{
			Stones:   []Stone{{X: cx, Y: cy, Player: board.Player1}},
			Response: board.Point{X: cx + 1, Y: cy + 1},
		},
		// Center stone with an opponent stone one diagonal step away:
		// answer two cells right of center, beside both stones, rather
		// than blocking, since neither stone yet threatens anything.
		{
			Stones: []Stone{
				{X: cx, Y: cy, Player: board.Player1},
				{X: cx + 1, Y: cy + 1, Player: board.Player2},
			},
			Response: board.Point{X: cx + 2, Y: cy},
		},
	}
}

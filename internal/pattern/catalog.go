// Package pattern holds the process-wide, immutable per-player string
// pattern catalog (spec.md §3/§4.2) matched against line windows extracted
// from the board. The alphabet is {'.', '#', '1', '2'} — empty, wall and
// the two player digits.
package pattern

import (
	"strings"
	"sync"

	"github.com/hailam/gomoku/internal/board"
)

// Catalog holds every pattern variant for one player's perspective. Patterns
// are literal strings (no wildcards beyond the fixed '.' empty marker), so
// matching is a plain substring search.
type Catalog struct {
	Five             string
	OpenFour         string
	ClosedFour       []string
	SplitFour        []string
	OpenThree        string
	ClosedThree      []string
	SplitThree       []string
	BrokenOpenThree  []string
	OpenTwo          string
	ClosedTwo        []string
}

// templates use 'o' for the perspective player's own stone and 'B' for
// "blocked by either the opponent or the board edge" — expanded twice, once
// per literal blocker, when building a concrete Catalog.
const (
	tplFive     = "ooooo"
	tplOpenFour = ".oooo."
	tplOpenThree = ".ooo."
	tplOpenTwo   = ".oo."
)

var (
	// closedFour: solid four blocked on exactly one end.
	closedFourTemplates = []string{"Boooo.", ".ooooB"}
	// splitFour: four stones across a 5-window with exactly one gap.
	splitFourTemplates = []string{"oo.oo", "ooo.o", "o.ooo"}
	// closedThree: solid three blocked on exactly one end.
	closedThreeTemplates = []string{"Booo.", ".oooB"}
	// splitThree: three stones with one internal gap (glossary PP.P / P.PP).
	splitThreeTemplates = []string{"oo.o", "o.oo"}
	// brokenOpenThree: one-gap three with both outer ends still open.
	brokenOpenThreeTemplates = []string{".oo.o.", ".o.oo."}
	// closedTwo: solid two blocked on exactly one end.
	closedTwoTemplates = []string{"Boo.", ".ooB"}
)

// Build expands the templates into a concrete Catalog for the given
// perspective player.
func Build(p board.Player) Catalog {
	own := p.Byte()
	opp := p.Opponent().Byte()
	// blockers substituted for 'B': the opponent's own digit, or the wall
	// sentinel. Either literally stops the pattern from extending.
	blockers := [2]byte{opp, board.Wall}

	expand := func(tpls []string) []string {
		out := make([]string, 0, len(tpls)*2)
		for _, tpl := range tpls {
			for _, b := range blockers {
				out = append(out, substitute(tpl, own, b))
			}
		}
		return out
	}

	return Catalog{
		Five:            substitute(tplFive, own, 0),
		OpenFour:        substitute(tplOpenFour, own, 0),
		ClosedFour:      expand(closedFourTemplates),
		SplitFour:       dedupSubstitute(splitFourTemplates, own),
		OpenThree:       substitute(tplOpenThree, own, 0),
		ClosedThree:     expand(closedThreeTemplates),
		SplitThree:      dedupSubstitute(splitThreeTemplates, own),
		BrokenOpenThree: dedupSubstitute(brokenOpenThreeTemplates, own),
		OpenTwo:         substitute(tplOpenTwo, own, 0),
		ClosedTwo:       expand(closedTwoTemplates),
	}
}

// substitute replaces 'o' with own and 'B' with blocker in tpl. blocker==0
// means tpl has no 'B' placeholder.
func substitute(tpl string, own, blocker byte) string {
	buf := []byte(tpl)
	for i, c := range buf {
		switch c {
		case 'o':
			buf[i] = own
		case 'B':
			buf[i] = blocker
		}
	}
	return string(buf)
}

func dedupSubstitute(tpls []string, own byte) []string {
	out := make([]string, len(tpls))
	for i, tpl := range tpls {
		out[i] = substitute(tpl, own, 0)
	}
	return out
}

// catalogsOnce builds the two process-wide, immutable catalogs exactly
// once, mirroring the teacher's process-wide Zobrist table initialization
// (internal/board/zobrist.go's init) for the pattern side of the engine.
var (
	once      sync.Once
	catalogs  [3]Catalog // indexed by board.Player (Empty unused)
)

func ensureBuilt() {
	once.Do(func() {
		catalogs[board.Player1] = Build(board.Player1)
		catalogs[board.Player2] = Build(board.Player2)
	})
}

// For returns the process-wide catalog for the given player's perspective.
func For(p board.Player) Catalog {
	ensureBuilt()
	return catalogs[p]
}

// MatchAny reports whether window contains any of the given patterns.
func MatchAny(window string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(window, p) {
			return true
		}
	}
	return false
}

// Package heuristic implements the move heuristic ladder (spec.md §4.6):
// a single strictly-ordered integer score per candidate move, used by move
// ordering and by the VCT search's branching choice.
package heuristic

import (
	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/threat"
)

// Score tags, spec.md §4.6's ladder. Each rank's constant strictly
// dominates every lower rank and every plausible positional score, so a
// positional fallback (rank 16) never collides with a named rank.
// ScoreBlockWinHalf (rank 6') is the exception: as half of ScoreBlockWin it
// falls between ScoreBlockPreOpenFour and ScoreBlockSplitThree, below
// ranks 7–10.
const (
	rankUnit = 1 << 24

	ScoreWin              = 16 * rankUnit
	ScoreDoubleFour       = 15 * rankUnit
	ScoreFourThree        = 14 * rankUnit
	ScoreOpenFour         = 13 * rankUnit
	ScoreFork             = 12 * rankUnit
	ScoreBlockWin         = 11 * rankUnit
	ScoreBlockWinHalf     = ScoreBlockWin / 2
	ScoreBlockDoubleFour  = 9 * rankUnit
	ScoreBlockFourThree   = 8 * rankUnit
	ScoreBlockOpenFour    = 7 * rankUnit
	ScoreBlockPreOpenFour = 6 * rankUnit
	ScoreBlockSplitThree  = 5 * rankUnit
	ScoreBlockOpenThree   = 4 * rankUnit
	ScoreBlockBuildingTwo = 3 * rankUnit
	ScoreSplitThreeRank   = 2 * rankUnit
	ScoreOpenThreeRank    = 1 * rankUnit
)

// OpenThreeThreshold is the positional-score cutoff rank 15 compares
// against (spec.md §4.6's "positional score ≥ open-three threshold");
// chosen to equal the evaluator's own open-three constant so the ladder's
// named rank and the evaluator's notion of "about as good as an open
// three" agree.
const OpenThreeThreshold = 5000

// counter abstracts threat.Counter so Score can also be exercised against
// the uncached threat.Count function directly in tests.
type counter interface {
	Count(b *board.Board, x, y int, p board.Player) threat.Counts
}

type direct struct{}

func (direct) Count(b *board.Board, x, y int, p board.Player) threat.Counts {
	return threat.Count(b, x, y, p)
}

// Direct is a counter adapter with no cache, for callers that don't carry
// a threat.Counter.
var Direct counter = direct{}

// Score evaluates candidate move m for player p against board b, using tc
// to count threats. positional is the caller's plain positional score for
// m (e.g. from eval.CellScore-style evaluation), used only as the rank-16
// fallback and the rank-15 threshold test. b must not currently have a
// stone at m; Score places and undoes p (and hypothetically opp) at m,
// leaving b unchanged on return.
func Score(b *board.Board, tc counter, m board.Point, p board.Player, positional int) int {
	opp := p.Opponent()

	if err := b.PlaceStone(m.X, m.Y, p); err != nil {
		return positional
	}
	my := tc.Count(b, m.X, m.Y, p)
	_ = b.UndoStone(m.X, m.Y, p)

	if my.Fives > 0 {
		return ScoreWin
	}
	myFours := my.OpenFours + my.ClosedFours
	switch {
	case myFours >= 2:
		return ScoreDoubleFour
	case myFours >= 1 && my.OpenThrees >= 1:
		return ScoreFourThree
	case my.OpenFours >= 1:
		return ScoreOpenFour
	case my.OpenThrees >= 2:
		return ScoreFork
	}

	if err := b.PlaceStone(m.X, m.Y, opp); err != nil {
		return positional
	}
	oppHyp := tc.Count(b, m.X, m.Y, opp)
	_ = b.UndoStone(m.X, m.Y, opp)

	if oppHyp.Fives > 0 {
		if blockLeavesAnotherWin(b, tc, m, p, opp) {
			return ScoreBlockWinHalf
		}
		return ScoreBlockWin
	}
	oppFours := oppHyp.OpenFours + oppHyp.ClosedFours
	switch {
	case oppFours >= 2:
		return ScoreBlockDoubleFour
	case oppFours >= 1 && oppHyp.OpenThrees >= 1:
		return ScoreBlockFourThree
	case oppHyp.OpenFours >= 1:
		return ScoreBlockOpenFour
	case oppHyp.PreOpenFours >= 1:
		return ScoreBlockPreOpenFour
	case oppHyp.SplitThrees >= 1:
		return ScoreBlockSplitThree
	case oppHyp.OpenThrees >= 1:
		return ScoreBlockOpenThree
	case oppHyp.BuildingTwos >= 1:
		return ScoreBlockBuildingTwo
	}

	if my.SplitThrees >= 1 {
		return ScoreSplitThreeRank
	}
	if positional >= OpenThreeThreshold {
		return ScoreOpenThreeRank
	}
	return positional
}

// blockLeavesAnotherWin places p at m (the square that denies opp's five)
// and checks whether opp still has some other immediate winning reply
// elsewhere on the board, distinguishing ladder ranks 6 and 6'.
func blockLeavesAnotherWin(b *board.Board, tc counter, m board.Point, p, opp board.Player) bool {
	if err := b.PlaceStone(m.X, m.Y, p); err != nil {
		return false
	}
	defer func() { _ = b.UndoStone(m.X, m.Y, p) }()

	for _, r := range threat.Scan(b, opp) {
		if r.Severity != threat.SeverityFour {
			continue
		}
		for _, blk := range r.Blocks {
			if c, ok := vacantCell(b, blk); ok && c {
				return true
			}
		}
	}
	return false
}

func vacantCell(b *board.Board, p board.Point) (empty bool, inBounds bool) {
	if !b.InBounds(p.X, p.Y) {
		return false, false
	}
	return b.At(p.X, p.Y) == board.Empty, true
}

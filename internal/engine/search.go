package engine

import (
	"sort"
	"sync/atomic"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/eval"
	"github.com/hailam/gomoku/internal/heuristic"
	"github.com/hailam/gomoku/internal/threat"
)

// Tuning constants, spec.md §4.8.
const (
	candidateRadius    = 2
	maxBranch          = 24 // candidate-generation bound; not a spec width, kept the search tractable
	lmrFullMoves       = 3
	lmrMinDepth        = 3
	lmrReduction       = 2
	aspirationMinDepth = 4
	aspirationDelta    = 2000
	quiescenceMaxDepth = 4
	quiescenceMaxMoves = 6
	quiescenceDelta    = 2000
)

// Searcher runs one decision's negamax search against a single board,
// grounded on the teacher's internal/engine/search.go (negamax/
// alpha-beta/quiescence/TT-probe-before-recurse) and worker.go (iterative
// deepening with dynamic aspiration windows, LMR). The teacher's
// optimism-tracking refinement in worker.go has no gomoku analog — there
// is no material-imbalance signal to track — and is dropped.
type Searcher struct {
	b       *board.Board
	ev      *eval.Evaluator
	tc      *threat.Counter
	tt      *TranspositionTable
	mo      *MoveOrderer
	attack  float64
	defense float64
	stop    *atomic.Bool
	nodes   uint64
}

// NewSearcher builds a Searcher over b, sharing tt/mo/tc across a decision
// epoch's helper tasks (search worker, TT warmer, counter-attack search).
func NewSearcher(b *board.Board, ev *eval.Evaluator, tc *threat.Counter, tt *TranspositionTable, mo *MoveOrderer, attack, defense float64) *Searcher {
	return &Searcher{b: b, ev: ev, tc: tc, tt: tt, mo: mo, attack: attack, defense: defense}
}

// Nodes returns the number of nodes visited since construction.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// Result is one iterative-deepening pass's outcome.
type Result struct {
	Move    board.Point
	HasMove bool
	Score   int
	Depth   int
	Nodes   uint64
}

// IterativeDeepening runs negamax at increasing depths from side's
// perspective until maxDepth, tm.PastOptimum(), or stop is set, per
// spec.md §4.11 step 9. It always returns the best move found at the
// deepest completed depth.
func (s *Searcher) IterativeDeepening(side board.Player, maxDepth int, tm *TimeManager, stop *atomic.Bool) Result {
	s.stop = stop
	s.tt.NewSearch()

	var best Result
	prevScore := 0
	stability := 0
	var prevMove board.Point
	hasPrevMove := false

	for depth := 1; depth <= maxDepth; depth++ {
		if stop.Load() {
			break
		}
		if depth > 1 && tm.PastOptimum() {
			break
		}

		alpha, beta := -MateScore, MateScore
		if depth >= aspirationMinDepth {
			alpha, beta = prevScore-aspirationDelta, prevScore+aspirationDelta
		}

		var score int
		var mv board.Point
		var has bool
		for {
			score, mv, has = s.negamax(depth, alpha, beta, 0, side)
			if stop.Load() {
				break
			}
			if has && score <= alpha && alpha > -MateScore {
				alpha = -MateScore
				continue
			}
			if has && score >= beta && beta < MateScore {
				beta = MateScore
				continue
			}
			break
		}

		if stop.Load() {
			break
		}
		if !has {
			break
		}
		if hasPrevMove && mv == prevMove {
			stability++
		} else {
			stability = 0
		}
		prevMove, hasPrevMove = mv, true
		prevScore = score
		best = Result{Move: mv, HasMove: true, Score: score, Depth: depth, Nodes: s.nodes}
		if stability >= 2 {
			tm.AdjustForStability(stability)
		} else if stability == 0 && depth > 1 {
			tm.AdjustForInstability(1)
		}

		if score >= MateScore-MaxPly {
			break
		}
	}
	return best
}

// negamax is the classical alpha-beta negamax with TT probing, PVS and
// LMR, spec.md §4.8.
func (s *Searcher) negamax(depth, alpha, beta, ply int, side board.Player) (int, board.Point, bool) {
	s.nodes++
	if s.stop.Load() {
		return 0, board.Point{}, false
	}

	hash := s.b.Hash()
	origAlpha := alpha
	var ttMove board.Point
	hasTTMove := false

	if entry, ok := s.tt.Probe(hash); ok {
		if entry.HasMove {
			ttMove, hasTTMove = entry.BestMove, true
		}
		if entry.Age == s.tt.Age() && entry.Depth >= depth {
			sc := AdjustScoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case TTExact:
				return sc, entry.BestMove, entry.HasMove
			case TTLowerBound:
				if sc >= beta {
					return sc, entry.BestMove, entry.HasMove
				}
			case TTUpperBound:
				if sc <= alpha {
					return sc, entry.BestMove, entry.HasMove
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply, side, 0), board.Point{}, false
	}

	moves := s.candidates(side)
	if len(moves) == 0 {
		return s.evalSide(side), board.Point{}, false
	}
	sortByScore(moves, s.mo, ply, ttMove, hasTTMove)

	best := -MateScore
	var bestMove board.Point
	hasBest := false

	for i, m := range moves {
		if err := s.b.PlaceStone(m.X, m.Y, side); err != nil {
			continue
		}
		s.ev.Sync(s.b)

		var score int
		if s.b.CheckWin(m.X, m.Y, side) {
			score = MateScore - ply - 1
		} else {
			if i == 0 {
				score = -negResult(s.negamax(depth-1, -beta, -alpha, ply+1, side.Opponent()))
			} else {
				reduction := 0
				if i >= lmrFullMoves && depth >= lmrMinDepth && !s.isTactical(m, side) {
					reduction = lmrReduction
				}
				score = -negResult(s.negamax(depth-1-reduction, -alpha-1, -alpha, ply+1, side.Opponent()))
				if score > alpha {
					score = -negResult(s.negamax(depth-1, -beta, -alpha, ply+1, side.Opponent()))
				}
			}
		}

		_ = s.b.UndoStone(m.X, m.Y, side)
		s.ev.Sync(s.b)

		if score > best {
			best, bestMove, hasBest = score, m, true
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			s.mo.UpdateKillers(m, ply)
			s.mo.UpdateHistory(m, depth)
			break
		}
		if s.stop.Load() {
			break
		}
	}

	flag := TTExact
	switch {
	case best <= origAlpha:
		flag = TTUpperBound
	case best >= beta:
		flag = TTLowerBound
	}
	s.tt.Store(hash, depth, AdjustScoreToTT(best, ply), flag, bestMove, hasBest)
	return best, bestMove, hasBest
}

func negResult(score int, _ board.Point, _ bool) int { return score }

// quiescence resolves tactical sequences past the horizon, spec.md §4.8.
func (s *Searcher) quiescence(alpha, beta, ply int, side board.Player, qdepth int) int {
	if s.stop.Load() {
		return 0
	}
	standPat := s.evalSide(side)
	if standPat >= beta {
		return standPat
	}
	if standPat+quiescenceDelta < alpha {
		return alpha
	}
	if standPat > alpha {
		alpha = standPat
	}
	if qdepth >= quiescenceMaxDepth {
		return standPat
	}

	for _, m := range s.tacticalMoves(side) {
		if err := s.b.PlaceStone(m.X, m.Y, side); err != nil {
			continue
		}
		s.ev.Sync(s.b)

		var score int
		if s.b.CheckWin(m.X, m.Y, side) {
			score = MateScore - ply - 1
		} else {
			score = -s.quiescence(-beta, -alpha, ply+1, side.Opponent(), qdepth+1)
		}

		_ = s.b.UndoStone(m.X, m.Y, side)
		s.ev.Sync(s.b)

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *Searcher) evalSide(side board.Player) int {
	return s.ev.Score(side, s.attack, s.defense)
}

type scoredMove struct {
	pt    board.Point
	score int
}

// candidates ranks empty cells near existing stones by the move heuristic
// and keeps the top maxBranch.
func (s *Searcher) candidates(side board.Player) []board.Point {
	pts := s.b.ValidMoves(candidateRadius)
	ranked := make([]scoredMove, len(pts))
	for i, p := range pts {
		ranked[i] = scoredMove{p, heuristic.Score(s.b, s.tc, p, side, 0)}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > maxBranch {
		ranked = ranked[:maxBranch]
	}
	out := make([]board.Point, len(ranked))
	for i, r := range ranked {
		out[i] = r.pt
	}
	return out
}

// tacticalMoves restricts candidates to immediate wins, four/open-four
// creation and their blocks, per quiescence's "generate only tactical
// moves" rule.
func (s *Searcher) tacticalMoves(side board.Player) []board.Point {
	pts := s.b.ValidMoves(candidateRadius)
	var ranked []scoredMove
	for _, p := range pts {
		sc := heuristic.Score(s.b, s.tc, p, side, 0)
		if sc >= heuristic.ScoreBlockOpenThree {
			ranked = append(ranked, scoredMove{p, sc})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > quiescenceMaxMoves {
		ranked = ranked[:quiescenceMaxMoves]
	}
	out := make([]board.Point, len(ranked))
	for i, r := range ranked {
		out[i] = r.pt
	}
	return out
}

// isTactical implements spec.md §4.8's LMR eligibility proxy: a move is
// tactical if it creates a four or open three, or sits adjacent to at
// least 3 opponent stones (a cheap blocking proxy).
func (s *Searcher) isTactical(m board.Point, side board.Player) bool {
	if err := s.b.PlaceStone(m.X, m.Y, side); err != nil {
		return false
	}
	c := s.tc.Count(s.b, m.X, m.Y, side)
	_ = s.b.UndoStone(m.X, m.Y, side)
	if c.OpenFours+c.ClosedFours >= 1 || c.OpenThrees >= 1 {
		return true
	}
	return adjacentOpponentCount(s.b, m, side.Opponent()) >= 3
}

func adjacentOpponentCount(b *board.Board, m board.Point, opp board.Player) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.At(m.X+dx, m.Y+dy) == opp {
				n++
			}
		}
	}
	return n
}

package engine

import (
	"sync/atomic"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/eval"
	"github.com/hailam/gomoku/internal/threat"
)

// MaxDepth is spec.md §4.11 step 9's MAX_DEPTH bound on iterative
// deepening.
const MaxDepth = 12

// Engine bundles the transposition table, move orderer and threat counter
// that must survive across a whole process lifetime (TT, history) or be
// reset once per decision (threat counter), and hands out Searchers bound
// to a particular board copy for a decision's workers.
type Engine struct {
	TT  *TranspositionTable
	MO  *MoveOrderer
	TC  *threat.Counter
	Attack, Defense float64
}

// NewEngine constructs an Engine for a w×h board with a transposition
// table bounded to ttMaxEntries records (spec.md §4.10's TT_MAX_SIZE).
func NewEngine(w, h, ttMaxEntries int) (*Engine, error) {
	tt, err := NewTranspositionTable(ttMaxEntries)
	if err != nil {
		return nil, err
	}
	tc, err := threat.NewCounter()
	if err != nil {
		return nil, err
	}
	return &Engine{
		TT:      tt,
		MO:      NewMoveOrderer(w, h),
		TC:      tc,
		Attack:  eval.DefaultAttack,
		Defense: eval.DefaultDefense,
	}, nil
}

// Close releases the engine's background resources.
func (e *Engine) Close() {
	e.TC.Close()
}

// NewSearcher returns a Searcher bound to b that shares this Engine's TT,
// move orderer and threat counter, so concurrent helper tasks within one
// decision epoch (search worker, TT warmer, counter-attack searcher) see
// consistent shared state (spec.md §5's shared-state discipline).
func (e *Engine) NewSearcher(b *board.Board, ev *eval.Evaluator) *Searcher {
	return NewSearcher(b, ev, e.TC, e.TT, e.MO, e.Attack, e.Defense)
}

// Think runs iterative deepening negamax for side on b until maxDepth,
// tm.PastOptimum(), or stop is set.
func (e *Engine) Think(b *board.Board, ev *eval.Evaluator, side board.Player, maxDepth int, tm *TimeManager, stop *atomic.Bool) Result {
	return e.NewSearcher(b, ev).IterativeDeepening(side, maxDepth, tm, stop)
}

// WarmTT searches move at progressively increasing depths up to maxDepth,
// populating the shared transposition table without returning a result —
// spec.md §4.11 step 8's "TT warming" sub-task.
func (e *Engine) WarmTT(b *board.Board, ev *eval.Evaluator, side board.Player, move board.Point, maxDepth int, stop *atomic.Bool) {
	if err := b.PlaceStone(move.X, move.Y, side); err != nil {
		return
	}
	defer func() { _ = b.UndoStone(move.X, move.Y, side) }()
	ev.Sync(b)
	defer ev.Sync(b)

	s := e.NewSearcher(b, ev)
	s.stop = stop
	for depth := 1; depth <= maxDepth; depth++ {
		if stop.Load() {
			return
		}
		s.negamax(depth, -MateScore, MateScore, 0, side.Opponent())
	}
}

package orchestrator

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/engine"
	"github.com/hailam/gomoku/internal/eval"
	"github.com/hailam/gomoku/internal/vct"
)

// Time-bank split ratios, spec.md §4.11 step 8: ~60% TT warming, ~35%
// counter-attack search, the remainder held as safety margin.
const (
	ttWarmShare  = 60
	vctShare     = 35
	timeBankBase = 100
)

// deadlineStop sets an atomic stop flag once d elapses, used to bound a
// worker launched within the time bank.
type deadlineStop struct {
	flag  *atomic.Bool
	timer *time.Timer
}

func newDeadlineStop(d time.Duration) *deadlineStop {
	flag := &atomic.Bool{}
	t := time.AfterFunc(d, func() { flag.Store(true) })
	return &deadlineStop{flag: flag, timer: t}
}

func (d *deadlineStop) Stop() { d.timer.Stop() }

// timeBank implements spec.md §4.11 step 8: once a move has been decided
// by a cascade step ahead of the search (steps 2–7), spend the remaining
// response budget warming the transposition table against the opponent's
// likely replies and, unless this was a critical (must-play) decision,
// running a counter-attack threat-space search — each worker operating on
// its own board copy per spec.md §9's "clones at worker boundaries" note,
// never sharing the live board across goroutines.
func (e *Engine) timeBank(mv board.Point, critical bool, tm *engine.TimeManager) board.Point {
	budget := tm.MaximumTime() - tm.Elapsed()
	if budget <= engine.SafetyMargin {
		return mv
	}
	budget -= engine.SafetyMargin

	ttBudget := budget * ttWarmShare / timeBankBase
	vctBudget := budget * vctShare / timeBankBase

	var g errgroup.Group
	ttBoard := e.b.Copy()
	g.Go(func() error {
		e.warmTopReplies(ttBoard, mv, ttBudget)
		return nil
	})
	if !critical && vctBudget > 0 {
		vctBoard := e.b.Copy()
		g.Go(func() error {
			e.counterAttack(vctBoard, vctBudget)
			return nil
		})
	}
	_ = g.Wait()
	return mv
}

// warmTopReplies predicts the opponent's top ttWarmReplyCount replies to
// mv by the move heuristic and populates the shared transposition table
// for each, splitting budget evenly across them.
func (e *Engine) warmTopReplies(b *board.Board, mv board.Point, budget time.Duration) {
	if budget <= 0 {
		return
	}
	if err := b.PlaceStone(mv.X, mv.Y, e.us); err != nil {
		return
	}
	ev := eval.New()
	ev.Sync(b)

	replies := rankedMovesOn(b, e.eg.TC, e.opp, ttWarmReplyCount)
	if len(replies) == 0 {
		return
	}
	perReply := budget / time.Duration(len(replies))

	for _, reply := range replies {
		stop := newDeadlineStop(perReply)
		e.eg.WarmTT(b, ev, e.opp, reply, e.cfg.TTWarmupDepth, stop.flag)
		stop.Stop()
	}
}

// counterAttack runs a bounded-depth VCT search for us from b, looking
// for a forced win the time-banked search budget can afford to confirm.
// Its result is informational only (its one side effect is warming the
// shared threat counter cache);
// the committed move was already fixed by the caller.
func (e *Engine) counterAttack(b *board.Board, budget time.Duration) {
	if budget <= 0 {
		return
	}
	deadline := time.Now().Add(budget)
	vct.Search(b, e.us, e.eg.TC, deadline)
}


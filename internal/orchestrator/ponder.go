package orchestrator

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/engine"
	"github.com/hailam/gomoku/internal/eval"
)

// pendingMove is a precomputed reply ready to be returned instantly the
// next time BestMove is called, because the opponent played the exact
// move this ponder line anticipated.
type pendingMove struct {
	move board.Point
}

// ponderState tracks background pondering: one search per predicted
// opponent reply to our last move, running concurrently against our own
// decision's idle time, per spec.md §4.11's "background pondering"
// design note. Every worker holds its own board copy (spec.md §9); only
// the completed-reply map is shared, guarded by mu.
type ponderState struct {
	mu      sync.Mutex
	stop    *atomic.Bool
	replies map[board.Point]board.Point
	wg      sync.WaitGroup

	pending *pendingMove
}

func newPonderState() *ponderState {
	return &ponderState{replies: make(map[board.Point]board.Point)}
}

// cancel stops any ponder workers in flight and blocks until they have
// actually exited, so the caller's subsequent use of the shared engine
// (TT, move orderer, threat counter) never overlaps with a still-running
// ponder goroutine. Does not discard replies already completed.
func (p *ponderState) cancel() {
	p.mu.Lock()
	if p.stop != nil {
		p.stop.Store(true)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// lookup reports whether a ponder worker already computed our reply to
// the opponent playing (x,y).
func (p *ponderState) lookup(x, y int) (pendingMove, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	mv, ok := p.replies[board.Point{X: x, Y: y}]
	if !ok {
		return pendingMove{}, false
	}
	return pendingMove{move: mv}, true
}

func (p *ponderState) setReply(opp, reply board.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies[opp] = reply
}

// startPondering launches one goroutine per predicted opponent reply to
// the move we just committed, each computing what we would play in
// response. A later ProcessOpponentMove that matches one of these
// predictions short-circuits BestMove entirely (see BestMove's pending
// check).
func (e *Engine) startPondering(mv board.Point) {
	e.ponder.cancel()

	stop := &atomic.Bool{}
	e.ponder.mu.Lock()
	e.ponder.stop = stop
	e.ponder.replies = make(map[board.Point]board.Point)
	e.ponder.mu.Unlock()

	base := e.b.Copy()
	if err := base.PlaceStone(mv.X, mv.Y, e.us); err != nil {
		return
	}

	predicted := rankedMovesOn(base, e.eg.TC, e.opp, e.cfg.PonderTopN)
	for _, oppMove := range predicted {
		e.ponder.wg.Add(1)
		go e.ponderLine(base.Copy(), oppMove, stop)
	}
}

func (e *Engine) ponderLine(b *board.Board, oppMove board.Point, stop *atomic.Bool) {
	defer e.ponder.wg.Done()
	if err := b.PlaceStone(oppMove.X, oppMove.Y, e.opp); err != nil {
		return
	}
	ev := eval.New()
	ev.Sync(b)

	tm := engine.NewTimeManager(e.cfg.ResponseDeadline)
	res := e.eg.Think(b, ev, e.us, e.cfg.MaxDepth, tm, stop)
	if !res.HasMove || stop.Load() {
		return
	}
	e.ponder.setReply(oppMove, res.Move)
}

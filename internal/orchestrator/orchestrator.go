// Package orchestrator implements the decision orchestrator (spec.md
// §4.11): the public get_best_move priority cascade, opening-book lookup,
// critical-move and threat-scan checks, time banking, and pondering.
package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/book"
	"github.com/hailam/gomoku/internal/engine"
	"github.com/hailam/gomoku/internal/eval"
	"github.com/hailam/gomoku/internal/heuristic"
	"github.com/hailam/gomoku/internal/identity"
	"github.com/hailam/gomoku/internal/telemetry"
	"github.com/hailam/gomoku/internal/threat"
)

// ErrConfig is returned by InitializeBoard for a non-positive board size,
// spec.md §7's ConfigError.
var ErrConfig = errors.New("orchestrator: invalid board size")

// ErrNotInitialized is returned by any decision method called before
// InitializeBoard.
var ErrNotInitialized = errors.New("orchestrator: board not initialized")

// Cascade tuning constants, spec.md §4.11.
const (
	criticalCandidates = 20
	earlyGameMoves     = 4
	ttWarmReplyCount   = 5
)

// Config holds engine-construction parameters spec.md §9's open question
// says to expose rather than hard-code (response deadline, warmup depth)
// plus the rest of the tunables threaded through internal/engine,
// mirroring the teacher's NewEngine(ttSizeMB int) + setter style.
type Config struct {
	ResponseDeadline time.Duration
	TTMaxEntries     int
	TTWarmupDepth    int
	MaxDepth         int
	Attack, Defense  float64
	PonderTopN       int
}

// DefaultConfig returns spec.md's cited defaults.
func DefaultConfig() Config {
	return Config{
		ResponseDeadline: engine.DefaultResponseDeadline,
		TTMaxEntries:     1 << 16,
		TTWarmupDepth:    8,
		MaxDepth:         engine.MaxDepth,
		Attack:           eval.DefaultAttack,
		Defense:          eval.DefaultDefense,
		PonderTopN:       3,
	}
}

// Engine is the decision orchestrator: one per running process, holding
// the board, the search engine, the opening book and the telemetry
// sink. Engine is the Collaborator spec.md §9 describes; InitializeBoard
// must be called (once per game) before any other method.
type Engine struct {
	cfg Config
	tel *telemetry.Store
	id  identity.Info

	b  *board.Board
	ev *eval.Evaluator
	eg *engine.Engine
	bk *book.Book

	us, opp board.Player
	epoch   uint64

	ponder *ponderState
}

// New creates an orchestrator Engine. tel may be nil (telemetry disabled).
func New(cfg Config, tel *telemetry.Store) *Engine {
	return &Engine{cfg: cfg, tel: tel, id: identity.Default}
}

// About returns this engine's static identity, spec.md §6's ABOUT command.
func (e *Engine) About() identity.Info { return e.id }

// InitializeBoard constructs a fresh w×h board and its supporting engine
// state, discarding any prior game.
func (e *Engine) InitializeBoard(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrConfig, w, h)
	}
	b, err := board.NewBoard(w, h)
	if err != nil {
		return err
	}
	eg, err := engine.NewEngine(w, h, e.cfg.TTMaxEntries)
	if err != nil {
		return err
	}
	bk := book.New(w, h)
	bk.Load(book.DefaultSeeds(w, h))

	e.b = b
	e.ev = eval.New()
	e.eg = eg
	e.bk = bk
	e.us, e.opp = board.Player1, board.Player2
	e.epoch = 0
	e.ponder = newPonderState()
	return nil
}

// OpeningMove returns our move on an empty board, spec.md §6's BEGIN.
func (e *Engine) OpeningMove() (board.Point, error) {
	return e.BestMove()
}

// ProcessOpponentMove places the opponent's stone at (x,y). An
// out-of-bounds or occupied coordinate is spec.md §7's InvalidState: it
// is reported but does not otherwise disturb the board.
func (e *Engine) ProcessOpponentMove(x, y int) error {
	if e.b == nil {
		return ErrNotInitialized
	}
	e.ponder.cancel()
	if hit, ok := e.ponder.lookup(x, y); ok {
		e.ponder.pending = &hit
	}
	if err := e.b.PlaceStone(x, y, e.opp); err != nil {
		return fmt.Errorf("orchestrator: opponent move (%d,%d): %w", x, y, err)
	}
	e.ev.Sync(e.b)
	return nil
}

// ReplaceBoard discards the current position and replaces it with stones,
// spec.md §6's BOARD command.
func (e *Engine) ReplaceBoard(stones []book.Stone) error {
	if e.b == nil {
		return ErrNotInitialized
	}
	e.ponder.cancel()
	nb, err := board.NewBoard(e.b.W, e.b.H)
	if err != nil {
		return err
	}
	for _, s := range stones {
		if err := nb.PlaceStone(s.X, s.Y, s.Player); err != nil {
			return fmt.Errorf("orchestrator: replace board stone (%d,%d): %w", s.X, s.Y, err)
		}
	}
	e.b = nb
	e.ev = eval.New()
	e.ev.Sync(e.b)
	return nil
}

// BestMove runs the priority cascade (spec.md §4.11 steps 1–10) and
// returns our chosen move. A move is always returned unless the board is
// uninitialized or genuinely has no empty cell.
func (e *Engine) BestMove() (board.Point, error) {
	if e.b == nil {
		return board.Point{}, ErrNotInitialized
	}
	start := time.Now()
	e.epoch++
	e.eg.TT.NewSearch()
	e.eg.MO.Clear()
	e.eg.TC.Reset()

	if e.ponder.pending != nil {
		mv := e.ponder.pending.move
		e.ponder.pending = nil
		e.sleepUntilDeadline(start)
		return e.commit(mv, "pondered", start, 0)
	}

	if e.b.MoveCount() == 0 {
		mv := board.Point{X: e.b.W / 2, Y: e.b.H / 2}
		return e.commit(mv, "empty_board", start, 0)
	}

	candidates := e.rankedMoves(e.us, criticalCandidates)

	if mv, ok := e.bk.Probe(e.b); ok {
		return e.decideWithTimeBank(mv, "book", false, start)
	}
	if mv, ok := e.criticalCheck(candidates); ok {
		return e.decideWithTimeBank(mv, "critical", true, start)
	}
	if mv, ok := e.globalBlock(); ok {
		return e.decideWithTimeBank(mv, "global_block", false, start)
	}
	if mv, ok := e.offensiveOverride(candidates); ok {
		return e.decideWithTimeBank(mv, "offensive", false, start)
	}
	if mv, ok := e.forcedBlock(); ok {
		return e.decideWithTimeBank(mv, "forced_block", false, start)
	}
	if mv, ok := e.earlyGamePreference(); ok {
		return e.decideWithTimeBank(mv, "early_game", false, start)
	}

	return e.decideBySearch(start)
}

// decideWithTimeBank wraps a decided move (steps 2–7) with step 8's time
// banking before returning and starting pondering.
func (e *Engine) decideWithTimeBank(mv board.Point, stage string, critical bool, start time.Time) (board.Point, error) {
	tm := engine.NewTimeManager(e.cfg.ResponseDeadline)
	final := e.timeBank(mv, critical, tm)
	return e.commit(final, stage, start, 0)
}

// decideBySearch runs step 9 (iterative deepening) and, failing that,
// step 10's fallback, which must never be skipped. Per spec.md §4.11 step
// 9, the search stops at engine.SearchSafetyMargin (≥0.3s) before the
// deadline rather than the smaller time-bank margin, leaving real room
// for the brief final TT-warming pass below and for emitting the
// response.
func (e *Engine) decideBySearch(start time.Time) (board.Point, error) {
	tm := engine.NewTimeManagerWithMargin(e.cfg.ResponseDeadline, engine.SearchSafetyMargin)
	stop := newDeadlineStop(tm.MaximumTime())
	defer stop.Stop()

	res := e.eg.Think(e.b, e.ev, e.us, e.cfg.MaxDepth, tm, stop.flag)

	stage := "negamax"
	mv := res.Move
	if !res.HasMove {
		mv = e.fallbackFirstLegal()
		stage = "fallback"
	}

	if warmBudget := e.cfg.ResponseDeadline - tm.Elapsed() - engine.SafetyMargin; warmBudget > 0 {
		e.warmTopReplies(e.b.Copy(), mv, warmBudget)
	}

	return e.commit(mv, stage, start, res.Nodes)
}

// commit records telemetry, starts pondering for the opponent's likely
// replies, and returns the decided move.
func (e *Engine) commit(mv board.Point, stage string, start time.Time, nodes uint64) (board.Point, error) {
	e.tel.Record(telemetry.DecisionRecord{
		Epoch:     e.epoch,
		Stage:     stage,
		Move:      mv,
		Nodes:     nodes,
		ElapsedMS: time.Since(start).Milliseconds(),
	})
	e.startPondering(mv)
	return mv, nil
}

func (e *Engine) sleepUntilDeadline(start time.Time) {
	remaining := e.cfg.ResponseDeadline - time.Since(start)
	if remaining > 0 {
		time.Sleep(remaining)
	}
}

// rankedMoves returns up to n empty candidate cells ranked by the move
// heuristic for side, descending.
func (e *Engine) rankedMoves(side board.Player, n int) []board.Point {
	return rankedMovesOn(e.b, e.eg.TC, side, n)
}

func rankedMovesOn(b *board.Board, tc *threat.Counter, side board.Player, n int) []board.Point {
	type scoredPt struct {
		pt    board.Point
		score int
	}
	pts := b.ValidMoves(2)
	ranked := make([]scoredPt, len(pts))
	for i, p := range pts {
		ranked[i] = scoredPt{p, heuristic.Score(b, tc, p, side, eval.CellScore(b, p.X, p.Y, side))}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]board.Point, len(ranked))
	for i, r := range ranked {
		out[i] = r.pt
	}
	return out
}

// criticalCheck implements step 3: an immediate win for us, else an
// immediate win for the opponent that we must block.
func (e *Engine) criticalCheck(candidates []board.Point) (board.Point, bool) {
	for _, m := range candidates {
		if e.wouldWin(m, e.us) {
			return m, true
		}
	}
	for _, m := range candidates {
		if e.wouldWin(m, e.opp) {
			return m, true
		}
	}
	return board.Point{}, false
}

func (e *Engine) wouldWin(m board.Point, p board.Player) bool {
	if err := e.b.PlaceStone(m.X, m.Y, p); err != nil {
		return false
	}
	win := e.b.CheckWin(m.X, m.Y, p)
	_ = e.b.UndoStone(m.X, m.Y, p)
	return win
}

// globalBlock implements step 4: block an opponent solid four (preferring
// the wall-forming end) or an open four's unstoppable end, or fill an
// opponent split-four's gap.
func (e *Engine) globalBlock() (board.Point, bool) {
	records := threat.Scan(e.b, e.opp)

	var allFourBlocks, openFourBlocks, closedFourBlocks []board.Point
	var splitFourGap board.Point
	hasSplitFour := false

	for _, r := range records {
		switch r.Pattern {
		case "open_four":
			openFourBlocks = append(openFourBlocks, r.Blocks...)
			allFourBlocks = append(allFourBlocks, r.Blocks...)
		case "closed_four":
			closedFourBlocks = append(closedFourBlocks, r.Blocks...)
			allFourBlocks = append(allFourBlocks, r.Blocks...)
		case "split_four":
			if !hasSplitFour && r.Gap != nil {
				splitFourGap, hasSplitFour = *r.Gap, true
			}
		}
	}

	if len(allFourBlocks) > 0 {
		for _, blk := range allFourBlocks {
			if e.vacant(blk) && e.adjacentTo(blk, e.us) {
				return blk, true
			}
		}
		for _, blk := range openFourBlocks {
			if e.vacant(blk) {
				return blk, true
			}
		}
		for _, blk := range closedFourBlocks {
			if e.vacant(blk) {
				return blk, true
			}
		}
	}
	if hasSplitFour && e.vacant(splitFourGap) {
		return splitFourGap, true
	}
	return board.Point{}, false
}

// offensiveOverride implements step 5: the top-ranked candidate is taken
// immediately, ahead of any defensive open-three block, when its heuristic
// score reaches heuristic.ScoreOpenFour (an open four, a four plus an open
// three, or two fours) — see DESIGN.md. Only the first candidate is
// tested, and a move making a single closed or split four without an open
// three does not reach that rank, so it does not override.
func (e *Engine) offensiveOverride(candidates []board.Point) (board.Point, bool) {
	if len(candidates) == 0 {
		return board.Point{}, false
	}
	best := candidates[0]
	bestScore := heuristic.Score(e.b, e.eg.TC, best, e.us, eval.CellScore(e.b, best.X, best.Y, e.us))
	if bestScore >= heuristic.ScoreOpenFour {
		return best, true
	}
	return board.Point{}, false
}

// forcedBlock implements step 6: block the nearer of any opponent open
// three, or fill an opponent split-three's gap.
func (e *Engine) forcedBlock() (board.Point, bool) {
	records := threat.Scan(e.b, e.opp)

	var openThreeBlocks []board.Point
	var splitThreeGap board.Point
	hasSplitThree := false

	for _, r := range records {
		switch r.Pattern {
		case "open_three":
			openThreeBlocks = append(openThreeBlocks, r.Blocks...)
		case "split_three":
			if !hasSplitThree && r.Gap != nil {
				splitThreeGap, hasSplitThree = *r.Gap, true
			}
		}
	}

	if len(openThreeBlocks) > 0 {
		best := board.Point{}
		bestDist := -1
		found := false
		for _, blk := range openThreeBlocks {
			if !e.vacant(blk) {
				continue
			}
			d := e.distToNearest(blk, e.us)
			if !found || d < bestDist {
				best, bestDist, found = blk, d, true
			}
		}
		if found {
			return best, true
		}
	}
	if hasSplitThree && e.vacant(splitThreeGap) {
		return splitThreeGap, true
	}
	return board.Point{}, false
}

// earlyGamePreference implements step 7: within the opening, prefer an
// empty cell adjacent to our own stone that sits closest to an opponent
// stone.
func (e *Engine) earlyGamePreference() (board.Point, bool) {
	if e.b.MoveCount() > earlyGameMoves {
		return board.Point{}, false
	}
	best := board.Point{}
	bestDist := -1
	found := false
	for y := 0; y < e.b.H; y++ {
		for x := 0; x < e.b.W; x++ {
			p := board.Point{X: x, Y: y}
			if e.b.At(x, y) != board.Empty || !e.adjacentTo(p, e.us) {
				continue
			}
			d := e.distToNearest(p, e.opp)
			if d < 0 {
				continue
			}
			if !found || d < bestDist {
				best, bestDist, found = p, d, true
			}
		}
	}
	return best, found
}

// fallbackFirstLegal implements step 10: the first empty cell in
// row-major order, which must never be skipped.
func (e *Engine) fallbackFirstLegal() board.Point {
	for y := 0; y < e.b.H; y++ {
		for x := 0; x < e.b.W; x++ {
			if e.b.At(x, y) == board.Empty {
				return board.Point{X: x, Y: y}
			}
		}
	}
	return board.Point{}
}

func (e *Engine) vacant(p board.Point) bool {
	return e.b.InBounds(p.X, p.Y) && e.b.At(p.X, p.Y) == board.Empty
}

func (e *Engine) adjacentTo(p board.Point, side board.Player) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if e.b.At(p.X+dx, p.Y+dy) == side {
				return true
			}
		}
	}
	return false
}

// distToNearest returns the Chebyshev distance from p to the nearest
// stone of side, or -1 if side has no stones on the board.
func (e *Engine) distToNearest(p board.Point, side board.Player) int {
	best := -1
	for y := 0; y < e.b.H; y++ {
		for x := 0; x < e.b.W; x++ {
			if e.b.At(x, y) != side {
				continue
			}
			dx, dy := abs(p.X-x), abs(p.Y-y)
			d := dx
			if dy > d {
				d = dy
			}
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

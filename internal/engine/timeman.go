package engine

import "time"

// DefaultResponseDeadline is the default for spec.md §5's RESPONSE_DEADLINE:
// the wall-clock budget for one decision, process-wide, default 4.5–4.7s. Exposed as a
// constructor parameter on orchestrator.Engine rather than a package
// global (this package's Open Question decision, recorded in DESIGN.md).
const DefaultResponseDeadline = 4500 * time.Millisecond

// SafetyMargin is spec.md §4.11 step 8's ≥0.03s time-bank safety slack:
// the minimum reserve held back from the time bank's TT-warming/
// counter-attack split so there is always room left to emit the response.
const SafetyMargin = 30 * time.Millisecond

// SearchSafetyMargin is spec.md §4.11 step 9's larger reserve: the
// iterative-deepening search path must stop cooperatively and leave
// ≥0.3s before the deadline to run its own brief final TT-warming pass
// and emit the response.
const SearchSafetyMargin = 300 * time.Millisecond

// TimeManager tracks one decision's wall-clock budget and adjusts the
// search's target time based on best-move stability, mirroring the
// teacher's internal/engine/timeman.go (moves-to-go time control is
// irrelevant here — gomoku has one fixed per-move deadline, not a clock
// budget shared across a whole game — so NewTimeManager takes the deadline directly
// instead of UCI-style remaining time/increment).
type TimeManager struct {
	startTime   time.Time
	optimumTime time.Duration
	maximumTime time.Duration
}

// NewTimeManager creates a time manager for one decision, budgeting
// maximum against deadline minus SafetyMargin and optimum at 60% of that.
func NewTimeManager(deadline time.Duration) *TimeManager {
	return NewTimeManagerWithMargin(deadline, SafetyMargin)
}

// NewTimeManagerWithMargin creates a time manager that reserves margin
// before deadline instead of the default SafetyMargin — used by the
// iterative-deepening search path, which must reserve SearchSafetyMargin
// rather than the smaller time-bank slack.
func NewTimeManagerWithMargin(deadline, margin time.Duration) *TimeManager {
	max := deadline - margin
	if max < 0 {
		max = 0
	}
	return &TimeManager{
		startTime:   time.Now(),
		optimumTime: max * 6 / 10,
		maximumTime: max,
	}
}

// Elapsed returns the time since the decision started.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.startTime) }

// OptimumTime returns the target time for the iterative deepening loop.
func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimumTime }

// MaximumTime returns the hard ceiling before the stop flag must be set.
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximumTime }

// ShouldStop reports whether the maximum time has been exceeded.
func (tm *TimeManager) ShouldStop() bool { return tm.Elapsed() >= tm.maximumTime }

// PastOptimum reports whether the optimum time has been exceeded —
// iterative deepening should not start a new depth once true.
func (tm *TimeManager) PastOptimum() bool { return tm.Elapsed() >= tm.optimumTime }

// AdjustForStability shortens the optimum time when the best move has held
// steady for several depths, per spec.md §4.8/§4.11's time-banking intent.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum time (never past maximum) when
// the best move keeps changing between depths.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}

// Deadline returns the absolute wall-clock instant the maximum time
// expires at, for passing to subsystems (vct.Search) that want an
// absolute time.Time rather than a relative budget.
func (tm *TimeManager) Deadline() time.Time {
	return tm.startTime.Add(tm.maximumTime)
}

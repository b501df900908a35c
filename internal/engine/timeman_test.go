package engine

import (
	"testing"
	"time"
)

func TestNewTimeManagerSplitsOptimumAndMaximum(t *testing.T) {
	tm := NewTimeManager(1000 * time.Millisecond)
	wantMax := 1000*time.Millisecond - SafetyMargin
	if tm.MaximumTime() != wantMax {
		t.Fatalf("MaximumTime = %v, want %v", tm.MaximumTime(), wantMax)
	}
	wantOptimum := wantMax * 6 / 10
	if tm.OptimumTime() != wantOptimum {
		t.Fatalf("OptimumTime = %v, want %v", tm.OptimumTime(), wantOptimum)
	}
}

func TestNewTimeManagerClampsNegativeMaximum(t *testing.T) {
	tm := NewTimeManager(0)
	if tm.MaximumTime() != 0 {
		t.Fatalf("MaximumTime = %v, want 0", tm.MaximumTime())
	}
}

func TestAdjustForStabilityShrinksOptimum(t *testing.T) {
	tm := NewTimeManager(1000 * time.Millisecond)
	before := tm.OptimumTime()
	tm.AdjustForStability(2)
	if tm.OptimumTime() != before*80/100 {
		t.Fatalf("OptimumTime after stability=2 = %v, want %v", tm.OptimumTime(), before*80/100)
	}
}

func TestAdjustForInstabilityNeverExceedsMaximum(t *testing.T) {
	tm := NewTimeManager(1000 * time.Millisecond)
	tm.AdjustForInstability(4)
	if tm.OptimumTime() > tm.MaximumTime() {
		t.Fatalf("OptimumTime %v exceeds MaximumTime %v", tm.OptimumTime(), tm.MaximumTime())
	}
}

func TestNewTimeManagerWithMarginUsesSearchSafetyMargin(t *testing.T) {
	tm := NewTimeManagerWithMargin(1000*time.Millisecond, SearchSafetyMargin)
	wantMax := 1000*time.Millisecond - SearchSafetyMargin
	if tm.MaximumTime() != wantMax {
		t.Fatalf("MaximumTime = %v, want %v", tm.MaximumTime(), wantMax)
	}
}

func TestDeadlineIsStartPlusMaximum(t *testing.T) {
	tm := NewTimeManager(500 * time.Millisecond)
	d := tm.Deadline()
	if !d.Equal(tm.startTime.Add(tm.MaximumTime())) {
		t.Fatalf("Deadline %v, want start %v plus maximum %v", d, tm.startTime, tm.MaximumTime())
	}
}

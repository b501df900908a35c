package telemetry

import (
	"testing"

	"github.com/hailam/gomoku/internal/board"
)

func TestRecordAndRecentRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.Record(DecisionRecord{Epoch: 1, Stage: "book", Move: board.Point{X: 7, Y: 7}, Depth: 0})
	s.Record(DecisionRecord{Epoch: 2, Stage: "negamax", Move: board.Point{X: 8, Y: 8}, Depth: 6, Nodes: 1000})

	recs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Epoch != 2 {
		t.Fatalf("expected newest-first ordering, got epoch %d first", recs[0].Epoch)
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	s.Record(DecisionRecord{Epoch: 1})
	if err := s.Close(); err != nil {
		t.Fatalf("Close on nil store: %v", err)
	}
	recs, err := s.Recent(5)
	if err != nil || recs != nil {
		t.Fatalf("Recent on nil store = (%v, %v), want (nil, nil)", recs, err)
	}
}

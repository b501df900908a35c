// Package telemetry persists one diagnostic record per decision to a
// badger-backed store, mirroring the teacher's internal/storage (badger
// KV persistence for UserPreferences/GameStats). Never on the decision
// hot path and never read by the cascade itself — a nil *Store is a
// valid, fully functional no-op, so callers can leave it disabled by
// default per spec.md §6's "no persistent state is required".
package telemetry

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/gomoku/internal/board"
)

// DecisionRecord is one get_best_move call's diagnostic summary.
type DecisionRecord struct {
	Epoch     uint64      `json:"epoch"`
	Stage     string      `json:"stage"`
	Move      board.Point `json:"move"`
	Depth     int         `json:"depth"`
	Nodes     uint64      `json:"nodes"`
	ElapsedMS int64       `json:"elapsed_ms"`
}

// Store wraps a badger.DB of DecisionRecords keyed by big-endian Epoch,
// matching the teacher's Storage wrapper shape (internal/storage/
// storage.go's json.Marshal + txn.Set pattern).
type Store struct {
	db *badger.DB
}

// Open creates or reopens a telemetry store at dir. Logging is disabled,
// matching the teacher's opts.Logger = nil.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database. Safe to call on a nil Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record persists rec, best-effort: a marshal or write failure is
// swallowed since telemetry must never affect the decision outcome.
// Safe to call on a nil Store.
func (s *Store) Record(rec DecisionRecord) {
	if s == nil || s.db == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	key := epochKey(rec.Epoch)
	_ = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Recent returns up to n most recently recorded decisions, newest first.
// Safe to call on a nil Store, returning (nil, nil).
func (s *Store) Recent(n int) ([]DecisionRecord, error) {
	if s == nil || s.db == nil || n <= 0 {
		return nil, nil
	}

	var out []DecisionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}); it.Valid() && len(out) < n; it.Next() {
			item := it.Item()
			var rec DecisionRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

func epochKey(epoch uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, epoch)
	return key
}

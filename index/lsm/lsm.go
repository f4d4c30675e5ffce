// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so the in-memory trees can be measured against an
// on-disk store.
package lsm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"

	"github.com/index-bench/splaytree/index"
)

var _ index.Index = (*LSM)(nil)

type LSM struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given directory path.
func Open(dir string) (*LSM, error) {
	opts := &pebble.Options{
		MemTableSize: 16 << 20,
		// Keep several memtables so one can be flushed while another is active.
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("lsm: open: %w", err)
	}
	return &LSM{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

func (l *LSM) Insert(key int64, value []byte) error {
	if err := l.db.Set(encodeKey(key), value, pebble.NoSync); err != nil {
		return fmt.Errorf("lsm: insert: %w", err)
	}
	return nil
}

func (l *LSM) Get(key int64) ([]byte, error) {
	val, closer, err := l.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, index.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lsm: get: %w", err)
	}
	// val is only valid until closer.Close(), so we copy it.
	result := make([]byte, len(val))
	copy(result, val)
	closer.Close()
	return result, nil
}

// Delete removes the key. Pebble deletes are blind tombstones, so the key is
// looked up first to report absent keys like the in-memory indexes do.
func (l *LSM) Delete(key int64) error {
	if _, err := l.Get(key); err != nil {
		return fmt.Errorf("lsm: delete %d: %w", key, err)
	}
	if err := l.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return fmt.Errorf("lsm: delete: %w", err)
	}
	return nil
}

// Range returns an iterator over all keys in [start, end] inclusive.
func (l *LSM) Range(start, end int64) (index.Iterator, error) {
	iterOpts := &pebble.IterOptions{
		LowerBound: encodeKey(start),
	}
	if end < math.MaxInt64 {
		iterOpts.UpperBound = encodeKey(end + 1)
	}
	iter, err := l.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("lsm: range: %w", err)
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

// ─── Key encoding ─────────────────────────────────────────────────────────────

// encodeKey encodes an int64 as a big-endian 8-byte slice with the sign bit
// flipped, so byte order matches signed integer order.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// ─── Range Iterator ───────────────────────────────────────────────────────────

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   int64
	val   []byte
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		// iter.First() was already called in Range(); just check validity.
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		it.err = it.iter.Error()
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = fmt.Errorf("lsm: unexpected key length %d", len(k))
		return false
	}
	it.key = decodeKey(k)
	// Copy value — Pebble reuses the buffer on Next().
	v := it.iter.Value()
	it.val = make([]byte, len(v))
	copy(it.val, v)
	return true
}

func (it *rangeIterator) Key() int64    { return it.key }
func (it *rangeIterator) Value() []byte { return it.val }
func (it *rangeIterator) Error() error  { return it.err }
func (it *rangeIterator) Close() error  { return it.iter.Close() }

// Package splayindex puts a splay tree behind the common index interface.
//
// Writes splay the written key to the root. Reads do not restructure the
// tree, so Get is a plain binary search over whatever shape the most recent
// writes left behind.
package splayindex

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/index-bench/splaytree/index"
	"github.com/index-bench/splaytree/splay"
)

var _ index.Index = (*SplayIndex)(nil)

func compareEntries(a, b index.Entry) int { return cmp.Compare(a.Key, b.Key) }

type SplayIndex struct {
	tree *splay.Tree[index.Entry]
}

func New(opts ...splay.Option) *SplayIndex {
	return &SplayIndex{tree: splay.NewFunc(compareEntries, opts...)}
}

// Insert stores value under key, replacing any previous value.
func (s *SplayIndex) Insert(key int64, value []byte) error {
	s.tree.Upsert(index.Entry{Key: key, Val: value})
	return nil
}

func (s *SplayIndex) Get(key int64) ([]byte, error) {
	e, ok := s.tree.Find(index.Entry{Key: key})
	if !ok {
		return nil, index.ErrKeyNotFound
	}
	return e.Val, nil
}

func (s *SplayIndex) Delete(key int64) error {
	err := s.tree.Delete(index.Entry{Key: key})
	if errors.Is(err, splay.ErrNotFound) {
		return fmt.Errorf("splayindex: delete %d: %w", key, index.ErrKeyNotFound)
	}
	return err
}

func (s *SplayIndex) Range(start, end int64) (index.Iterator, error) {
	var data []index.Entry
	for e := range s.tree.Range(index.Entry{Key: start}, index.Entry{Key: end}) {
		data = append(data, e)
	}
	return index.NewSliceIterator(data), nil
}

func (s *SplayIndex) Len() int { return s.tree.Len() }

// Tree exposes the underlying tree for diagnostics such as Print and Dump.
func (s *SplayIndex) Tree() *splay.Tree[index.Entry] { return s.tree }

func (s *SplayIndex) Close() error {
	s.tree.Clear()
	return nil
}

// Package gbtree wraps github.com/google/btree as an in-memory B-tree
// baseline.
package gbtree

import (
	"fmt"

	"github.com/google/btree"

	"github.com/index-bench/splaytree/index"
)

var _ index.Index = (*BTree)(nil)

func lessEntries(a, b index.Entry) bool { return a.Key < b.Key }

type BTree struct {
	tree *btree.BTreeG[index.Entry]
}

// New returns an empty B-tree with the given degree. Degrees below 2 are
// raised to 2.
func New(degree int) *BTree {
	if degree < 2 {
		degree = 2
	}
	return &BTree{tree: btree.NewG[index.Entry](degree, lessEntries)}
}

func (bt *BTree) Insert(key int64, value []byte) error {
	bt.tree.ReplaceOrInsert(index.Entry{Key: key, Val: value})
	return nil
}

func (bt *BTree) Get(key int64) ([]byte, error) {
	e, ok := bt.tree.Get(index.Entry{Key: key})
	if !ok {
		return nil, index.ErrKeyNotFound
	}
	return e.Val, nil
}

func (bt *BTree) Delete(key int64) error {
	if _, ok := bt.tree.Delete(index.Entry{Key: key}); !ok {
		return fmt.Errorf("gbtree: delete %d: %w", key, index.ErrKeyNotFound)
	}
	return nil
}

func (bt *BTree) Range(start, end int64) (index.Iterator, error) {
	var data []index.Entry
	// end+1 would overflow at MaxInt64, so stop by hand.
	bt.tree.AscendGreaterOrEqual(index.Entry{Key: start}, func(e index.Entry) bool {
		if e.Key > end {
			return false
		}
		data = append(data, e)
		return true
	})
	return index.NewSliceIterator(data), nil
}

func (bt *BTree) Len() int { return bt.tree.Len() }

func (bt *BTree) Close() error {
	bt.tree.Clear(false)
	return nil
}

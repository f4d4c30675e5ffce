// Package index defines the interface every benchmarked structure implements.
package index

import "errors"

// ErrKeyNotFound is returned by Get and Delete for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// Index is the common interface for all implementations.
type Index interface {
	// Insert inserts or updates the value for key.
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	// Range returns the pairs with start <= key <= end in ascending order.
	Range(start, end int64) (Iterator, error)
	Close() error
}

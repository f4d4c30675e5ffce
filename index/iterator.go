package index

// Iterator allows scanning over a range of key-value pairs.
type Iterator interface {
	Next() bool
	Key() int64
	Value() []byte
	Error() error
	Close() error
}

// Entry is a single key-value pair.
type Entry struct {
	Key int64
	Val []byte
}

// SliceIterator walks a materialized, sorted slice of entries.
type SliceIterator struct {
	data []Entry
	idx  int
}

func NewSliceIterator(data []Entry) *SliceIterator {
	return &SliceIterator{data: data, idx: -1}
}

func (it *SliceIterator) Next() bool    { it.idx++; return it.idx < len(it.data) }
func (it *SliceIterator) Key() int64    { return it.data[it.idx].Key }
func (it *SliceIterator) Value() []byte { return it.data[it.idx].Val }
func (it *SliceIterator) Error() error  { return nil }
func (it *SliceIterator) Close() error  { return nil }

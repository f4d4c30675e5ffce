// Package splay implements a self-adjusting binary search tree.
//
// Every insert and delete ends by rotating the touched node to the root, so
// recently written keys sit near the top and any sequence of operations costs
// O(log n) amortized per operation. Lookups (Find, Contains, Min, Max) do not
// restructure the tree.
//
// Keys are both payload and sort key. Duplicates are allowed; an inserted key
// equal to an existing one is routed to the right of it.
//
// Nodes live in an arena owned by the Tree and refer to each other by index,
// so rotations never allocate. A Tree is not safe for concurrent use.
package splay

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrNotFound  = errors.New("splay: key not found")
	ErrJoinOrder = errors.New("splay: join requires every key of the receiver to be <= every key of the argument")
	ErrSelfJoin  = errors.New("splay: cannot join a tree with itself")
	ErrTooDeep   = errors.New("splay: tree too deep to print")
)

type Option func(*options)

type options struct {
	log      *slog.Logger
	capacity int
}

// WithLogger sets the logger used for diagnostics such as deletes of
// absent keys.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCapacity pre-sizes the node arena.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// Tree is a splay tree over keys of type K. Use New or NewFunc to create one.
type Tree[K any] struct {
	nodes   []node[K] // nodes[0] is the nil sentinel
	free    []nodeID
	root    nodeID
	size    int
	compare func(a, b K) int
	log     *slog.Logger
}

// New returns an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered](opts ...Option) *Tree[K] {
	return NewFunc(cmp.Compare[K], opts...)
}

// NewFunc returns an empty tree ordered by compare, which must return a
// negative number, zero or a positive number like cmp.Compare.
func NewFunc[K any](compare func(a, b K) int, opts ...Option) *Tree[K] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default().With("system", "splay")
	}
	return &Tree[K]{
		nodes:   make([]node[K], 1, o.capacity+1),
		compare: compare,
		log:     o.log,
	}
}

func (t *Tree[K]) Len() int { return t.size }

// Root returns the key at the root, which after Insert or Delete is the key
// most recently splayed.
func (t *Tree[K]) Root() (K, bool) {
	if t.root == nilNode {
		var zero K
		return zero, false
	}
	return t.nodes[t.root].key, true
}

// Clear removes all keys and keeps the allocated arena.
func (t *Tree[K]) Clear() {
	t.nodes = t.nodes[:1]
	t.free = t.free[:0]
	t.root = nilNode
	t.size = 0
}

// ─── rotations ────────────────────────────────────────────────────────────────

// rotateLeft promotes x.right above x:
//
//	  x              y
//	 / \            / \
//	A   y    -->   x   C
//	   / \        / \
//	  B   C      A   B
func (t *Tree[K]) rotateLeft(x nodeID) {
	y := t.nodes[x].right
	if y == nilNode {
		return
	}
	p := t.nodes[x].parent
	t.setRight(x, t.nodes[y].left)
	t.replaceChild(p, x, y)
	t.setLeft(y, x)
}

// rotateRight promotes x.left above x:
//
//	    x          y
//	   / \        / \
//	  y   C  --> A   x
//	 / \            / \
//	A   B          B   C
func (t *Tree[K]) rotateRight(x nodeID) {
	y := t.nodes[x].left
	if y == nilNode {
		return
	}
	p := t.nodes[x].parent
	t.setLeft(x, t.nodes[y].right)
	t.replaceChild(p, x, y)
	t.setRight(y, x)
}

// splay rotates x up until it has no parent. Called on a detached subtree it
// stops at that subtree's top, which then also becomes t.root.
func (t *Tree[K]) splay(x nodeID) {
	for {
		p := t.nodes[x].parent
		if p == nilNode {
			return
		}
		xLeft := t.nodes[p].left == x

		g := t.nodes[p].parent
		if g == nilNode {
			// zig
			if xLeft {
				t.rotateRight(p)
			} else {
				t.rotateLeft(p)
			}
			return
		}
		pLeft := t.nodes[g].left == p

		switch {
		case xLeft && pLeft: // zig-zig
			t.rotateRight(g)
			t.rotateRight(p)
		case !xLeft && !pLeft: // zag-zag
			t.rotateLeft(g)
			t.rotateLeft(p)
		case !xLeft && pLeft: // zig-zag
			t.rotateLeft(p)
			t.rotateRight(g)
		default: // zag-zig
			t.rotateRight(p)
			t.rotateLeft(g)
		}
	}
}

// join merges two detached subtrees where every key of s is <= every key of
// r and returns the top of the result.
func (t *Tree[K]) join(s, r nodeID) nodeID {
	if s == nilNode {
		return r
	}
	if r == nilNode {
		return s
	}
	m := t.subtreeMax(s)
	t.splay(m)
	t.setRight(m, r)
	return m
}

// ─── lookups ──────────────────────────────────────────────────────────────────

func (t *Tree[K]) find(key K) nodeID {
	x := t.root
	for x != nilNode {
		c := t.compare(key, t.nodes[x].key)
		switch {
		case c == 0:
			return x
		case c < 0:
			x = t.nodes[x].left
		default:
			x = t.nodes[x].right
		}
	}
	return nilNode
}

// Find returns the stored key equal to key. It does not splay.
func (t *Tree[K]) Find(key K) (K, bool) {
	if x := t.find(key); x != nilNode {
		return t.nodes[x].key, true
	}
	var zero K
	return zero, false
}

func (t *Tree[K]) Contains(key K) bool {
	return t.find(key) != nilNode
}

// Min returns the smallest key without splaying.
func (t *Tree[K]) Min() (K, bool) {
	if t.root == nilNode {
		var zero K
		return zero, false
	}
	return t.nodes[t.subtreeMin(t.root)].key, true
}

// Max returns the largest key without splaying.
func (t *Tree[K]) Max() (K, bool) {
	if t.root == nilNode {
		var zero K
		return zero, false
	}
	return t.nodes[t.subtreeMax(t.root)].key, true
}

// ─── mutations ────────────────────────────────────────────────────────────────

// Insert adds key as a new leaf and splays it to the root. Keys equal to an
// existing key go to its right.
func (t *Tree[K]) Insert(key K) {
	x, p := t.root, nilNode
	for x != nilNode {
		p = x
		if t.compare(key, t.nodes[x].key) < 0 {
			x = t.nodes[x].left
		} else {
			x = t.nodes[x].right
		}
	}

	n := t.newNode(key)
	switch {
	case p == nilNode:
		t.root = n
	case t.compare(key, t.nodes[p].key) < 0:
		t.setLeft(p, n)
	default:
		t.setRight(p, n)
	}
	t.size++
	t.splay(n)
}

// Upsert overwrites the stored key equal to key and splays it, or inserts key
// if none exists. It reports whether a key was replaced.
func (t *Tree[K]) Upsert(key K) bool {
	if x := t.find(key); x != nilNode {
		t.nodes[x].key = key
		t.splay(x)
		return true
	}
	t.Insert(key)
	return false
}

// Delete removes one key equal to key. The node is splayed to the root and
// its two subtrees are joined in its place. If key is absent the tree is left
// as is and an error wrapping ErrNotFound is returned.
func (t *Tree[K]) Delete(key K) error {
	x := t.find(key)
	if x == nilNode {
		t.log.Debug("delete: key not found", "key", key)
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}

	t.splay(x)
	s := t.detach(t.nodes[x].left)
	r := t.detach(t.nodes[x].right)
	t.freeNode(x)
	t.root = nilNode

	t.root = t.join(s, r)
	t.size--
	return nil
}

// Join moves every key of other into t. All keys of t must be <= all keys of
// other. On success other is empty.
func (t *Tree[K]) Join(other *Tree[K]) error {
	if other == t {
		return ErrSelfJoin
	}
	if other.root == nilNode {
		return nil
	}
	if t.root != nilNode {
		hi := t.nodes[t.subtreeMax(t.root)].key
		lo := other.nodes[other.subtreeMin(other.root)].key
		if t.compare(hi, lo) > 0 {
			return fmt.Errorf("%w: %v > %v", ErrJoinOrder, hi, lo)
		}
	}

	r := t.adopt(other)
	t.root = t.join(t.root, r)
	t.size += other.size
	other.Clear()
	return nil
}

// adopt copies the shape of src into t's arena and returns the detached top.
func (t *Tree[K]) adopt(src *Tree[K]) nodeID {
	type pending struct {
		from   nodeID
		parent nodeID
		left   bool
	}

	var top nodeID
	stack := []pending{{from: src.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := t.newNode(src.nodes[p.from].key)
		switch {
		case p.parent == nilNode:
			top = id
		case p.left:
			t.setLeft(p.parent, id)
		default:
			t.setRight(p.parent, id)
		}

		if r := src.nodes[p.from].right; r != nilNode {
			stack = append(stack, pending{from: r, parent: id})
		}
		if l := src.nodes[p.from].left; l != nilNode {
			stack = append(stack, pending{from: l, parent: id, left: true})
		}
	}
	return top
}

package splay

import "iter"

// Preorder returns the keys in node, left, right order.
func (t *Tree[K]) Preorder() []K {
	out := make([]K, 0, t.size)
	if t.root == nilNode {
		return out
	}
	stack := []nodeID{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, t.nodes[x].key)
		if r := t.nodes[x].right; r != nilNode {
			stack = append(stack, r)
		}
		if l := t.nodes[x].left; l != nilNode {
			stack = append(stack, l)
		}
	}
	return out
}

// Inorder returns the keys in ascending order.
func (t *Tree[K]) Inorder() []K {
	out := make([]K, 0, t.size)
	for k := range t.All() {
		out = append(out, k)
	}
	return out
}

// Postorder returns the keys in left, right, node order.
func (t *Tree[K]) Postorder() []K {
	out := make([]K, 0, t.size)
	if t.root == nilNode {
		return out
	}
	// node, right, left reversed
	stack := []nodeID{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, t.nodes[x].key)
		if l := t.nodes[x].left; l != nilNode {
			stack = append(stack, l)
		}
		if r := t.nodes[x].right; r != nilNode {
			stack = append(stack, r)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// All returns an iterator over all keys in ascending order.
// The tree must not be modified during iteration.
func (t *Tree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		var stack []nodeID
		x := t.root
		for x != nilNode || len(stack) > 0 {
			for x != nilNode {
				stack = append(stack, x)
				x = t.nodes[x].left
			}
			x = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(t.nodes[x].key) {
				return
			}
			x = t.nodes[x].right
		}
	}
}

// Range returns an iterator over the keys k with lo <= k <= hi in ascending
// order. Subtrees entirely below lo are skipped. Range does not splay.
func (t *Tree[K]) Range(lo, hi K) iter.Seq[K] {
	return func(yield func(K) bool) {
		var stack []nodeID
		x := t.root
		for x != nilNode || len(stack) > 0 {
			for x != nilNode {
				if t.compare(t.nodes[x].key, lo) < 0 {
					x = t.nodes[x].right
					continue
				}
				stack = append(stack, x)
				x = t.nodes[x].left
			}
			x = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if t.compare(t.nodes[x].key, hi) > 0 {
				return
			}
			if !yield(t.nodes[x].key) {
				return
			}
			x = t.nodes[x].right
		}
	}
}

// Height returns the number of levels, 0 for an empty tree.
func (t *Tree[K]) Height() int {
	if t.root == nilNode {
		return 0
	}
	type item struct {
		id    nodeID
		depth int
	}
	height := 0
	stack := []item{{t.root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, it.depth)
		if l := t.nodes[it.id].left; l != nilNode {
			stack = append(stack, item{l, it.depth + 1})
		}
		if r := t.nodes[it.id].right; r != nilNode {
			stack = append(stack, item{r, it.depth + 1})
		}
	}
	return height
}

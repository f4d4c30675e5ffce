package splay

// nodeID addresses a node in the tree's arena. Slot 0 is never handed out
// and stands for "no node".
type nodeID int32

const nilNode nodeID = 0

type node[K any] struct {
	key    K
	left   nodeID
	right  nodeID
	parent nodeID // navigation only, the owning link is parent.left/right
}

// ─── arena ────────────────────────────────────────────────────────────────────

func (t *Tree[K]) newNode(key K) nodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = node[K]{key: key}
		return id
	}
	t.nodes = append(t.nodes, node[K]{key: key})
	return nodeID(len(t.nodes) - 1)
}

func (t *Tree[K]) freeNode(id nodeID) {
	var zero node[K]
	t.nodes[id] = zero
	t.free = append(t.free, id)
}

// ─── relations ────────────────────────────────────────────────────────────────

// setLeft makes c the left child of p and p the parent of c.
func (t *Tree[K]) setLeft(p, c nodeID) {
	t.nodes[p].left = c
	if c != nilNode {
		t.nodes[c].parent = p
	}
}

// setRight makes c the right child of p and p the parent of c.
func (t *Tree[K]) setRight(p, c nodeID) {
	t.nodes[p].right = c
	if c != nilNode {
		t.nodes[c].parent = p
	}
}

// replaceChild puts c into the slot old occupies under p. A nil p means old
// was the root.
func (t *Tree[K]) replaceChild(p, old, c nodeID) {
	switch {
	case p == nilNode:
		t.root = c
		if c != nilNode {
			t.nodes[c].parent = nilNode
		}
	case t.nodes[p].left == old:
		t.setLeft(p, c)
	default:
		t.setRight(p, c)
	}
}

// detach cuts c loose from its parent and returns it as a standalone subtree.
func (t *Tree[K]) detach(c nodeID) nodeID {
	if c == nilNode {
		return nilNode
	}
	if p := t.nodes[c].parent; p != nilNode {
		if t.nodes[p].left == c {
			t.nodes[p].left = nilNode
		} else {
			t.nodes[p].right = nilNode
		}
	}
	t.nodes[c].parent = nilNode
	return c
}

func (t *Tree[K]) subtreeMin(x nodeID) nodeID {
	for t.nodes[x].left != nilNode {
		x = t.nodes[x].left
	}
	return x
}

func (t *Tree[K]) subtreeMax(x nodeID) nodeID {
	for t.nodes[x].right != nilNode {
		x = t.nodes[x].right
	}
	return x
}

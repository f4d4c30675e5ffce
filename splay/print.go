package splay

import (
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"
)

// maxPrintLevels bounds Levels: row h holds 2^(h-1) slots.
const maxPrintLevels = 20

// Slot is one position in a row returned by Levels.
type Slot[K any] struct {
	Key     K
	Present bool
}

// Levels lays the tree out as if it were embedded in a complete binary tree:
// the root has index 1 and the children of index i are 2i and 2i+1. Row h
// covers indices [2^(h-1), 2^h-1]; indices without a node are not Present.
// An empty tree yields no rows.
func (t *Tree[K]) Levels() ([][]Slot[K], error) {
	if t.root == nilNode {
		return nil, nil
	}
	h := t.Height()
	if h > maxPrintLevels {
		return nil, fmt.Errorf("%w: %d levels, limit %d", ErrTooDeep, h, maxPrintLevels)
	}

	rows := make([][]Slot[K], h)
	for i := range rows {
		rows[i] = make([]Slot[K], 1<<i)
	}

	type item struct {
		id    nodeID
		level int
		idx   uint64
	}
	queue := []item{{id: t.root, level: 1, idx: 1}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		first := uint64(1) << (it.level - 1)
		rows[it.level-1][it.idx-first] = Slot[K]{Key: t.nodes[it.id].key, Present: true}

		if l := t.nodes[it.id].left; l != nilNode {
			queue = append(queue, item{id: l, level: it.level + 1, idx: it.idx * 2})
		}
		if r := t.nodes[it.id].right; r != nilNode {
			queue = append(queue, item{id: r, level: it.level + 1, idx: it.idx*2 + 1})
		}
	}
	return rows, nil
}

// Print writes one line per level, e.g. "[70, '*']", with '*' for empty
// slots, followed by a separator line. Nothing is written for an empty tree.
func (t *Tree[K]) Print(w io.Writer) error {
	rows, err := t.Levels()
	if err != nil || rows == nil {
		return err
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteByte('[')
		for i, s := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			if s.Present {
				fmt.Fprintf(&b, "%v", s.Key)
			} else {
				b.WriteString("'*'")
			}
		}
		b.WriteString("]\n")
	}
	b.WriteString(strings.Repeat("-", 100))
	b.WriteByte('\n')

	_, err = io.WriteString(w, b.String())
	return err
}

// Dump writes an indented view of the tree. Children are labelled L and R.
func (t *Tree[K]) Dump(w io.Writer) error {
	if t.root == nilNode {
		return nil
	}

	type item struct {
		id     nodeID
		branch treeprint.Tree
	}
	root := treeprint.NewWithRoot(fmt.Sprint(t.nodes[t.root].key))
	stack := []item{{id: t.root, branch: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[it.id]
		for _, c := range [...]struct {
			id   nodeID
			side string
		}{{n.left, "L"}, {n.right, "R"}} {
			if c.id == nilNode {
				continue
			}
			child := t.nodes[c.id]
			label := fmt.Sprintf("%s %v", c.side, child.key)
			if child.left == nilNode && child.right == nilNode {
				it.branch.AddNode(label)
				continue
			}
			stack = append(stack, item{id: c.id, branch: it.branch.AddBranch(label)})
		}
	}

	_, err := io.WriteString(w, root.String())
	return err
}

// WriteDOT writes the tree as a graphviz digraph. Render with
// `dot -Tpng tree.dot -o tree.png`.
func (t *Tree[K]) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph splay {\n")
	b.WriteString("  node [shape=circle, fontname=\"Helvetica\"];\n")

	if t.root != nilNode {
		stack := []nodeID{t.root}
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			n := t.nodes[x]
			fmt.Fprintf(&b, "  n%d [label=%q];\n", x, fmt.Sprint(n.key))
			if n.left == nilNode && n.right == nilNode {
				continue
			}
			// Empty slots keep left and right children visually apart.
			for i, c := range [2]nodeID{n.left, n.right} {
				if c == nilNode {
					fmt.Fprintf(&b, "  e%d_%d [shape=point];\n", x, i)
					fmt.Fprintf(&b, "  n%d -> e%d_%d;\n", x, x, i)
					continue
				}
				fmt.Fprintf(&b, "  n%d -> n%d;\n", x, c)
				stack = append(stack, c)
			}
		}
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

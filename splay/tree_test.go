package splay

import (
	"bytes"
	"cmp"
	"log/slog"
	"math/rand"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleKeys = []int{30, 40, 67, 8, 70, 35, 96}

func buildTree(t *testing.T, keys ...int) *Tree[int] {
	t.Helper()
	tr := New[int]()
	for _, k := range keys {
		tr.Insert(k)
	}
	checkInvariants(t, tr)
	return tr
}

// checkInvariants walks the whole arena and fails on broken links, lost or
// duplicated nodes, or keys out of order.
func checkInvariants[K any](t *testing.T, tr *Tree[K]) {
	t.Helper()

	if tr.root == nilNode {
		require.Zero(t, tr.size, "empty tree with non-zero size")
		return
	}
	require.Equal(t, nilNode, tr.nodes[tr.root].parent, "root has a parent")

	seen := make(map[nodeID]bool)
	stack := []nodeID{tr.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		require.False(t, seen[x], "node %d reachable twice", x)
		seen[x] = true

		for _, c := range []nodeID{tr.nodes[x].left, tr.nodes[x].right} {
			if c == nilNode {
				continue
			}
			require.Equal(t, x, tr.nodes[c].parent, "child %d does not point back to %d", c, x)
			stack = append(stack, c)
		}
	}
	require.Len(t, seen, tr.size, "reachable nodes vs size")
	require.Equal(t, len(tr.nodes), tr.size+len(tr.free)+1, "arena accounting")

	keys := tr.Inorder()
	require.True(t, slices.IsSortedFunc(keys, tr.compare), "inorder not sorted: %v", keys)
}

func TestInsertSplaysToRoot(t *testing.T) {
	tr := New[int]()
	for _, k := range sampleKeys {
		tr.Insert(k)
		root, ok := tr.Root()
		require.True(t, ok)
		assert.Equal(t, k, root)
		checkInvariants(t, tr)
	}
	assert.Equal(t, len(sampleKeys), tr.Len())
}

func TestInsertDuplicates(t *testing.T) {
	tr := buildTree(t, 5, 5, 3, 5)
	assert.Equal(t, []int{3, 5, 5, 5}, tr.Inorder())

	root, _ := tr.Root()
	assert.Equal(t, 5, root)

	require.NoError(t, tr.Delete(5))
	assert.Equal(t, []int{3, 5, 5}, tr.Inorder())
	checkInvariants(t, tr)
}

func TestTraversals(t *testing.T) {
	tr := buildTree(t, sampleKeys...)

	assert.Equal(t, []int{96, 70, 35, 8, 30, 67, 40}, tr.Preorder())
	assert.Equal(t, []int{8, 30, 35, 40, 67, 70, 96}, tr.Inorder())
	assert.Equal(t, []int{30, 8, 40, 67, 35, 70, 96}, tr.Postorder())
	assert.Equal(t, 5, tr.Height())

	empty := New[int]()
	assert.Empty(t, empty.Preorder())
	assert.Empty(t, empty.Inorder())
	assert.Empty(t, empty.Postorder())
	assert.Zero(t, empty.Height())
}

func TestDeleteRoundTrip(t *testing.T) {
	tr := buildTree(t, sampleKeys...)

	require.NoError(t, tr.Delete(35))
	checkInvariants(t, tr)
	require.NoError(t, tr.Delete(70))
	checkInvariants(t, tr)

	assert.Equal(t, []int{8, 30, 40, 67, 96}, tr.Inorder())
	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, 67, root)
	assert.Equal(t, 5, tr.Len())
}

func TestDeleteAbsentKey(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tr := New[int](WithLogger(logger))
	for _, k := range sampleKeys {
		tr.Insert(k)
	}
	before := tr.Preorder()

	err := tr.Delete(999)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "999")
	assert.Contains(t, logs.String(), "key not found")

	if diff := gocmp.Diff(before, tr.Preorder()); diff != "" {
		t.Errorf("tree changed after failed delete (-before +after):\n%s", diff)
	}
	assert.Equal(t, len(sampleKeys), tr.Len())
}

func TestDeleteToEmpty(t *testing.T) {
	tr := buildTree(t, 1, 2, 3)
	for _, k := range []int{2, 1, 3} {
		require.NoError(t, tr.Delete(k))
		checkInvariants(t, tr)
		assert.False(t, tr.Contains(k))
	}
	assert.Zero(t, tr.Len())
	_, ok := tr.Root()
	assert.False(t, ok)

	require.ErrorIs(t, tr.Delete(1), ErrNotFound)

	// freed slots are reused
	tr.Insert(4)
	assert.Len(t, tr.nodes, 4)
	checkInvariants(t, tr)
}

func TestFindDoesNotSplay(t *testing.T) {
	tr := buildTree(t, sampleKeys...)
	before := tr.Preorder()

	for range 2 {
		k, ok := tr.Find(30)
		require.True(t, ok)
		assert.Equal(t, 30, k)
		assert.Equal(t, before, tr.Preorder())
	}

	_, ok := tr.Find(31)
	assert.False(t, ok)
	assert.True(t, tr.Contains(96))
	assert.False(t, tr.Contains(0))

	root, _ := tr.Root()
	assert.Equal(t, 96, root)
}

func TestMinMax(t *testing.T) {
	tr := New[int]()
	_, ok := tr.Min()
	assert.False(t, ok)
	_, ok = tr.Max()
	assert.False(t, ok)

	for _, k := range sampleKeys {
		tr.Insert(k)
	}
	before := tr.Preorder()

	lo, ok := tr.Min()
	require.True(t, ok)
	assert.Equal(t, 8, lo)
	hi, ok := tr.Max()
	require.True(t, ok)
	assert.Equal(t, 96, hi)
	assert.Equal(t, before, tr.Preorder())
}

// bstInsert attaches keys as plain BST leaves without splaying, so tests can
// set up exact shapes.
func bstInsert(tr *Tree[int], keys ...int) {
	for _, k := range keys {
		x, p := tr.root, nilNode
		for x != nilNode {
			p = x
			if k < tr.nodes[x].key {
				x = tr.nodes[x].left
			} else {
				x = tr.nodes[x].right
			}
		}
		n := tr.newNode(k)
		switch {
		case p == nilNode:
			tr.root = n
		case k < tr.nodes[p].key:
			tr.setLeft(p, n)
		default:
			tr.setRight(p, n)
		}
		tr.size++
	}
}

func TestRotations(t *testing.T) {
	// 20 \ 30 / 25
	tr := New[int]()
	bstInsert(tr, 20, 30, 25)
	checkInvariants(t, tr)
	require.Equal(t, []int{20, 30, 25}, tr.Preorder())

	tr.rotateLeft(tr.root)
	checkInvariants(t, tr)
	assert.Equal(t, []int{30, 20, 25}, tr.Preorder())

	tr.rotateRight(tr.root)
	checkInvariants(t, tr)
	assert.Equal(t, []int{20, 30, 25}, tr.Preorder())

	// no child to promote
	leaf := tr.nodes[tr.nodes[tr.root].right].left
	tr.rotateLeft(leaf)
	tr.rotateRight(leaf)
	checkInvariants(t, tr)
	assert.Equal(t, []int{20, 30, 25}, tr.Preorder())
}

func TestSplayCases(t *testing.T) {
	tests := []struct {
		name   string
		keys   []int
		target int
		want   []int // preorder after splaying target
	}{
		{"zig", []int{20, 10}, 10, []int{10, 20}},
		{"zag", []int{10, 20}, 20, []int{20, 10}},
		// 30 / 20 / 10
		{"zig-zig", []int{30, 20, 10}, 10, []int{10, 20, 30}},
		// 10 \ 20 \ 30
		{"zag-zag", []int{10, 20, 30}, 30, []int{30, 20, 10}},
		// 30 / 10 \ 20
		{"zig-zag", []int{30, 10, 20}, 20, []int{20, 10, 30}},
		// 10 \ 30 / 20
		{"zag-zig", []int{10, 30, 20}, 20, []int{20, 10, 30}},
		// 50 / 40 / 10 \ 30 / 20: zag-zig then zig-zig
		{"deep", []int{50, 40, 10, 30, 20}, 20, []int{20, 10, 40, 30, 50}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := New[int]()
			bstInsert(tr, tc.keys...)
			checkInvariants(t, tr)
			x := tr.find(tc.target)
			require.NotEqual(t, nilNode, x)

			tr.splay(x)
			checkInvariants(t, tr)
			assert.Equal(t, tr.root, x)
			assert.Equal(t, tc.want, tr.Preorder())
		})
	}
}

func TestJoin(t *testing.T) {
	left := buildTree(t, 5, 1, 10, 7)
	right := buildTree(t, 20, 40, 25)
	want := append(left.Inorder(), right.Inorder()...)

	require.NoError(t, left.Join(right))
	checkInvariants(t, left)
	checkInvariants(t, right)

	assert.Equal(t, want, left.Inorder())
	assert.Equal(t, 7, left.Len())
	assert.Zero(t, right.Len())

	root, _ := left.Root()
	assert.Equal(t, 10, root, "max of the left side ends up on top")
}

func TestJoinEdgeCases(t *testing.T) {
	t.Run("empty receiver", func(t *testing.T) {
		a, b := New[int](), buildTree(t, 3, 4)
		require.NoError(t, a.Join(b))
		assert.Equal(t, []int{3, 4}, a.Inorder())
		checkInvariants(t, a)
	})

	t.Run("empty argument", func(t *testing.T) {
		a, b := buildTree(t, 3, 4), New[int]()
		require.NoError(t, a.Join(b))
		assert.Equal(t, []int{3, 4}, a.Inorder())
	})

	t.Run("equal boundary", func(t *testing.T) {
		a, b := buildTree(t, 1, 5), buildTree(t, 5, 9)
		require.NoError(t, a.Join(b))
		assert.Equal(t, []int{1, 5, 5, 9}, a.Inorder())
		checkInvariants(t, a)
	})

	t.Run("overlap", func(t *testing.T) {
		a, b := buildTree(t, 1, 50), buildTree(t, 20, 60)
		require.ErrorIs(t, a.Join(b), ErrJoinOrder)
		assert.Equal(t, []int{1, 50}, a.Inorder())
		assert.Equal(t, []int{20, 60}, b.Inorder())
	})

	t.Run("self", func(t *testing.T) {
		a := buildTree(t, 1, 2)
		require.ErrorIs(t, a.Join(a), ErrSelfJoin)
	})
}

type record struct {
	id  int
	val string
}

func TestUpsert(t *testing.T) {
	tr := NewFunc(func(a, b record) int { return cmp.Compare(a.id, b.id) })

	assert.False(t, tr.Upsert(record{1, "a"}))
	assert.False(t, tr.Upsert(record{2, "b"}))
	assert.False(t, tr.Upsert(record{3, "c"}))

	assert.True(t, tr.Upsert(record{1, "z"}))
	root, _ := tr.Root()
	assert.Equal(t, record{1, "z"}, root)
	assert.Equal(t, 3, tr.Len())

	got, ok := tr.Find(record{id: 1})
	require.True(t, ok)
	assert.Equal(t, "z", got.val)
	checkInvariants(t, tr)
}

func TestClear(t *testing.T) {
	tr := buildTree(t, sampleKeys...)
	require.NoError(t, tr.Delete(8))
	tr.Clear()
	checkInvariants(t, tr)
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Inorder())

	tr.Insert(1)
	assert.Equal(t, []int{1}, tr.Inorder())
	checkInvariants(t, tr)
}

// TestRandomOps checks the tree against a sorted slice over many mixed
// operations, with a small key space to force duplicates.
func TestRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New[int]()
	var model []int

	for i := range 5000 {
		k := rng.Intn(200)
		switch op := rng.Intn(10); {
		case op < 5:
			tr.Insert(k)
			idx, _ := slices.BinarySearch(model, k)
			model = slices.Insert(model, idx, k)
			root, _ := tr.Root()
			require.Equal(t, k, root)
		case op < 8:
			err := tr.Delete(k)
			idx, found := slices.BinarySearch(model, k)
			if found {
				require.NoError(t, err)
				model = slices.Delete(model, idx, idx+1)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		default:
			_, found := slices.BinarySearch(model, k)
			require.Equal(t, found, tr.Contains(k))
		}

		if i%250 == 0 {
			checkInvariants(t, tr)
		}
		require.Equal(t, len(model), tr.Len())
	}

	checkInvariants(t, tr)
	if diff := gocmp.Diff(model, tr.Inorder()); diff != "" {
		t.Fatalf("inorder mismatch (-model +tree):\n%s", diff)
	}
}

func BenchmarkInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int](WithCapacity(b.N))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(rng.Int())
	}
}

// Package indextest holds the conformance tests every index.Index
// implementation must pass.
package indextest

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/index-bench/splaytree/index"
)

// Run exercises open's index. open is called once per subtest and the index
// is closed when the subtest ends.
func Run(t *testing.T, open func(t *testing.T) index.Index) {
	fresh := func(t *testing.T) index.Index {
		idx := open(t)
		t.Cleanup(func() { require.NoError(t, idx.Close()) })
		return idx
	}

	t.Run("InsertGet", func(t *testing.T) {
		idx := fresh(t)
		require.NoError(t, idx.Insert(1, []byte("one")))
		require.NoError(t, idx.Insert(-7, []byte("minus seven")))

		v, err := idx.Get(1)
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), v)

		v, err = idx.Get(-7)
		require.NoError(t, err)
		assert.Equal(t, []byte("minus seven"), v)

		_, err = idx.Get(2)
		require.ErrorIs(t, err, index.ErrKeyNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		idx := fresh(t)
		require.NoError(t, idx.Insert(5, []byte("a")))
		require.NoError(t, idx.Insert(5, []byte("b")))

		v, err := idx.Get(5)
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), v)
		assert.Equal(t, []int64{5}, keys(t, idx, math.MinInt64, math.MaxInt64))
	})

	t.Run("Delete", func(t *testing.T) {
		idx := fresh(t)
		for k := int64(0); k < 10; k++ {
			require.NoError(t, idx.Insert(k, []byte{byte(k)}))
		}
		require.NoError(t, idx.Delete(4))
		_, err := idx.Get(4)
		require.ErrorIs(t, err, index.ErrKeyNotFound)

		require.ErrorIs(t, idx.Delete(4), index.ErrKeyNotFound)
		require.ErrorIs(t, idx.Delete(999), index.ErrKeyNotFound)
		assert.Equal(t, []int64{0, 1, 2, 3, 5, 6, 7, 8, 9}, keys(t, idx, 0, 9))
	})

	t.Run("Range", func(t *testing.T) {
		idx := fresh(t)
		for _, k := range []int64{30, 40, 67, 8, 70, 35, 96} {
			require.NoError(t, idx.Insert(k, []byte(fmt.Sprint(k))))
		}

		assert.Equal(t, []int64{30, 35, 40, 67}, keys(t, idx, 30, 67))
		assert.Equal(t, []int64{8, 30, 35, 40, 67, 70, 96}, keys(t, idx, math.MinInt64, math.MaxInt64))
		assert.Empty(t, keys(t, idx, 71, 95))

		it, err := idx.Range(96, 96)
		require.NoError(t, err)
		require.True(t, it.Next())
		assert.Equal(t, int64(96), it.Key())
		assert.Equal(t, []byte("96"), it.Value())
		assert.False(t, it.Next())
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
	})

	t.Run("RandomAgainstMap", func(t *testing.T) {
		idx := fresh(t)
		rng := rand.New(rand.NewSource(7))
		model := make(map[int64][]byte)

		for range 2000 {
			k := int64(rng.Intn(300)) - 150
			switch rng.Intn(3) {
			case 0, 1:
				v := []byte(fmt.Sprint(rng.Int()))
				require.NoError(t, idx.Insert(k, v))
				model[k] = v
			default:
				err := idx.Delete(k)
				if _, ok := model[k]; ok {
					require.NoError(t, err)
					delete(model, k)
				} else {
					require.ErrorIs(t, err, index.ErrKeyNotFound)
				}
			}
		}

		want := make([]int64, 0, len(model))
		for k, v := range model {
			want = append(want, k)
			got, err := idx.Get(k)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
		slices.Sort(want)
		assert.Equal(t, want, keys(t, idx, math.MinInt64, math.MaxInt64))
	})
}

func keys(t *testing.T, idx index.Index, start, end int64) []int64 {
	t.Helper()
	it, err := idx.Range(start, end)
	require.NoError(t, err)
	defer it.Close()

	out := []int64{}
	for it.Next() {
		out = append(out, it.Key())
	}
	require.NoError(t, it.Error())
	return out
}

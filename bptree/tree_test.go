package bptree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanicsOnBadOrder(t *testing.T) {
	require.Panics(t, func() { NewOrdered[int, int](3) })
	require.Panics(t, func() { New[int, int](8, nil) })
	require.NotPanics(t, func() { NewOrdered[int, int](4) })
}

func TestEmptyTree(t *testing.T) {
	tr := NewOrdered[int, string](5)
	require.Equal(t, 0, tr.Size())
	require.Equal(t, 1, tr.Height())

	_, found := tr.Get(42)
	require.False(t, found)

	require.False(t, tr.Iterator().HasNext())
	checkTree(t, tr)
}

// odd keys 1..25 into an order-5 tree, value = key squared
func TestOddKeysRoundTrip(t *testing.T) {
	tr := NewOrdered[int, int](5)
	for k := 1; k <= 25; k += 2 {
		tr.Put(k, k*k)
		checkTree(t, tr)
	}
	require.Equal(t, 13, tr.Size())

	v, found := tr.Get(13)
	require.True(t, found)
	require.Equal(t, 169, v)

	// never inserted
	_, found = tr.Get(2)
	require.False(t, found)

	it := tr.Iterator()
	for k := 1; k <= 25; k += 2 {
		require.True(t, it.HasNext())
		key, val := it.Next()
		assert.Equal(t, k, key)
		assert.Equal(t, k*k, val)
	}
	require.False(t, it.HasNext())
}

func TestUpdateSemantics(t *testing.T) {
	tr := NewOrdered[string, int](4)

	prev, replaced := tr.Put("a", 1)
	require.False(t, replaced)
	require.Zero(t, prev)

	prev, replaced = tr.Put("a", 2)
	require.True(t, replaced)
	require.Equal(t, 1, prev)
	require.Equal(t, 1, tr.Size(), "update must not grow the tree")

	v, found := tr.Get("a")
	require.True(t, found)
	require.Equal(t, 2, v)

	it := tr.Iterator()
	key, val := it.Next()
	require.Equal(t, "a", key)
	require.Equal(t, 2, val)
	require.False(t, it.HasNext(), "old value must not linger")
}

func TestAddRejectsDuplicates(t *testing.T) {
	tr := NewOrdered[int, int](5)
	require.NoError(t, tr.Add(7, 70))
	require.ErrorIs(t, tr.Add(7, 71), ErrKeyExists)

	v, _ := tr.Get(7)
	require.Equal(t, 70, v, "failed Add must not overwrite")
}

// sequential keys force repeated splits on the rightmost path
func TestSequentialInsertSplits(t *testing.T) {
	tr := NewOrdered[int, int](5)
	for k := 0; k < 20; k++ {
		tr.Put(k, k)
		checkTree(t, tr)
	}
	require.Greater(t, tr.Height(), 1)
	for k := 0; k < 20; k++ {
		v, found := tr.Get(k)
		require.True(t, found, "key %d lost after splits", k)
		require.Equal(t, k, v)
	}
}

func TestDescendingInsert(t *testing.T) {
	tr := NewOrdered[int, int](4)
	for k := 99; k >= 0; k-- {
		tr.Put(k, -k)
		checkTree(t, tr)
	}
	for k := 0; k < 100; k++ {
		v, found := tr.Get(k)
		require.True(t, found)
		require.Equal(t, -k, v)
	}
}

// update a key that also lives as a duplicated divider in an internal node
func TestUpdateOnDividerKey(t *testing.T) {
	tr := NewOrdered[int, int](4)
	for k := 0; k < 30; k++ {
		tr.Put(k, k)
	}
	require.Greater(t, tr.Height(), 1)

	divider := tr.root.keys[0]
	tr.Put(divider, -1)
	checkTree(t, tr)

	v, found := tr.Get(divider)
	require.True(t, found)
	require.Equal(t, -1, v)
}

func TestRandomizedAgainstMap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := NewOrdered[int, int](6)
	ref := map[int]int{}

	for i := 0; i < 5000; i++ {
		k := rng.Intn(800)
		switch rng.Intn(3) {
		case 0, 1:
			v := rng.Int()
			_, replaced := tr.Put(k, v)
			_, existed := ref[k]
			require.Equal(t, existed, replaced)
			ref[k] = v
		case 2:
			prev, removed := tr.Remove(k)
			want, existed := ref[k]
			require.Equal(t, existed, removed)
			if existed {
				require.Equal(t, want, prev)
				delete(ref, k)
			}
		}
	}
	checkTree(t, tr)
	require.Equal(t, len(ref), tr.Size())

	keys := make([]int, 0, len(ref))
	for k := range ref {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	it := tr.Iterator()
	for _, k := range keys {
		require.True(t, it.HasNext())
		key, val := it.Next()
		require.Equal(t, k, key)
		require.Equal(t, ref[k], val)
	}
	require.False(t, it.HasNext())
}

func TestAccessCountGrows(t *testing.T) {
	tr := NewOrdered[int, int](4)
	for k := 0; k < 64; k++ {
		tr.Put(k, k)
	}
	before := tr.AccessCount()
	tr.Get(33)
	require.Greater(t, tr.AccessCount(), before)
	require.GreaterOrEqual(t, tr.AccessCount()-before, int64(tr.Height()))
}

func TestOrderIsPerTree(t *testing.T) {
	// the comparator is a construction parameter, not a global
	trA := NewOrdered[int, int](4)
	trB := NewOrdered[int, int](8)
	for k := 0; k < 50; k++ {
		trA.Put(k, k)
		trB.Put(k, k)
	}
	require.Greater(t, trA.Height(), trB.Height())
	checkTree(t, trA)
	checkTree(t, trB)
}

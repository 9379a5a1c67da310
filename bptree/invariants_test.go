package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/*
checkTree verifies the structural invariants after a mutation:

  - keys strictly ascending within every node
  - fill bounds: at most order-1 keys everywhere, at least (order-1)/2 in
    any node below the root
  - internal nodes hold exactly len(keys)+1 children and every key in child
    i sits in [keys[i-1], keys[i])
  - all leaves at the same depth
  - the leaf chain visits exactly the leaves of the tree, left to right,
    with consistent prev links
  - Size() equals the number of entries reachable through the chain
*/
func checkTree[K, V any](t *testing.T, tr *Tree[K, V]) {
	t.Helper()

	var leaves []*node[K, V]
	leafDepth := -1

	var walk func(n *node[K, V], depth int, hasLow, hasHigh bool, low, high K)
	walk = func(n *node[K, V], depth int, hasLow, hasHigh bool, low, high K) {
		isRoot := n == tr.root
		require.LessOrEqual(t, len(n.keys), tr.order-1, "node overflow")
		if !isRoot {
			require.GreaterOrEqual(t, len(n.keys), tr.minKeys(), "node underflow")
		}
		for i := 1; i < len(n.keys); i++ {
			require.Negative(t, tr.cmp(n.keys[i-1], n.keys[i]), "keys not ascending")
		}
		for _, k := range n.keys {
			if hasLow {
				require.GreaterOrEqual(t, tr.cmp(k, low), 0, "key below subtree bound")
			}
			if hasHigh {
				require.Negative(t, tr.cmp(k, high), "key above subtree bound")
			}
		}

		if n.leaf {
			require.Empty(t, n.children, "leaf with children")
			require.Equal(t, len(n.keys), len(n.vals), "keys/vals out of sync")
			if leafDepth == -1 {
				leafDepth = depth
			}
			require.Equal(t, leafDepth, depth, "leaves at different depths")
			leaves = append(leaves, n)
			return
		}

		require.Equal(t, len(n.keys)+1, len(n.children), "children/keys out of sync")
		require.NotEmpty(t, n.keys, "internal node without keys")
		for i, child := range n.children {
			cLow, cHigh := low, high
			cHasLow, cHasHigh := hasLow, hasHigh
			if i > 0 {
				cLow, cHasLow = n.keys[i-1], true
			}
			if i < len(n.keys) {
				cHigh, cHasHigh = n.keys[i], true
			}
			walk(child, depth+1, cHasLow, cHasHigh, cLow, cHigh)
		}
	}

	var zero K
	walk(tr.root, 0, false, false, zero, zero)

	// chain walk from the leftmost leaf must visit the same leaves in the
	// same order, and terminate
	n := tr.root
	for !n.leaf {
		n = n.children[0]
	}
	total := 0
	for i := 0; n != nil; i++ {
		require.Less(t, i, len(leaves), "leaf chain longer than tree")
		require.Same(t, leaves[i], n, "leaf chain out of order")
		if i > 0 {
			require.Same(t, leaves[i-1], n.prev, "prev link broken")
		}
		total += len(n.keys)
		n = n.next
	}
	require.Equal(t, len(leaves), countChain(tr), "leaf chain dropped a leaf")
	require.Equal(t, tr.Size(), total, "size out of sync with leaf contents")
}

func countChain[K, V any](tr *Tree[K, V]) int {
	n := tr.root
	for !n.leaf {
		n = n.children[0]
	}
	count := 0
	for ; n != nil; n = n.next {
		count++
	}
	return count
}

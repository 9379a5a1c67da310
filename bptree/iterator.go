package bptree

/*
Iterator is a single-pass cursor over the leaf chain, yielding entries in
ascending key order. It holds a live reference into the tree: mutating the
tree while an iterator is active invalidates it. Construct a fresh iterator
to restart.
*/
type Iterator[K, V any] struct {
	leaf *node[K, V]
	pos  int
}

// Iterator returns a cursor positioned at the smallest key.
func (t *Tree[K, V]) Iterator() *Iterator[K, V] {
	n := t.root
	for !n.leaf {
		t.accesses++
		n = n.children[0]
	}
	t.accesses++
	return &Iterator[K, V]{leaf: n}
}

/*
IteratorFrom returns a cursor positioned at the smallest key >= start. If
start exceeds every key present the cursor is exhausted from the outset,
not an error.
*/
func (t *Tree[K, V]) IteratorFrom(start K) *Iterator[K, V] {
	n := t.root
	for !n.leaf {
		t.accesses++
		n = n.children[n.childIndex(start, t.cmp)]
	}
	t.accesses++
	pos, _ := n.search(start, t.cmp)
	it := &Iterator[K, V]{leaf: n, pos: pos}
	if pos == len(n.keys) {
		// start falls past this leaf's last key, resume at the successor
		it.leaf = n.next
		it.pos = 0
	}
	return it
}

// HasNext reports whether another entry is available.
func (it *Iterator[K, V]) HasNext() bool {
	return it.leaf != nil && it.pos < len(it.leaf.keys)
}

// Next returns the current entry and advances. Calling Next on an
// exhausted iterator is a programming error and panics.
func (it *Iterator[K, V]) Next() (K, V) {
	if !it.HasNext() {
		panic("bptree: Next called on exhausted iterator")
	}
	key, val := it.leaf.keys[it.pos], it.leaf.vals[it.pos]
	it.pos++
	if it.pos == len(it.leaf.keys) {
		it.leaf = it.leaf.next
		it.pos = 0
	}
	return key, val
}

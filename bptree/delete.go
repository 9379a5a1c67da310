package bptree

/*
Remove deletes the entry stored under key and returns its value, or the
zero value and false if the key is absent.

A leaf that drops below minimum fill is rebalanced by its parent on the way
back up: borrow from a sibling that sits above minimum fill (left first,
then right), or merge with one when both are at minimum. A merge removes a
divider from the parent, which may underflow in turn and is handled the
same way one level higher, mirroring split propagation on insert. If an
internal root is left with zero keys its sole child becomes the new root
and the tree shrinks by one level.
*/
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	prev, removed := t.remove(t.root, key)
	if removed {
		t.size--
		if !t.root.leaf && len(t.root.keys) == 0 {
			t.root = t.root.children[0]
			if t.log != nil {
				t.log.Debugf("root collapsed, height now %d", t.Height())
			}
		}
	}
	return prev, removed
}

func (t *Tree[K, V]) remove(n *node[K, V], key K) (V, bool) {
	t.accesses++
	pos, found := n.search(key, t.cmp)

	if n.leaf {
		if !found {
			var zero V
			return zero, false
		}
		n.removeKeyAt(pos)
		return n.removeValAt(pos), true
	}

	if found {
		pos++
	}
	prev, removed := t.remove(n.children[pos], key)
	if removed && len(n.children[pos].keys) < t.minKeys() {
		t.rebalance(n, pos)
	}
	return prev, removed
}

// rebalance restores minimum fill of parent.children[pos] after a removal
// underflowed it. The parent itself may underflow when a merge steals a
// divider; the caller's caller deals with that.
func (t *Tree[K, V]) rebalance(parent *node[K, V], pos int) {
	child := parent.children[pos]

	if pos > 0 {
		left := parent.children[pos-1]
		if len(left.keys) > t.minKeys() {
			t.borrowFromLeft(parent, pos, left, child)
			return
		}
	}
	if pos < len(parent.children)-1 {
		right := parent.children[pos+1]
		if len(right.keys) > t.minKeys() {
			t.borrowFromRight(parent, pos, child, right)
			return
		}
	}

	// both siblings at minimum fill, fold two nodes into one
	if pos > 0 {
		t.merge(parent, pos-1)
	} else {
		t.merge(parent, pos)
	}
}

// move the left sibling's last entry (or child) into the underflowed node
func (t *Tree[K, V]) borrowFromLeft(parent *node[K, V], pos int, left, child *node[K, V]) {
	last := len(left.keys) - 1
	if child.leaf {
		child.insertKeyAt(0, left.removeKeyAt(last))
		child.insertValAt(0, left.removeValAt(last))
		parent.keys[pos-1] = child.keys[0]
	} else {
		child.insertKeyAt(0, parent.keys[pos-1])
		child.insertChildAt(0, left.removeChildAt(len(left.children)-1))
		parent.keys[pos-1] = left.removeKeyAt(last)
	}
	t.debugf("borrowed from left sibling")
}

// move the right sibling's first entry (or child) into the underflowed node
func (t *Tree[K, V]) borrowFromRight(parent *node[K, V], pos int, child, right *node[K, V]) {
	if child.leaf {
		child.insertKeyAt(len(child.keys), right.removeKeyAt(0))
		child.insertValAt(len(child.vals), right.removeValAt(0))
		parent.keys[pos] = right.keys[0]
	} else {
		child.insertKeyAt(len(child.keys), parent.keys[pos])
		child.insertChildAt(len(child.children), right.removeChildAt(0))
		parent.keys[pos] = right.removeKeyAt(0)
	}
	t.debugf("borrowed from right sibling")
}

/*
merge folds parent.children[pos+1] into parent.children[pos] and drops the
divider between them. A leaf merge discards the divider outright (it
duplicated the right leaf's first key); an internal merge demotes it back
between the two key runs.
*/
func (t *Tree[K, V]) merge(parent *node[K, V], pos int) {
	left := parent.children[pos]
	right := parent.children[pos+1]

	divider := parent.removeKeyAt(pos)
	parent.removeChildAt(pos + 1)

	if left.leaf {
		left.mergeLeaf(right)
	} else {
		left.mergeInternal(divider, right)
	}
	t.debugf("merged siblings, %d keys", len(left.keys))
}

package bptree

/*
A node is either a leaf holding key/value pairs or an internal node holding
keys and child pointers. Internal nodes keep one more child than keys:
children[i] covers keys < keys[i], children[len(keys)] covers keys >= the
last key. Divider keys pushed up from leaf splits stay duplicated as the
first key of the right leaf, so a lookup that hits an equal key in an
internal node must descend right.

Slices are preallocated to a fixed capacity with one slack slot beyond the
legal maximum (order-1 keys), so an insert can land before the overflow
split without ever growing the backing array.
*/
type node[K, V any] struct {
	leaf     bool
	keys     []K
	vals     []V           // leaf only, parallel to keys
	children []*node[K, V] // internal only, len(keys)+1 once populated

	// leaf chain in ascending key order; non-owning
	next *node[K, V]
	prev *node[K, V]
}

func newLeaf[K, V any](order int) *node[K, V] {
	return &node[K, V]{
		leaf: true,
		keys: make([]K, 0, order),
		vals: make([]V, 0, order),
	}
}

func newInternal[K, V any](order int) *node[K, V] {
	return &node[K, V]{
		keys:     make([]K, 0, order),
		children: make([]*node[K, V], 0, order+1),
	}
}

/*
If a key equal to the search key is present, return its index and true.
Else return the index where it would be inserted (the lower bound) and
false. For internal nodes the lower bound coincides with the child slot to
descend into, except on an exact hit, where the caller bumps the index by
one (equal keys live in the right subtree).
*/
func (n *node[K, V]) search(key K, cmp CompareFunc[K]) (int, bool) {
	low, high := 0, len(n.keys)
	var mid int
	for low < high {
		mid = (low + high) / 2
		c := cmp(key, n.keys[mid])
		switch {
		case c > 0:
			low = mid + 1
		case c < 0:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// child slot covering key during descent
func (n *node[K, V]) childIndex(key K, cmp CompareFunc[K]) int {
	pos, found := n.search(key, cmp)
	if found {
		pos++
	}
	return pos
}

func (n *node[K, V]) insertKeyAt(pos int, key K) {
	n.keys = append(n.keys, key)
	copy(n.keys[pos+1:], n.keys[pos:])
	n.keys[pos] = key
}

func (n *node[K, V]) insertValAt(pos int, val V) {
	n.vals = append(n.vals, val)
	copy(n.vals[pos+1:], n.vals[pos:])
	n.vals[pos] = val
}

func (n *node[K, V]) insertChildAt(pos int, child *node[K, V]) {
	n.children = append(n.children, child)
	copy(n.children[pos+1:], n.children[pos:])
	n.children[pos] = child
}

func (n *node[K, V]) removeKeyAt(pos int) K {
	key := n.keys[pos]
	copy(n.keys[pos:], n.keys[pos+1:])
	var zero K
	n.keys[len(n.keys)-1] = zero
	n.keys = n.keys[:len(n.keys)-1]
	return key
}

func (n *node[K, V]) removeValAt(pos int) V {
	val := n.vals[pos]
	copy(n.vals[pos:], n.vals[pos+1:])
	var zero V
	n.vals[len(n.vals)-1] = zero
	n.vals = n.vals[:len(n.vals)-1]
	return val
}

func (n *node[K, V]) removeChildAt(pos int) *node[K, V] {
	child := n.children[pos]
	copy(n.children[pos:], n.children[pos+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	return child
}

// truncate keys (and leaf values) to length k, clearing the tail for GC
func (n *node[K, V]) truncate(k int) {
	var zk K
	for i := k; i < len(n.keys); i++ {
		n.keys[i] = zk
	}
	n.keys = n.keys[:k]
	if n.leaf {
		var zv V
		for i := k; i < len(n.vals); i++ {
			n.vals[i] = zv
		}
		n.vals = n.vals[:k]
	}
}

/*
Split an overflowed leaf (len(keys) == order). The left half keeps
(order-1)/2 keys, the rest move to a new right sibling which is spliced
into the leaf chain. The divider handed to the parent is the first key of
the right sibling and stays duplicated there.
*/
func (n *node[K, V]) splitLeaf(order int) (K, *node[K, V]) {
	mid := (order - 1) / 2

	right := newLeaf[K, V](order)
	right.keys = append(right.keys, n.keys[mid:]...)
	right.vals = append(right.vals, n.vals[mid:]...)
	n.truncate(mid)

	right.next = n.next
	if right.next != nil {
		right.next.prev = right
	}
	right.prev = n
	n.next = right

	return right.keys[0], right
}

/*
Split an overflowed internal node (len(keys) == order). The middle key is
promoted to the parent and removed from both halves; each side keeps one
more child than it has keys.
*/
func (n *node[K, V]) splitInternal(order int) (K, *node[K, V]) {
	mid := (order - 1) / 2
	divider := n.keys[mid]

	right := newInternal[K, V](order)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	for i := mid + 1; i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = n.children[:mid+1]
	n.truncate(mid)

	return divider, right
}

/*
Merge the right leaf sibling into this leaf and skip it in the chain. The
divider in the parent duplicated right's first key, so the caller drops it
without reinserting.
*/
func (n *node[K, V]) mergeLeaf(right *node[K, V]) {
	n.keys = append(n.keys, right.keys...)
	n.vals = append(n.vals, right.vals...)
	n.next = right.next
	if right.next != nil {
		right.next.prev = n
	}
	right.next = nil
	right.prev = nil
	right.truncate(0)
}

// Merge the right internal sibling into this node, demoting the divider
// key from the parent back between the two key runs.
func (n *node[K, V]) mergeInternal(divider K, right *node[K, V]) {
	n.keys = append(n.keys, divider)
	n.keys = append(n.keys, right.keys...)
	n.children = append(n.children, right.children...)
	right.children = nil
	right.truncate(0)
}

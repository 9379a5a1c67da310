/*
Package bptree implements an in-memory B+Tree keyed map with ordered
iteration over a linked chain of leaves.

Keys are sorted by a caller-supplied comparator. Point lookups, inserts and
removals run in O(log n); full and range scans walk the leaf chain without
revisiting internal nodes. The tree is not safe for concurrent use.
*/
package bptree

import (
	"cmp"

	"github.com/sirupsen/logrus"
)

// CompareFunc defines a total ordering over keys: negative if a < b, zero
// if a == b, positive if a > b.
type CompareFunc[K any] func(a, b K) int

/*
Tree owns the root node and orchestrates the recursive descent for every
operation. order is the maximum number of children per internal node; a
node holds at most order-1 keys and, below the root, at least (order-1)/2.
The root is never nil: an empty tree is a single empty leaf.
*/
type Tree[K, V any] struct {
	root  *node[K, V]
	order int
	cmp   CompareFunc[K]
	size  int

	// nodes visited since creation, for benchmarking
	accesses int64

	log logrus.FieldLogger
}

// Option configures a Tree at construction time.
type Option[K, V any] func(*Tree[K, V])

// WithLogger routes split/merge/rebalance diagnostics to log at debug
// level. Without it the tree performs no I/O on any path.
func WithLogger[K, V any](log logrus.FieldLogger) Option[K, V] {
	return func(t *Tree[K, V]) {
		t.log = log
	}
}

// New creates an empty tree. order must be at least 4 and cmp non-nil;
// violating either is a programming error and panics.
func New[K, V any](order int, cmp CompareFunc[K], opts ...Option[K, V]) *Tree[K, V] {
	if order < 4 {
		panic("bptree: order must be at least 4")
	}
	if cmp == nil {
		panic("bptree: nil compare function")
	}
	t := &Tree[K, V]{
		root:  newLeaf[K, V](order),
		order: order,
		cmp:   cmp,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewOrdered creates a tree for keys with a native ordering.
func NewOrdered[K cmp.Ordered, V any](order int, opts ...Option[K, V]) *Tree[K, V] {
	return New[K, V](order, cmp.Compare[K], opts...)
}

// Size returns the number of live key/value pairs.
func (t *Tree[K, V]) Size() int {
	return t.size
}

// Order returns the maximum number of children per internal node.
func (t *Tree[K, V]) Order() int {
	return t.order
}

// AccessCount returns the number of nodes visited since creation.
func (t *Tree[K, V]) AccessCount() int64 {
	return t.accesses
}

// Height returns the number of levels, 1 for a lone leaf root.
func (t *Tree[K, V]) Height() int {
	h := 1
	for n := t.root; !n.leaf; n = n.children[0] {
		h++
	}
	return h
}

// Get returns the value stored under key, or the zero value and false if
// the key is absent.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	n := t.root
	for {
		t.accesses++
		pos, found := n.search(key, t.cmp)
		if n.leaf {
			if found {
				return n.vals[pos], true
			}
			var zero V
			return zero, false
		}
		if found {
			pos++
		}
		n = n.children[pos]
	}
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

/*
Put stores value under key. If the key was already present its value is
replaced and the previous value returned with true; a brand-new key returns
the zero value and false.
*/
func (t *Tree[K, V]) Put(key K, value V) (V, bool) {
	prev, replaced, split := t.insert(t.root, key, value)
	if split != nil {
		// the root itself split: grow the tree by one level
		root := newInternal[K, V](t.order)
		root.keys = append(root.keys, split.key)
		root.children = append(root.children, t.root, split.right)
		t.root = root
		if t.log != nil {
			t.log.Debugf("root split, height now %d", t.Height())
		}
	}
	if !replaced {
		t.size++
	}
	return prev, replaced
}

// Add inserts a brand-new key and fails with ErrKeyExists if the key is
// already present, for callers that need uniqueness enforced.
func (t *Tree[K, V]) Add(key K, value V) error {
	if t.Contains(key) {
		return ErrKeyExists
	}
	t.Put(key, value)
	return nil
}

// divider key plus new right sibling propagated up after a child split
type splitResult[K, V any] struct {
	key   K
	right *node[K, V]
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V) (prev V, replaced bool, split *splitResult[K, V]) {
	t.accesses++
	pos, found := n.search(key, t.cmp)

	if n.leaf {
		if found {
			prev = n.vals[pos]
			n.vals[pos] = value
			return prev, true, nil
		}
		n.insertKeyAt(pos, key)
		n.insertValAt(pos, value)
		if len(n.keys) == t.order {
			divider, right := n.splitLeaf(t.order)
			t.debugf("leaf split, %d keys left / %d right", len(n.keys), len(right.keys))
			return prev, false, &splitResult[K, V]{key: divider, right: right}
		}
		return prev, false, nil
	}

	if found {
		pos++
	}
	prev, replaced, childSplit := t.insert(n.children[pos], key, value)
	if childSplit != nil {
		n.insertKeyAt(pos, childSplit.key)
		n.insertChildAt(pos+1, childSplit.right)
		if len(n.keys) == t.order {
			divider, right := n.splitInternal(t.order)
			t.debugf("internal split, %d keys left / %d right", len(n.keys), len(right.keys))
			return prev, replaced, &splitResult[K, V]{key: divider, right: right}
		}
	}
	return prev, replaced, nil
}

/*
RangeView materializes a new independent tree holding every entry with
from <= key < until, by iterating the source and re-inserting matches.
O(n) in the size of the range; the result shares no structure with the
source.
*/
func (t *Tree[K, V]) RangeView(from, until K) *Tree[K, V] {
	view := New[K, V](t.order, t.cmp)
	for it := t.IteratorFrom(from); it.HasNext(); {
		key, value := it.Next()
		if t.cmp(key, until) >= 0 {
			break
		}
		view.Put(key, value)
	}
	return view
}

func (t *Tree[K, V]) minKeys() int {
	return (t.order - 1) / 2
}

func (t *Tree[K, V]) debugf(format string, args ...any) {
	if t.log != nil {
		t.log.Debugf(format, args...)
	}
}

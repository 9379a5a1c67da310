// Package store buffers writes in size-limited memtables backed by the
// ordered index, rotating to a fresh one when the active table fills up.
package store

import (
	"bytes"

	"bptree/bptree"
)

// Memtable is a bounded write buffer over a B+Tree keyed on raw bytes.
// Values carry a kind-tagged frame so deletions can be buffered too.
type Memtable struct {
	index     *bptree.Tree[[]byte, []byte]
	sizeUsed  int // approximate space used so far (in bytes)
	sizeLimit int // maximum allowed size (in bytes)
}

func NewMemtable(order, sizeLimit int) *Memtable {
	return &Memtable{
		index:     bptree.New[[]byte, []byte](order, bytes.Compare),
		sizeLimit: sizeLimit,
	}
}

// HasRoomForWrite checks if the memtable can take another kv-pair.
func (m *Memtable) HasRoomForWrite(key, val []byte) bool {
	available := m.sizeLimit - m.sizeUsed
	// +1 for the frame kind byte
	return len(key)+len(val)+1 <= available
}

func (m *Memtable) Insert(key, val []byte) {
	m.index.Put(key, valueFrame(val))
	// +1 for the frame kind byte
	m.sizeUsed += len(key) + len(val) + 1
}

func (m *Memtable) InsertTombstone(key []byte) {
	m.index.Put(key, tombstoneFrame())
	m.sizeUsed += len(key) + 1
}

func (m *Memtable) Get(key []byte) (Entry, bool) {
	frame, found := m.index.Get(key)
	if !found {
		return Entry{}, false
	}
	return ParseEntry(key, frame), true
}

// Len returns the number of distinct keys buffered, tombstones included.
func (m *Memtable) Len() int {
	return m.index.Size()
}

// Iterator walks the buffered entries in ascending key order. Values are
// still kind-framed; decode them with ParseEntry.
func (m *Memtable) Iterator() *bptree.Iterator[[]byte, []byte] {
	return m.index.Iterator()
}

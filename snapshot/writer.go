/*
Package snapshot exports the contents of a tree or memtable to a stream as
an ordered run of key/value records, and reads such runs back.

Each record holds one pair, snappy-compressed and checksummed:

	uvarint(blockLen) | xxhash64 of block (8B, little-endian) | block

where block = snappy(uvarint(keyLen) | uvarint(valLen) | key | val).
Records appear in ascending key order because they are produced by walking
the index's leaf chain. The stream ends with an index block: the starting
offset of every record (4B little-endian each) followed by the record
count (4B little-endian), which lets a reader binary-search by key.
*/
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"bptree/bptree"
	"bptree/store"
)

// 2 methods -- `Close() error` and `Sync() error`
type syncCloser interface {
	io.Closer
	Sync() error
}

type Writer struct {
	file       syncCloser // nil when the sink is not a file
	bw         *bufio.Writer
	buf        *bytes.Buffer
	offsets    []uint32 // starting offset of each record
	nextOffset uint32   // offset one past the most recently written record
}

func NewWriter(sink io.Writer) *Writer {
	w := &Writer{}
	w.file, _ = sink.(syncCloser)
	w.bw = bufio.NewWriter(sink)
	w.buf = bytes.NewBuffer(make([]byte, 0, 1024))
	return w
}

// staging area for assembling one record in memory
func (w *Writer) scratchBuf(needed int) []byte {
	available := w.buf.Available()
	if needed > available {
		w.buf.Grow(needed)
	}
	buf := w.buf.AvailableBuffer()
	return buf[:needed]
}

// Write appends one key/value record and indexes its offset.
func (w *Writer) Write(key, val []byte) error {
	keyLen, valLen := len(key), len(val)
	needed := 2*binary.MaxVarintLen64 + keyLen + valLen
	buf := w.scratchBuf(needed)

	n := binary.PutUvarint(buf, uint64(keyLen))
	n += binary.PutUvarint(buf[n:], uint64(valLen))
	copy(buf[n:], key)
	copy(buf[n+keyLen:], val)

	block := snappy.Encode(nil, buf[:n+keyLen+valLen])

	var header [binary.MaxVarintLen64 + 8]byte
	h := binary.PutUvarint(header[:], uint64(len(block)))
	binary.LittleEndian.PutUint64(header[h:h+8], xxhash.Checksum64(block))

	if _, err := w.bw.Write(header[:h+8]); err != nil {
		return errors.Wrap(err, "snapshot: write record header")
	}
	if _, err := w.bw.Write(block); err != nil {
		return errors.Wrap(err, "snapshot: write record block")
	}
	w.addIndexEntry(h + 8 + len(block))
	return nil
}

// track the starting offset of each record
func (w *Writer) addIndexEntry(n int) {
	w.offsets = append(w.offsets, w.nextOffset)
	w.nextOffset += uint32(n)
}

func (w *Writer) writeIndexBlock() error {
	numOffsets := len(w.offsets)
	needed := (numOffsets + 1) * 4 // 4 bytes per offset plus 4 for the count
	buf := w.scratchBuf(needed)
	for i, offset := range w.offsets {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], offset)
	}
	binary.LittleEndian.PutUint32(buf[needed-4:needed], uint32(numOffsets))
	if _, err := w.bw.Write(buf); err != nil {
		return errors.Wrap(err, "snapshot: write index block")
	}
	return nil
}

// WriteTree snapshots a whole tree in key order via its iterator.
func (w *Writer) WriteTree(t *bptree.Tree[[]byte, []byte]) error {
	for it := t.Iterator(); it.HasNext(); {
		key, val := it.Next()
		if err := w.Write(key, val); err != nil {
			return err
		}
	}
	return nil
}

// WriteMemtable drains a memtable into the snapshot in key order. Values
// keep their tombstone framing so deletions survive the export.
func (w *Writer) WriteMemtable(m *store.Memtable) error {
	for it := m.Iterator(); it.HasNext(); {
		key, val := it.Next()
		if err := w.Write(key, val); err != nil {
			return err
		}
	}
	return nil
}

// Close appends the index block, flushes buffered records and, when the
// sink is a file, syncs and closes it.
func (w *Writer) Close() error {
	if err := w.writeIndexBlock(); err != nil {
		return err
	}
	if err := w.bw.Flush(); err != nil {
		return errors.Wrap(err, "snapshot: flush")
	}
	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			return errors.Wrap(err, "snapshot: sync")
		}
		if err := w.file.Close(); err != nil {
			return errors.Wrap(err, "snapshot: close")
		}
		w.file = nil
	}
	w.bw = nil
	return nil
}

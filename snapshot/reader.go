package snapshot

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// ErrCorruptBlock reports a record whose checksum did not match its
// contents, or whose framing could not be decoded.
var ErrCorruptBlock = errors.New("snapshot: corrupt block")

// ErrKeyNotFound is returned by Get when no record carries the key.
var ErrKeyNotFound = errors.New("snapshot: key not found")

// Reader parses a snapshot stream. The whole stream is read up front so
// the trailing index block can drive point lookups.
type Reader struct {
	file       io.Closer // nil when the source is not a file
	data       []byte    // record region, before the index block
	index      []byte    // offset entries, 4B little-endian each
	numOffsets int
	pos        int   // next record for sequential iteration
	err        error // sticky framing error from construction
}

func NewReader(src io.Reader) *Reader {
	r := &Reader{}
	r.file, _ = src.(io.Closer)

	raw, err := io.ReadAll(src)
	if err != nil {
		r.err = errors.Wrap(err, "snapshot: read stream")
		return r
	}
	if len(raw) < 4 {
		r.err = errors.Wrap(ErrCorruptBlock, "missing index block")
		return r
	}
	r.numOffsets = int(binary.LittleEndian.Uint32(raw[len(raw)-4:]))
	indexStart := len(raw) - 4 - r.numOffsets*4
	if indexStart < 0 {
		r.err = errors.Wrap(ErrCorruptBlock, "index block larger than stream")
		return r
	}
	r.data = raw[:indexStart]
	r.index = raw[indexStart : len(raw)-4]
	return r
}

// Len returns the number of records in the snapshot.
func (r *Reader) Len() int {
	return r.numOffsets
}

func (r *Reader) offsetAt(pos int) int {
	return int(binary.LittleEndian.Uint32(r.index[pos*4 : pos*4+4]))
}

// decodeRecordAt verifies and decompresses the record starting at offset.
func (r *Reader) decodeRecordAt(offset int) (key, val []byte, err error) {
	if offset >= len(r.data) {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "offset past record region")
	}
	blockLen, n := binary.Uvarint(r.data[offset:])
	if n <= 0 {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "bad record header")
	}
	rest := r.data[offset+n:]
	if uint64(len(rest)) < 8+blockLen {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "truncated record")
	}
	block := rest[8 : 8+blockLen]
	if xxhash.Checksum64(block) != binary.LittleEndian.Uint64(rest[:8]) {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "checksum mismatch")
	}

	payload, err := snappy.Decode(nil, block)
	if err != nil {
		return nil, nil, errors.Wrap(ErrCorruptBlock, err.Error())
	}
	keyLen, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "bad key length")
	}
	valLen, m := binary.Uvarint(payload[n:])
	if m <= 0 {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "bad value length")
	}
	pair := payload[n+m:]
	if uint64(len(pair)) != keyLen+valLen {
		return nil, nil, errors.Wrap(ErrCorruptBlock, "truncated payload")
	}
	return pair[:keyLen], pair[keyLen:], nil
}

/*
Next decodes the next record in key order. It returns io.EOF cleanly at
the end of the snapshot and ErrCorruptBlock (wrapped) when a record fails
its checksum or framing.
*/
func (r *Reader) Next() (key, val []byte, err error) {
	if r.err != nil {
		return nil, nil, r.err
	}
	if r.pos == r.numOffsets {
		return nil, nil, io.EOF
	}
	key, val, err = r.decodeRecordAt(r.offsetAt(r.pos))
	if err != nil {
		return nil, nil, err
	}
	r.pos++
	return key, val, nil
}

// Get binary-searches the index block for searchKey and returns its value,
// or ErrKeyNotFound when no record carries the key.
func (r *Reader) Get(searchKey []byte) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	low, high := 0, r.numOffsets
	for low < high {
		mid := (low + high) / 2
		key, val, err := r.decodeRecordAt(r.offsetAt(mid))
		if err != nil {
			return nil, err
		}
		switch cmp := bytes.Compare(searchKey, key); {
		case cmp == 0:
			return val, nil
		case cmp > 0:
			low = mid + 1
		default:
			high = mid
		}
	}
	return nil, ErrKeyNotFound
}

func (r *Reader) Close() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return errors.Wrap(err, "snapshot: close")
		}
		r.file = nil
	}
	return nil
}

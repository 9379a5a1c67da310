package store

// Entry is one buffered pair decoded from its stored frame. A tombstone
// records a deletion that has not been compacted away yet.
type Entry struct {
	Key       []byte
	Value     []byte
	Tombstone bool
}

// Frames stored in a memtable tag the payload with a leading kind byte so
// deletions can be buffered alongside writes. Snapshots export frames
// unchanged, so the tag survives the round trip.
const (
	kindTombstone byte = iota
	kindValue
)

func valueFrame(val []byte) []byte {
	frame := make([]byte, len(val)+1)
	frame[0] = kindValue
	copy(frame[1:], val)
	return frame
}

func tombstoneFrame() []byte {
	return []byte{kindTombstone}
}

// ParseEntry decodes a frame as stored by a memtable (and as exported by
// the snapshot package) back into an Entry. The value is copied out of the
// frame.
func ParseEntry(key, frame []byte) Entry {
	if len(frame) == 0 || frame[0] == kindTombstone {
		return Entry{Key: key, Tombstone: true}
	}
	return Entry{Key: key, Value: append([]byte(nil), frame[1:]...)}
}

package store

const (
	defaultMemtableSizeLimit = 4 << 10 // 4 KiB
	defaultMemtableOrder     = 32
)

// Store keeps one mutable memtable taking writes plus a queue of rotated,
// read-only predecessors. Reads scan newest to oldest so the most recent
// write for a key wins.
type Store struct {
	mutable *Memtable
	queue   []*Memtable
	order   int
	limit   int
}

func Open() *Store {
	return OpenWithLimits(defaultMemtableOrder, defaultMemtableSizeLimit)
}

func OpenWithLimits(order, sizeLimit int) *Store {
	s := &Store{order: order, limit: sizeLimit}
	s.mutable = NewMemtable(order, sizeLimit)
	s.queue = append(s.queue, s.mutable)
	return s
}

func (s *Store) rotateMemtables() *Memtable {
	s.mutable = NewMemtable(s.order, s.limit)
	s.queue = append(s.queue, s.mutable)
	return s.mutable
}

func (s *Store) prepMemtableForKV(key, val []byte) *Memtable {
	m := s.mutable
	if !m.HasRoomForWrite(key, val) {
		m = s.rotateMemtables()
	}
	return m
}

func (s *Store) Set(key, val []byte) {
	s.prepMemtableForKV(key, val).Insert(key, val)
}

// Get returns the latest value for key, or false if the key was never set
// or its latest entry is a tombstone.
func (s *Store) Get(key []byte) ([]byte, bool) {
	for i := len(s.queue) - 1; i >= 0; i-- {
		if entry, ok := s.queue[i].Get(key); ok {
			if entry.Tombstone {
				return nil, false
			}
			return entry.Value, true
		}
	}
	return nil, false
}

func (s *Store) Delete(key []byte) {
	s.prepMemtableForKV(key, nil).InsertTombstone(key)
}

// Memtables returns the rotation queue, oldest first.
func (s *Store) Memtables() []*Memtable {
	return s.queue
}

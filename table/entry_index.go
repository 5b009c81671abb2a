package table

import (
	"math"
)

var _ EntryIndex = &entryIndex{}

// slot is one generational-index slot. recycled counts how many times the
// slot's id has been reused; a held Entry is live only while its recycled
// count matches the slot's.
type slot struct {
	recycled int
	live     bool
	tbl      Table
	row      int
}

type entryIndex struct {
	// slots is indexed by id-1; ids start at 1 so the zero Entry is invalid.
	slots []slot
	// free is a LIFO stack: allocation reuses the most recently recycled id.
	free []EntryID
}

func newEntryIndex() EntryIndex {
	return &entryIndex{}
}

type entry struct {
	id       EntryID
	recycled int
	idx      *entryIndex
}

func (e entry) ID() EntryID   { return e.id }
func (e entry) Recycled() int { return e.recycled }

func (e entry) Valid() bool {
	if e.idx == nil {
		return false
	}
	return e.idx.Valid(e.id, e.recycled)
}

// Index returns the entry's current row, or -1 when the entry is stale.
func (e entry) Index() int {
	if !e.Valid() {
		return -1
	}
	return e.idx.slots[e.id-1].row
}

// Table returns the entry's current table, or nil when the entry is stale.
func (e entry) Table() Table {
	if !e.Valid() {
		return nil
	}
	return e.idx.slots[e.id-1].tbl
}

func (idx *entryIndex) NewEntry(tbl Table, row int) (Entry, error) {
	if n := len(idx.free); n > 0 {
		id := idx.free[n-1]
		idx.free = idx.free[:n-1]
		s := &idx.slots[id-1]
		s.live = true
		s.tbl = tbl
		s.row = row
		return entry{id: id, recycled: s.recycled, idx: idx}, nil
	}
	if len(idx.slots) >= math.MaxUint32 {
		panic("entry index exhausted: max entry count reached")
	}
	idx.slots = append(idx.slots, slot{live: true, tbl: tbl, row: row})
	id := EntryID(len(idx.slots))
	return entry{id: id, recycled: 0, idx: idx}, nil
}

func (idx *entryIndex) Entry(id EntryID) (Entry, error) {
	s, err := idx.liveSlot(id)
	if err != nil {
		return nil, err
	}
	return entry{id: id, recycled: s.recycled, idx: idx}, nil
}

func (idx *entryIndex) Recycle(id EntryID) error {
	s, err := idx.liveSlot(id)
	if err != nil {
		return err
	}
	// The generation bump guarantees no future id aliases a past one. Hitting
	// the counter ceiling would silently break that guarantee, so it is fatal.
	if s.recycled == math.MaxInt {
		panic("entry index generation overflow")
	}
	s.live = false
	s.recycled++
	s.tbl = nil
	s.row = -1
	idx.free = append(idx.free, id)
	return nil
}

func (idx *entryIndex) UpdateLocation(id EntryID, tbl Table, row int) error {
	s, err := idx.liveSlot(id)
	if err != nil {
		return err
	}
	s.tbl = tbl
	s.row = row
	return nil
}

func (idx *entryIndex) Valid(id EntryID, recycled int) bool {
	if id == 0 || int(id) > len(idx.slots) {
		return false
	}
	s := idx.slots[id-1]
	return s.live && s.recycled == recycled
}

func (idx *entryIndex) liveSlot(id EntryID) (*slot, error) {
	if id == 0 || int(id) > len(idx.slots) {
		return nil, InvalidEntryError{ID: id}
	}
	s := &idx.slots[id-1]
	if !s.live {
		return nil, InvalidEntryError{ID: id}
	}
	return s, nil
}

package table

import (
	"iter"
	"math"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

var _ Table = &tbl{}

// zeroSizedBase backs row pointers for zero-stride layouts, which never
// allocate. Dereferencing it is only legal for zero-size element types.
var zeroSizedBase byte

type tbl struct {
	schema     Schema
	entryIndex EntryIndex
	layout     entityLayout
	msk        mask.Mask
	events     TableEvents

	buf      []byte
	length   int
	capacity int
	// entries mirrors row order: entries[row] is the id stored in that row.
	// It is what lets swap-removal repoint the displaced entry.
	entries []EntryID
}

func (t *tbl) Length() int     { return t.length }
func (t *tbl) Capacity() int   { return t.capacity }
func (t *tbl) Stride() uintptr { return t.layout.stride }
func (t *tbl) Mask() mask.Mask { return t.msk }

func (t *tbl) Contains(et ElementType) bool {
	return t.layout.contains(et.ID())
}

func (t *tbl) ElementTypes() iter.Seq[ElementType] {
	return func(yield func(ElementType) bool) {
		for _, et := range t.layout.elementTypes {
			if !yield(et) {
				return
			}
		}
	}
}

func (t *tbl) OffsetOf(et ElementType) (uintptr, bool) {
	return t.layout.offsetOf(et.ID())
}

func (t *tbl) RowPointer(row int) unsafe.Pointer {
	if t.layout.stride == 0 {
		return unsafe.Pointer(&zeroSizedBase)
	}
	return unsafe.Pointer(&t.buf[uintptr(row)*t.layout.stride])
}

func (t *tbl) Get(et ElementType, row int) unsafe.Pointer {
	off, ok := t.layout.offsetOf(et.ID())
	if !ok {
		return nil
	}
	return unsafe.Add(t.RowPointer(row), off)
}

func (t *tbl) EntryAt(row int) (Entry, error) {
	if row < 0 || row >= t.length {
		return nil, RowOutOfRangeError{Row: row, Length: t.length}
	}
	return t.entryIndex.Entry(t.entries[row])
}

func (t *tbl) NewEntries(n int) ([]Entry, error) {
	if n < 0 {
		return nil, NegativeEntryCountError{Count: n}
	}
	t.grow(n)
	created := make([]Entry, n)
	for i := 0; i < n; i++ {
		row := t.length
		t.zeroRow(row)
		en, err := t.entryIndex.NewEntry(t, row)
		if err != nil {
			return nil, err
		}
		t.entries = append(t.entries, en.ID())
		t.length++
		created[i] = en
		if t.events != nil {
			t.events.OnEntryCreated(en)
		}
	}
	return created, nil
}

func (t *tbl) DeleteEntries(ids ...EntryID) (int, error) {
	deleted := 0
	for _, id := range ids {
		en, err := t.entryIndex.Entry(id)
		if err != nil {
			return deleted, err
		}
		if en.Table() != Table(t) {
			return deleted, ForeignEntryError{ID: id}
		}
		row := en.Index()
		t.finalizeRow(row)
		t.swapRemove(row)
		if err := t.entryIndex.Recycle(id); err != nil {
			return deleted, err
		}
		deleted++
		if t.events != nil {
			t.events.OnEntryDeleted(id)
		}
	}
	return deleted, nil
}

// TransferEntries moves the given rows into dst, changing their element-type
// set. The move is two-phase: the destination row is fully reserved (all
// growth done) before any byte of the source row is read, shared fields are
// byte-copied, dropped fields finalized, new fields zeroed, and only then is
// the source row swap-removed. A mid-transfer allocation failure therefore
// panics before the source row has been disturbed.
func (t *tbl) TransferEntries(dst Table, rows ...int) error {
	d, ok := dst.(*tbl)
	if !ok {
		return ForeignTableError{}
	}
	if d == t {
		return nil
	}

	// Resolve rows to ids up front: each transfer swap-removes a source row,
	// which would invalidate later row numbers.
	ids := make([]EntryID, len(rows))
	for i, row := range rows {
		if row < 0 || row >= t.length {
			return RowOutOfRangeError{Row: row, Length: t.length}
		}
		ids[i] = t.entries[row]
	}

	for _, id := range ids {
		en, err := t.entryIndex.Entry(id)
		if err != nil {
			return err
		}
		srcRow := en.Index()

		d.grow(1)
		dstRow := d.length
		d.zeroRow(dstRow)

		for i, et := range d.layout.elementTypes {
			srcOff, shared := t.layout.offsetOf(et.ID())
			if !shared {
				continue
			}
			size := et.Size()
			if size == 0 {
				continue
			}
			src := unsafe.Add(t.RowPointer(srcRow), srcOff)
			dstPtr := unsafe.Add(d.RowPointer(dstRow), d.layout.offsets[i])
			copy(unsafe.Slice((*byte)(dstPtr), size), unsafe.Slice((*byte)(src), size))
		}
		for i, et := range t.layout.elementTypes {
			if d.layout.contains(et.ID()) {
				continue
			}
			if fn := et.Finalizer(); fn != nil {
				fn(unsafe.Add(t.RowPointer(srcRow), t.layout.offsets[i]))
			}
		}

		d.length++
		d.entries = append(d.entries, id)

		// The source row's fields were either copied out or finalized above,
		// so it is vacated without running finalizers again.
		t.swapRemove(srcRow)

		if err := t.entryIndex.UpdateLocation(id, d, dstRow); err != nil {
			return err
		}
	}
	return nil
}

func (t *tbl) Clear() {
	for row := 0; row < t.length; row++ {
		t.finalizeRow(row)
	}
	t.length = 0
	t.entries = t.entries[:0]
	if t.layout.stride != 0 {
		clear(t.buf)
	}
}

// grow ensures room for n more rows. The first allocation sizes for two
// rows; afterwards capacity advances by halves. Existing rows are preserved
// byte-for-byte. Zero-stride layouts track capacity without allocating.
func (t *tbl) grow(n int) {
	needed := t.length + n
	if needed <= t.capacity {
		return
	}
	if t.layout.stride == 0 {
		t.capacity = needed
		return
	}
	newCap := t.capacity
	if newCap < 2 {
		newCap = 2
	}
	for newCap < needed {
		newCap += newCap / 2
	}
	if uintptr(newCap) > math.MaxInt/t.layout.stride {
		panic("table capacity overflow")
	}
	buf := make([]byte, uintptr(newCap)*t.layout.stride)
	copy(buf, t.buf[:uintptr(t.length)*t.layout.stride])
	t.buf = buf
	t.capacity = newCap
}

// swapRemove vacates row by moving the last row's bytes into it, repointing
// the displaced entry. It does not run finalizers; callers finalize or move
// the row's fields first.
func (t *tbl) swapRemove(row int) {
	last := t.length - 1
	if row != last {
		stride := t.layout.stride
		if stride != 0 {
			dst := t.buf[uintptr(row)*stride : uintptr(row+1)*stride]
			src := t.buf[uintptr(last)*stride : uintptr(last+1)*stride]
			copy(dst, src)
		}
		moved := t.entries[last]
		t.entries[row] = moved
		// Ignoring the error is safe: entries[last] is live by invariant.
		_ = t.entryIndex.UpdateLocation(moved, t, row)
	}
	t.entries = t.entries[:last]
	t.length--
}

func (t *tbl) finalizeRow(row int) {
	for i, et := range t.layout.elementTypes {
		if fn := et.Finalizer(); fn != nil {
			fn(unsafe.Add(t.RowPointer(row), t.layout.offsets[i]))
		}
	}
}

func (t *tbl) zeroRow(row int) {
	stride := t.layout.stride
	if stride == 0 {
		return
	}
	clear(t.buf[uintptr(row)*stride : uintptr(row+1)*stride])
}

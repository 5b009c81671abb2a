package table

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// ElementTypeID uniquely identifies a registered element (component) type.
// IDs are assigned globally, starting at 1; 0 is never a valid ID.
type ElementTypeID uint32

// ElementType describes the memory shape of one component type: its unique
// identity, reflected Go type, padded size, alignment, and an optional
// finalizer invoked when a stored value is destroyed or overwritten.
type ElementType interface {
	ID() ElementTypeID
	Type() reflect.Type
	Size() uintptr
	Align() uintptr
	Finalizer() func(unsafe.Pointer)
}

// EntryID is the stable identifier half of a generational index.
// IDs start at 1; the zero value marks an invalid/recycled-out entry.
type EntryID uint32

// Entry is a live handle into an EntryIndex. Index and Table resolve the
// entry's current location on every call, so a held Entry observes row moves
// caused by swap-removal and archetype transfers.
type Entry interface {
	ID() EntryID
	Recycled() int
	Index() int
	Table() Table
	Valid() bool
}

// EntryIndex allocates generational entries and tracks their locations.
type EntryIndex interface {
	// NewEntry allocates an entry located at (tbl, row), reusing the most
	// recently recycled slot when one exists.
	NewEntry(tbl Table, row int) (Entry, error)
	// Entry returns a handle for a live id.
	Entry(id EntryID) (Entry, error)
	// Recycle marks the slot dead and bumps its generation. Generation
	// overflow is fatal.
	Recycle(id EntryID) error
	// UpdateLocation repoints a live entry after its row moved.
	UpdateLocation(id EntryID, tbl Table, row int) error
	// Valid reports whether (id, recycled) names a live entry.
	Valid(id EntryID, recycled int) bool
}

// Schema assigns stable row indices (mask bit positions) to element types
// within one storage.
type Schema interface {
	Register(ElementType)
	Registered(ElementType) bool
	RowIndexFor(ElementType) uint32
}

// TableEvents receives structural notifications from a Table. Any method set
// may be nil-implemented; a nil TableEvents disables eventing entirely.
type TableEvents interface {
	OnEntryCreated(Entry)
	OnEntryDeleted(EntryID)
}

// Table is growable row storage for one fixed element-type set.
//
// Unchecked accessors (Get, RowPointer) require row < Length(); checked
// operations validate their inputs and return errors.
type Table interface {
	mask.Maskable

	Length() int
	Capacity() int
	Stride() uintptr
	Contains(ElementType) bool
	ElementTypes() iter.Seq[ElementType]

	NewEntries(n int) ([]Entry, error)
	DeleteEntries(ids ...EntryID) (int, error)
	TransferEntries(dst Table, rows ...int) error

	// Get returns a pointer to the element's field in the given row, or nil
	// when the element type is not part of this table's layout.
	Get(et ElementType, row int) unsafe.Pointer
	// OffsetOf returns the byte offset of the element within a row.
	OffsetOf(et ElementType) (uintptr, bool)
	// RowPointer returns the base address of a row.
	RowPointer(row int) unsafe.Pointer
	// EntryAt returns the entry currently stored in the given row.
	EntryAt(row int) (Entry, error)

	// Clear finalizes and discards all rows, keeping the buffer.
	Clear()
}

package table

import (
	"unsafe"
)

// Accessor is a typed view onto one element type across tables. The field
// offset is computed once per table and cached, so iteration dereferences a
// precomputed offset against the row base address.
//
// Accessors are created by FactoryNewAccessor and may be copied freely;
// copies share one cache.
type Accessor[T any] struct {
	elementType ElementType
	cache       *accessorCache
}

type accessorCache struct {
	tbl     Table
	offset  uintptr
	present bool
}

func FactoryNewAccessor[T any](et ElementType) Accessor[T] {
	return Accessor[T]{
		elementType: et,
		cache:       &accessorCache{},
	}
}

// Get returns a pointer to the element in the given row, or nil when the
// table's layout lacks the element type. The row must be initialized
// (row < tbl.Length()); that precondition is not checked here.
func (a Accessor[T]) Get(row int, tbl Table) *T {
	c := a.cache
	if c.tbl != tbl {
		c.offset, c.present = tbl.OffsetOf(a.elementType)
		c.tbl = tbl
	}
	if !c.present {
		return nil
	}
	return (*T)(unsafe.Add(tbl.RowPointer(row), c.offset))
}

// Check reports whether the table stores this accessor's element type.
func (a Accessor[T]) Check(tbl Table) bool {
	return tbl.Contains(a.elementType)
}

package table

import (
	"reflect"
	"unsafe"
)

var elementRegistry = struct {
	byType map[reflect.Type]*elementType
	nextID ElementTypeID
}{
	byType: make(map[reflect.Type]*elementType),
	nextID: 1,
}

type elementType struct {
	id        ElementTypeID
	typ       reflect.Type
	size      uintptr
	align     uintptr
	finalizer func(unsafe.Pointer)
}

func (et *elementType) ID() ElementTypeID              { return et.id }
func (et *elementType) Type() reflect.Type             { return et.typ }
func (et *elementType) Size() uintptr                  { return et.size }
func (et *elementType) Align() uintptr                 { return et.align }
func (et *elementType) Finalizer() func(unsafe.Pointer) { return et.finalizer }

// registerElementType returns the single metadata record for typ, creating
// it on first sight. reflect's Size is already padded to the type's
// alignment, which the layout packing relies on.
func registerElementType(typ reflect.Type) *elementType {
	if et, ok := elementRegistry.byType[typ]; ok {
		return et
	}
	et := &elementType{
		id:    elementRegistry.nextID,
		typ:   typ,
		size:  typ.Size(),
		align: uintptr(typ.Align()),
	}
	elementRegistry.byType[typ] = et
	elementRegistry.nextID++
	return et
}

// ElementTypeFor returns the registered metadata for a reflect.Type,
// registering it on first use.
func ElementTypeFor(typ reflect.Type) ElementType {
	return registerElementType(typ)
}

// FactoryNewElementType registers (or fetches) the element type for T.
// Repeated calls with the same T return the same identity.
func FactoryNewElementType[T any]() ElementType {
	var zero T
	return registerElementType(reflect.TypeOf(zero))
}

// FactoryNewElementTypeWithFinalizer registers the element type for T with a
// destructor. The finalizer runs exactly once per stored value: on entry
// deletion, on overwrite, on a dropped field during an archetype transfer,
// and on table clear. Registering a finalizer for an already-registered type
// replaces the previous one.
func FactoryNewElementTypeWithFinalizer[T any](fn func(*T)) ElementType {
	var zero T
	et := registerElementType(reflect.TypeOf(zero))
	if fn == nil {
		et.finalizer = nil
		return et
	}
	et.finalizer = func(p unsafe.Pointer) {
		fn((*T)(p))
	}
	return et
}

package stockroom

import (
	"github.com/mossdrift/stockroom/table"
)

type factory struct{}

var Factory factory

func (f factory) NewStorage(schema table.Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

// FactoryNewComponent registers (or fetches) the component for T and wraps it
// with a typed accessor. Repeated calls with the same T share one identity.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
	}
}

// FactoryNewComponentWithFinalizer registers the component for T with a
// destructor that runs exactly once per stored value: on despawn, overwrite,
// and component removal.
func FactoryNewComponentWithFinalizer[T any](fn func(*T)) AccessibleComponent[T] {
	iden := table.FactoryNewElementTypeWithFinalizer(fn)
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
	}
}

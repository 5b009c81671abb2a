package stockroom

import (
	"github.com/mossdrift/stockroom/table"
)

// AccessibleComponent extends a base Component with typed access into tables,
// cursors, and entity handles.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T] // concrete.
}

// GetFromCursor retrieves the component value for the entity at the cursor
// position. The cursor must be positioned on a matching row.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(
		cursor.entityIndex-1,
		cursor.currentArchetype.tbl,
	)
}

// GetFromCursorSafe checks for the component before retrieving it, so it can
// be used for optional fields a query does not require.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.Accessor.Check(cursor.currentArchetype.tbl) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor reports whether the archetype under the cursor holds the
// component.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype.tbl)
}

// GetFromEntity retrieves the component value for the given entity, or nil
// when the entity's archetype lacks it.
func (c AccessibleComponent[T]) GetFromEntity(entity Entity) *T {
	tbl := entity.Table()
	if tbl == nil {
		return nil
	}
	return c.Get(entity.Index(), tbl)
}

// GetFromEntitySafe is the checked variant of GetFromEntity.
func (c AccessibleComponent[T]) GetFromEntitySafe(entity Entity) (bool, *T) {
	tbl := entity.Table()
	if tbl == nil || !tbl.Contains(c.Component) {
		return false, nil
	}
	return true, c.Get(entity.Index(), tbl)
}

// SetOnEntity stores value for the entity, attaching the component first if
// needed. Present components are overwritten in place.
func (c AccessibleComponent[T]) SetOnEntity(entity Entity, value T) error {
	return entity.AddComponentWithValue(c.Component, value)
}

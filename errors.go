package stockroom

import (
	"fmt"

	"github.com/mossdrift/stockroom/table"
)

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type InvalidEntityError struct {
	ID table.EntryID
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("entity %d does not exist or is not alive", e.ID)
}

type EntityRelationError struct {
	child, parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("child (%v) already has parent %v", e.child, e.parent)
}

type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %v", e.Component.Type())
}

type DuplicateComponentError struct {
	Component Component
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component listed twice in one set: %v", e.Component.Type())
}

type ComponentValueTypeError struct {
	Component Component
	Value     any
}

func (e ComponentValueTypeError) Error() string {
	return fmt.Sprintf("value of type %T does not match component type %v", e.Value, e.Component.Type())
}

type NilComponentValueError struct{}

func (e NilComponentValueError) Error() string {
	return "nil is not a component value"
}

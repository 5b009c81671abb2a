package stockroom

import (
	"fmt"
	"reflect"

	iter_util "github.com/TheBitDrifter/util/iter"

	"github.com/mossdrift/stockroom/table"
)

var _ Entity = &entity{}

type entity struct {
	sto *storage
	table.Entry
	relationships relationships
}

type relationships struct {
	parent    Entity
	onDestroy EntityDestroyCallback
}

func (e *entity) SetParent(parent Entity, callback EntityDestroyCallback) error {
	if e.relationships.parent != nil {
		return EntityRelationError{e, e.relationships.parent}
	}
	e.relationships.parent = parent
	if err := parent.SetDestroyCallback(callback); err != nil {
		return err
	}
	return nil
}

func (e *entity) SetDestroyCallback(callback EntityDestroyCallback) error {
	e.relationships.onDestroy = callback
	return nil
}

func (e *entity) Components() []Component {
	tbl := e.Table()
	if tbl == nil {
		return nil
	}
	elementTypes := iter_util.Collect(tbl.ElementTypes())
	comps := make([]Component, len(elementTypes))
	for i, et := range elementTypes {
		comps[i] = et
	}
	return comps
}

func (e *entity) ComponentCount() int {
	tbl := e.Table()
	if tbl == nil {
		return 0
	}
	count := 0
	for range tbl.ElementTypes() {
		count++
	}
	return count
}

func (e *entity) HasComponent(c Component) bool {
	tbl := e.Table()
	return tbl != nil && tbl.Contains(c)
}

// AddComponent attaches c with a zero value, transitioning the entity to the
// archetype holding its current components plus c. Adding a component the
// entity already has is a no-op.
func (e *entity) AddComponent(c Component) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return InvalidEntityError{ID: e.ID()}
	}
	originTable := e.Table()
	if originTable.Contains(c) {
		return nil
	}

	destArchetype, err := e.sto.newOrExistingArchetype(append(e.Components(), c)...)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}
	if err := originTable.TransferEntries(destArchetype.tbl, e.Index()); err != nil {
		return fmt.Errorf("failed to transfer entity: %w", err)
	}
	return nil
}

// AddComponentWithValue attaches c carrying value. When the component is
// already present its old value is finalized and overwritten in place; no
// archetype transition happens.
func (e *entity) AddComponentWithValue(c Component, value any) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return InvalidEntityError{ID: e.ID()}
	}
	if e.Table().Contains(c) {
		return writeComponentValue(e.Table(), e.Index(), c, value, true)
	}
	// Validate before transitioning so a bad value leaves the entity's
	// component set untouched.
	if reflect.TypeOf(value) != c.Type() {
		return ComponentValueTypeError{Component: c, Value: value}
	}
	if err := e.AddComponent(c); err != nil {
		return err
	}
	return writeComponentValue(e.Table(), e.Index(), c, value, false)
}

// SetComponents attaches all given component values with a single archetype
// transition. Components the entity already holds are overwritten; the rest
// are added. The resulting component set is the union.
func (e *entity) SetComponents(values ...any) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return InvalidEntityError{ID: e.ID()}
	}
	components, err := resolveComponents(values)
	if err != nil {
		return err
	}

	origin := e.Table()
	var added []Component
	for _, c := range components {
		if !origin.Contains(c) {
			added = append(added, c)
		}
	}
	if len(added) > 0 {
		destArchetype, err := e.sto.newOrExistingArchetype(append(e.Components(), added...)...)
		if err != nil {
			return fmt.Errorf("failed to get/create archetype: %w", err)
		}
		if err := origin.TransferEntries(destArchetype.tbl, e.Index()); err != nil {
			return fmt.Errorf("failed to transfer entity: %w", err)
		}
	}

	tbl := e.Table()
	row := e.Index()
	for i, c := range components {
		// Fields the entity already had were carried across the transfer, so
		// their old values still need finalizing before the overwrite.
		if err := writeComponentValue(tbl, row, c, values[i], origin.Contains(c)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveComponent detaches the given components, finalizing their values and
// transitioning the entity to the smaller archetype.
func (e *entity) RemoveComponent(components ...Component) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return InvalidEntityError{ID: e.ID()}
	}
	originTable := e.Table()
	removing := make(map[table.ElementTypeID]struct{}, len(components))
	for _, c := range components {
		if !originTable.Contains(c) {
			return ComponentNotFoundError{Component: c}
		}
		removing[c.ID()] = struct{}{}
	}

	var remaining []Component
	for _, c := range e.Components() {
		if _, dropped := removing[c.ID()]; !dropped {
			remaining = append(remaining, c)
		}
	}

	destArchetype, err := e.sto.newOrExistingArchetype(remaining...)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}
	if err := originTable.TransferEntries(destArchetype.tbl, e.Index()); err != nil {
		return fmt.Errorf("failed to transfer entity: %w", err)
	}
	return nil
}

func (e *entity) Despawn() error {
	return e.sto.DestroyEntities(e)
}

func (e *entity) EnqueueAddComponent(c Component) error {
	if !e.sto.Locked() {
		return e.AddComponent(c)
	}
	e.sto.opQueue.EnqueueComponentOp(opAddComponent, e, c)
	return nil
}

func (e *entity) EnqueueRemoveComponent(c Component) error {
	if !e.sto.Locked() {
		return e.RemoveComponent(c)
	}
	e.sto.opQueue.EnqueueComponentOp(opRemoveComponent, e, c)
	return nil
}

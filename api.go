package stockroom

import (
	"iter"

	"github.com/mossdrift/stockroom/table"
)

type Storage interface {
	Entity(id table.EntryID) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	NewEntitiesIter(int, ...Component) (iter.Seq[Entity], error)
	NewEntity(values ...any) (Entity, error)
	NewOrExistingArchetype(components ...Component) (Archetype, error)
	EnqueueNewEntities(int, ...Component) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	IsAlive(Entity) bool
	RowIndexFor(Component) uint32
	Locked() bool
	Lock()
	Unlock()
}

type EntityDestroyCallback func(Entity)

type Entity interface {
	table.Entry
	SetParent(parent Entity, callback EntityDestroyCallback) error
	SetDestroyCallback(EntityDestroyCallback) error
	AddComponent(Component) error
	AddComponentWithValue(Component, any) error
	SetComponents(values ...any) error
	RemoveComponent(...Component) error
	HasComponent(Component) bool
	Components() []Component
	ComponentCount() int
	Despawn() error
	EnqueueAddComponent(Component) error
	EnqueueRemoveComponent(Component) error
}

type Archetype interface {
	ID() uint32
	Table() table.Table
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, storage Storage) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}

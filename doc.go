/*
Package stockroom is an archetype-based entity-component storage engine.

Entities sharing the same exact component set live together in one table
(see the table subpackage), stored as contiguous rows with a runtime-computed
memory layout. Entity identity is generational: a despawned entity's id may
be reused, but every stale handle to it is detectably dead forever.

Core Concepts:

  - Entity: a stable identifier for one stored record.
  - Component: a typed data field optionally attached to an entity.
  - Archetype: the exact component set of an entity; owns one table.
  - Query: a composable filter over component sets, iterated with a Cursor.

Basic Usage:

	schema := table.Factory.NewSchema()
	storage := stockroom.Factory.NewStorage(schema)

	position := stockroom.FactoryNewComponent[Position]()
	velocity := stockroom.FactoryNewComponent[Velocity]()

	entities, _ := storage.NewEntities(100, position, velocity)
	_ = entities

	query := stockroom.Factory.NewQuery()
	queryNode := query.And(position, velocity)
	cursor := stockroom.Factory.NewCursor(queryNode, storage)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Changing an entity's component set moves its row between tables; the move is
atomic from the caller's point of view (see table.Table.TransferEntries).

Storage is single-threaded by design. While a cursor iterates, the storage is
locked: structural mutation returns LockedStorageError, and the Enqueue
variants defer the operation until the last cursor finishes.
*/
package stockroom

package stockroom

import (
	"iter"

	"github.com/mossdrift/stockroom/table"
)

var _ iCursor = &Cursor{}

// Cursor iterates the entities matched by a query, table by table in
// archetype registration order, rows in storage order.
//
// A cursor holds the storage lock from its first advance until it is
// exhausted or Reset; structural mutation during iteration is therefore
// rejected (or deferred via the Enqueue variants) rather than corrupting
// the walk.
type Cursor struct {
	query   QueryNode
	storage Storage

	currentArchetype archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	initialized bool
	holdsLock   bool
	matched     []archetype
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}
	c.acquire()
	for c.storageIndex < len(c.matched) {
		c.currentArchetype = c.matched[c.storageIndex]
		c.remaining = c.currentArchetype.tbl.Length()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.storageIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		if !c.initialized {
			c.initialize()
		}
		c.acquire()

		for c.storageIndex < len(c.matched) {
			c.currentArchetype = c.matched[c.storageIndex]
			c.remaining = c.currentArchetype.tbl.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.currentArchetype.tbl) {
					c.Reset()
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.storageIndex++
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	c.matched = make([]archetype, 0)
	for _, arch := range c.storage.(*storage).archetypes.asSlice {
		if c.query.Evaluate(arch, c.storage) {
			c.matched = append(c.matched, arch)
		}
	}
	if len(c.matched) > 0 {
		c.storageIndex = 0
		c.currentArchetype = c.matched[0]
	}
	c.initialized = true
}

func (c *Cursor) acquire() {
	if !c.holdsLock {
		c.storage.Lock()
		c.holdsLock = true
	}
}

// Reset rewinds the cursor and releases the storage lock, draining any
// operations deferred during iteration.
func (c *Cursor) Reset() {
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matched = nil
	c.initialized = false
	if c.holdsLock {
		c.holdsLock = false
		c.storage.Unlock()
	}
}

// CurrentEntity returns the entity handle under the cursor.
func (c *Cursor) CurrentEntity() (Entity, error) {
	entry, err := c.currentArchetype.tbl.EntryAt(c.entityIndex - 1)
	if err != nil {
		return nil, err
	}
	return c.storage.Entity(entry.ID())
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts matching entities without disturbing iteration state.
func (c *Cursor) TotalMatched() int {
	total := 0
	for _, arch := range c.storage.(*storage).archetypes.asSlice {
		if c.query.Evaluate(arch, c.storage) {
			total += arch.tbl.Length()
		}
	}
	return total
}

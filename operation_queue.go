package stockroom

import (
	"fmt"
)

// The operation queue buffers structural mutations requested while the
// storage is locked by iterating cursors; Unlock drains it once the last
// cursor releases.

type operation struct {
	typ      operationType
	amount   int
	comps    []Component
	entities []Entity
	sto      Storage
}

type operationType int

const (
	opInvalid operationType = iota - 1
	opCreate
	opDestroy
	opAddComponent
	opRemoveComponent
)

type opKey struct {
	entity Entity
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[opKey]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[opKey]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (sto *storage) processOperationQueue() error {
	q := &sto.opQueue
	total := len(q.createOps) + len(q.componentOps) + len(q.destroyOps)
	if total == 0 {
		return nil
	}

	// Creates first, then component changes, destroys last: a queued destroy
	// always wins over queued edits of the same entity.
	for _, op := range q.createOps {
		if _, err := sto.NewEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	for _, op := range q.componentOps {
		if op.typ == opInvalid {
			continue
		}
		en := op.entities[0]
		if !en.Valid() {
			continue
		}
		switch op.typ {
		case opAddComponent:
			if err := en.AddComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := en.RemoveComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		}
	}

	for _, op := range q.destroyOps {
		if len(op.entities) == 0 {
			continue
		}
		if err := op.sto.DestroyEntities(op.entities...); err != nil {
			return fmt.Errorf("failed to delete queued entries: %w", err)
		}
	}

	Config.logger.Debug().
		Int("operations", total).
		Msg("processed deferred operation queue")

	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return nil
}

func (q *opQueue) EnqueueDestroy(sto Storage, entries []Entity) {
	var newEntities []Entity
	for _, en := range entries {
		key := opKey{entity: en}
		if _, exists := q.pendingDestroy[key]; exists {
			continue
		}
		newEntities = append(newEntities, en)
		q.pendingDestroy[key] = struct{}{}

		// A pending component op on a dying entity becomes a no-op.
		if idx, hasMods := q.pendingMods[key]; hasMods {
			q.componentOps[idx].typ = opInvalid
			delete(q.pendingMods, key)
		}
	}

	if len(newEntities) > 0 {
		q.destroyOps = append(q.destroyOps, operation{
			typ:      opDestroy,
			entities: newEntities,
			sto:      sto,
		})
	}
}

func (q *opQueue) EnqueueComponentOp(typ operationType, en Entity, comp Component) {
	key := opKey{entity: en}

	if _, isDestroyed := q.pendingDestroy[key]; isDestroyed {
		return
	}

	// Later ops on the same entity replace earlier ones.
	if existingIdx, exists := q.pendingMods[key]; exists {
		existingOp := &q.componentOps[existingIdx]
		existingOp.comps = []Component{comp}
		existingOp.typ = typ
		return
	}

	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:      typ,
		entities: []Entity{en},
		comps:    []Component{comp},
	})
}

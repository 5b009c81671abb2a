package stockroom

import (
	"fmt"
	"iter"

	"github.com/TheBitDrifter/mask"

	"github.com/mossdrift/stockroom/table"
)

var _ Storage = &storage{}

var mainIndex = table.Factory.NewEntryIndex()

type storage struct {
	lockCount  int
	schema     table.Schema
	archetypes *archetypes
	opQueue    opQueue
	// entities is indexed by entity id - 1; destroyed slots are nil until
	// the id is reused.
	entities []*entity
}

type archetypes struct {
	nextID           archetypeID
	asSlice          []archetype
	idsGroupedByMask map[mask.Mask]archetypeID
}

func newStorage(schema table.Schema) Storage {
	archetypes := &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
	}
	storage := &storage{
		archetypes: archetypes,
		schema:     schema,
		opQueue:    newOpQueue(),
	}
	return storage
}

func (sto *storage) Entity(id table.EntryID) (Entity, error) {
	i := int(id) - 1
	if i < 0 || i >= len(sto.entities) || sto.entities[i] == nil {
		return nil, InvalidEntityError{ID: id}
	}
	en := sto.entities[i]
	if !en.Valid() {
		return nil, InvalidEntityError{ID: id}
	}
	return en, nil
}

func (sto *storage) IsAlive(en Entity) bool {
	return en != nil && en.Valid()
}

func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.Locked() {
		return nil, LockedStorageError{}
	}
	if err := checkDuplicateComponents(components); err != nil {
		return nil, err
	}
	entityArchetype, err := sto.newOrExistingArchetype(components...)
	if err != nil {
		return nil, err
	}
	entries, err := entityArchetype.tbl.NewEntries(n)
	if err != nil {
		return nil, err
	}
	return sto.adopt(entries), nil
}

// NewEntitiesIter is the lazy spawn path: the archetype is resolved once,
// then each pull of the sequence spawns exactly one entity. Abandoning the
// sequence early leaves the remaining entities un-spawned. Pulling while the
// storage is locked panics with LockedStorageError.
func (sto *storage) NewEntitiesIter(n int, components ...Component) (iter.Seq[Entity], error) {
	if sto.Locked() {
		return nil, LockedStorageError{}
	}
	if err := checkDuplicateComponents(components); err != nil {
		return nil, err
	}
	entityArchetype, err := sto.newOrExistingArchetype(components...)
	if err != nil {
		return nil, err
	}
	return func(yield func(Entity) bool) {
		for i := 0; i < n; i++ {
			// The storage may have been locked between creating the sequence
			// and pulling it; every pull is a structural mutation.
			if sto.Locked() {
				panic(LockedStorageError{})
			}
			entries, err := entityArchetype.tbl.NewEntries(1)
			if err != nil {
				panic(fmt.Errorf("batch spawn failed: %w", err))
			}
			if !yield(sto.adopt(entries)[0]) {
				return
			}
		}
	}, nil
}

// NewEntity spawns one entity carrying the given component values. Each
// value's type identifies its component; listing a type twice is an error.
func (sto *storage) NewEntity(values ...any) (Entity, error) {
	components, err := resolveComponents(values)
	if err != nil {
		return nil, err
	}
	entities, err := sto.NewEntities(1, components...)
	if err != nil {
		return nil, err
	}
	en := entities[0]
	for i, value := range values {
		if err := writeComponentValue(en.Table(), en.Index(), components[i], value, false); err != nil {
			return nil, err
		}
	}
	return en, nil
}

func (sto *storage) NewOrExistingArchetype(components ...Component) (Archetype, error) {
	return sto.newOrExistingArchetype(components...)
}

func (sto *storage) newOrExistingArchetype(components ...Component) (archetype, error) {
	var entityMask mask.Mask
	for _, component := range components {
		sto.schema.Register(component)
		entityMask.Mark(sto.schema.RowIndexFor(component))
	}
	if id, found := sto.archetypes.idsGroupedByMask[entityMask]; found {
		return sto.archetypes.asSlice[id-1], nil
	}
	created, err := newArchetype(sto.schema, mainIndex, sto.archetypes.nextID, components...)
	if err != nil {
		return archetype{}, err
	}
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByMask[entityMask] = sto.archetypes.nextID
	sto.archetypes.nextID++

	Config.logger.Debug().
		Uint32("archetype_id", created.ID()).
		Int("component_count", len(components)).
		Msg("archetype created")

	return created, nil
}

// adopt wraps freshly created table entries into entity handles and records
// them in the id-indexed registry.
func (sto *storage) adopt(entries []table.Entry) []Entity {
	out := make([]Entity, len(entries))
	for i, entry := range entries {
		id := int(entry.ID())
		if id > len(sto.entities) {
			grown := make([]*entity, id, max(id, 2*cap(sto.entities)))
			copy(grown, sto.entities)
			sto.entities = grown
		}
		en := &entity{Entry: entry, sto: sto}
		sto.entities[id-1] = en
		out[i] = en
	}
	return out
}

func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

// Locked reports whether any cursor currently holds the storage. Locks
// nest: shared iteration may stack, and structural work resumes only when
// the last holder unlocks.
func (sto *storage) Locked() bool {
	return sto.lockCount > 0
}

func (sto *storage) Lock() {
	sto.lockCount++
}

func (sto *storage) Unlock() {
	if sto.lockCount == 0 {
		return
	}
	sto.lockCount--
	if sto.lockCount == 0 {
		if err := sto.processOperationQueue(); err != nil {
			panic(err)
		}
	}
}

func (sto *storage) EnqueueNewEntities(amount int, components ...Component) error {
	if !sto.Locked() {
		_, err := sto.NewEntities(amount, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	sto.opQueue.createOps = append(sto.opQueue.createOps, operation{
		typ:    opCreate,
		amount: amount,
		comps:  components,
	})
	return nil
}

func (sto *storage) DestroyEntities(entities ...Entity) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	live := make([]Entity, 0, len(entities))
	for _, en := range entities {
		if en == nil || !en.Valid() {
			continue
		}
		live = append(live, en)
	}
	// Destroy callbacks observe the entity while it still holds its row.
	for _, en := range live {
		if impl, ok := en.(*entity); ok && impl.relationships.onDestroy != nil {
			impl.relationships.onDestroy(en)
		}
	}
	tableGroups := make(map[table.Table][]table.EntryID)
	for _, en := range live {
		tableGroups[en.Table()] = append(tableGroups[en.Table()], en.ID())
	}
	for tbl, ids := range tableGroups {
		if _, err := tbl.DeleteEntries(ids...); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for _, en := range live {
		i := int(en.ID()) - 1
		if i >= 0 && i < len(sto.entities) {
			sto.entities[i] = nil
		}
	}
	return nil
}

func (sto *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !sto.Locked() {
		return sto.DestroyEntities(entities...)
	}
	sto.opQueue.EnqueueDestroy(sto, entities)
	return nil
}

func checkDuplicateComponents(components []Component) error {
	if len(components) < 2 {
		return nil
	}
	seen := make(map[table.ElementTypeID]struct{}, len(components))
	for _, c := range components {
		if _, dup := seen[c.ID()]; dup {
			return DuplicateComponentError{Component: c}
		}
		seen[c.ID()] = struct{}{}
	}
	return nil
}

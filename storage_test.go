package stockroom

import (
	"testing"

	"github.com/mossdrift/stockroom/table"
)

// TestArchetypeCreation tests the creation and reuse of archetypes
func TestArchetypeCreation(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name                string
		firstComponents     []Component
		secondComponents    []Component
		expectSameArchetype bool
	}{
		{
			name:                "Identical components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp, velComp},
			expectSameArchetype: true,
		},
		{
			name:                "Different order",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{velComp, posComp},
			expectSameArchetype: true, // Archetypes are component sets, not sequences
		},
		{
			name:                "Different components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{velComp},
			expectSameArchetype: false,
		},
		{
			name:                "Subset components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp},
			expectSameArchetype: false,
		},
		{
			name:                "Superset components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{posComp, velComp, healthComp},
			expectSameArchetype: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := table.Factory.NewSchema()
			storage := Factory.NewStorage(schema)

			archetype1, err := storage.NewOrExistingArchetype(tt.firstComponents...)
			if err != nil {
				t.Fatalf("Failed to create first archetype: %v", err)
			}
			archetype2, err := storage.NewOrExistingArchetype(tt.secondComponents...)
			if err != nil {
				t.Fatalf("Failed to create second archetype: %v", err)
			}

			sameArchetype := archetype1.ID() == archetype2.ID()
			if sameArchetype != tt.expectSameArchetype {
				t.Errorf("Archetypes same: %v, expected: %v", sameArchetype, tt.expectSameArchetype)
			}
		})
	}
}

// TestEntityDestruction tests destroying entities
func TestEntityDestruction(t *testing.T) {
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	posComp := FactoryNewComponent[Position]()

	entities, err := storage.NewEntities(10, posComp)
	if err != nil {
		t.Fatalf("Failed to create entities: %v", err)
	}

	err = storage.DestroyEntities(entities[0], entities[2], entities[4], entities[6], entities[8])
	if err != nil {
		t.Fatalf("Failed to destroy entities: %v", err)
	}

	for i, en := range entities {
		wantAlive := i%2 == 1
		if storage.IsAlive(en) != wantAlive {
			t.Errorf("entity %d alive = %v, want %v", i, storage.IsAlive(en), wantAlive)
		}
	}

	query := Factory.NewQuery()
	queryNode := query.And(posComp)
	cursor := Factory.NewCursor(queryNode, storage)

	count := 0
	for cursor.Next() {
		count++
	}
	if count != 5 {
		t.Errorf("Entity count after destruction: %d, want 5", count)
	}
}

// TestGenerationalReuse checks that destroyed ids come back with a bumped
// generation and stale handles stay dead.
func TestGenerationalReuse(t *testing.T) {
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	posComp := FactoryNewComponent[Position]()

	entities, err := storage.NewEntities(1, posComp)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}
	stale := entities[0]
	id, gen := stale.ID(), stale.Recycled()

	if err := storage.DestroyEntities(stale); err != nil {
		t.Fatalf("Failed to destroy entity: %v", err)
	}
	if storage.IsAlive(stale) {
		t.Error("Destroyed entity reported alive")
	}

	// The freed index is reused with generation+1.
	reborn, err := storage.NewEntities(1, posComp)
	if err != nil {
		t.Fatalf("Failed to respawn: %v", err)
	}
	if reborn[0].ID() != id {
		t.Errorf("Reused id = %d, want %d", reborn[0].ID(), id)
	}
	if reborn[0].Recycled() != gen+1 {
		t.Errorf("Generation = %d, want %d", reborn[0].Recycled(), gen+1)
	}

	// The stale handle is permanently dead even though its id is live again.
	if storage.IsAlive(stale) {
		t.Error("Stale handle reported alive after id reuse")
	}
	if _, err := storage.Entity(id); err != nil {
		t.Errorf("Live id lookup failed: %v", err)
	}
}

// TestSwapRemoveLocationPatching verifies that despawning a non-last entity
// relocates exactly the former last entity and nothing else.
func TestSwapRemoveLocationPatching(t *testing.T) {
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	posComp := FactoryNewComponent[Position]()

	entities, err := storage.NewEntities(5, posComp)
	if err != nil {
		t.Fatalf("Failed to create entities: %v", err)
	}
	for i, en := range entities {
		*posComp.GetFromEntity(en) = Position{X: float64(i)}
	}
	before := make([]int, len(entities))
	for i, en := range entities {
		before[i] = en.Index()
	}

	victim := 1
	if err := storage.DestroyEntities(entities[victim]); err != nil {
		t.Fatalf("Failed to destroy entity: %v", err)
	}

	moved := 0
	for i, en := range entities {
		if i == victim {
			continue
		}
		if en.Index() != before[i] {
			moved++
			if i != len(entities)-1 {
				t.Errorf("entity %d moved; only the last row should", i)
			}
			if en.Index() != before[victim] {
				t.Errorf("last entity moved to row %d, want %d", en.Index(), before[victim])
			}
		}
		if got := *posComp.GetFromEntity(en); got != (Position{X: float64(i)}) {
			t.Errorf("entity %d value = %v, want {%d 0}", i, got, i)
		}
	}
	if moved != 1 {
		t.Errorf("%d entities moved, want exactly 1", moved)
	}
}

// TestStorageLocking tests the deferred-operation discipline while cursors
// hold the storage.
func TestStorageLocking(t *testing.T) {
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	posComp := FactoryNewComponent[Position]()

	if _, err := storage.NewEntities(3, posComp); err != nil {
		t.Fatalf("Failed to create entities: %v", err)
	}

	storage.Lock()
	if !storage.Locked() {
		t.Fatal("Storage should report locked")
	}

	if _, err := storage.NewEntities(1, posComp); err == nil {
		t.Error("Structural mutation on locked storage should fail")
	}
	if err := storage.EnqueueNewEntities(2, posComp); err != nil {
		t.Fatalf("EnqueueNewEntities() error = %v", err)
	}

	// Nested lock: the queue must not drain until the last holder releases.
	storage.Lock()
	storage.Unlock()
	if !storage.Locked() {
		t.Error("Storage unlocked while a holder remains")
	}
	storage.Unlock()

	query := Factory.NewQuery()
	cursor := Factory.NewCursor(query.And(posComp), storage)
	if got := cursor.TotalMatched(); got != 5 {
		t.Errorf("Entities after queue drain = %d, want 5", got)
	}
}

func TestCursorLocksDuringIteration(t *testing.T) {
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	posComp := FactoryNewComponent[Position]()
	if _, err := storage.NewEntities(4, posComp); err != nil {
		t.Fatalf("Failed to create entities: %v", err)
	}

	query := Factory.NewQuery()
	cursor := Factory.NewCursor(query.And(posComp), storage)

	seen := 0
	for cursor.Next() {
		seen++
		if !storage.Locked() {
			t.Fatal("Storage should be locked mid-iteration")
		}
		en, err := cursor.CurrentEntity()
		if err != nil {
			t.Fatalf("CurrentEntity() error = %v", err)
		}
		if err := storage.EnqueueDestroyEntities(en); err != nil {
			t.Fatalf("EnqueueDestroyEntities() error = %v", err)
		}
	}
	if seen != 4 {
		t.Errorf("Iterated %d entities, want 4", seen)
	}
	if storage.Locked() {
		t.Error("Storage should unlock once the cursor is exhausted")
	}

	// The deferred destroys ran on unlock.
	if got := Factory.NewCursor(query.And(posComp), storage).TotalMatched(); got != 0 {
		t.Errorf("Entities after deferred destroy = %d, want 0", got)
	}
}

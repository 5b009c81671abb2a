package bench

import (
	"testing"

	"github.com/mossdrift/stockroom"
	"github.com/mossdrift/stockroom/table"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func BenchmarkIterStockroomGet(b *testing.B) {
	b.StopTimer()

	velocity := stockroom.FactoryNewComponent[Velocity]()
	position := stockroom.FactoryNewComponent[Position]()
	schema := table.Factory.NewSchema()
	storage := stockroom.Factory.NewStorage(schema)

	storage.NewEntities(nPosVel, position, velocity)
	storage.NewEntities(nPos, position)

	query := stockroom.Factory.NewQuery()
	queryNode := query.And(velocity, position)
	cursor := stockroom.Factory.NewCursor(queryNode, storage)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			pos := position.GetFromCursor(cursor)
			vel := velocity.GetFromCursor(cursor)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkSpawnDespawnStockroom(b *testing.B) {
	b.StopTimer()

	position := stockroom.FactoryNewComponent[Position]()
	schema := table.Factory.NewSchema()
	storage := stockroom.Factory.NewStorage(schema)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		entities, _ := storage.NewEntities(100, position)
		storage.DestroyEntities(entities...)
	}
}

func BenchmarkTransitionStockroom(b *testing.B) {
	b.StopTimer()

	position := stockroom.FactoryNewComponent[Position]()
	velocity := stockroom.FactoryNewComponent[Velocity]()
	schema := table.Factory.NewSchema()
	storage := stockroom.Factory.NewStorage(schema)

	entities, _ := storage.NewEntities(100, position)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, en := range entities {
			en.AddComponent(velocity)
		}
		for _, en := range entities {
			en.RemoveComponent(velocity)
		}
	}
}

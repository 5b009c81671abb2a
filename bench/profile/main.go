// Profiling:
// go build ./profile
// go tool pprof -http=":8000" -nodefraction=0.001 ./profile cpu.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/mossdrift/stockroom"
	"github.com/mossdrift/stockroom/table"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(100, 1000)
	p.Stop()
}

func run(rounds, numEntities int) {
	c1 := stockroom.FactoryNewComponent[comp1]()
	c2 := stockroom.FactoryNewComponent[comp2]()

	schema := table.Factory.NewSchema()
	storage := stockroom.Factory.NewStorage(schema)
	storage.NewEntities(numEntities, c1, c2)

	query := stockroom.Factory.NewQuery()
	queryNode := query.And(c1, c2)

	for i := 0; i < rounds; i++ {
		cursor := stockroom.Factory.NewCursor(queryNode, storage)
		for cursor.Next() {
			a := c1.GetFromCursor(cursor)
			b := c2.GetFromCursor(cursor)
			a.V += b.V
			a.W += b.W
		}
	}
}

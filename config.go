package stockroom

import (
	"github.com/rs/zerolog"

	"github.com/mossdrift/stockroom/table"
)

// Config holds global configuration for the storage system.
var Config config = config{
	logger: zerolog.Nop(),
}

type config struct {
	tableEvents table.TableEvents
	logger      zerolog.Logger
}

// SetTableEvents configures the table event callbacks attached to every
// table created afterwards.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetLogger installs a logger for structural events (archetype creation,
// queue processing). Logging is off by default and never happens on row
// access or iteration paths.
func (c *config) SetLogger(l zerolog.Logger) {
	c.logger = l
}

package table

import (
	"github.com/TheBitDrifter/mask"
)

type factory struct{}

// Factory creates the stateful pieces of the storage layer.
var Factory factory

func (factory) NewSchema() Schema {
	return newSchema()
}

func (factory) NewEntryIndex() EntryIndex {
	return newEntryIndex()
}

// TableBuilder assembles a Table from its required collaborators.
type TableBuilder struct {
	schema       Schema
	entryIndex   EntryIndex
	elementTypes []ElementType
	events       TableEvents
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{}
}

func (b *TableBuilder) WithSchema(s Schema) *TableBuilder {
	b.schema = s
	return b
}

func (b *TableBuilder) WithEntryIndex(ei EntryIndex) *TableBuilder {
	b.entryIndex = ei
	return b
}

func (b *TableBuilder) WithElementTypes(types ...ElementType) *TableBuilder {
	b.elementTypes = append(b.elementTypes, types...)
	return b
}

func (b *TableBuilder) WithEvents(events TableEvents) *TableBuilder {
	b.events = events
	return b
}

func (b *TableBuilder) Build() (Table, error) {
	if b.schema == nil {
		return nil, MissingDependencyError{Dependency: "schema"}
	}
	if b.entryIndex == nil {
		return nil, MissingDependencyError{Dependency: "entry index"}
	}
	layout, err := newEntityLayout(b.elementTypes)
	if err != nil {
		return nil, err
	}
	var msk mask.Mask
	for _, et := range layout.elementTypes {
		b.schema.Register(et)
		msk.Mark(b.schema.RowIndexFor(et))
	}
	return &tbl{
		schema:     b.schema,
		entryIndex: b.entryIndex,
		layout:     layout,
		msk:        msk,
		events:     b.events,
	}, nil
}

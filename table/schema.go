package table

var _ Schema = &schema{}

type schema struct {
	rowIndices map[ElementTypeID]uint32
	nextRow    uint32
}

func newSchema() Schema {
	return &schema{
		rowIndices: make(map[ElementTypeID]uint32),
	}
}

func (s *schema) Register(et ElementType) {
	if _, ok := s.rowIndices[et.ID()]; ok {
		return
	}
	s.rowIndices[et.ID()] = s.nextRow
	s.nextRow++
}

func (s *schema) Registered(et ElementType) bool {
	_, ok := s.rowIndices[et.ID()]
	return ok
}

// RowIndexFor registers unseen element types on the fly so query evaluation
// never observes a missing bit assignment.
func (s *schema) RowIndexFor(et ElementType) uint32 {
	if idx, ok := s.rowIndices[et.ID()]; ok {
		return idx
	}
	s.Register(et)
	return s.rowIndices[et.ID()]
}

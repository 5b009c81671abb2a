package table

import (
	"slices"
)

// entityLayout is the computed row layout for one element-type set: a byte
// offset per element plus the overall stride and alignment of a row.
//
// Offsets are assigned visiting elements in descending alignment order, so
// each running offset is already aligned for the element it is handed to
// (alignments are non-increasing and every element size is padded to its own
// alignment). This is the densest packing satisfying per-field alignment.
type entityLayout struct {
	// elementTypes is the canonical archetype order: ascending ID.
	elementTypes []ElementType
	// offsets is parallel to elementTypes.
	offsets []uintptr
	stride  uintptr
	align   uintptr
}

func newEntityLayout(types []ElementType) (entityLayout, error) {
	seen := make(map[ElementTypeID]struct{}, len(types))
	for _, et := range types {
		if _, dup := seen[et.ID()]; dup {
			return entityLayout{}, DuplicateElementTypeError{ElementType: et}
		}
		seen[et.ID()] = struct{}{}
	}

	packed := slices.Clone(types)
	slices.SortStableFunc(packed, func(a, b ElementType) int {
		if a.Align() != b.Align() {
			if a.Align() > b.Align() {
				return -1
			}
			return 1
		}
		if a.ID() < b.ID() {
			return -1
		}
		return 1
	})

	offsetsByID := make(map[ElementTypeID]uintptr, len(packed))
	var offset uintptr
	for _, et := range packed {
		// Zero-size elements alias offset 0: they occupy no bytes, and a
		// running-offset assignment would otherwise hand the last one an
		// address one past the end of the row.
		if et.Size() == 0 {
			offsetsByID[et.ID()] = 0
			continue
		}
		offsetsByID[et.ID()] = offset
		offset += et.Size()
	}

	var align uintptr = 1
	if len(packed) > 0 {
		align = packed[0].Align()
	}

	canonical := slices.Clone(types)
	slices.SortFunc(canonical, func(a, b ElementType) int {
		if a.ID() < b.ID() {
			return -1
		}
		return 1
	})

	layout := entityLayout{
		elementTypes: canonical,
		offsets:      make([]uintptr, len(canonical)),
		stride:       padToAlign(offset, align),
		align:        align,
	}
	for i, et := range canonical {
		layout.offsets[i] = offsetsByID[et.ID()]
	}
	return layout, nil
}

func (l entityLayout) offsetOf(id ElementTypeID) (uintptr, bool) {
	for i, et := range l.elementTypes {
		if et.ID() == id {
			return l.offsets[i], true
		}
	}
	return 0, false
}

func (l entityLayout) contains(id ElementTypeID) bool {
	_, ok := l.offsetOf(id)
	return ok
}

func padToAlign(size, align uintptr) uintptr {
	if align <= 1 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}

package table

import (
	"testing"

	"gotest.tools/v3/assert"
)

type wide struct {
	A, B float64
}

type medium struct {
	N int32
}

type narrow struct {
	B byte
}

type unit struct{}

func TestLayoutPacksByDescendingAlignment(t *testing.T) {
	wideType := FactoryNewElementType[wide]()
	mediumType := FactoryNewElementType[medium]()
	narrowType := FactoryNewElementType[narrow]()

	// Declaration order must not matter.
	layout, err := newEntityLayout([]ElementType{narrowType, wideType, mediumType})
	assert.NilError(t, err)

	wideOff, ok := layout.offsetOf(wideType.ID())
	assert.Check(t, ok)
	assert.Equal(t, uintptr(0), wideOff)

	mediumOff, ok := layout.offsetOf(mediumType.ID())
	assert.Check(t, ok)
	assert.Equal(t, uintptr(16), mediumOff)

	narrowOff, ok := layout.offsetOf(narrowType.ID())
	assert.Check(t, ok)
	assert.Equal(t, uintptr(20), narrowOff)

	assert.Equal(t, wideType.Align(), layout.align)
	// 21 bytes of fields padded to 8-byte alignment.
	assert.Equal(t, uintptr(24), layout.stride)
}

func TestLayoutOffsetsAreAligned(t *testing.T) {
	types := []ElementType{
		FactoryNewElementType[narrow](),
		FactoryNewElementType[medium](),
		FactoryNewElementType[wide](),
	}
	layout, err := newEntityLayout(types)
	assert.NilError(t, err)

	for _, et := range types {
		off, ok := layout.offsetOf(et.ID())
		assert.Check(t, ok)
		assert.Equal(t, uintptr(0), off%et.Align(), "field %v misaligned", et.Type())
	}
	assert.Equal(t, uintptr(0), layout.stride%layout.align)
}

func TestLayoutRejectsDuplicates(t *testing.T) {
	wideType := FactoryNewElementType[wide]()
	_, err := newEntityLayout([]ElementType{wideType, wideType})
	assert.ErrorType(t, err, DuplicateElementTypeError{})
}

func TestLayoutEmptyAndZeroSize(t *testing.T) {
	empty, err := newEntityLayout(nil)
	assert.NilError(t, err)
	assert.Equal(t, uintptr(0), empty.stride)
	assert.Equal(t, uintptr(1), empty.align)

	unitType := FactoryNewElementType[unit]()
	unitOnly, err := newEntityLayout([]ElementType{unitType})
	assert.NilError(t, err)
	assert.Equal(t, uintptr(0), unitOnly.stride)
}

// A zero-size element mixed with sized ones must not be assigned the
// running end offset: dereferencing it on the last row would point one past
// the buffer. It aliases offset 0 instead.
func TestLayoutZeroSizeFieldStaysInBounds(t *testing.T) {
	wideType := FactoryNewElementType[wide]()
	unitType := FactoryNewElementType[unit]()

	layout, err := newEntityLayout([]ElementType{wideType, unitType})
	assert.NilError(t, err)

	off, ok := layout.offsetOf(unitType.ID())
	assert.Check(t, ok)
	assert.Equal(t, uintptr(0), off)
	assert.Check(t, off < layout.stride)
	assert.Equal(t, uintptr(16), layout.stride)
}

package table

import "fmt"

type DuplicateElementTypeError struct {
	ElementType ElementType
}

func (e DuplicateElementTypeError) Error() string {
	return fmt.Sprintf("duplicate element type in layout: %v", e.ElementType.Type())
}

type InvalidEntryError struct {
	ID EntryID
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("entry %d does not exist or is not live", e.ID)
}

type ForeignEntryError struct {
	ID EntryID
}

func (e ForeignEntryError) Error() string {
	return fmt.Sprintf("entry %d is not stored in this table", e.ID)
}

type ForeignTableError struct{}

func (e ForeignTableError) Error() string {
	return "destination is not a table from this package"
}

type RowOutOfRangeError struct {
	Row    int
	Length int
}

func (e RowOutOfRangeError) Error() string {
	return fmt.Sprintf("row %d out of range (length %d)", e.Row, e.Length)
}

type NegativeEntryCountError struct {
	Count int
}

func (e NegativeEntryCountError) Error() string {
	return fmt.Sprintf("cannot create %d entries", e.Count)
}

type MissingDependencyError struct {
	Dependency string
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("table builder missing %s", e.Dependency)
}

package stockroom

import (
	"reflect"

	"github.com/mossdrift/stockroom/table"
)

// resolveComponents maps component values to their registered element types,
// registering unseen types on the fly.
func resolveComponents(values []any) ([]Component, error) {
	components := make([]Component, len(values))
	for i, v := range values {
		if v == nil {
			return nil, NilComponentValueError{}
		}
		components[i] = table.ElementTypeFor(reflect.TypeOf(v))
	}
	if err := checkDuplicateComponents(components); err != nil {
		return nil, err
	}
	return components, nil
}

// writeComponentValue stores value into the component's field of the given
// row. finalizeOld runs the component's finalizer on the value being
// overwritten; fresh (zeroed) rows skip it so a finalizer fires exactly once
// per stored value.
func writeComponentValue(tbl table.Table, row int, c Component, value any, finalizeOld bool) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Type() != c.Type() {
		return ComponentValueTypeError{Component: c, Value: value}
	}
	p := tbl.Get(c, row)
	if p == nil {
		return ComponentNotFoundError{Component: c}
	}
	if finalizeOld {
		if fn := c.Finalizer(); fn != nil {
			fn(p)
		}
	}
	reflect.NewAt(rv.Type(), p).Elem().Set(rv)
	return nil
}

package value

import "fmt"

// TypeError reports a merge between structurally unsupported value
// types. It indicates a corrupt or hand-built value rather than a
// routine client mistake.
type TypeError struct {
	Src  Type
	Dest Type
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot merge %s into %s", e.Src, e.Dest)
}

// Merge recursively combines src into dest and returns the result.
// The destination's runtime shape governs how src is absorbed:
//
//   - dest is null or a primitive: src replaces it.
//   - dest is a list: if src is a list, each src element not already
//     present (by deep equality) is appended, preserving dest's order;
//     a non-list src is tolerated and dest is returned unchanged.
//   - dest is a map: a map src is merged field by field, recursing on
//     fields present in both; a null src replaces the whole map with
//     null; any other src is tolerated and dest is returned unchanged.
//
// Any other destination shape fails with *TypeError.
//
// Merge may mutate dest's lists and maps in place; callers that need
// the original afterwards must pass a clone. The returned value is the
// merged result regardless.
func Merge(src, dest *Value) (*Value, error) {
	if src == nil {
		src = Null()
	}
	if dest == nil {
		return src, nil
	}
	switch dest.Type {
	case NullType, BoolType, NumberType, StringType:
		return src, nil
	case ListType:
		if src.Type != ListType {
			return dest, nil
		}
		for _, e := range src.Elems {
			if !containsEqual(dest.Elems, e) {
				dest.Elems = append(dest.Elems, e)
			}
		}
		return dest, nil
	case MapType:
		switch src.Type {
		case MapType:
			if dest.Fields == nil {
				dest.Fields = map[string]*Value{}
			}
			for k, sv := range src.Fields {
				dv, ok := dest.Fields[k]
				if !ok {
					dest.Fields[k] = sv
					continue
				}
				merged, err := Merge(sv, dv)
				if err != nil {
					return nil, err
				}
				dest.Fields[k] = merged
			}
			return dest, nil
		case NullType:
			return src, nil
		default:
			return dest, nil
		}
	default:
		return nil, &TypeError{Src: src.Type, Dest: dest.Type}
	}
}

func containsEqual(elems []*Value, v *Value) bool {
	for _, e := range elems {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

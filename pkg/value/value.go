package value

import (
	"fmt"
	"sort"
)

// Type identifies the runtime shape of a Value.
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	ListType
	MapType
)

// String returns the human-readable name for a type.
func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case NumberType:
		return "number"
	case StringType:
		return "string"
	case ListType:
		return "list"
	case MapType:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Value is a recursive tagged union representing a JSON value.
// The Type field selects which of the payload fields is meaningful:
//
//   - NullType: no payload
//   - BoolType: Bool
//   - NumberType: Num
//   - StringType: Str
//   - ListType: Elems (ordered)
//   - MapType: Fields (order irrelevant)
//
// Values are not safe for concurrent mutation; callers share them
// read-only or clone first.
type Value struct {
	Type   Type
	Bool   bool
	Num    float64
	Str    string
	Elems  []*Value
	Fields map[string]*Value
}

// Null returns a null value.
func Null() *Value {
	return &Value{Type: NullType}
}

// FromBool returns a boolean value.
func FromBool(b bool) *Value {
	return &Value{Type: BoolType, Bool: b}
}

// FromNumber returns a numeric value. JSON numbers are represented as
// float64, matching encoding/json's default decoding.
func FromNumber(f float64) *Value {
	return &Value{Type: NumberType, Num: f}
}

// FromString returns a string value.
func FromString(s string) *Value {
	return &Value{Type: StringType, Str: s}
}

// NewList returns a list value holding the given elements.
func NewList(elems ...*Value) *Value {
	return &Value{Type: ListType, Elems: elems}
}

// NewMap returns an empty map value.
func NewMap() *Value {
	return &Value{Type: MapType, Fields: map[string]*Value{}}
}

// FromAny converts a decoded JSON value (the shapes produced by
// encoding/json into interface{}) into a Value. It fails on Go types
// that have no JSON counterpart.
func FromAny(v any) (*Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(t), nil
	case float64:
		return FromNumber(t), nil
	case int:
		return FromNumber(float64(t)), nil
	case int64:
		return FromNumber(float64(t)), nil
	case string:
		return FromString(t), nil
	case []any:
		elems := make([]*Value, 0, len(t))
		for _, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return &Value{Type: ListType, Elems: elems}, nil
	case map[string]any:
		fields := make(map[string]*Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			fields[k] = ev
		}
		return &Value{Type: MapType, Fields: fields}, nil
	case *Value:
		return t, nil
	default:
		return nil, fmt.Errorf("cannot represent %T as a value", v)
	}
}

// Interface converts the value back into the interface{} shapes
// produced by encoding/json. A nil receiver converts to nil.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Type {
	case NullType:
		return nil
	case BoolType:
		return v.Bool
	case NumberType:
		return v.Num
	case StringType:
		return v.Str
	case ListType:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.Interface()
		}
		return out
	case MapType:
		out := make(map[string]any, len(v.Fields))
		for k, e := range v.Fields {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of the value. A nil receiver clones to nil.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{
		Type: v.Type,
		Bool: v.Bool,
		Num:  v.Num,
		Str:  v.Str,
	}
	if v.Elems != nil {
		out.Elems = make([]*Value, len(v.Elems))
		for i, e := range v.Elems {
			out.Elems[i] = e.Clone()
		}
	}
	if v.Fields != nil {
		out.Fields = make(map[string]*Value, len(v.Fields))
		for k, e := range v.Fields {
			out.Fields[k] = e.Clone()
		}
	}
	return out
}

// Equal reports whether two values are deeply equal. Nil pointers are
// treated as null. List order is significant; map field order is not.
func (v *Value) Equal(o *Value) bool {
	if v == nil {
		v = Null()
	}
	if o == nil {
		o = Null()
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case NullType:
		return true
	case BoolType:
		return v.Bool == o.Bool
	case NumberType:
		return v.Num == o.Num
	case StringType:
		return v.Str == o.Str
	case ListType:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case MapType:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for k, e := range v.Fields {
			oe, ok := o.Fields[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FieldNames returns the map value's field names in sorted order.
// Returns nil for non-map values.
func (v *Value) FieldNames() []string {
	if v == nil || v.Type != MapType {
		return nil
	}
	names := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

package value

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the value as plain JSON, not as a tagged
// envelope: a StringType value encodes as a JSON string, a MapType
// value as a JSON object, and so on.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.Type {
	case NullType:
		return []byte("null"), nil
	case BoolType:
		return json.Marshal(v.Bool)
	case NumberType:
		return json.Marshal(v.Num)
	case StringType:
		return json.Marshal(v.Str)
	case ListType:
		if v.Elems == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Elems)
	case MapType:
		if v.Fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Fields)
	default:
		return nil, fmt.Errorf("cannot encode value of type %s", v.Type)
	}
}

// UnmarshalJSON decodes plain JSON into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = *decoded
	return nil
}

// Parse decodes a JSON document into a Value.
func Parse(data []byte) (*Value, error) {
	v := &Value{}
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}

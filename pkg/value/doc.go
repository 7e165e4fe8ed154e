// Package value provides a recursive tagged representation of JSON
// values (null, bool, number, string, list, map) together with the
// structural merge used for whole-document updates.
//
// The tagged union makes every merge rule explicit over the value's
// Type instead of relying on runtime type switches over interface{}.
// Values bridge to and from plain JSON text via encoding/json.
package value

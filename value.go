// Copyright 2024 The Blockval Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package blockval

import (
	"fmt"
	"strconv"
)

// Kind is the tag of a [Value]'s variant.
type Kind int

// The variants a [Value] can hold.
const (
	// Null is the zero Kind, so the zero [Value] is a null value.
	Null Kind = iota
	Bool
	Int
	Uint
	Float
	String
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged union of the types this notation can produce:
// null, bool, signed/unsigned integer, 64-bit float, string, list of
// Value, and an order-preserving map from Value to Value.
//
// The zero Value is null. Values are immutable once constructed.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	list []Value
	m    *ValueMap
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue returns a bool value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue returns a signed integer value.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// UintValue returns an unsigned integer value.
func UintValue(u uint64) Value { return Value{kind: Uint, u: u} }

// FloatValue returns a 64-bit float value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ListValue returns a list value. The slice is retained, not copied.
func ListValue(items []Value) Value { return Value{kind: List, list: items} }

// MapValue returns a map value wrapping m.
func MapValue(m *ValueMap) Value { return Value{kind: Map, m: m} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns v's bool payload and whether v is a [Bool] value.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Int returns v's signed integer payload and whether v is an [Int] value.
func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Uint returns v's unsigned integer payload and whether v is a [Uint] value.
func (v Value) Uint() (uint64, bool) { return v.u, v.kind == Uint }

// Float returns v's float payload and whether v is a [Float] value.
func (v Value) Float() (float64, bool) { return v.f, v.kind == Float }

// String returns v's string payload and whether v is a [String] value.
//
// String does not stringify other kinds; use [Value.GoString] for a
// human-readable rendering of any Value.
func (v Value) String() (string, bool) { return v.s, v.kind == String }

// ListItems returns v's list payload and whether v is a [List] value.
func (v Value) ListItems() ([]Value, bool) { return v.list, v.kind == List }

// AsMap returns v's map payload and whether v is a [Map] value.
func (v Value) AsMap() (*ValueMap, bool) { return v.m, v.kind == Map }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// GoString renders v for diagnostics. It is not the notation's own
// serialization (this package has no serializer).
func (v Value) GoString() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Uint:
		return strconv.FormatUint(v.u, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	case List:
		s := "["
		for i, item := range v.list {
			if i > 0 {
				s += ", "
			}
			s += item.GoString()
		}
		return s + "]"
	case Map:
		s := "{"
		for i, e := range v.m.entries {
			if i > 0 {
				s += ", "
			}
			s += e.Key.GoString() + ": " + e.Value.GoString()
		}
		return s + "}"
	default:
		return "<invalid>"
	}
}

// valueKey renders v into a canonical string used only to detect
// duplicate map keys (see [ValueMap.Set]). Two Values that are
// semantically equal keys — same Kind and same payload — always
// render to the same valueKey; no promise is made about distinct
// Values never colliding across Kinds, since the Kind tag is always
// folded into the prefix.
func valueKey(v Value) string {
	switch v.kind {
	case Null:
		return "n"
	case Bool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case Int:
		return "i:" + strconv.FormatInt(v.i, 10)
	case Uint:
		return "u:" + strconv.FormatUint(v.u, 10)
	case Float:
		return "f:" + strconv.FormatFloat(v.f, 'b', -1, 64)
	case String:
		return "s:" + v.s
	default:
		// Not a valid map key (list/map); callers are expected to have
		// rejected this before it reaches here.
		return fmt.Sprintf("?:%p", v.m)
	}
}

// Equal reports whether v and other hold the same Kind and payload,
// recursively for lists and maps. go-cmp calls this automatically
// when comparing Values (https://pkg.go.dev/github.com/google/go-cmp/cmp#Equal).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Int:
		return v.i == other.i
	case Uint:
		return v.u == other.u
	case Float:
		return v.f == other.f
	case String:
		return v.s == other.s
	case List:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case Map:
		if v.m.Len() != other.m.Len() {
			return false
		}
		for i, e := range v.m.Entries() {
			oe := other.m.Entries()[i]
			if !e.Key.Equal(oe.Key) || !e.Value.Equal(oe.Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsValidKey reports whether v is one of the kinds the notation allows
// as a map key: null, bool, signed/unsigned integer, float, or string.
func (v Value) IsValidKey() bool {
	switch v.kind {
	case Null, Bool, Int, Uint, Float, String:
		return true
	default:
		return false
	}
}

// MapEntry is one key/value pair of a [ValueMap], in insertion order.
type MapEntry struct {
	Key   Value
	Value Value
}

// ValueMap is an order-preserving map from [Value] to [Value],
// matching spec.md's requirement that maps preserve insertion order
// and that re-inserting an existing key overwrites its value in
// place rather than moving it to the end.
//
// The zero ValueMap is an empty, ready-to-use map.
type ValueMap struct {
	entries []MapEntry
	index   map[string]int
}

// NewValueMap returns an empty map with room for n entries.
func NewValueMap(n int) *ValueMap {
	return &ValueMap{
		entries: make([]MapEntry, 0, n),
		index:   make(map[string]int, n),
	}
}

// Set inserts key/value, or overwrites the value of an existing
// (by-value-equal) key in place, preserving that key's original
// position.
func (m *ValueMap) Set(key, value Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	k := valueKey(key)
	if i, ok := m.index[k]; ok {
		m.entries[i] = MapEntry{Key: key, Value: value}
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored for key and whether it was present.
func (m *ValueMap) Get(key Value) (Value, bool) {
	if m == nil || m.index == nil {
		return Value{}, false
	}
	i, ok := m.index[valueKey(key)]
	if !ok {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries in m.
func (m *ValueMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns m's entries in insertion order. The returned slice
// must not be mutated.
func (m *ValueMap) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

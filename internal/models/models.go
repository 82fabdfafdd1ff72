package models

import (
	"github.com/keboola/go-utils/pkg/orderedmap"
)

// Kind identifies which variant of a JSON value is held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the JSON value space.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Str     string   // String, or the literal text of a Number
	Bool    bool     // Bool
	Items   []Value  // Array
	Members []Member // Object, in document order
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{Kind: Null} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// NumberValue returns a JSON number holding its literal text, e.g. "30" or "3.14".
func NumberValue(literal string) Value { return Value{Kind: Number, Str: literal} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// ArrayValue returns a JSON array.
func ArrayValue(items ...Value) Value { return Value{Kind: Array, Items: items} }

// ObjectValue returns a JSON object with the members in the given order.
func ObjectValue(members ...Member) Value { return Value{Kind: Object, Members: members} }

// M is shorthand for building an object Member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

// FlatRecord is an ordered mapping of flat keys to scalar values.
// Setting a key that already exists keeps its position and replaces the value.
type FlatRecord struct {
	m *orderedmap.OrderedMap
}

// NewFlatRecord creates an empty FlatRecord.
func NewFlatRecord() *FlatRecord {
	return &FlatRecord{m: orderedmap.New()}
}

// Set stores a scalar under key. A key that is already present keeps its
// position and takes the new value (last write wins).
func (r *FlatRecord) Set(key string, v Value) {
	r.m.Set(key, v)
}

// Get returns the value stored under key.
func (r *FlatRecord) Get(key string) (Value, bool) {
	raw, ok := r.m.Get(key)
	if !ok {
		return Value{}, false
	}
	return raw.(Value), true
}

// Keys returns a copy of the keys in insertion order.
func (r *FlatRecord) Keys() []string {
	keys := r.m.Keys()
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Len returns the number of keys.
func (r *FlatRecord) Len() int {
	return len(r.m.Keys())
}

// Cell is one projected spreadsheet cell: either a scalar value or the
// empty placeholder used when the record has no value for the column.
type Cell struct {
	Value   Value
	Missing bool
}

// RecordSet is the flattened form of one input file.
type RecordSet struct {
	// Headers is the column order.
	Headers []string
	// Records are the flattened input records, index-aligned with the input.
	Records []*FlatRecord
	// Rows are the records projected onto Headers.
	Rows [][]Cell
}

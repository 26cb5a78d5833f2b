package document

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindReference
	KindList
	KindMap
	KindRecord
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindReference:
		return "reference"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the HEDL value variants. Scalars are stored
// inline; lists, maps, records, and references are owned heap allocations.
// SpanOrd indexes the document's span table, or -1 when the node carries no
// span.
type Value struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	ref      *Reference
	list     *List
	mapVal   *Map
	record   *Record

	SpanOrd int
}

// TargetKind identifies what a resolved Reference points at
type TargetKind int

const (
	TargetUnresolved TargetKind = iota
	TargetAlias
	TargetSchema
	TargetField
)

// Reference is an @name or @schema.field handle. After resolution it carries
// the ordinal of its target so traversal never hashes names.
type Reference struct {
	Path    string // "name" or "schema.field", without the leading '@'
	Target  TargetKind
	Ordinal int // alias or schema ordinal; -1 until resolved
	Field   int // field ordinal for @schema.field targets; -1 otherwise
}

// List is an ordered sequence of values. A list is a matrix when every
// element is a record of the same schema with identical field order.
type List struct {
	Items     []Value
	Matrix    bool
	Schema    string // matrix row schema name; empty for flat lists
	SchemaOrd int    // matrix row schema ordinal; -1 until resolved
}

// MapEntry is one key/value pair of a Map or Record
type MapEntry struct {
	Key     string
	Value   Value
	SpanOrd int // span of the key; -1 when synthesized
}

// Map is an insertion-ordered mapping with unique string keys. Lookup by
// name goes through a side index; iteration follows insertion order.
type Map struct {
	entries []MapEntry
	index   map[string]int
}

// NewMap creates an empty ordered map
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Len returns the number of entries
func (m *Map) Len() int { return len(m.entries) }

// At returns the i-th entry in insertion order
func (m *Map) At(i int) MapEntry { return m.entries[i] }

// Entries returns the entries in insertion order. The slice is shared; do
// not mutate it.
func (m *Map) Entries() []MapEntry { return m.entries }

// Get returns the value for key and whether it is present
func (m *Map) Get(key string) (Value, bool) {
	if i, ok := m.index[key]; ok {
		return m.entries[i].Value, true
	}
	return Value{SpanOrd: -1}, false
}

// Has reports whether key is present
func (m *Map) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Append adds an entry. It reports false when the key is already present.
func (m *Map) Append(key string, v Value, spanOrd int) bool {
	if _, dup := m.index[key]; dup {
		return false
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: v, SpanOrd: spanOrd})
	return true
}

// SetAt replaces the value of the i-th entry. Used by the resolver for
// coercions before the document is finalized.
func (m *Map) SetAt(i int, v Value) {
	m.entries[i].Value = v
}

// Record is a map bound to a schema. Explicit counts the fields that were
// present in source; entries past that were filled from schema defaults by
// the resolver.
type Record struct {
	SchemaName string
	SchemaOrd  int // -1 until resolved
	Fields     *Map
	Explicit   int
}

// NewRecord creates an empty record for the named schema
func NewRecord(schemaName string) *Record {
	return &Record{SchemaName: schemaName, SchemaOrd: -1, Fields: NewMap()}
}

// Constructors

// Null returns the null value
func Null() Value { return Value{kind: KindNull, SpanOrd: -1} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b, SpanOrd: -1} }

// Int returns an integer value
func Int(i int64) Value { return Value{kind: KindInt, intVal: i, SpanOrd: -1} }

// Float returns a float value
func Float(f float64) Value { return Value{kind: KindFloat, floatVal: f, SpanOrd: -1} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, strVal: s, SpanOrd: -1} }

// Ref returns a reference value for the given dotted path
func Ref(path string) Value {
	return Value{kind: KindReference, ref: &Reference{Path: path, Ordinal: -1, Field: -1}, SpanOrd: -1}
}

// FromList wraps a List
func FromList(l *List) Value { return Value{kind: KindList, list: l, SpanOrd: -1} }

// FromMap wraps a Map
func FromMap(m *Map) Value { return Value{kind: KindMap, mapVal: m, SpanOrd: -1} }

// FromRecord wraps a Record
func FromRecord(r *Record) Value { return Value{kind: KindRecord, record: r, SpanOrd: -1} }

// Accessors

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; valid only for KindBool
func (v Value) Bool() bool { return v.boolVal }

// Int returns the integer payload; valid only for KindInt
func (v Value) Int() int64 { return v.intVal }

// Float returns the float payload; valid only for KindFloat
func (v Value) Float() float64 { return v.floatVal }

// Str returns the string payload; valid only for KindString
func (v Value) Str() string { return v.strVal }

// Ref returns the reference payload; valid only for KindReference
func (v Value) Ref() *Reference { return v.ref }

// List returns the list payload; valid only for KindList
func (v Value) List() *List { return v.list }

// Map returns the map payload; valid only for KindMap
func (v Value) Map() *Map { return v.mapVal }

// Record returns the record payload; valid only for KindRecord
func (v Value) Record() *Record { return v.record }

// WithSpan returns a copy of v carrying the given span ordinal
func (v Value) WithSpan(ord int) Value {
	v.SpanOrd = ord
	return v
}

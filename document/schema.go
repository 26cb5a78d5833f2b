package document

// TypeKind identifies a declared field type
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeFloat
	TypeString
	TypeBool
	TypeSchema // reference to another schema
)

// String returns the source spelling of the type
func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// PrimitiveType maps a source type name to its TypeKind. Names that are not
// primitives are schema references.
func PrimitiveType(name string) (TypeKind, bool) {
	switch name {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "string":
		return TypeString, true
	case "bool":
		return TypeBool, true
	}
	return 0, false
}

// FieldType is a declared field type: a primitive, or a reference to
// another schema by name (ordinal filled in by resolution).
type FieldType struct {
	Kind      TypeKind
	Schema    string // schema name when Kind == TypeSchema
	SchemaOrd int    // schema ordinal; -1 until resolved
}

// String returns the source spelling of the field type
func (t FieldType) String() string {
	if t.Kind == TypeSchema {
		return t.Schema
	}
	return t.Kind.String()
}

// Field is one field declaration of a schema
type Field struct {
	Name     string
	Type     FieldType
	Optional bool
	Default  *Value // nil when no default is declared
	SpanOrd  int
}

// Schema is a named record type: an ordered list of field declarations
// addressable by name.
type Schema struct {
	Name       string
	Fields     []*Field
	fieldIndex map[string]int
	SpanOrd    int
}

// NewSchema creates an empty schema
func NewSchema(name string, spanOrd int) *Schema {
	return &Schema{Name: name, fieldIndex: make(map[string]int), SpanOrd: spanOrd}
}

// AddField appends a field declaration. It reports false when the field
// name is already declared.
func (s *Schema) AddField(f *Field) bool {
	if _, dup := s.fieldIndex[f.Name]; dup {
		return false
	}
	s.fieldIndex[f.Name] = len(s.Fields)
	s.Fields = append(s.Fields, f)
	return true
}

// FieldNamed returns the field declaration and ordinal for name
func (s *Schema) FieldNamed(name string) (*Field, int, bool) {
	if i, ok := s.fieldIndex[name]; ok {
		return s.Fields[i], i, true
	}
	return nil, -1, false
}

// Alias is a named synonym for a scalar value or reference. Resolved holds
// the fully-substituted value after the resolver's alias pass.
type Alias struct {
	Name     string
	Value    Value
	Resolved Value
	SpanOrd  int
}

// RootItem is a top-level (key, value) pair
type RootItem struct {
	Key     string
	Value   Value
	SpanOrd int
}

// Import records an advisory %IMPORT directive. The engine performs no I/O;
// imports are carried through for tooling and flagged by the resolver.
type Import struct {
	Arg     string
	SpanOrd int
}

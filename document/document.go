// Package document holds the in-memory HEDL document model: schemas,
// aliases, root items, the Value sum type, and the read-only traversal
// surface consumed by renderers.
package document

import (
	"github.com/google/uuid"

	"github.com/hedl-lang/hedl/compiler/errors"
)

// Document is the root of the ownership tree. It is created by the parser,
// finalized by the resolver, and immutable afterwards. Schemas, aliases, and
// root items are insertion-ordered and addressable both by name and by
// ordinal; resolver-produced references store ordinals.
type Document struct {
	id    uuid.UUID
	major int
	minor int

	schemas     []*Schema
	schemaIndex map[string]int

	aliases    []*Alias
	aliasIndex map[string]int

	roots     []RootItem
	rootIndex map[string]int

	imports []Import

	spans []errors.Span
	diags errors.List

	resolved bool
}

// New creates an empty document
func New() *Document {
	return &Document{
		id:          uuid.New(),
		schemaIndex: make(map[string]int),
		aliasIndex:  make(map[string]int),
		rootIndex:   make(map[string]int),
	}
}

// ID returns the document's identity token, assigned at creation and stable
// for the document's lifetime.
func (d *Document) ID() uuid.UUID { return d.id }

// SetVersion records the %VERSION directive
func (d *Document) SetVersion(major, minor int) {
	d.major = major
	d.minor = minor
}

// Version returns the document format version
func (d *Document) Version() (major, minor int) { return d.major, d.minor }

// RecordSpan stores a span in the side table and returns its ordinal
func (d *Document) RecordSpan(span errors.Span) int {
	d.spans = append(d.spans, span)
	return len(d.spans) - 1
}

// SpanAt returns the span stored under ordinal ord. Out-of-range ordinals
// (including -1) return the zero span.
func (d *Document) SpanAt(ord int) errors.Span {
	if ord < 0 || ord >= len(d.spans) {
		return errors.Span{}
	}
	return d.spans[ord]
}

// AddSchema appends a schema definition. It reports false when the name is
// already taken by a schema or alias.
func (d *Document) AddSchema(s *Schema) bool {
	if d.nameTaken(s.Name) {
		return false
	}
	d.schemaIndex[s.Name] = len(d.schemas)
	d.schemas = append(d.schemas, s)
	return true
}

// AddAlias appends an alias definition. It reports false when the name is
// already taken by a schema or alias.
func (d *Document) AddAlias(a *Alias) bool {
	if d.nameTaken(a.Name) {
		return false
	}
	d.aliasIndex[a.Name] = len(d.aliases)
	d.aliases = append(d.aliases, a)
	return true
}

// AddRoot appends a root item. It reports false on a duplicate key.
func (d *Document) AddRoot(item RootItem) bool {
	if _, dup := d.rootIndex[item.Key]; dup {
		return false
	}
	d.rootIndex[item.Key] = len(d.roots)
	d.roots = append(d.roots, item)
	return true
}

// AddImport records an advisory %IMPORT directive
func (d *Document) AddImport(imp Import) {
	d.imports = append(d.imports, imp)
}

// nameTaken reports whether name is claimed in the shared schema/alias
// namespace. @name must resolve unambiguously, so the two tables share one
// namespace.
func (d *Document) nameTaken(name string) bool {
	if _, ok := d.schemaIndex[name]; ok {
		return true
	}
	_, ok := d.aliasIndex[name]
	return ok
}

// SchemaCount returns the number of schema definitions
func (d *Document) SchemaCount() int { return len(d.schemas) }

// AliasCount returns the number of aliases
func (d *Document) AliasCount() int { return len(d.aliases) }

// RootCount returns the number of root items
func (d *Document) RootCount() int { return len(d.roots) }

// SchemaAt returns the schema at ordinal i
func (d *Document) SchemaAt(i int) *Schema { return d.schemas[i] }

// AliasAt returns the alias at ordinal i
func (d *Document) AliasAt(i int) *Alias { return d.aliases[i] }

// RootAt returns the root item at ordinal i
func (d *Document) RootAt(i int) RootItem { return d.roots[i] }

// SchemaNamed returns the schema and ordinal for name
func (d *Document) SchemaNamed(name string) (*Schema, int, bool) {
	if i, ok := d.schemaIndex[name]; ok {
		return d.schemas[i], i, true
	}
	return nil, -1, false
}

// AliasNamed returns the alias and ordinal for name
func (d *Document) AliasNamed(name string) (*Alias, int, bool) {
	if i, ok := d.aliasIndex[name]; ok {
		return d.aliases[i], i, true
	}
	return nil, -1, false
}

// RootNamed returns the root item for key
func (d *Document) RootNamed(key string) (RootItem, bool) {
	if i, ok := d.rootIndex[key]; ok {
		return d.roots[i], true
	}
	return RootItem{}, false
}

// SetRootValue replaces the value of the root item at ordinal i. Used by
// the resolver for coercions before the document is finalized.
func (d *Document) SetRootValue(i int, v Value) {
	d.roots[i].Value = v
}

// Imports returns the advisory imports in declaration order
func (d *Document) Imports() []Import { return d.imports }

// Diagnostics returns the document's accumulated diagnostic buffer
func (d *Document) Diagnostics() *errors.List { return &d.diags }

// Finalize marks the document resolved. Mutation after finalization is a
// programming error; reads are safe from multiple goroutines.
func (d *Document) Finalize() { d.resolved = true }

// Resolved reports whether the resolver has finalized the document
func (d *Document) Resolved() bool { return d.resolved }

// Deref follows a resolved reference to its substituted value. Alias
// references yield the alias's resolved value; schema and field references
// have no value form and return false, as do unresolved references.
func (d *Document) Deref(ref *Reference) (Value, bool) {
	if ref == nil || ref.Target != TargetAlias || ref.Ordinal < 0 || ref.Ordinal >= len(d.aliases) {
		return Value{SpanOrd: -1}, false
	}
	return d.aliases[ref.Ordinal].Resolved, true
}

// Package resolver performs semantic resolution over a parsed document:
// declaration checking, alias substitution, reference validation, and
// record type checking.
package resolver

import (
	"strings"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/document"
)

// supportedMajor is the format major version this engine understands
const supportedMajor = 1

// supportedMinor is the newest minor version this engine knows about
const supportedMinor = 0

// Resolver finalizes a parsed document. In strict mode the first semantic
// violation stops resolution; in lenient mode every recoverable issue is
// recorded in the document's diagnostic buffer and resolution continues.
type Resolver struct {
	doc    *document.Document
	strict bool
	diags  []errors.Diagnostic
	failed bool
}

// New creates a Resolver for doc
func New(doc *document.Document, strict bool) *Resolver {
	return &Resolver{doc: doc, strict: strict}
}

// Resolve runs the declaration, alias, and reference passes in order and
// returns the diagnostics produced. On success (no strict-mode failure) the
// document is finalized and soft diagnostics are copied into its buffer.
func (r *Resolver) Resolve() []errors.Diagnostic {
	r.declarationPass()
	if r.failed {
		return r.diags
	}
	r.aliasPass()
	if r.failed {
		return r.diags
	}
	r.referencePass()
	if r.failed {
		return r.diags
	}

	r.doc.Diagnostics().AddAll(r.diags)
	r.doc.Finalize()
	return r.diags
}

// declarationPass validates the version, schema field types and defaults,
// and flags advisory imports. Name collisions are caught at insertion time
// by the parser.
func (r *Resolver) declarationPass() {
	major, minor := r.doc.Version()
	if major != supportedMajor {
		r.errorf(errors.CodeUnsupportedVersion, errors.Span{}, "Unsupported major version %d (supported: %d)", major, supportedMajor)
		if r.failed {
			return
		}
	} else if minor > supportedMinor {
		r.warnf(errors.CodeUnknownMinorVersion, errors.Span{}, "Unknown minor version %d.%d; continuing as %d.%d", major, minor, supportedMajor, supportedMinor)
	}

	for _, imp := range r.doc.Imports() {
		r.warnf(errors.CodeImportIgnored, r.doc.SpanAt(imp.SpanOrd), "%s", errors.Message(errors.CodeImportIgnored))
	}

	for i := 0; i < r.doc.SchemaCount() && !r.failed; i++ {
		schema := r.doc.SchemaAt(i)
		for _, field := range schema.Fields {
			if field.Type.Kind == document.TypeSchema {
				if _, ord, ok := r.doc.SchemaNamed(field.Type.Schema); ok {
					field.Type.SchemaOrd = ord
				} else {
					r.errorf(errors.CodeUnknownSchema, r.doc.SpanAt(field.SpanOrd),
						"Unknown schema %q in field %s.%s", field.Type.Schema, schema.Name, field.Name)
					if r.failed {
						return
					}
				}
			}
			if field.Default != nil {
				r.checkDefault(schema, field)
				if r.failed {
					return
				}
			}
		}
	}
}

// checkDefault validates a field's declared default against its type
func (r *Resolver) checkDefault(schema *document.Schema, field *document.Field) {
	def := *field.Default
	span := r.doc.SpanAt(field.SpanOrd)

	if def.Kind() == document.KindReference {
		r.errorf(errors.CodeReferenceDefault, span, "%s (field %s.%s)", errors.Message(errors.CodeReferenceDefault), schema.Name, field.Name)
		return
	}
	coerced, ok := coerce(field.Type, def)
	if !ok {
		r.errorf(errors.CodeDefaultTypeMismatch, span,
			"Default for %s.%s is %s, declared %s", schema.Name, field.Name, def.Kind(), field.Type)
		return
	}
	*field.Default = coerced
}

// aliasPass orders aliases by reference dependency, rejects cycles, and
// computes each alias's resolved value.
func (r *Resolver) aliasPass() {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // done
	)
	n := r.doc.AliasCount()
	color := make([]int, n)

	var visit func(i int, path []string) bool
	visit = func(i int, path []string) bool {
		alias := r.doc.AliasAt(i)
		switch color[i] {
		case black:
			return true
		case gray:
			cycle := append(path, alias.Name)
			r.hardErrorf(errors.CodeAliasCycle, r.doc.SpanAt(alias.SpanOrd),
				"Alias reference cycle: %s", strings.Join(cycle, " -> "))
			return false
		}
		color[i] = gray

		v := alias.Value
		if v.Kind() == document.KindReference {
			ref := v.Ref()
			head := ref.Path
			if dot := strings.IndexByte(head, '.'); dot >= 0 {
				head = head[:dot]
			}
			if target, ord, ok := r.doc.AliasNamed(head); ok {
				if !visit(ord, append(path, alias.Name)) {
					color[i] = black
					return false
				}
				ref.Target = document.TargetAlias
				ref.Ordinal = ord
				alias.Resolved = target.Resolved
			} else {
				if !r.resolveNonAliasRef(ref) {
					r.unresolved(ref, r.doc.SpanAt(alias.SpanOrd))
				}
				alias.Resolved = v
			}
		} else {
			alias.Resolved = v
		}

		color[i] = black
		return true
	}

	for i := 0; i < n; i++ {
		if !visit(i, nil) && r.failed {
			return
		}
	}
}

// referencePass resolves every reference and type-checks every record in
// the document body.
func (r *Resolver) referencePass() {
	for i := 0; i < r.doc.RootCount() && !r.failed; i++ {
		item := r.doc.RootAt(i)
		resolved := r.resolveValue(item.Value)
		r.doc.SetRootValue(i, resolved)
	}
}

// resolveValue resolves references and type-checks records inside v,
// returning the (possibly coerced) value.
func (r *Resolver) resolveValue(v document.Value) document.Value {
	if r.failed {
		return v
	}
	switch v.Kind() {
	case document.KindReference:
		r.resolveReference(v.Ref(), r.doc.SpanAt(v.SpanOrd))
	case document.KindList:
		list := v.List()
		for i := range list.Items {
			list.Items[i] = r.resolveValue(list.Items[i])
		}
		r.recheckMatrix(list, r.doc.SpanAt(v.SpanOrd))
	case document.KindMap:
		m := v.Map()
		for i := 0; i < m.Len(); i++ {
			m.SetAt(i, r.resolveValue(m.At(i).Value))
		}
	case document.KindRecord:
		r.resolveRecord(v.Record(), r.doc.SpanAt(v.SpanOrd))
	}
	return v
}

// resolveReference resolves a reference against the alias table, then the
// schema table, then dotted field paths.
func (r *Resolver) resolveReference(ref *document.Reference, span errors.Span) {
	if ref.Target != document.TargetUnresolved {
		return
	}
	if dot := strings.IndexByte(ref.Path, '.'); dot < 0 {
		if _, ord, ok := r.doc.AliasNamed(ref.Path); ok {
			ref.Target = document.TargetAlias
			ref.Ordinal = ord
			return
		}
	}
	if r.resolveNonAliasRef(ref) {
		return
	}
	r.unresolved(ref, span)
}

// resolveNonAliasRef tries the schema table and dotted field paths. It
// reports whether the reference was resolved.
func (r *Resolver) resolveNonAliasRef(ref *document.Reference) bool {
	head, rest, dotted := strings.Cut(ref.Path, ".")
	schema, ord, ok := r.doc.SchemaNamed(head)
	if !ok {
		return false
	}
	if !dotted {
		ref.Target = document.TargetSchema
		ref.Ordinal = ord
		return true
	}
	if strings.ContainsRune(rest, '.') {
		return false
	}
	if _, fieldOrd, ok := schema.FieldNamed(rest); ok {
		ref.Target = document.TargetField
		ref.Ordinal = ord
		ref.Field = fieldOrd
		return true
	}
	return false
}

func (r *Resolver) unresolved(ref *document.Reference, span errors.Span) {
	r.errorf(errors.CodeUnresolvedReference, span, "Unresolved reference @%s", ref.Path)
}

// resolveRecord binds a record to its schema and type-checks it
func (r *Resolver) resolveRecord(rec *document.Record, span errors.Span) {
	schema, ord, ok := r.doc.SchemaNamed(rec.SchemaName)
	if !ok {
		r.errorf(errors.CodeUnknownSchema, span, "Unknown schema %q", rec.SchemaName)
		return
	}
	rec.SchemaOrd = ord

	// Declared fields first: extra fields and type mismatches.
	for i := 0; i < rec.Fields.Len(); i++ {
		entry := rec.Fields.At(i)
		field, _, declared := schema.FieldNamed(entry.Key)
		if !declared {
			r.errorf(errors.CodeExtraField, r.doc.SpanAt(entry.SpanOrd),
				"Field %q is not declared in schema %s", entry.Key, rec.SchemaName)
			if r.failed {
				return
			}
			continue
		}
		value := r.resolveValue(entry.Value)
		if r.failed {
			return
		}
		checked, ok := r.checkFieldValue(field, value)
		if !ok {
			r.errorf(errors.CodeTypeMismatch, r.doc.SpanAt(value.SpanOrd),
				"Field %s.%s expects %s, found %s", rec.SchemaName, entry.Key, field.Type, describe(value))
			if r.failed {
				return
			}
		}
		rec.Fields.SetAt(i, checked)
	}

	// Then fill: missing required fields error; absent optional fields take
	// their default, or null.
	for _, field := range schema.Fields {
		if rec.Fields.Has(field.Name) {
			continue
		}
		if !field.Optional {
			r.errorf(errors.CodeMissingField, span,
				"Missing required field %s.%s", rec.SchemaName, field.Name)
			if r.failed {
				return
			}
			continue
		}
		fill := document.Null()
		if field.Default != nil {
			fill = *field.Default
		}
		rec.Fields.Append(field.Name, fill, -1)
	}
}

// checkFieldValue type-checks value against a field declaration, applying
// the permitted coercions. References are checked against the kind of the
// value they substitute.
func (r *Resolver) checkFieldValue(field *document.Field, value document.Value) (document.Value, bool) {
	if value.Kind() == document.KindReference {
		ref := value.Ref()
		if field.Type.Kind == document.TypeSchema {
			// Schema-typed fields take references as-is.
			return value, true
		}
		if ref.Target == document.TargetAlias {
			if substituted, ok := r.doc.Deref(ref); ok {
				_, compatible := coerce(field.Type, substituted)
				return value, compatible
			}
		}
		// Unresolved (lenient) or structural reference; leave it symbolic.
		return value, ref.Target == document.TargetUnresolved
	}
	if value.IsNull() && field.Optional {
		return value, true
	}
	return coerce(field.Type, value)
}

// coerce applies the declared-type coercion rules: integer literals widen
// to float fields; everything else must match exactly. There is no
// implicit stringification.
func coerce(decl document.FieldType, v document.Value) (document.Value, bool) {
	switch decl.Kind {
	case document.TypeInt:
		return v, v.Kind() == document.KindInt
	case document.TypeFloat:
		if v.Kind() == document.KindInt {
			return document.Float(float64(v.Int())).WithSpan(v.SpanOrd), true
		}
		return v, v.Kind() == document.KindFloat
	case document.TypeBool:
		return v, v.Kind() == document.KindBool
	case document.TypeString:
		return v, v.Kind() == document.KindString
	case document.TypeSchema:
		if v.Kind() == document.KindRecord {
			return v, v.Record().SchemaName == decl.Schema
		}
		return v, false
	}
	return v, false
}

func describe(v document.Value) string {
	return v.Kind().String()
}

// recheckMatrix re-runs the matrix classification after records were
// resolved and default-filled. Rows that differed only in absent optional
// fields become rectangular here and upgrade the list; a labeled matrix
// that lost rectangularity is an error.
func (r *Resolver) recheckMatrix(list *document.List, span errors.Span) {
	wasMatrix := list.Matrix

	rectangular := len(list.Items) > 0
	var layout []string
	for i, item := range list.Items {
		if item.Kind() != document.KindRecord {
			rectangular = false
			break
		}
		rec := item.Record()
		if i == 0 {
			layout = layoutOf(rec)
			continue
		}
		if rec.SchemaName != list.Items[0].Record().SchemaName || !equalLayout(layout, layoutOf(rec)) {
			rectangular = false
			break
		}
	}

	if rectangular {
		first := list.Items[0].Record()
		list.Matrix = true
		list.Schema = first.SchemaName
		list.SchemaOrd = first.SchemaOrd
		return
	}
	if wasMatrix {
		list.Matrix = false
		r.errorf(errors.CodeMatrixNotRectangular, span, "%s", errors.Message(errors.CodeMatrixNotRectangular))
	}
}

func layoutOf(rec *document.Record) []string {
	keys := make([]string, rec.Fields.Len())
	for i := range keys {
		keys[i] = rec.Fields.At(i).Key
	}
	return keys
}

func equalLayout(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// errorf records an error diagnostic. In strict mode it stops resolution.
func (r *Resolver) errorf(code string, span errors.Span, format string, args ...interface{}) {
	r.diags = append(r.diags, errors.Newf(errors.Error, code, span, format, args...))
	if r.strict {
		r.failed = true
	}
}

// hardErrorf records an error diagnostic and stops resolution in both
// modes. Alias cycles poison the document beyond partial resolution.
func (r *Resolver) hardErrorf(code string, span errors.Span, format string, args ...interface{}) {
	r.diags = append(r.diags, errors.Newf(errors.Error, code, span, format, args...))
	r.failed = true
}

// warnf records a warning diagnostic
func (r *Resolver) warnf(code string, span errors.Span, format string, args ...interface{}) {
	r.diags = append(r.diags, errors.Newf(errors.Warning, code, span, format, args...))
}

// Package lint produces advisory diagnostics over a resolved document. The
// linter never mutates the document; resolver issues recorded in lenient
// mode surface in its output alongside style findings.
package lint

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/document"
)

// maxMapDepth is the deepest map nesting the linter accepts silently
const maxMapDepth = 8

// Run lints doc and returns diagnostics ordered by span start
func Run(doc *document.Document) []errors.Diagnostic {
	l := &linter{doc: doc}
	l.out.AddAll(doc.Diagnostics().Sorted())

	l.collectUsage()
	l.checkUnusedAliases()
	l.checkUnusedSchemas()
	l.checkDuplicateAliasValues()
	l.checkIdentifiers()
	l.checkValues()

	return l.out.Sorted()
}

type linter struct {
	doc        *document.Document
	out        errors.List
	aliasUsed  []bool
	schemaUsed []bool
}

// collectUsage walks the document once and marks referenced aliases and
// schemas.
func (l *linter) collectUsage() {
	l.aliasUsed = make([]bool, l.doc.AliasCount())
	l.schemaUsed = make([]bool, l.doc.SchemaCount())

	// Schema-typed fields keep their target schema alive.
	for i := 0; i < l.doc.SchemaCount(); i++ {
		for _, f := range l.doc.SchemaAt(i).Fields {
			if f.Type.Kind == document.TypeSchema && f.Type.SchemaOrd >= 0 {
				l.schemaUsed[f.Type.SchemaOrd] = true
			}
		}
	}

	l.doc.WalkDocument(func(v document.Value) bool {
		switch v.Kind() {
		case document.KindReference:
			ref := v.Ref()
			switch ref.Target {
			case document.TargetAlias:
				if ref.Ordinal >= 0 && ref.Ordinal < len(l.aliasUsed) {
					l.aliasUsed[ref.Ordinal] = true
				}
			case document.TargetSchema, document.TargetField:
				if ref.Ordinal >= 0 && ref.Ordinal < len(l.schemaUsed) {
					l.schemaUsed[ref.Ordinal] = true
				}
			}
		case document.KindRecord:
			if ord := v.Record().SchemaOrd; ord >= 0 && ord < len(l.schemaUsed) {
				l.schemaUsed[ord] = true
			}
		}
		return true
	})
}

func (l *linter) checkUnusedAliases() {
	for i := 0; i < l.doc.AliasCount(); i++ {
		if l.aliasUsed[i] {
			continue
		}
		a := l.doc.AliasAt(i)
		l.out.Add(errors.Newf(errors.Warning, errors.CodeUnusedAlias,
			l.doc.SpanAt(a.SpanOrd), "Alias %q is never referenced", a.Name))
	}
}

func (l *linter) checkUnusedSchemas() {
	for i := 0; i < l.doc.SchemaCount(); i++ {
		if l.schemaUsed[i] {
			continue
		}
		s := l.doc.SchemaAt(i)
		l.out.Add(errors.Newf(errors.Hint, errors.CodeUnusedSchema,
			l.doc.SpanAt(s.SpanOrd), "Schema %q is never used", s.Name))
	}
}

// checkDuplicateAliasValues reports aliases whose resolved values are
// identical.
func (l *linter) checkDuplicateAliasValues() {
	byValue := make(map[string]string)
	for i := 0; i < l.doc.AliasCount(); i++ {
		a := l.doc.AliasAt(i)
		key := fingerprint(a.Resolved)
		if first, dup := byValue[key]; dup {
			l.out.Add(errors.Newf(errors.Hint, errors.CodeDuplicateAliasValue,
				l.doc.SpanAt(a.SpanOrd), "Alias %q duplicates the value of %q", a.Name, first))
			continue
		}
		byValue[key] = a.Name
	}
}

// checkIdentifiers flags non-ASCII schema, alias, field, and root names
func (l *linter) checkIdentifiers() {
	for i := 0; i < l.doc.SchemaCount(); i++ {
		s := l.doc.SchemaAt(i)
		l.checkASCII(s.Name, s.SpanOrd)
		for _, f := range s.Fields {
			l.checkASCII(f.Name, f.SpanOrd)
		}
	}
	for i := 0; i < l.doc.AliasCount(); i++ {
		a := l.doc.AliasAt(i)
		l.checkASCII(a.Name, a.SpanOrd)
	}
	for i := 0; i < l.doc.RootCount(); i++ {
		item := l.doc.RootAt(i)
		l.checkASCII(item.Key, item.SpanOrd)
	}
}

func (l *linter) checkASCII(name string, spanOrd int) {
	for _, r := range name {
		if r > unicode.MaxASCII {
			l.out.Add(errors.Newf(errors.Hint, errors.CodeNonASCIIIdentifier,
				l.doc.SpanAt(spanOrd), "Identifier %q contains non-ASCII characters", name))
			return
		}
	}
}

// checkValues runs the per-value checks: sparse records, matrix candidates,
// and deep map nesting.
func (l *linter) checkValues() {
	for i := 0; i < l.doc.RootCount(); i++ {
		l.checkValue(l.doc.RootAt(i).Value, 0)
	}
}

func (l *linter) checkValue(v document.Value, mapDepth int) {
	switch v.Kind() {
	case document.KindMap:
		if mapDepth+1 > maxMapDepth {
			l.out.Add(errors.Newf(errors.Warning, errors.CodeDeepNesting,
				l.doc.SpanAt(v.SpanOrd), "%s", errors.Message(errors.CodeDeepNesting)))
		}
		for _, e := range v.Map().Entries() {
			l.checkValue(e.Value, mapDepth+1)
		}
	case document.KindRecord:
		rec := v.Record()
		if rec.Explicit == 0 && rec.Fields.Len() > 0 {
			l.out.Add(errors.Newf(errors.Warning, errors.CodeAllOptionalAbsent,
				l.doc.SpanAt(v.SpanOrd), "Record %s supplies none of its fields", rec.SchemaName))
		}
		for _, e := range rec.Fields.Entries() {
			l.checkValue(e.Value, mapDepth)
		}
	case document.KindList:
		list := v.List()
		if !list.Matrix && isMatrixCandidate(list) {
			l.out.Add(errors.Newf(errors.Hint, errors.CodeMatrixCandidate,
				l.doc.SpanAt(v.SpanOrd), "%s", errors.Message(errors.CodeMatrixCandidate)))
		}
		for _, item := range list.Items {
			l.checkValue(item, mapDepth)
		}
	}
}

// isMatrixCandidate reports whether a flat list is a sequence of maps with
// one shared key layout, i.e. it could be rewritten as a matrix of records.
func isMatrixCandidate(list *document.List) bool {
	if len(list.Items) < 2 {
		return false
	}
	var layout []string
	for i, item := range list.Items {
		if item.Kind() != document.KindMap {
			return false
		}
		m := item.Map()
		if m.Len() == 0 {
			return false
		}
		keys := make([]string, m.Len())
		for j := range keys {
			keys[j] = m.At(j).Key
		}
		if i == 0 {
			layout = keys
			continue
		}
		if len(keys) != len(layout) {
			return false
		}
		for j := range keys {
			if keys[j] != layout[j] {
				return false
			}
		}
	}
	return true
}

// fingerprint renders a value into a comparison key for duplicate
// detection. References compare by path.
func fingerprint(v document.Value) string {
	var sb strings.Builder
	appendFingerprint(&sb, v)
	return sb.String()
}

func appendFingerprint(sb *strings.Builder, v document.Value) {
	switch v.Kind() {
	case document.KindNull:
		sb.WriteString("z")
	case document.KindBool:
		sb.WriteString("b:" + strconv.FormatBool(v.Bool()))
	case document.KindInt:
		sb.WriteString("i:" + strconv.FormatInt(v.Int(), 10))
	case document.KindFloat:
		sb.WriteString("f:" + strconv.FormatUint(math.Float64bits(v.Float()), 16))
	case document.KindString:
		sb.WriteString("s:" + strconv.Quote(v.Str()))
	case document.KindReference:
		sb.WriteString("r:" + v.Ref().Path)
	case document.KindList:
		sb.WriteString("l[")
		for _, item := range v.List().Items {
			appendFingerprint(sb, item)
			sb.WriteByte(',')
		}
		sb.WriteByte(']')
	case document.KindMap:
		sb.WriteString("m{")
		for _, e := range v.Map().Entries() {
			sb.WriteString(strconv.Quote(e.Key) + "=")
			appendFingerprint(sb, e.Value)
			sb.WriteByte(',')
		}
		sb.WriteByte('}')
	case document.KindRecord:
		rec := v.Record()
		sb.WriteString("rec:" + rec.SchemaName + "{")
		for _, e := range rec.Fields.Entries() {
			sb.WriteString(strconv.Quote(e.Key) + "=")
			appendFingerprint(sb, e.Value)
			sb.WriteByte(',')
		}
		sb.WriteByte('}')
	}
}

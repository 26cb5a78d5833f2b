// Package canonical emits the byte-deterministic textual form of a resolved
// document. Two observationally equivalent documents produce identical
// bytes.
package canonical

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/document"
)

// maxFlowColumns is the widest a flow-form value line may be before the
// emitter switches to block form.
const maxFlowColumns = 80

// indentUnit is the block-form indentation step
const indentUnit = "  "

// Canonicalize renders doc in canonical form
func Canonicalize(doc *document.Document) string {
	var sb strings.Builder
	p := &printer{doc: doc, out: &sb}
	p.emitDocument()
	return sb.String()
}

// Write renders doc in canonical form to w. Output is produced in chunks;
// chunk boundaries carry no semantic meaning.
func Write(doc *document.Document, w io.Writer) error {
	sw, ok := w.(writer)
	if !ok {
		sw = &errWriter{w: w}
	}
	p := &printer{doc: doc, out: sw}
	p.emitDocument()
	if ew, ok := sw.(*errWriter); ok {
		return ew.err
	}
	return nil
}

type writer interface {
	WriteString(s string) (int, error)
}

// errWriter adapts an io.Writer and latches the first error
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) WriteString(s string) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := io.WriteString(e.w, s)
	if err != nil {
		e.err = err
	}
	return n, err
}

type printer struct {
	doc *document.Document
	out writer
}

func (p *printer) write(s string) {
	p.out.WriteString(s)
}

func (p *printer) emitDocument() {
	major, minor := p.doc.Version()
	p.write("%VERSION: " + strconv.Itoa(major) + "." + strconv.Itoa(minor) + "\n")

	// Schemas in lexicographic name order. Field order inside a schema is
	// part of its identity and is preserved.
	schemas := make([]*document.Schema, p.doc.SchemaCount())
	for i := range schemas {
		schemas[i] = p.doc.SchemaAt(i)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	for _, s := range schemas {
		p.emitSchema(s)
	}

	// Aliases in lexicographic name order.
	aliases := make([]*document.Alias, p.doc.AliasCount())
	for i := range aliases {
		aliases[i] = p.doc.AliasAt(i)
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Name < aliases[j].Name })
	for _, a := range aliases {
		p.write("%ALIAS: " + a.Name + " = " + flowValue(a.Value) + "\n")
	}

	p.write("---\n")

	// Root items in original insertion order.
	for i := 0; i < p.doc.RootCount(); i++ {
		item := p.doc.RootAt(i)
		p.emitEntry(quoteKey(item.Key), item.Value, 0)
	}
}

func (p *printer) emitSchema(s *document.Schema) {
	decls := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		decls[i] = fieldDecl(f)
	}

	flow := "%SCHEMA: " + s.Name + " { " + strings.Join(decls, ", ") + " }"
	if len(s.Fields) == 0 {
		flow = "%SCHEMA: " + s.Name + " {}"
	}
	if len(flow) <= maxFlowColumns {
		p.write(flow + "\n")
		return
	}

	p.write("%SCHEMA: " + s.Name + " {\n")
	for _, decl := range decls {
		p.write(indentUnit + decl + "\n")
	}
	p.write("}\n")
}

func fieldDecl(f *document.Field) string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	if f.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(f.Type.String())
	if f.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(flowValue(*f.Default))
	}
	return sb.String()
}

// emitEntry emits `key: value` at the given depth, choosing flow form when
// the whole line fits in 80 columns and block form otherwise.
func (p *printer) emitEntry(key string, v document.Value, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	line := ind + key + ": " + flowValue(v)
	if len(line) <= maxFlowColumns || isScalar(v) {
		p.write(line + "\n")
		return
	}

	switch v.Kind() {
	case document.KindMap:
		p.write(ind + key + ":\n")
		for _, e := range v.Map().Entries() {
			p.emitEntry(quoteKey(e.Key), e.Value, depth+1)
		}
	case document.KindList:
		p.write(ind + key + ": ")
		p.emitListBlock(v.List(), depth)
	case document.KindRecord:
		p.write(ind + key + ": ")
		p.emitRecordBlock(v.Record(), depth)
	}
}

// emitListBlock writes a bracketed list one item per line, starting at the
// current position and closing at depth's indentation.
func (p *printer) emitListBlock(list *document.List, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	inner := ind + indentUnit
	p.write("[\n")
	for _, item := range list.Items {
		flow := flowValue(item)
		if len(inner)+len(flow) <= maxFlowColumns || isScalar(item) {
			p.write(inner + flow + "\n")
			continue
		}
		switch item.Kind() {
		case document.KindRecord:
			p.write(inner)
			p.emitRecordBlock(item.Record(), depth+1)
		case document.KindList:
			p.write(inner)
			p.emitListBlock(item.List(), depth+1)
		case document.KindMap:
			p.write(inner)
			p.emitMapBlock(item.Map(), depth+1)
		}
	}
	p.write(ind + "]\n")
}

// emitRecordBlock writes `Name {` then one field per line
func (p *printer) emitRecordBlock(rec *document.Record, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	inner := ind + indentUnit
	p.write(rec.SchemaName + " {\n")
	for _, e := range rec.Fields.Entries() {
		flow := flowValue(e.Value)
		if len(inner)+len(e.Key)+2+len(flow) <= maxFlowColumns || isScalar(e.Value) {
			p.write(inner + quoteKey(e.Key) + ": " + flow + "\n")
			continue
		}
		// Inside braces the indentation form is unavailable; stay braced.
		p.write(inner + quoteKey(e.Key) + ": ")
		switch e.Value.Kind() {
		case document.KindList:
			p.emitListBlock(e.Value.List(), depth+1)
		case document.KindRecord:
			p.emitRecordBlock(e.Value.Record(), depth+1)
		case document.KindMap:
			p.emitMapBlock(e.Value.Map(), depth+1)
		}
	}
	p.write(ind + "}\n")
}

// emitMapBlock writes a braced map one entry per line. Used for maps nested
// inside lists, records, or other braced maps, where the indentation form is
// unavailable.
func (p *printer) emitMapBlock(m *document.Map, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	inner := ind + indentUnit
	p.write("{\n")
	for _, e := range m.Entries() {
		flow := flowValue(e.Value)
		if len(inner)+len(e.Key)+2+len(flow) <= maxFlowColumns || isScalar(e.Value) {
			p.write(inner + quoteKey(e.Key) + ": " + flow + "\n")
			continue
		}
		p.write(inner + quoteKey(e.Key) + ": ")
		switch e.Value.Kind() {
		case document.KindList:
			p.emitListBlock(e.Value.List(), depth+1)
		case document.KindRecord:
			p.emitRecordBlock(e.Value.Record(), depth+1)
		case document.KindMap:
			p.emitMapBlock(e.Value.Map(), depth+1)
		}
	}
	p.write(ind + "}\n")
}

func isScalar(v document.Value) bool {
	switch v.Kind() {
	case document.KindList, document.KindMap, document.KindRecord:
		return false
	}
	return true
}

// flowValue renders v on a single line
func flowValue(v document.Value) string {
	switch v.Kind() {
	case document.KindNull:
		return "null"
	case document.KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case document.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case document.KindFloat:
		return formatFloat(v.Float())
	case document.KindString:
		return formatString(v.Str())
	case document.KindReference:
		return "@" + v.Ref().Path
	case document.KindList:
		items := make([]string, len(v.List().Items))
		for i, item := range v.List().Items {
			items[i] = flowValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case document.KindMap:
		entries := make([]string, v.Map().Len())
		for i, e := range v.Map().Entries() {
			entries[i] = quoteKey(e.Key) + ": " + flowValue(e.Value)
		}
		if len(entries) == 0 {
			return "{}"
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case document.KindRecord:
		rec := v.Record()
		entries := make([]string, rec.Fields.Len())
		for i, e := range rec.Fields.Entries() {
			entries[i] = quoteKey(e.Key) + ": " + flowValue(e.Value)
		}
		if len(entries) == 0 {
			return rec.SchemaName + " {}"
		}
		return rec.SchemaName + " { " + strings.Join(entries, ", ") + " }"
	}
	return "null"
}

// formatFloat renders the shortest decimal that round-trips to the same
// binary64 bit pattern. The result always contains a '.' or exponent, and
// negative zero normalizes to 0.0.
func formatFloat(f float64) string {
	if f == 0 && math.Signbit(f) {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatString renders s as a bareword when possible, otherwise quoted with
// the minimal escape set.
func formatString(s string) string {
	if isBareword(s) {
		return s
	}
	return quoteString(s)
}

// isBareword reports whether s survives a parse round-trip unquoted
func isBareword(s string) bool {
	if s == "" || s == "true" || s == "false" || s == "null" {
		return false
	}
	for i, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
			continue
		}
		if i > 0 && (c >= '0' && c <= '9' || c == '-') {
			continue
		}
		return false
	}
	return true
}

// quoteKey renders a map or root key, quoting it when it is not a bareword
func quoteKey(key string) string {
	if isBareword(key) {
		return key
	}
	return quoteString(key)
}

// quoteString escapes only backslash, quote, the named controls, and other
// bytes below 0x20. Non-ASCII UTF-8 passes through unchanged.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				const hex = "0123456789abcdef"
				sb.WriteString(`\u00`)
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

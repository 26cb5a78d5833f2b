// Package xmlout renders a resolved document as XML. Root items become
// entry elements; structure maps onto nested list/map/record elements so
// arbitrary keys survive without name mangling. The document is consumed
// through the traversal visitor only.
package xmlout

import (
	"io"
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/document"
)

// Emit renders doc as XML
func Emit(doc *document.Document) (string, error) {
	var sb strings.Builder
	if err := Write(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write streams doc as XML to w
func Write(doc *document.Document, w io.Writer) error {
	e := &emitter{doc: doc, w: w}
	e.document()
	return e.err
}

type emitter struct {
	doc    *document.Document
	w      io.Writer
	indent int
	err    error
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *emitter) line(s string) {
	e.write(strings.Repeat("  ", e.indent) + s + "\n")
}

func (e *emitter) document() {
	major, minor := e.doc.Version()
	e.write("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	e.line(`<document version="` + strconv.Itoa(major) + "." + strconv.Itoa(minor) + `">`)
	e.indent++
	for i := 0; i < e.doc.RootCount(); i++ {
		item := e.doc.RootAt(i)
		e.emitNamed("entry", item.Key, item.Value)
	}
	e.indent--
	e.line("</document>")
}

// emitNamed emits one element with a name attribute holding value. Scalars
// collapse onto a single line; composites dispatch back into the emitter.
func (e *emitter) emitNamed(tag, name string, v document.Value) {
	open := "<" + tag + ` name="` + escapeAttr(name) + `"`
	probe := e.probe(v)
	if probe.scalar {
		e.line(open + ">" + probe.text + "</" + tag + ">")
		return
	}
	e.line(open + ">")
	e.indent++
	v.Visit(e)
	e.indent--
	e.line("</" + tag + ">")
}

// probe renders v's scalar text, following alias references. For
// composites it reports scalar == false and the emitter visits instead.
func (e *emitter) probe(v document.Value) *scalarProbe {
	p := &scalarProbe{doc: e.doc, scalar: true}
	v.Visit(p)
	return p
}

// Visitor callbacks: composites write element blocks. The scalar callbacks
// fire only when a scalar is dispatched directly and emit a bare text line.

func (e *emitter) VisitNull()           { e.line("") }
func (e *emitter) VisitBool(b bool)     { e.line(strconv.FormatBool(b)) }
func (e *emitter) VisitInt(i int64)     { e.line(strconv.FormatInt(i, 10)) }
func (e *emitter) VisitFloat(f float64) { e.line(strconv.FormatFloat(f, 'g', -1, 64)) }
func (e *emitter) VisitString(s string) { e.line(escapeText(s)) }

func (e *emitter) VisitReference(ref *document.Reference) {
	e.line(escapeText("@" + ref.Path))
}

func (e *emitter) VisitList(l *document.List) {
	open := "<list"
	if l.Matrix {
		open += ` matrix="true" schema="` + escapeAttr(l.Schema) + `"`
	}
	e.line(open + ">")
	e.indent++
	for _, item := range l.Items {
		probe := e.probe(item)
		if probe.scalar {
			e.line("<item>" + probe.text + "</item>")
			continue
		}
		e.line("<item>")
		e.indent++
		item.Visit(e)
		e.indent--
		e.line("</item>")
	}
	e.indent--
	e.line("</list>")
}

func (e *emitter) VisitMap(m *document.Map) {
	e.line("<map>")
	e.indent++
	for _, entry := range m.Entries() {
		e.emitNamed("entry", entry.Key, entry.Value)
	}
	e.indent--
	e.line("</map>")
}

func (e *emitter) VisitRecord(rec *document.Record) {
	e.line(`<record schema="` + escapeAttr(rec.SchemaName) + `">`)
	e.indent++
	for _, entry := range rec.Fields.Entries() {
		e.emitNamed("field", entry.Key, entry.Value)
	}
	e.indent--
	e.line("</record>")
}

// scalarProbe renders the escaped element text of a scalar value. Alias
// references substitute their resolved value; structural and unresolved
// references keep their @ form. Composites clear the scalar flag.
type scalarProbe struct {
	doc    *document.Document
	text   string
	scalar bool
}

func (p *scalarProbe) VisitNull()           { p.text = "" }
func (p *scalarProbe) VisitBool(b bool)     { p.text = strconv.FormatBool(b) }
func (p *scalarProbe) VisitInt(i int64)     { p.text = strconv.FormatInt(i, 10) }
func (p *scalarProbe) VisitFloat(f float64) { p.text = strconv.FormatFloat(f, 'g', -1, 64) }
func (p *scalarProbe) VisitString(s string) { p.text = escapeText(s) }

func (p *scalarProbe) VisitReference(ref *document.Reference) {
	if resolved, ok := p.doc.Deref(ref); ok {
		resolved.Visit(p)
		return
	}
	p.text = escapeText("@" + ref.Path)
}

func (p *scalarProbe) VisitList(*document.List)     { p.scalar = false }
func (p *scalarProbe) VisitMap(*document.Map)       { p.scalar = false }
func (p *scalarProbe) VisitRecord(*document.Record) { p.scalar = false }

func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func escapeAttr(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Package jsonout renders a resolved document as insertion-ordered JSON.
// It consumes the document exclusively through the traversal surface.
package jsonout

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/document"
)

// Emit renders doc as JSON. With metadata enabled the object carries a
// __version__ key and each record carries __schema__.
func Emit(doc *document.Document, includeMetadata bool) (string, error) {
	var sb strings.Builder
	if err := Write(doc, includeMetadata, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write streams doc as JSON to w
func Write(doc *document.Document, includeMetadata bool, w io.Writer) error {
	e := &emitter{doc: doc, w: w, metadata: includeMetadata}
	e.document()
	return e.err
}

type emitter struct {
	doc      *document.Document
	w        io.Writer
	metadata bool
	err      error
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *emitter) document() {
	e.write("{")
	first := true
	if e.metadata {
		major, minor := e.doc.Version()
		e.write(`"__version__":` + quote(strconv.Itoa(major)+"."+strconv.Itoa(minor)))
		first = false
	}
	for i := 0; i < e.doc.RootCount(); i++ {
		item := e.doc.RootAt(i)
		if !first {
			e.write(",")
		}
		first = false
		e.write(quote(item.Key) + ":")
		item.Value.Visit(e)
	}
	e.write("}")
}

// Visitor callbacks

func (e *emitter) VisitNull()       { e.write("null") }
func (e *emitter) VisitBool(b bool) { e.write(strconv.FormatBool(b)) }
func (e *emitter) VisitInt(i int64) { e.write(strconv.FormatInt(i, 10)) }
func (e *emitter) VisitFloat(f float64) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	e.write(s)
}
func (e *emitter) VisitString(s string) { e.write(quote(s)) }

func (e *emitter) VisitReference(ref *document.Reference) {
	if resolved, ok := e.doc.Deref(ref); ok {
		resolved.Visit(e)
		return
	}
	// Structural and unresolved references keep their textual form.
	e.write(quote("@" + ref.Path))
}

func (e *emitter) VisitList(l *document.List) {
	e.write("[")
	for i, item := range l.Items {
		if i > 0 {
			e.write(",")
		}
		item.Visit(e)
	}
	e.write("]")
}

func (e *emitter) VisitMap(m *document.Map) {
	e.write("{")
	for i, entry := range m.Entries() {
		if i > 0 {
			e.write(",")
		}
		e.write(quote(entry.Key) + ":")
		entry.Value.Visit(e)
	}
	e.write("}")
}

func (e *emitter) VisitRecord(r *document.Record) {
	e.write("{")
	first := true
	if e.metadata {
		e.write(`"__schema__":` + quote(r.SchemaName))
		first = false
	}
	for _, entry := range r.Fields.Entries() {
		if !first {
			e.write(",")
		}
		first = false
		e.write(quote(entry.Key) + ":")
		entry.Value.Visit(e)
	}
	e.write("}")
}

func quote(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}

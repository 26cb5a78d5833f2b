// Package cypherout renders a resolved document as Cypher statements for a
// graph database: one node per record reached from a root value through
// lists and maps, one relationship per schema-typed reference field.
// Records held in another record's fields get no node of their own. The
// document is consumed through the traversal visitor only.
package cypherout

import (
	"io"
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/document"
)

// Emit renders doc as Cypher. With useMerge the statements are idempotent
// MERGE clauses; otherwise CREATE.
func Emit(doc *document.Document, useMerge bool) (string, error) {
	var sb strings.Builder
	if err := Write(doc, useMerge, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write streams doc as Cypher to w
func Write(doc *document.Document, useMerge bool, w io.Writer) error {
	e := &emitter{doc: doc, w: w, verb: "CREATE"}
	if useMerge {
		e.verb = "MERGE"
	}
	for i := 0; i < doc.RootCount(); i++ {
		item := doc.RootAt(i)
		item.Value.Visit(&walker{e: e, key: item.Key})
	}
	return e.err
}

type emitter struct {
	doc  *document.Document
	w    io.Writer
	verb string
	seq  int
	err  error
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// walker descends a root value and emits a node for every record it
// finds, deriving stable node keys from the path taken.
type walker struct {
	e   *emitter
	key string
}

func (w *walker) VisitNull()                         {}
func (w *walker) VisitBool(bool)                     {}
func (w *walker) VisitInt(int64)                     {}
func (w *walker) VisitFloat(float64)                 {}
func (w *walker) VisitString(string)                 {}
func (w *walker) VisitReference(*document.Reference) {}

func (w *walker) VisitList(l *document.List) {
	for i, item := range l.Items {
		item.Visit(&walker{e: w.e, key: w.key + "_" + strconv.Itoa(i)})
	}
}

func (w *walker) VisitMap(m *document.Map) {
	for _, entry := range m.Entries() {
		entry.Value.Visit(&walker{e: w.e, key: w.key + "_" + entry.Key})
	}
}

func (w *walker) VisitRecord(rec *document.Record) {
	w.e.emitRecord(w.key, rec)
}

// emitRecord emits one node statement plus relationship statements for its
// schema-typed reference fields.
func (e *emitter) emitRecord(id string, rec *document.Record) {
	e.seq++
	node := "n" + strconv.Itoa(e.seq)

	props := []string{"_key: " + quote(id)}
	var rels []string

	for _, entry := range rec.Fields.Entries() {
		pv := &propVisitor{doc: e.doc}
		entry.Value.Visit(pv)
		switch {
		case pv.relTarget != "":
			rels = append(rels, e.verb+" ("+node+")-[:"+relName(entry.Key)+"]->(:"+labelName(pv.relTarget)+")")
		case pv.ok:
			props = append(props, propName(entry.Key)+": "+pv.text)
		}
	}

	e.write(e.verb + " (" + node + ":" + labelName(rec.SchemaName) + " {" + strings.Join(props, ", ") + "})\n")
	for _, rel := range rels {
		e.write(rel + "\n")
	}
}

// propVisitor renders a field value as a Cypher property literal. Schema
// and field references become relationships instead; composite values are
// skipped, since graphs model them as their own nodes or not at all.
type propVisitor struct {
	doc       *document.Document
	text      string
	ok        bool
	relTarget string
}

func (p *propVisitor) VisitNull()           { p.text, p.ok = "null", true }
func (p *propVisitor) VisitBool(b bool)     { p.text, p.ok = strconv.FormatBool(b), true }
func (p *propVisitor) VisitInt(i int64)     { p.text, p.ok = strconv.FormatInt(i, 10), true }
func (p *propVisitor) VisitFloat(f float64) { p.text, p.ok = strconv.FormatFloat(f, 'g', -1, 64), true }
func (p *propVisitor) VisitString(s string) { p.text, p.ok = quote(s), true }

func (p *propVisitor) VisitReference(ref *document.Reference) {
	switch ref.Target {
	case document.TargetAlias:
		if resolved, ok := p.doc.Deref(ref); ok {
			resolved.Visit(p)
			return
		}
	case document.TargetSchema, document.TargetField:
		p.relTarget = p.doc.SchemaAt(ref.Ordinal).Name
		return
	}
	p.text, p.ok = quote("@"+ref.Path), true
}

func (p *propVisitor) VisitList(*document.List)     {}
func (p *propVisitor) VisitMap(*document.Map)       {}
func (p *propVisitor) VisitRecord(*document.Record) {}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// labelName sanitizes a schema name into a Cypher label
func labelName(name string) string {
	return sanitize(name)
}

// relName renders a field name as an upper-case relationship type
func relName(name string) string {
	return strings.ToUpper(sanitize(name))
}

// propName sanitizes a field name into a property identifier
func propName(name string) string {
	return sanitize(name)
}

func sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

// Package csvout renders the first root-level matrix list of a resolved
// document as CSV. Documents without a root-level matrix list are refused;
// matrix lists nested inside maps or records are not searched. Like every
// renderer, it
// consumes the document through the traversal visitor only.
package csvout

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/document"
)

// ErrNoMatrix is returned for documents without a matrix list
var ErrNoMatrix = errors.New("document has no matrix list")

// Emit renders the first root-level matrix list as CSV: one header row from
// the schema's field order, then one data row per record.
func Emit(doc *document.Document) (string, error) {
	var sb strings.Builder
	if err := Write(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write streams the first root-level matrix list as CSV to w
func Write(doc *document.Document, w io.Writer) error {
	finder := &matrixFinder{}
	for i := 0; i < doc.RootCount() && finder.list == nil; i++ {
		doc.RootAt(i).Value.Visit(finder)
	}
	if finder.list == nil {
		return ErrNoMatrix
	}
	list := finder.list

	cw := csv.NewWriter(w)
	header := headerRow(list)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range list.Items {
		rows := &rowCollector{}
		item.Visit(rows)
		if rows.rec == nil {
			continue
		}
		row := make([]string, len(header))
		for i, name := range header {
			if v, ok := rows.rec.Fields.Get(name); ok {
				row[i] = cellText(doc, v)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// matrixFinder captures the first matrix list it is dispatched
type matrixFinder struct {
	list *document.List
}

func (f *matrixFinder) VisitNull()                         {}
func (f *matrixFinder) VisitBool(bool)                     {}
func (f *matrixFinder) VisitInt(int64)                     {}
func (f *matrixFinder) VisitFloat(float64)                 {}
func (f *matrixFinder) VisitString(string)                 {}
func (f *matrixFinder) VisitReference(*document.Reference) {}
func (f *matrixFinder) VisitMap(*document.Map)             {}
func (f *matrixFinder) VisitRecord(*document.Record)       {}
func (f *matrixFinder) VisitList(l *document.List) {
	if f.list == nil && l.Matrix {
		f.list = l
	}
}

// rowCollector captures the record behind one matrix row
type rowCollector struct {
	rec *document.Record
}

func (r *rowCollector) VisitNull()                         {}
func (r *rowCollector) VisitBool(bool)                     {}
func (r *rowCollector) VisitInt(int64)                     {}
func (r *rowCollector) VisitFloat(float64)                 {}
func (r *rowCollector) VisitString(string)                 {}
func (r *rowCollector) VisitReference(*document.Reference) {}
func (r *rowCollector) VisitList(*document.List)           {}
func (r *rowCollector) VisitMap(*document.Map)             {}
func (r *rowCollector) VisitRecord(rec *document.Record)   { r.rec = rec }

func headerRow(list *document.List) []string {
	head := &rowCollector{}
	list.Items[0].Visit(head)
	header := make([]string, head.rec.Fields.Len())
	for i := range header {
		header[i] = head.rec.Fields.At(i).Key
	}
	return header
}

// cellText renders one cell through a visitor. Alias references substitute
// their resolved value; nested lists flatten with ';'.
func cellText(doc *document.Document, v document.Value) string {
	cw := &cellWriter{doc: doc}
	v.Visit(cw)
	return cw.sb.String()
}

// cellWriter renders scalars into cell text. Maps and records have no cell
// form and render empty; matrix cells are scalars by construction.
type cellWriter struct {
	doc *document.Document
	sb  strings.Builder
}

func (c *cellWriter) VisitNull()                   {}
func (c *cellWriter) VisitBool(b bool)             { c.sb.WriteString(strconv.FormatBool(b)) }
func (c *cellWriter) VisitInt(i int64)             { c.sb.WriteString(strconv.FormatInt(i, 10)) }
func (c *cellWriter) VisitFloat(f float64)         { c.sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64)) }
func (c *cellWriter) VisitString(s string)         { c.sb.WriteString(s) }
func (c *cellWriter) VisitMap(*document.Map)       {}
func (c *cellWriter) VisitRecord(*document.Record) {}

func (c *cellWriter) VisitReference(ref *document.Reference) {
	if resolved, ok := c.doc.Deref(ref); ok {
		resolved.Visit(c)
		return
	}
	c.sb.WriteString("@" + ref.Path)
}

func (c *cellWriter) VisitList(l *document.List) {
	for i, item := range l.Items {
		if i > 0 {
			c.sb.WriteByte(';')
		}
		item.Visit(c)
	}
}

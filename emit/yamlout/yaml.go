// Package yamlout renders a resolved document as YAML with insertion order
// preserved.
package yamlout

import (
	"io"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/hedl-lang/hedl/document"
)

// Emit renders doc as YAML
func Emit(doc *document.Document, includeMetadata bool) (string, error) {
	tree := build(doc, includeMetadata)
	data, err := yaml.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write streams doc as YAML to w
func Write(doc *document.Document, includeMetadata bool, w io.Writer) error {
	out, err := Emit(doc, includeMetadata)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// build converts the document into an ordered yaml.MapSlice tree
func build(doc *document.Document, includeMetadata bool) yaml.MapSlice {
	root := yaml.MapSlice{}
	if includeMetadata {
		major, minor := doc.Version()
		root = append(root, yaml.MapItem{
			Key:   "__version__",
			Value: strconv.Itoa(major) + "." + strconv.Itoa(minor),
		})
	}
	for i := 0; i < doc.RootCount(); i++ {
		item := doc.RootAt(i)
		root = append(root, yaml.MapItem{Key: item.Key, Value: convert(doc, item.Value, includeMetadata)})
	}
	return root
}

type converter struct {
	doc      *document.Document
	metadata bool
	result   interface{}
}

func convert(doc *document.Document, v document.Value, metadata bool) interface{} {
	c := &converter{doc: doc, metadata: metadata}
	v.Visit(c)
	return c.result
}

func (c *converter) VisitNull()           { c.result = nil }
func (c *converter) VisitBool(b bool)     { c.result = b }
func (c *converter) VisitInt(i int64)     { c.result = i }
func (c *converter) VisitFloat(f float64) { c.result = f }
func (c *converter) VisitString(s string) { c.result = s }

func (c *converter) VisitReference(ref *document.Reference) {
	if resolved, ok := c.doc.Deref(ref); ok {
		c.result = convert(c.doc, resolved, c.metadata)
		return
	}
	c.result = "@" + ref.Path
}

func (c *converter) VisitList(l *document.List) {
	items := make([]interface{}, len(l.Items))
	for i, item := range l.Items {
		items[i] = convert(c.doc, item, c.metadata)
	}
	c.result = items
}

func (c *converter) VisitMap(m *document.Map) {
	out := yaml.MapSlice{}
	for _, e := range m.Entries() {
		out = append(out, yaml.MapItem{Key: e.Key, Value: convert(c.doc, e.Value, c.metadata)})
	}
	c.result = out
}

func (c *converter) VisitRecord(r *document.Record) {
	out := yaml.MapSlice{}
	if c.metadata {
		out = append(out, yaml.MapItem{Key: "__schema__", Value: r.SchemaName})
	}
	for _, e := range r.Fields.Entries() {
		out = append(out, yaml.MapItem{Key: e.Key, Value: convert(c.doc, e.Value, c.metadata)})
	}
	c.result = out
}

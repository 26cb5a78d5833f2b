package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/compiler/errors"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	require.True(t, m.Append("zeta", Int(1), -1))
	require.True(t, m.Append("alpha", Int(2), -1))
	require.True(t, m.Append("mid", Int(3), -1))

	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	v, ok := m.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int())
}

func TestMapRejectsDuplicates(t *testing.T) {
	m := NewMap()
	require.True(t, m.Append("k", Int(1), -1))
	assert.False(t, m.Append("k", Int(2), -1))
	v, _ := m.Get("k")
	assert.Equal(t, int64(1), v.Int())
}

func TestSharedSchemaAliasNamespace(t *testing.T) {
	doc := New()
	require.True(t, doc.AddAlias(&Alias{Name: "x", Value: Int(1), SpanOrd: -1}))
	assert.False(t, doc.AddSchema(NewSchema("x", -1)), "schema may not shadow an alias")
	assert.False(t, doc.AddAlias(&Alias{Name: "x", Value: Int(2), SpanOrd: -1}))
	require.True(t, doc.AddSchema(NewSchema("y", -1)))
	assert.False(t, doc.AddAlias(&Alias{Name: "y", Value: Int(1), SpanOrd: -1}))
}

func TestOrdinalAndNameAccess(t *testing.T) {
	doc := New()
	require.True(t, doc.AddSchema(NewSchema("A", -1)))
	require.True(t, doc.AddSchema(NewSchema("B", -1)))

	b, ord, ok := doc.SchemaNamed("B")
	require.True(t, ok)
	assert.Equal(t, 1, ord)
	assert.Same(t, b, doc.SchemaAt(1))
}

func TestSpanTable(t *testing.T) {
	doc := New()
	ord := doc.RecordSpan(errors.Span{Start: 3, End: 8, Line: 1, Column: 4})
	span := doc.SpanAt(ord)
	assert.Equal(t, 3, span.Start)
	assert.Equal(t, 8, span.End)
	assert.Equal(t, errors.Span{}, doc.SpanAt(-1))
	assert.Equal(t, errors.Span{}, doc.SpanAt(99))
}

func TestVisitorDispatch(t *testing.T) {
	values := []Value{
		Null(), Bool(true), Int(7), Float(2.5), String("s"), Ref("a"),
		FromList(&List{Items: []Value{Int(1)}}),
		FromMap(NewMap()),
		FromRecord(NewRecord("S")),
	}
	want := []string{"null", "bool", "int", "float", "string", "reference", "list", "map", "record"}

	for i, v := range values {
		var got string
		v.Visit(&kindRecorder{out: &got})
		assert.Equal(t, want[i], got)
	}
}

type kindRecorder struct{ out *string }

func (r *kindRecorder) VisitNull()                { *r.out = "null" }
func (r *kindRecorder) VisitBool(bool)            { *r.out = "bool" }
func (r *kindRecorder) VisitInt(int64)            { *r.out = "int" }
func (r *kindRecorder) VisitFloat(float64)        { *r.out = "float" }
func (r *kindRecorder) VisitString(string)        { *r.out = "string" }
func (r *kindRecorder) VisitReference(*Reference) { *r.out = "reference" }
func (r *kindRecorder) VisitList(*List)           { *r.out = "list" }
func (r *kindRecorder) VisitMap(*Map)             { *r.out = "map" }
func (r *kindRecorder) VisitRecord(*Record)       { *r.out = "record" }

func TestWalkCoversNestedValues(t *testing.T) {
	inner := NewMap()
	inner.Append("deep", Int(1), -1)
	outer := NewMap()
	outer.Append("m", FromMap(inner), -1)
	outer.Append("xs", FromList(&List{Items: []Value{Int(2), Int(3)}}), -1)

	var ints []int64
	Walk(FromMap(outer), func(v Value) bool {
		if v.Kind() == KindInt {
			ints = append(ints, v.Int())
		}
		return true
	})
	assert.Equal(t, []int64{1, 2, 3}, ints)
}

func TestWalkEarlyExit(t *testing.T) {
	list := &List{Items: []Value{Int(1), Int(2), Int(3)}}
	var seen int
	Walk(FromList(list), func(v Value) bool {
		if v.Kind() == KindInt {
			seen++
			return seen < 2
		}
		return true
	})
	assert.Equal(t, 2, seen)
}

func TestDerefOnlyFollowsAliases(t *testing.T) {
	doc := New()
	require.True(t, doc.AddAlias(&Alias{Name: "a", Value: Int(1), Resolved: Int(1), SpanOrd: -1}))

	ref := &Reference{Path: "a", Target: TargetAlias, Ordinal: 0, Field: -1}
	v, ok := doc.Deref(ref)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())

	_, ok = doc.Deref(&Reference{Path: "a", Target: TargetUnresolved, Ordinal: -1, Field: -1})
	assert.False(t, ok)
	_, ok = doc.Deref(nil)
	assert.False(t, ok)
}

func TestDocumentIDStable(t *testing.T) {
	doc := New()
	assert.Equal(t, doc.ID(), doc.ID())
	assert.NotEqual(t, doc.ID(), New().ID())
}

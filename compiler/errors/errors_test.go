package errors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityValues(t *testing.T) {
	// The numeric severity values are part of the external contract.
	assert.Equal(t, 0, int(Hint))
	assert.Equal(t, 1, int(Warning))
	assert.Equal(t, 2, int(Error))
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{Hint, Warning, Error} {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		var back Severity
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := Newf(Error, CodeUnresolvedReference, Span{Start: 10, End: 18, Line: 3, Column: 6}, "Unresolved reference @%s", "missing")
	assert.Equal(t, "3:6: E0044: Unresolved reference @missing", d.Error())
	assert.True(t, d.IsError())
}

func TestDefaultMessages(t *testing.T) {
	d := New(Warning, CodeUnusedAlias, Span{})
	assert.Equal(t, Message(CodeUnusedAlias), d.Message)
	assert.Equal(t, "Unknown diagnostic", Message("E9999"))
}

func TestListDeduplicates(t *testing.T) {
	var l List
	span := Span{Start: 5, End: 9}
	l.Add(New(Error, CodeDuplicateKey, span))
	l.Add(New(Error, CodeDuplicateKey, span))
	l.Add(New(Error, CodeDuplicateKey, Span{Start: 20}))
	assert.Equal(t, 2, l.Len())
}

func TestListSortedBySpanStart(t *testing.T) {
	var l List
	l.Add(New(Warning, CodeUnusedAlias, Span{Start: 30}))
	l.Add(New(Error, CodeDuplicateKey, Span{Start: 5}))
	l.Add(New(Hint, CodeUnusedSchema, Span{Start: 12}))

	sorted := l.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, 5, sorted[0].Span.Start)
	assert.Equal(t, 12, sorted[1].Span.Start)
	assert.Equal(t, 30, sorted[2].Span.Start)
}

func TestFirstError(t *testing.T) {
	var l List
	l.Add(New(Warning, CodeUnusedAlias, Span{Start: 1}))
	l.Add(New(Error, CodeDuplicateKey, Span{Start: 50}))
	l.Add(New(Error, CodeAliasCycle, Span{Start: 8}))

	first, found := l.FirstError()
	require.True(t, found)
	assert.Equal(t, CodeAliasCycle, first.Code)
	assert.True(t, l.HasErrors())
}

func TestPhaseFor(t *testing.T) {
	assert.Equal(t, "lexer", PhaseFor(CodeUnterminatedString))
	assert.Equal(t, "parser", PhaseFor(CodeMissingVersion))
	assert.Equal(t, "resolver", PhaseFor(CodeAliasCycle))
	assert.Equal(t, "lint", PhaseFor(CodeUnusedAlias))
	assert.Equal(t, "lint", PhaseFor(CodeUnusedSchema))
}

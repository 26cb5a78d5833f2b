package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/engine"
	"github.com/hedl-lang/hedl/lint"
)

// run parses src leniently and lints it
func run(t *testing.T, src string) []errors.Diagnostic {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), false)
	require.NoError(t, err)
	return lint.Run(doc)
}

func find(diags []errors.Diagnostic, code string) (errors.Diagnostic, bool) {
	for _, d := range diags {
		if d.Code == code {
			return d, true
		}
	}
	return errors.Diagnostic{}, false
}

func TestCleanDocument(t *testing.T) {
	diags := run(t, `%VERSION: 1.0
%SCHEMA: P { x: int }
%ALIAS: one = 1
---
p: P { x: @one }
`)
	assert.Empty(t, diags)
}

func TestUnusedAlias(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n%ALIAS: unused = 1\n---\nk: 1\n")
	d, ok := find(diags, errors.CodeUnusedAlias)
	require.True(t, ok)
	assert.Equal(t, errors.Warning, d.Severity)
	assert.Contains(t, d.Message, "unused")
}

func TestUnusedSchema(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n%SCHEMA: Orphan { a: int }\n---\nk: 1\n")
	d, ok := find(diags, errors.CodeUnusedSchema)
	require.True(t, ok)
	assert.Equal(t, errors.Hint, d.Severity)
}

func TestSchemaUsedViaFieldType(t *testing.T) {
	diags := run(t, `%VERSION: 1.0
%SCHEMA: Inner { a: int }
%SCHEMA: Outer { in: Inner }
---
o: Outer { in: @Inner }
`)
	_, unused := find(diags, errors.CodeUnusedSchema)
	assert.False(t, unused, "Inner is referenced by a field type")
}

func TestDuplicateAliasValues(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n%ALIAS: a = same\n%ALIAS: b = same\n---\nx: @a\ny: @b\n")
	d, ok := find(diags, errors.CodeDuplicateAliasValue)
	require.True(t, ok)
	assert.Equal(t, errors.Hint, d.Severity)
	assert.Contains(t, d.Message, `"b"`)
}

func TestAllOptionalFieldsAbsent(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n%SCHEMA: S { a?: int = 1, b?: string }\n---\nv: S {}\n")
	d, ok := find(diags, errors.CodeAllOptionalAbsent)
	require.True(t, ok)
	assert.Equal(t, errors.Warning, d.Severity)
}

func TestMatrixCandidate(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n---\nrows: [{a: 1, b: 2}, {a: 3, b: 4}]\n")
	d, ok := find(diags, errors.CodeMatrixCandidate)
	require.True(t, ok)
	assert.Equal(t, errors.Hint, d.Severity)
}

func TestNoMatrixCandidateForUnevenMaps(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n---\nrows: [{a: 1}, {b: 2}]\n")
	_, found := find(diags, errors.CodeMatrixCandidate)
	assert.False(t, found)
}

func TestDeepNesting(t *testing.T) {
	src := "%VERSION: 1.0\n---\nm: {a: {b: {c: {d: {e: {f: {g: {h: {i: 1}}}}}}}}}\n"
	diags := run(t, src)
	d, ok := find(diags, errors.CodeDeepNesting)
	require.True(t, ok)
	assert.Equal(t, errors.Warning, d.Severity)

	// Eight levels is still fine.
	ok8 := run(t, "%VERSION: 1.0\n---\nm: {a: {b: {c: {d: {e: {f: {g: {h: 1}}}}}}}}\n")
	_, found := find(ok8, errors.CodeDeepNesting)
	assert.False(t, found)
}

func TestNonASCIIIdentifier(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n---\nnamé: 1\n")
	d, ok := find(diags, errors.CodeNonASCIIIdentifier)
	require.True(t, ok)
	assert.Equal(t, errors.Hint, d.Severity)
}

func TestLenientResolverFindingsSurface(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n---\nref: @missing\n")
	d, ok := find(diags, errors.CodeUnresolvedReference)
	require.True(t, ok)
	assert.Equal(t, errors.Error, d.Severity)
}

func TestDiagnosticsSortedBySpan(t *testing.T) {
	diags := run(t, "%VERSION: 1.0\n%ALIAS: u1 = 1\n%ALIAS: u2 = 2\n---\nk: 1\n")
	require.GreaterOrEqual(t, len(diags), 2)
	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(t, diags[i-1].Span.Start, diags[i].Span.Start)
	}
}

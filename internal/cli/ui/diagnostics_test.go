package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/source"
)

func TestPrintDiagnosticsPlain(t *testing.T) {
	src := []byte("key: @missing\n")
	file, err := source.New(src)
	require.NoError(t, err)

	diags := []errors.Diagnostic{
		errors.Newf(errors.Error, errors.CodeUnresolvedReference,
			errors.Span{Start: 5, End: 13, Line: 1, Column: 6}, "Unresolved reference @missing"),
		errors.New(errors.Warning, errors.CodeUnusedAlias, errors.Span{Line: 1, Column: 1}),
	}

	var sb strings.Builder
	PrintDiagnostics(&sb, diags, PrintOptions{Name: "doc.hedl", File: file, NoColor: true})
	out := sb.String()

	assert.Contains(t, out, "error[E0044]: Unresolved reference @missing")
	assert.Contains(t, out, "doc.hedl:1:6")
	assert.Contains(t, out, "key: @missing")
	assert.Contains(t, out, "^^^^^^^^")
	assert.Contains(t, out, "1 error(s), 1 warning(s)")
}

func TestSummaryClean(t *testing.T) {
	assert.Equal(t, "no problems found", Summary(0, 0, 0, true))
}

func TestSummaryCounts(t *testing.T) {
	out := Summary(2, 0, 3, true)
	assert.Equal(t, "2 error(s), 3 hint(s)", out)
}

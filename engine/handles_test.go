package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/engine"
)

func TestDocumentHandleLifecycle(t *testing.T) {
	doc, err := engine.ParseDocument([]byte("%VERSION: 1.0\n---\nk: 1\n"), true)
	require.NoError(t, err)

	id := engine.RegisterDocument(doc)
	assert.Equal(t, doc.ID(), id, "the handle token is the document's identity")

	got, ok := engine.LookupDocument(id)
	require.True(t, ok)
	assert.Same(t, doc, got)

	engine.ReleaseDocument(id)
	_, ok = engine.LookupDocument(id)
	assert.False(t, ok, "a released handle must not resolve")

	// Releasing again is a no-op.
	engine.ReleaseDocument(id)
}

func TestDiagnosticsHandleLifecycle(t *testing.T) {
	doc, err := engine.ParseDocument([]byte("%VERSION: 1.0\n%ALIAS: unused = 1\n---\nk: 1\n"), true)
	require.NoError(t, err)
	diags, err := engine.LintDocument(doc)
	require.NoError(t, err)

	id := engine.RegisterDiagnostics(diags)
	assert.Equal(t, diags.ID(), id)

	got, ok := engine.LookupDiagnostics(id)
	require.True(t, ok)
	assert.Same(t, diags, got)

	engine.ReleaseDiagnostics(id)
	_, ok = engine.LookupDiagnostics(id)
	assert.False(t, ok)
}

package yamlout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/emit/yamlout"
	"github.com/hedl-lang/hedl/engine"
)

func emit(t *testing.T, src string, metadata bool) string {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), true)
	require.NoError(t, err)
	out, err := yamlout.Emit(doc, metadata)
	require.NoError(t, err)
	return out
}

func TestScalars(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nname: Alice\nage: 30\n", false)
	assert.Equal(t, "name: Alice\nage: 30\n", out)
}

func TestOrderPreserved(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nzeta: 1\nalpha: 2\n", false)
	assert.Equal(t, "zeta: 1\nalpha: 2\n", out)
}

func TestAliasSubstituted(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n%ALIAS: prod = production\n---\nenv: @prod\n", false)
	assert.Equal(t, "env: production\n", out)
}

func TestMetadataVersion(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nk: 1\n", true)
	assert.Contains(t, out, "__version__: \"1.0\"")
}

func TestNestedStructure(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nm: {a: [1, 2]}\n", false)
	assert.Contains(t, out, "m:")
	assert.Contains(t, out, "a:")
	assert.Contains(t, out, "- 1")
}

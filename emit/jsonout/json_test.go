package jsonout_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/emit/jsonout"
	"github.com/hedl-lang/hedl/engine"
)

func emit(t *testing.T, src string, metadata bool) string {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), true)
	require.NoError(t, err)
	out, err := jsonout.Emit(doc, metadata)
	require.NoError(t, err)
	return out
}

func TestScalars(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nname: Alice\nage: 30\nratio: 0.5\nok: true\nnothing: null\n", false)
	assert.Equal(t, `{"name":"Alice","age":30,"ratio":0.5,"ok":true,"nothing":null}`, out)
}

func TestInsertionOrderPreserved(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nzeta: 1\nalpha: 2\n", false)
	assert.Equal(t, `{"zeta":1,"alpha":2}`, out)
}

func TestAliasSubstituted(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n%ALIAS: prod = production\n---\nenv: @prod\n", false)
	assert.Equal(t, `{"env":"production"}`, out)
}

func TestStructuralReferenceKeepsTextualForm(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n%SCHEMA: P { x: int }\n---\nshape: @P\nv: P { x: 1 }\n", false)
	assert.Contains(t, out, `"shape":"@P"`)
}

func TestMetadata(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n%SCHEMA: P { x: int }\n---\np: P { x: 1 }\n", true)
	assert.Contains(t, out, `"__version__":"1.0"`)
	assert.Contains(t, out, `"__schema__":"P"`)
}

func TestNestedCollections(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nm: {a: [1, 2], b: {c: word}}\n", false)
	assert.Equal(t, `{"m":{"a":[1,2],"b":{"c":"word"}}}`, out)
}

func TestOutputIsValidJSON(t *testing.T) {
	out := emit(t, `%VERSION: 1.0
%SCHEMA: Row { id: int, label?: string }
---
rows: [Row { id: 1, label: one }, Row { id: 2 }]
note: "quotes \" and \\ backslashes"
`, true)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "rows")
}

func TestFloatAlwaysCarriesPoint(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nf: 3.0\n", false)
	assert.Equal(t, `{"f":3.0}`, out)
}

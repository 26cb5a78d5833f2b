package xmlout_test

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/emit/xmlout"
	"github.com/hedl-lang/hedl/engine"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), true)
	require.NoError(t, err)
	out, err := xmlout.Emit(doc)
	require.NoError(t, err)
	return out
}

func TestScalarEntries(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\nname: Alice\n")
	assert.Contains(t, out, `<document version="1.0">`)
	assert.Contains(t, out, `<entry name="name">Alice</entry>`)
}

func TestEscaping(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n---\ns: \"a<b&c\"\n")
	assert.Contains(t, out, "a&lt;b&amp;c")
}

func TestMatrixAttributes(t *testing.T) {
	out := emit(t, `%VERSION: 1.0
%SCHEMA: P { x: int }
---
ps: [P { x: 1 }, P { x: 2 }]
`)
	assert.Contains(t, out, `<list matrix="true" schema="P">`)
	assert.Contains(t, out, `<record schema="P">`)
	assert.Contains(t, out, `<field name="x">1</field>`)
}

func TestWellFormed(t *testing.T) {
	out := emit(t, `%VERSION: 1.0
%SCHEMA: P { x: int }
%ALIAS: a = 1
---
p: P { x: @a }
m: {inner: [1, two, null]}
`)
	decoder := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v\n%s", err, out)
		}
	}
}

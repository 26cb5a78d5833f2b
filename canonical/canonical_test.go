package canonical_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/canonical"
	"github.com/hedl-lang/hedl/document"
	"github.com/hedl-lang/hedl/engine"
)

// canon parses src and returns its canonical form
func canon(t *testing.T, src string) string {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), true)
	require.NoError(t, err)
	return canonical.Canonicalize(doc)
}

func TestEmptyBodyIsFixedPoint(t *testing.T) {
	src := "%VERSION: 1.0\n---\n"
	assert.Equal(t, src, canon(t, src))
}

func TestCanonicalIdempotence(t *testing.T) {
	inputs := []string{
		"%VERSION: 1.0\n---\nname: Alice\nage: 30\n",
		"%VERSION: 1.0\n%ALIAS: prod = production\n---\nenvironment: @prod\n",
		"%VERSION: 1.0\n%SCHEMA: B { x: int }\n%SCHEMA: A { y: int }\n---\nk: 1\n",
		"%VERSION: 1.0\n---\nm: {a: 1, b: {c: [1, 2, 3]}}\n",
		"%VERSION: 1.0\n---\nconfig:\n  retries: 3\n  nested:\n    deep: true\n",
		"%VERSION: 1.0\n%SCHEMA: P { x: int, y: float }\n---\nps: [P { x: 1, y: 2.5 }, P { x: 3, y: 4.5 }]\n",
		"%VERSION: 1.0\n---\ns: \"with \\\"quotes\\\" and \\n newlines\"\nu: \"caf\u00e9\"\n",
		"%VERSION: 1.0\n---\nf: 0.1\ng: 1e300\nh: -0.0\n",
	}

	for _, src := range inputs {
		once := canon(t, src)
		twice := canon(t, once)
		assert.Equal(t, once, twice, "canonicalization must be idempotent for %q", src)
	}
}

func TestSchemasSortedAliasesSorted(t *testing.T) {
	out := canon(t, `%VERSION: 1.0
%SCHEMA: B { x: int }
%ALIAS: zeta = 1
%SCHEMA: A { y: int }
%ALIAS: alpha = 2
---
k: 1
`)

	iA := strings.Index(out, "%SCHEMA: A")
	iB := strings.Index(out, "%SCHEMA: B")
	require.True(t, iA >= 0 && iB >= 0)
	assert.Less(t, iA, iB, "schemas must sort lexicographically")

	iAlpha := strings.Index(out, "%ALIAS: alpha")
	iZeta := strings.Index(out, "%ALIAS: zeta")
	assert.Less(t, iAlpha, iZeta)
	assert.Less(t, iB, iAlpha, "schemas precede aliases")
	assert.True(t, strings.HasSuffix(out, "---\nk: 1\n"))
}

func TestSchemaFieldOrderPreserved(t *testing.T) {
	out := canon(t, "%VERSION: 1.0\n%SCHEMA: S { z: int, a: int }\n---\nv: S { z: 1, a: 2 }\n")
	assert.Contains(t, out, "%SCHEMA: S { z: int, a: int }")
}

func TestRootInsertionOrderPreserved(t *testing.T) {
	out := canon(t, "%VERSION: 1.0\n---\nzeta: 1\nalpha: 2\nmiddle: 3\n")
	body := out[strings.Index(out, "---\n")+4:]
	assert.Equal(t, "zeta: 1\nalpha: 2\nmiddle: 3\n", body)
}

func TestAliasPreservedTextually(t *testing.T) {
	out := canon(t, "%VERSION: 1.0\n%ALIAS: prod = production\n---\nenvironment: @prod\n")
	assert.Contains(t, out, "%ALIAS: prod = production\n")
	assert.Contains(t, out, "environment: @prod\n")
	assert.NotContains(t, out, "environment: production")
}

func TestScalarForms(t *testing.T) {
	out := canon(t, `%VERSION: 1.0
---
i: 42
n: -7
f: 3.0
t: true
x: null
bare: word
quoted: "two words"
`)
	body := out[strings.Index(out, "---\n")+4:]
	assert.Equal(t, `i: 42
n: -7
f: 3.0
t: true
x: null
bare: word
quoted: "two words"
`, body)
}

func TestFloatFormatting(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f: 3.0", "f: 3.0"},
		{"f: 0.1", "f: 0.1"},
		{"f: -0.0", "f: 0.0"},
		{"f: 1e300", "f: 1e+300"},
	}
	for _, tt := range tests {
		out := canon(t, "%VERSION: 1.0\n---\n"+tt.src+"\n")
		assert.Contains(t, out, tt.want+"\n", "for %s", tt.src)
	}
}

func TestFloatRoundTripBits(t *testing.T) {
	for _, f := range []float64{0.1, 1.0 / 3.0, math.MaxFloat64, math.SmallestNonzeroFloat64, 2.5} {
		doc := document.New()
		doc.SetVersion(1, 0)
		doc.AddRoot(document.RootItem{Key: "f", Value: document.Float(f), SpanOrd: -1})
		doc.Finalize()
		out := canonical.Canonicalize(doc)

		reparsed, err := engine.ParseDocument([]byte(out), true)
		require.NoError(t, err, "canonical output %q must reparse", out)
		got := reparsed.RootAt(0).Value.Float()
		assert.Equal(t, math.Float64bits(f), math.Float64bits(got), "bit pattern for %v", f)
	}
}

func TestStringEscaping(t *testing.T) {
	doc := document.New()
	doc.SetVersion(1, 0)
	doc.AddRoot(document.RootItem{Key: "s", Value: document.String("a\"b\\c\nd\x01e\u00e9"), SpanOrd: -1})
	doc.Finalize()
	out := canonical.Canonicalize(doc)
	assert.Contains(t, out, `s: "a\"b\\c\nd\u0001eé"`)
}

func TestLongValuesUseBlockForm(t *testing.T) {
	var items []string
	for i := 0; i < 30; i++ {
		items = append(items, "element-number-"+strings.Repeat("x", 3))
	}
	src := "%VERSION: 1.0\n---\nxs: [" + strings.Join(items, ", ") + "]\n"
	out := canon(t, src)
	assert.Contains(t, out, "xs: [\n")
	assert.Equal(t, out, canon(t, out), "block form must be idempotent")
}

func TestBlockMapEmission(t *testing.T) {
	long := strings.Repeat("k", 40)
	src := "%VERSION: 1.0\n---\nm: {" + long + ": 1, other-key-that-is-long: \"some long value here\"}\n"
	out := canon(t, src)
	assert.Contains(t, out, "m:\n  "+long+": 1\n")
	assert.Equal(t, out, canon(t, out))
}

func TestNoTrailingWhitespaceSingleFinalNewline(t *testing.T) {
	out := canon(t, "%VERSION: 1.0\n%SCHEMA: S { a: int }\n---\nv: S { a: 1 }\nm:\n  x: 1\n")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " \t"), line, "trailing whitespace in %q", line)
	}
}

func TestObservationalEquivalence(t *testing.T) {
	// Same schemas/aliases/roots, different prologue order and spacing.
	a := "%VERSION: 1.0\n%SCHEMA: B { x: int }\n%SCHEMA: A { y: int }\n%ALIAS: p = 1\n---\nk: 1\n"
	b := "%VERSION: 1.0\n%ALIAS: p = 1\n%SCHEMA: A { y: int }\n%SCHEMA: B { x: int }\n---\nk:    1\n"
	assert.Equal(t, canon(t, a), canon(t, b))
}

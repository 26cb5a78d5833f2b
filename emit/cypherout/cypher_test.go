package cypherout_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/emit/cypherout"
	"github.com/hedl-lang/hedl/engine"
)

func emit(t *testing.T, src string, merge bool) string {
	t.Helper()
	doc, err := engine.ParseDocument([]byte(src), true)
	require.NoError(t, err)
	out, err := cypherout.Emit(doc, merge)
	require.NoError(t, err)
	return out
}

const fixture = `%VERSION: 1.0
%SCHEMA: Person { name: string, age: int }
---
people: [Person { name: ada, age: 36 }, Person { name: grace, age: 85 }]
`

func TestCreateStatements(t *testing.T) {
	out := emit(t, fixture, false)
	assert.Contains(t, out, "CREATE (n1:Person {_key: 'people_0', name: 'ada', age: 36})")
	assert.Contains(t, out, "CREATE (n2:Person {_key: 'people_1', name: 'grace', age: 85})")
	assert.NotContains(t, out, "MERGE")
}

func TestMergeStatements(t *testing.T) {
	out := emit(t, fixture, true)
	assert.True(t, strings.HasPrefix(out, "MERGE "))
	assert.NotContains(t, out, "CREATE")
}

func TestReferenceBecomesRelationship(t *testing.T) {
	out := emit(t, `%VERSION: 1.0
%SCHEMA: Team { name: string }
%SCHEMA: Person { name: string, team: Team }
---
t: Team { name: core }
p: Person { name: ada, team: @Team }
`, true)
	assert.Contains(t, out, "[:TEAM]->(:Team)")
}

func TestStringQuoting(t *testing.T) {
	out := emit(t, "%VERSION: 1.0\n%SCHEMA: N { v: string }\n---\nn: N { v: \"it's\" }\n", false)
	assert.Contains(t, out, `v: 'it\'s'`)
}

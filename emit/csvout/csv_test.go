package csvout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedl-lang/hedl/emit/csvout"
	"github.com/hedl-lang/hedl/engine"
)

func TestMatrixToCSV(t *testing.T) {
	doc, err := engine.ParseDocument([]byte(`%VERSION: 1.0
%SCHEMA: Point { x: int, y: int, label?: string = none }
---
points: [Point { x: 1, y: 2, label: first }, Point { x: 3, y: 4 }]
`), true)
	require.NoError(t, err)

	out, err := csvout.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, "x,y,label\n1,2,first\n3,4,none\n", out)
}

func TestAliasValuesInCells(t *testing.T) {
	doc, err := engine.ParseDocument([]byte(`%VERSION: 1.0
%SCHEMA: Host { name: string, env: string }
%ALIAS: prod = production
---
hosts: [Host { name: web, env: @prod }, Host { name: db, env: @prod }]
`), true)
	require.NoError(t, err)

	out, err := csvout.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, "name,env\nweb,production\ndb,production\n", out)
}

func TestNonMatrixRefused(t *testing.T) {
	doc, err := engine.ParseDocument([]byte("%VERSION: 1.0\n---\nname: Alice\n"), true)
	require.NoError(t, err)

	_, err = csvout.Emit(doc)
	assert.ErrorIs(t, err, csvout.ErrNoMatrix)
}

func TestQuotingDelegatedToCSVWriter(t *testing.T) {
	doc, err := engine.ParseDocument([]byte(`%VERSION: 1.0
%SCHEMA: R { v: string }
---
rows: [R { v: "a,b" }, R { v: "plain" }]
`), true)
	require.NoError(t, err)

	out, err := csvout.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, "v\n\"a,b\"\nplain\n", out)
}

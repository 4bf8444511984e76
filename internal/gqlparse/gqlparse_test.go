package gqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMutationSingleOperation(t *testing.T) {
	doc, err := Parse(`mutation { createThing(name: "x") { id } }`)
	require.NoError(t, err)
	assert.True(t, doc.IsMutation(""))
}

func TestIsMutationSingleQueryOperation(t *testing.T) {
	doc, err := Parse(`query { things { id } }`)
	require.NoError(t, err)
	assert.False(t, doc.IsMutation(""))
}

func TestIsMutationMultipleOperationsSelectedByName(t *testing.T) {
	doc, err := Parse(`
		query GetThings { things { id } }
		mutation CreateThing { createThing(name: "x") { id } }
	`)
	require.NoError(t, err)

	assert.True(t, doc.IsMutation("CreateThing"))
	assert.False(t, doc.IsMutation("GetThings"))
}

func TestIsMutationMultipleOperationsUnknownNameIsFalse(t *testing.T) {
	doc, err := Parse(`
		query GetThings { things { id } }
		mutation CreateThing { createThing(name: "x") { id } }
	`)
	require.NoError(t, err)

	assert.False(t, doc.IsMutation("DoesNotExist"))
}

func TestIsMutationMultipleOperationsNoNameMatchesIfAnyDoes(t *testing.T) {
	doc, err := Parse(`
		query GetThings { things { id } }
		mutation CreateThing { createThing(name: "x") { id } }
	`)
	require.NoError(t, err)

	assert.True(t, doc.IsMutation(""))
}

func TestParseRejectsMalformedQuery(t *testing.T) {
	_, err := Parse(`query { things(`)
	assert.Error(t, err)
}

// Copyright © 2024 The ruby-lint authors

package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamTags(t *testing.T) {
	m := Parse([]string{
		"# Creates a new user record.",
		"#",
		"# @param [String] name the full name",
		"# @param [String, Integer] id",
		"# @param options extra settings",
		"# @return [Hash] the created record",
	})
	require.NotNil(t, m)
	require.Len(t, m.Params, 3)

	assert.Equal(t, "name", m.Params[0].Name)
	assert.Equal(t, []string{"String"}, m.Params[0].Types)
	assert.Equal(t, "the full name", m.Params[0].Text)

	assert.Equal(t, "id", m.Params[1].Name)
	assert.Equal(t, []string{"String", "Integer"}, m.Params[1].Types)
	assert.Equal(t, "", m.Params[1].Text)

	assert.Equal(t, "options", m.Params[2].Name)
	assert.Nil(t, m.Params[2].Types)
	assert.Equal(t, "extra settings", m.Params[2].Text)

	assert.Equal(t, []string{"Hash"}, m.ReturnTypes())
	assert.Equal(t, "the created record", m.ReturnText)
}

func TestParseLookupHelpers(t *testing.T) {
	m := Parse([]string{"# @param [Float] rate", "# @return [Float]"})
	require.NotNil(t, m)
	assert.Equal(t, []string{"Float"}, m.ParamTypes("rate"))
	assert.Nil(t, m.ParamTypes("missing"))
	assert.Equal(t, []string{"Float"}, m.ReturnTypes())
}

func TestParseGenericsCollapse(t *testing.T) {
	m := Parse([]string{"# @return [Array<String>, Hash<Symbol, Object>]"})
	require.NotNil(t, m)
	assert.Equal(t, []string{"Array", "Hash"}, m.Returns)
}

func TestParseNamespacedTypes(t *testing.T) {
	m := Parse([]string{"# @param [ActiveRecord::Base] record"})
	require.NotNil(t, m)
	assert.Equal(t, []string{"ActiveRecord::Base"}, m.ParamTypes("record"))
}

func TestParseSkipsProse(t *testing.T) {
	assert.Nil(t, Parse([]string{
		"# Sends an email to the user.",
		"# Retries on failure.",
	}))
	assert.Nil(t, Parse(nil))
	// An @ that is not a recognized tag is prose too.
	assert.Nil(t, Parse([]string{"# @deprecated use #save instead"}))
}

func TestParseToleratesCommentMarkers(t *testing.T) {
	tests := []string{
		"# @return [Symbol]",
		"## @return [Symbol]",
		"   #   @return [Symbol]",
		"@return [Symbol]",
	}
	for _, line := range tests {
		m := Parse([]string{line})
		require.NotNil(t, m, line)
		assert.Equal(t, []string{"Symbol"}, m.Returns, line)
	}
}

func TestParseQuestionMarkParam(t *testing.T) {
	m := Parse([]string{"# @param [TrueClass, FalseClass] force? whether to override"})
	require.NotNil(t, m)
	require.Len(t, m.Params, 1)
	assert.Equal(t, "force?", m.Params[0].Name)
}

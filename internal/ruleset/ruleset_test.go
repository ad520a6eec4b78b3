// SPDX-License-Identifier: AGPL-3.0-or-later
package ruleset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	rules := Default()

	assert.Equal(t, DefaultCodes, rules.AllowedCodes)
	assert.NotEmpty(t, rules.AllowedCodes)
	assert.Equal(t, 72, rules.MaximumHeaderLength)
	assert.Equal(t, 72, rules.MaximumBodyLineLength)
	assert.False(t, rules.RequireBody)
	assert.Equal(t, DefaultHeaderEndingPattern, rules.ValidHeaderEnding.String())
}

func TestNew_AdditionalCodesMergeIntoDefaults(t *testing.T) {
	rules, err := New(Options{AdditionalCodes: []string{"lint", "docs"}})
	require.NoError(t, err)

	assert.Contains(t, rules.AllowedCodes, "lint")
	assert.Contains(t, rules.AllowedCodes, "docs")
	assert.Contains(t, rules.AllowedCodes, "FIX")
	assert.Len(t, rules.AllowedCodes, len(DefaultCodes)+2)
}

func TestNew_AllowedCodesReplaceDefaults(t *testing.T) {
	rules, err := New(Options{AllowedCodes: []string{"ABC", "DEF"}})
	require.NoError(t, err)

	assert.Len(t, rules.AllowedCodes, 2)
	assert.Contains(t, rules.AllowedCodes, "ABC")
	assert.NotContains(t, rules.AllowedCodes, "FIX")
}

func TestNew_InvalidPatternFailsAtConstruction(t *testing.T) {
	_, err := New(Options{ValidHeaderEndingPattern: "["})
	require.Error(t, err)

	var patternErr *PatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "[", patternErr.Pattern)
}

func TestNew_Overrides(t *testing.T) {
	rules, err := New(Options{
		MaximumHeaderLength:      50,
		MaximumBodyLineLength:    100,
		RequireBody:              true,
		ValidHeaderEndingPattern: `\.`,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, rules.MaximumHeaderLength)
	assert.Equal(t, 100, rules.MaximumBodyLineLength)
	assert.True(t, rules.RequireBody)
	assert.True(t, rules.ValidHeaderEnding.MatchString("."))
}

func TestCodesInOrder(t *testing.T) {
	rules, err := New(Options{AllowedCodes: []string{"ZZZ", "AAA", "MMM"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "MMM", "ZZZ"}, rules.CodesInOrder())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	content := `additional_codes:
  - lint
maximum_header_length: 60
require_body: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lint"}, opts.AdditionalCodes)
	assert.Equal(t, 60, opts.MaximumHeaderLength)
	assert.True(t, opts.RequireBody)

	rules, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, 60, rules.MaximumHeaderLength)
	assert.Equal(t, 72, rules.MaximumBodyLineLength)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("maximum_header_length: [not an int"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

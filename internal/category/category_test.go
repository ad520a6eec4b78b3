// SPDX-License-Identifier: AGPL-3.0-or-later
package category

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convkit/convkit/internal/commitmsg"
)

func TestClassify_EmptySetIsAnError(t *testing.T) {
	_, err := Classify(nil)
	assert.ErrorIs(t, err, ErrNoCommits)

	_, err = Classify([]*commitmsg.Commit{})
	assert.ErrorIs(t, err, ErrNoCommits)
}

func TestClassify_BreakingWinsOverEverything(t *testing.T) {
	commits := []*commitmsg.Commit{
		{Code: "FEA"},
		{Code: "FIX", IsBreaking: true},
		{Code: "FEA"},
	}

	result, err := Classify(commits)
	require.NoError(t, err)
	assert.Equal(t, Breaking, result)
}

func TestClassify_FeatureWinsOverFixes(t *testing.T) {
	commits := []*commitmsg.Commit{
		{Code: "FIX"},
		{Code: "FEA"},
		{Code: "CHO"},
	}

	result, err := Classify(commits)
	require.NoError(t, err)
	assert.Equal(t, Feature, result)
}

func TestClassify_FixOrOther(t *testing.T) {
	commits := []*commitmsg.Commit{
		{Code: "FIX"},
		{Code: "ENH"},
		{Code: "DOC"},
	}

	result, err := Classify(commits)
	require.NoError(t, err)
	assert.Equal(t, FixOrOther, result)
}

func TestClassify_SingleBreakingFooterCommit(t *testing.T) {
	commit := &commitmsg.Commit{Code: "FIX", IsBreaking: true}

	result, err := Classify([]*commitmsg.Commit{commit})
	require.NoError(t, err)
	assert.Equal(t, Breaking, result)
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "BREAKING", Breaking.String())
	assert.Equal(t, "FEATURE", Feature.String())
	assert.Equal(t, "FIX_OR_OTHER", FixOrOther.String())
}

func TestBumpMapping(t *testing.T) {
	assert.Equal(t, Major, Breaking.Bump())
	assert.Equal(t, Minor, Feature.Bump())
	assert.Equal(t, Patch, FixOrOther.Bump())
}

func TestNext(t *testing.T) {
	current := semver.MustParse("1.2.3")

	tests := []struct {
		category Category
		want     string
	}{
		{Breaking, "2.0.0"},
		{Feature, "1.3.0"},
		{FixOrOther, "1.2.4"},
	}

	for _, tt := range tests {
		next := Next(current, tt.category)
		assert.Equal(t, tt.want, next.String(), "category %s", tt.category)
	}
}

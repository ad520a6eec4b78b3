// SPDX-License-Identifier: AGPL-3.0-or-later
package versiongate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convkit/convkit/internal/gitlog"
)

func TestExpected_PatchSinceLastRelease(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "FIX: Fix semantic version script; add missing config"},
		{Header: "CHO: Remove hook installation from branch", Decoration: "(tag: 0.0.3, origin/main)"},
		{Header: "FEA: An old feature before the release"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "0.0.4", expected.String())
}

func TestExpected_FeatureSinceLastRelease(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "FEA: Add widget support"},
		{Header: "FIX: Fix this bug"},
		{Header: "CHO: Tag the release", Decoration: "(tag: 1.2.3)"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", expected.String())
}

func TestExpected_BreakingSinceLastRelease(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "FIX: Shorten timeout", Body: "BREAKING CHANGE: removes the old timeout parameter"},
		{Header: "FEA: Add widget support"},
		{Header: "CHO: Tag the release", Decoration: "(tag: 1.2.3)"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", expected.String())
}

func TestExpected_HeadIsTheRelease(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "CHO: Tag the release", Decoration: "(tag: 1.2.3)"},
		{Header: "FEA: An old feature"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", expected.String())
}

func TestExpected_NoReleaseTagYet(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "FEA: Add widget support"},
		{Header: "FIX: Fix this bug"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", expected.String())
}

func TestExpected_EmptyHistory(t *testing.T) {
	expected, err := Expected(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", expected.String())
}

func TestExpected_RefMergesAndLooseHeadersStillCount(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "Merge ef777290453f11b7519dbd3410b01d34d2e13566 into b043bc85cf558f1706188fafe9676ecd0642ab5a"},
		{Header: "Fixed some stuff without a code"},
		{Header: "CHO: Tag the release", Decoration: "(tag: 0.2.0)"},
	}

	expected, err := Expected(entries)
	require.NoError(t, err)

	// The loose header counts as fix-or-other; the ref merge is skipped.
	assert.Equal(t, "0.2.1", expected.String())
}

func TestExpected_InvalidReleaseTag(t *testing.T) {
	entries := []gitlog.Entry{
		{Header: "FIX: Fix this bug"},
		{Header: "CHO: Tag the release", Decoration: "(tag: 1.2.banana)"},
	}

	// The decoration pattern only matches numeric triples, so a malformed
	// tag is simply not a release tag.
	expected, err := Expected(entries)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", expected.String())
}

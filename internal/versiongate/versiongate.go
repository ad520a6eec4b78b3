// SPDX-License-Identifier: AGPL-3.0-or-later

// Package versiongate predicts the semantic version a package should declare
// given its commit history, for comparison against the declared version.
package versiongate

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/convkit/convkit/internal/category"
	"github.com/convkit/convkit/internal/commitmsg"
	"github.com/convkit/convkit/internal/gitlog"
)

// Expected computes the expected semantic version as of the newest entry:
// the last release tag, bumped by the aggregate category of the commits made
// since it. With no release tag yet, the bump applies to 0.0.0. A history
// whose newest commit is the tagged release itself expects the tag's version
// unchanged.
func Expected(entries []gitlog.Entry) (*semver.Version, error) {
	base := semver.New(0, 0, 0, "", "")
	sinceRelease := entries

	for i, entry := range entries {
		if tag, ok := entry.ReleaseTag(); ok {
			parsed, err := semver.NewVersion(tag)
			if err != nil {
				return nil, fmt.Errorf("release tag %q is not a semantic version: %w", tag, err)
			}
			base = parsed
			sinceRelease = entries[:i]
			break
		}
	}

	commits := make([]*commitmsg.Commit, 0, len(sinceRelease))
	for _, entry := range sinceRelease {
		if entry.IsRefMerge() {
			continue
		}
		commit, ok := commitmsg.FromLogEntry(entry.Header, entry.Body)
		if !ok {
			// Headers without a code still count towards the delta, as
			// fix-or-other commits.
			commit = &commitmsg.Commit{Header: entry.Header}
		}
		commits = append(commits, commit)
	}

	if len(commits) == 0 {
		return base, nil
	}

	aggregate, err := category.Classify(commits)
	if err != nil {
		return nil, err
	}

	next := category.Next(base, aggregate)
	return &next, nil
}

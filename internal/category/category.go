// SPDX-License-Identifier: AGPL-3.0-or-later

// Package category aggregates parsed commits into the highest-severity
// change category present, mirroring semantic-versioning precedence:
// breaking > feature > fix/other. The category decides the expected
// major/minor/patch bump for the version gate and the grouping of release
// notes.
package category

import (
	"errors"

	"github.com/Masterminds/semver/v3"

	"github.com/convkit/convkit/internal/commitmsg"
)

// Category is the aggregate change category of a set of commits.
type Category int

const (
	FixOrOther Category = iota
	Feature
	Breaking
)

func (c Category) String() string {
	switch c {
	case Breaking:
		return "BREAKING"
	case Feature:
		return "FEATURE"
	default:
		return "FIX_OR_OTHER"
	}
}

// ErrNoCommits is returned when classification is attempted over an empty
// commit set. There is no meaningful version delta with zero commits.
var ErrNoCommits = errors.New("no commits to classify")

// featureCodes are the commit codes that count as a new feature for the
// minor-bump rule. Enhancements stay patch level.
var featureCodes = map[string]bool{"FEA": true}

// Classify returns the highest-severity category across the whole set. The
// full set is required up front: the result depends on the worst case, so no
// partial or streaming answer is meaningful.
func Classify(commits []*commitmsg.Commit) (Category, error) {
	if len(commits) == 0 {
		return FixOrOther, ErrNoCommits
	}

	result := FixOrOther
	for _, commit := range commits {
		switch {
		case commit.IsBreaking:
			return Breaking, nil
		case featureCodes[commit.Code]:
			result = Feature
		}
	}
	return result, nil
}

// Bump is the semantic-version increment implied by a Category.
type Bump int

const (
	Patch Bump = iota
	Minor
	Major
)

func (b Bump) String() string {
	switch b {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// Bump maps a category to its version increment: breaking changes bump the
// major version, features the minor version, everything else the patch.
func (c Category) Bump() Bump {
	switch c {
	case Breaking:
		return Major
	case Feature:
		return Minor
	default:
		return Patch
	}
}

// Next returns the version that current becomes after applying the
// category's bump.
func Next(current *semver.Version, c Category) semver.Version {
	switch c.Bump() {
	case Major:
		return current.IncMajor()
	case Minor:
		return current.IncMinor()
	default:
		return current.IncPatch()
	}
}

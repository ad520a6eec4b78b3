// SPDX-License-Identifier: AGPL-3.0-or-later
package commitmsg

import "strings"

// FromLogEntry builds a Commit from a historical log entry without enforcing
// the rule set. Log history predates the rules in force today, so consumers
// reading it (release notes, version prediction) split leniently: the code is
// whatever precedes the first colon, extra colons stay in the title, and the
// body is scanned as a blob for breaking-change markers.
//
// ok is false when the header carries no colon at all; such commits are kept
// by callers as uncategorisable rather than dropped.
func FromLogEntry(header, body string) (commit *Commit, ok bool) {
	header = strings.TrimSpace(header)

	colonIndex := strings.Index(header, ":")
	if colonIndex < 0 {
		return nil, false
	}

	code := strings.TrimSpace(header[:colonIndex])
	title := strings.TrimSpace(header[colonIndex+1:])

	return &Commit{
		Code:       code,
		Header:     header,
		Title:      title,
		IsBreaking: HasBreakingChangeMarker(body),
		IsMerge:    code == MergeCode,
	}, true
}

// SPDX-License-Identifier: AGPL-3.0-or-later

// Package relnotes compiles commit history into formatted release notes.
package relnotes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/convkit/convkit/internal/commitmsg"
	"github.com/convkit/convkit/internal/gitlog"
)

// StopPoint is the point in history up to which commit messages are compiled.
type StopPoint string

const (
	// LastRelease stops at the last semantically-versioned release tag.
	LastRelease StopPoint = "LAST_RELEASE"

	// PullRequestStart stops at the first commit of the current pull request.
	PullRequestStart StopPoint = "PULL_REQUEST_START"
)

// ParseStopPoint validates a stop-point string, case-insensitively.
func ParseStopPoint(s string) (StopPoint, error) {
	switch StopPoint(strings.ToUpper(s)) {
	case LastRelease:
		return LastRelease, nil
	case PullRequestStart:
		return PullRequestStart, nil
	default:
		return "", fmt.Errorf("stop point must be one of [%s %s]; received %q", LastRelease, PullRequestStart, s)
	}
}

// Markers controlling how generated notes interact with previous notes.
// Anything outside the start/end markers in previous notes is preserved.
const (
	AutoGenerationStart = "<!--- START AUTOGENERATED NOTES --->"
	AutoGenerationEnd   = "<!--- END AUTOGENERATED NOTES --->"
	SkipIndicator       = "<!--- SKIP AUTOGENERATED NOTES --->"
)

const (
	// DefaultHeader is the markdown heading placed above the generated notes.
	DefaultHeader = "## Contents"

	// DefaultListItemSymbol lists commit messages as markdown bullets.
	DefaultListItemSymbol = "-"

	breakingChangePrefix = "💥 **BREAKING CHANGE:** "

	otherHeading         = "### Other"
	uncategorisedHeading = "### Uncategorised!"
)

// DefaultHeadingsByCode maps commit codes to the markdown section their
// messages are listed under.
var DefaultHeadingsByCode = map[string]string{
	"FEA": "### New features",
	"ENH": "### Enhancements",
	"FIX": "### Fixes",
	"OPS": "### Operations",
	"DEP": "### Dependencies",
	"REF": "### Refactoring",
	"TST": "### Testing",
	"MRG": otherHeading,
	"REV": "### Reversions",
	"CHO": "### Chores",
	"WIP": otherHeading,
	"DOC": otherHeading,
	"STY": otherHeading,
}

// defaultHeadingOrder fixes the section order of the generated notes.
var defaultHeadingOrder = []string{
	"### New features",
	"### Enhancements",
	"### Fixes",
	"### Operations",
	"### Dependencies",
	"### Refactoring",
	"### Testing",
	otherHeading,
	"### Reversions",
	"### Chores",
}

// Compiler compiles commit messages into release notes. The zero value plus
// a stop point is usable; empty fields fall back to the documented defaults.
type Compiler struct {
	StopPoint StopPoint

	// Header is placed above the generated notes, markdown styling included.
	Header string

	// ListItemSymbol prefixes each listed commit message.
	ListItemSymbol string

	// HeadingsByCode overrides the code-to-section mapping. HeadingOrder
	// fixes the section order; when omitted the overriding headings render
	// alphabetically with Other last.
	HeadingsByCode map[string]string
	HeadingOrder   []string

	// PullRequest, when set, supplies the previous notes to splice into and
	// (for the PULL_REQUEST_START stop point) the commits to compile.
	PullRequest            *PullRequest
	IncludePullRequestLink bool
}

type breakingChange struct {
	title       string
	description string
}

// UntilLastRelease returns the entries preceding the last release tag,
// excluding the tagged commit itself.
func UntilLastRelease(entries []gitlog.Entry) []gitlog.Entry {
	for i, entry := range entries {
		if _, tagged := entry.ReleaseTag(); tagged {
			return entries[:i]
		}
	}
	return entries
}

// EntriesFromMessages converts whole commit messages (header, blank line,
// body) into log entries, for compiling pull-request commits.
func EntriesFromMessages(messages []string) []gitlog.Entry {
	entries := make([]gitlog.Entry, 0, len(messages))
	for _, message := range messages {
		header, body, _ := strings.Cut(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
		entries = append(entries, gitlog.Entry{
			Header: header,
			Body:   strings.TrimSpace(body),
		})
	}
	return entries
}

// Compile builds release notes from the given entries. If previous notes are
// available from the pull request, the generated section replaces whatever
// sits between the autogeneration markers; notes carrying the skip indicator
// are returned untouched.
func (c *Compiler) Compile(entries []gitlog.Entry) string {
	previous := ""
	if c.PullRequest != nil {
		previous = c.PullRequest.Body
	}

	if previous != "" && strings.Contains(previous, SkipIndicator) {
		return previous
	}

	generated := c.generate(entries)

	if previous == "" {
		return generated
	}

	// Everything before the start marker and after the end marker survives;
	// the generated section lands in between. Previous notes without markers
	// keep the generated section appended after them.
	beforeParts := strings.Split(previous, AutoGenerationStart)
	before := strings.Trim(beforeParts[0], "\n")

	afterParts := strings.Split(strings.Join(beforeParts[1:], ""), AutoGenerationEnd)
	after := strings.Trim(afterParts[len(afterParts)-1], "\n")

	combined := strings.Join([]string{before, generated, after}, "\n")
	return strings.Trim(combined, "\"\n")
}

func (c *Compiler) generate(entries []gitlog.Entry) string {
	headings := c.HeadingsByCode
	if headings == nil {
		headings = DefaultHeadingsByCode
	}
	order := c.HeadingOrder
	if order == nil {
		if c.HeadingsByCode == nil {
			order = defaultHeadingOrder
		} else {
			order = sortedHeadings(headings)
		}
	}

	sections := make(map[string][]string)
	var uncategorised []string
	var breakingChanges []breakingChange

	for _, entry := range entries {
		if entry.IsRefMerge() {
			continue
		}

		commit, ok := commitmsg.FromLogEntry(entry.Header, entry.Body)
		if !ok {
			if header := strings.TrimSpace(entry.Header); header != "" {
				uncategorised = append(uncategorised, header)
			}
			continue
		}

		note := commit.Title
		if commit.IsBreaking {
			note = breakingChangePrefix + commit.Title
			breakingChanges = append(breakingChanges, breakingChange{
				title:       commit.Title,
				description: breakingChangeDescription(entry.Body),
			})
		}

		heading, known := headings[commit.Code]
		if !known {
			heading = otherHeading
		}
		sections[heading] = append(sections[heading], note)
	}

	return c.render(order, sections, uncategorised, breakingChanges)
}

// sortedHeadings derives a deterministic section order from an overriding
// heading mapping when the caller supplies no explicit order: the distinct
// headings alphabetically, with the Other section last since unrecognised
// codes land there.
func sortedHeadings(headingsByCode map[string]string) []string {
	seen := make(map[string]bool, len(headingsByCode))
	headings := make([]string, 0, len(headingsByCode))
	for _, heading := range headingsByCode {
		if !seen[heading] && heading != otherHeading {
			seen[heading] = true
			headings = append(headings, heading)
		}
	}
	sort.Strings(headings)
	return append(headings, otherHeading)
}

func (c *Compiler) render(order []string, sections map[string][]string, uncategorised []string, breakingChanges []breakingChange) string {
	header := c.Header
	if header == "" {
		header = DefaultHeader
	}
	symbol := c.ListItemSymbol
	if symbol == "" {
		symbol = DefaultListItemSymbol
	}

	var b strings.Builder

	b.WriteString(AutoGenerationStart + "\n")
	b.WriteString(header)
	if c.PullRequest != nil && c.IncludePullRequestLink {
		b.WriteString(fmt.Sprintf(" ([#%d](%s))", c.PullRequest.Number, c.PullRequest.HTMLURL))
	}
	b.WriteString("\n")

	if n := len(breakingChanges); n == 1 {
		b.WriteString("**IMPORTANT:** There is 1 breaking change.\n")
	} else if n > 1 {
		b.WriteString(fmt.Sprintf("**IMPORTANT:** There are %d breaking changes.\n", n))
	}

	b.WriteString("\n")

	for _, heading := range append(append([]string{}, order...), uncategorisedHeading) {
		notes := sections[heading]
		if heading == uncategorisedHeading {
			notes = uncategorised
		}
		if len(notes) == 0 {
			continue
		}

		b.WriteString(heading + "\n")
		for _, note := range notes {
			b.WriteString(symbol + " " + note + "\n")
		}
		b.WriteString("\n")
	}

	if len(breakingChanges) > 0 {
		b.WriteString("---\n# Upgrade instructions\n")
		for _, change := range breakingChanges {
			b.WriteString("<details>\n")
			b.WriteString(fmt.Sprintf("<summary>💥 <b>%s</b></summary>\n\n", change.title))
			b.WriteString(change.description + "\n")
			b.WriteString("</details>\n\n")
		}
	}

	b.WriteString(AutoGenerationEnd)
	return b.String()
}

// breakingChangeDescription strips the breaking-change indicator from the
// commit body, leaving the upgrade description the committer wrote after it.
func breakingChangeDescription(body string) string {
	for _, indicator := range commitmsg.BreakingChangeIndicators {
		marker := indicator + ": "
		if index := strings.Index(body, marker); index >= 0 {
			return strings.TrimSpace(body[:index] + body[index+len(marker):])
		}
	}
	return strings.TrimSpace(body)
}

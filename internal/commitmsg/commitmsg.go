// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commitmsg parses and classifies commit messages against the
// Conventional Commits convention plus the configured rule set.
//
// Divergences from the base Conventional Commits specification, kept on
// purpose:
//   - scopes are disallowed for readability and consistency
//   - commit codes are short uppercase tokens ("FEA" rather than "feat")
//   - footers are not validated beyond the trailing TOKEN:-value shape
//   - breaking changes may be declared in the body as well as the footer
//
// See https://www.conventionalcommits.org for the base specification.
package commitmsg

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/convkit/convkit/internal/ruleset"
)

// CodeSeparator separates the commit code from the title in the header.
const CodeSeparator = ": "

// MergeCode is the implicit code assigned to merge-commit headers generated
// by git itself ("Merge branch ...", "Merge pull request ...").
const MergeCode = "MRG"

// BreakingChangeIndicators are the markers that flag a breaking change when
// they begin a body or footer line.
var BreakingChangeIndicators = []string{"BREAKING CHANGE", "BREAKING-CHANGE"}

const commentPrefix = "#"

var (
	// footerLine matches TOKEN: value lines, e.g. "BREAKING CHANGE: ..." or
	// "REVIEWED-BY: someone".
	footerLine = regexp.MustCompile(`^[A-Z][A-Z\d]*(?:[ -][A-Z\d]+)*: .+$`)

	// breakingChangeLine is the required shape of a breaking-change
	// declaration: indicator, ": ", then a description.
	breakingChangeLine = regexp.MustCompile(`^(BREAKING CHANGE|BREAKING-CHANGE): [A-Za-z\d]+`)
)

// Commit is the structured form of a parsed commit message. It is derived
// purely from the raw message and the rule set, and is never mutated after
// Parse returns it.
type Commit struct {
	// Code is the leading token before the first ": " in the header.
	Code string

	// Header is the full first line of the message.
	Header string

	// Title is the header text after "<CODE>: ".
	Title string

	// Body holds the non-empty lines between the header separator and the
	// footer block. May be empty.
	Body []string

	// Footer holds the trailing TOKEN: value lines. May be empty.
	Footer []string

	// IsBreaking is true when the body or footer carries a breaking-change
	// marker.
	IsBreaking bool

	// IsMerge is true for git-generated merge commits, which are exempt from
	// the header rules.
	IsMerge bool
}

// Parse checks a raw commit message against the rule set and returns its
// structured form, or the first rule violation found. It is a pure function:
// no I/O, no shared state, safe to call concurrently.
func Parse(message string, rules *ruleset.RuleSet) (*Commit, error) {
	lines := stripComments(splitLines(message))

	if len(lines) == 0 {
		return nil, newErrorf(KindEmptyMessage, "the commit message should not be empty")
	}

	header := lines[0]

	commit := &Commit{Header: header}

	if isMergeHeader(header) {
		// git-generated merge headers are implicitly valid MRG commits and
		// skip the remaining header rules.
		commit.IsMerge = true
		commit.Code = MergeCode
		commit.Title = header
	} else if err := parseHeader(commit, header, rules); err != nil {
		return nil, err
	}

	if len(lines) == 1 {
		if rules.RequireBody {
			return nil, newErrorf(
				KindMissingRequiredBody,
				"a body (separated from the header by a blank line) is required in the commit message; received %q",
				header,
			)
		}
		return commit, nil
	}

	if lines[1] != "" {
		return nil, newErrorf(KindMissingBlankLine, "there should be a blank line between the header and the body")
	}

	body, footer := splitBodyAndFooter(lines[2:])
	commit.Body = body
	commit.Footer = footer

	// A footer-only message still has content after the header, so footer
	// lines satisfy the body requirement.
	if rules.RequireBody && len(body) == 0 && len(footer) == 0 {
		return nil, newErrorf(KindMissingRequiredBody, "the commit body should not be blank")
	}

	for i, line := range body {
		if utf8.RuneCountInString(line) > rules.MaximumBodyLineLength {
			return nil, newErrorf(
				KindBodyLineTooLong,
				"the maximum line length of the body is %d characters; body line %d %q is %d characters",
				rules.MaximumBodyLineLength, i+1, line, utf8.RuneCountInString(line),
			)
		}
	}

	breaking, err := detectBreakingChange(body, footer)
	if err != nil {
		return nil, err
	}
	commit.IsBreaking = breaking

	return commit, nil
}

func parseHeader(commit *Commit, header string, rules *ruleset.RuleSet) error {
	if header == "" {
		return newErrorf(KindEmptyMessage, "the commit header should not be blank")
	}

	separatorIndex := strings.Index(header, CodeSeparator)
	if separatorIndex <= 0 {
		return newErrorf(
			KindMissingCodeDelimiter,
			"the commit header should contain a commit code separated from the title by %q; received %q",
			CodeSeparator, header,
		)
	}

	code := header[:separatorIndex]

	if _, ok := rules.AllowedCodes[code]; !ok {
		return newErrorf(
			KindDisallowedCode,
			"commit headers should start with one of the allowed commit codes:\n%s\nand be separated from the title by %q; received %q",
			formatAllowedCodes(rules), CodeSeparator, header,
		)
	}

	commit.Code = code
	commit.Title = header[separatorIndex+len(CodeSeparator):]

	if length := utf8.RuneCountInString(header); length > rules.MaximumHeaderLength {
		return newErrorf(
			KindHeaderTooLong,
			"the commit header should be no longer than %d characters; received %q, which is %d characters long",
			rules.MaximumHeaderLength, header, length,
		)
	}

	lastRune, _ := utf8.DecodeLastRuneInString(header)
	if !rules.ValidHeaderEnding.MatchString(string(lastRune)) {
		return newErrorf(
			KindInvalidHeaderEnding,
			"the commit header must end in a character matching the pattern %q; received %q",
			rules.ValidHeaderEnding.String(), header,
		)
	}

	return nil
}

func formatAllowedCodes(rules *ruleset.RuleSet) string {
	var b strings.Builder
	for i, code := range rules.CodesInOrder() {
		if i > 0 {
			b.WriteString("\n")
		}
		if description := rules.AllowedCodes[code]; description != "" {
			b.WriteString(" - " + code + ": " + description)
		} else {
			b.WriteString(" - " + code)
		}
	}
	return b.String()
}

func splitLines(message string) []string {
	normalized := strings.ReplaceAll(message, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// stripComments removes comment lines before any checks run. Comments never
// count as content and are never validated.
func stripComments(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}

	// A message that is only comments and trailing blank lines is empty.
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	return kept
}

func isMergeHeader(header string) bool {
	return strings.HasPrefix(header, "Merge ")
}

// splitBodyAndFooter separates the remaining lines into body prose and the
// trailing footer block. Footer detection is a best-effort heuristic: the
// footer is the trailing run of TOKEN: value lines, where TOKEN is uppercase
// words, digits, and dashes. A colon mid-body does not start a footer.
func splitBodyAndFooter(lines []string) (body, footer []string) {
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}

	footerStart := end
	for footerStart > 0 && footerLine.MatchString(lines[footerStart-1]) {
		footerStart--
	}

	for _, line := range lines[:footerStart] {
		if line != "" {
			body = append(body, line)
		}
	}
	return body, lines[footerStart:end]
}

func detectBreakingChange(body, footer []string) (bool, error) {
	breaking := false
	for _, line := range append(append([]string{}, body...), footer...) {
		lineBreaking, err := checkBreakingChangeLine(line)
		if err != nil {
			return false, err
		}
		breaking = breaking || lineBreaking
	}
	return breaking, nil
}

// checkBreakingChangeLine reports whether a line declares a breaking change.
// Indicators must be uppercase and followed by ": " and a description;
// anything that looks like an indicator but is not in that form is an error
// rather than a silently unflagged breaking change.
func checkBreakingChangeLine(line string) (bool, error) {
	for _, indicator := range BreakingChangeIndicators {
		if strings.Contains(line, strings.ToLower(indicator)) {
			return false, malformedBreakingChangeError(line)
		}
	}

	for _, indicator := range BreakingChangeIndicators {
		if strings.Contains(line, indicator) {
			if !breakingChangeLine.MatchString(line) {
				return false, malformedBreakingChangeError(line)
			}
			return true, nil
		}
	}

	return false, nil
}

func malformedBreakingChangeError(line string) *Error {
	return newErrorf(
		KindMalformedBreakingChange,
		"breaking changes must be denoted by one of %v in uppercase followed by %q and a description e.g. 'BREAKING CHANGE: Change MyPublicClass interface'; received %q",
		BreakingChangeIndicators, CodeSeparator, line,
	)
}

// HasBreakingChangeMarker reports whether any breaking-change indicator
// appears in the text. Used by lenient consumers (release notes, version
// prediction) that scan whole commit bodies rather than validated lines.
func HasBreakingChangeMarker(text string) bool {
	for _, indicator := range BreakingChangeIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

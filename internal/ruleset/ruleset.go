// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ruleset holds the configurable rules a commit message is checked
// against. A RuleSet is built once per invocation from explicit overrides
// layered onto the documented defaults and is never mutated afterwards.
package ruleset

import (
	"fmt"
	"regexp"
	"sort"
)

// DefaultCodes maps the default allowed commit codes to their descriptions.
// Codes are case sensitive. Three capital letters by convention so codes line
// up in `git log --oneline`, but callers may add codes of any shape.
var DefaultCodes = map[string]string{
	"FEA": "A new feature",
	"ENH": "An improvement or optimisation to an existing feature",
	"FIX": "A bug fix",
	"OPS": "An operational/devops/git change e.g. to continuous integration scripts or GitHub templates",
	"DEP": "A change in dependencies",
	"REF": "A refactor of existing code",
	"TST": "A change to tests or the testing framework",
	"MRG": "A merge commit",
	"REV": "A reversion e.g. a `git revert` commit",
	"CHO": "A chore e.g. updating a menial configuration file or .gitignore file",
	"WIP": "A work-in-progress commit (usually to be avoided, but makes sense for e.g. trying changes in git-based CI)",
	"DOC": "A change to documentation, docstrings, or documentation generation",
	"STY": "A change to code style specifications or to code to conform to new style",
}

const (
	// DefaultMaximumHeaderLength is the default maximum header length in characters.
	DefaultMaximumHeaderLength = 72

	// DefaultMaximumBodyLineLength is the default maximum body line length in characters.
	DefaultMaximumBodyLineLength = 72

	// DefaultHeaderEndingPattern requires headers to end in an alphanumeric
	// character, ruling out trailing punctuation.
	DefaultHeaderEndingPattern = `[A-Za-z\d]`
)

// Options are the caller-supplied overrides for a RuleSet. The zero value of
// every field means "use the default". Fields carry yaml tags so an Options
// can also be loaded from a repo-local rule file.
type Options struct {
	// AllowedCodes replaces the default code set entirely.
	AllowedCodes []string `yaml:"allowed_codes"`

	// AdditionalCodes are merged into the default code set.
	AdditionalCodes []string `yaml:"additional_codes"`

	MaximumHeaderLength      int    `yaml:"maximum_header_length"`
	ValidHeaderEndingPattern string `yaml:"valid_header_ending_pattern"`
	RequireBody              bool   `yaml:"require_body"`
	MaximumBodyLineLength    int    `yaml:"maximum_body_line_length"`
}

// RuleSet is the resolved, immutable rule configuration.
type RuleSet struct {
	// AllowedCodes maps each allowed code to a description. Never empty.
	AllowedCodes map[string]string

	MaximumHeaderLength   int
	ValidHeaderEnding     *regexp.Regexp
	RequireBody           bool
	MaximumBodyLineLength int
}

// PatternError reports a header-ending pattern that does not compile. It is
// surfaced at construction time so a bad pattern never reaches a parse call.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid header ending pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// New resolves Options into a RuleSet, applying defaults for unset fields.
func New(opts Options) (*RuleSet, error) {
	codes := make(map[string]string, len(DefaultCodes))

	switch {
	case len(opts.AllowedCodes) > 0:
		for _, code := range opts.AllowedCodes {
			codes[code] = ""
		}
	default:
		for code, description := range DefaultCodes {
			codes[code] = description
		}
		for _, code := range opts.AdditionalCodes {
			if _, ok := codes[code]; !ok {
				codes[code] = ""
			}
		}
	}

	headerLength := opts.MaximumHeaderLength
	if headerLength <= 0 {
		headerLength = DefaultMaximumHeaderLength
	}

	bodyLineLength := opts.MaximumBodyLineLength
	if bodyLineLength <= 0 {
		bodyLineLength = DefaultMaximumBodyLineLength
	}

	pattern := opts.ValidHeaderEndingPattern
	if pattern == "" {
		pattern = DefaultHeaderEndingPattern
	}

	ending, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}

	return &RuleSet{
		AllowedCodes:          codes,
		MaximumHeaderLength:   headerLength,
		ValidHeaderEnding:     ending,
		RequireBody:           opts.RequireBody,
		MaximumBodyLineLength: bodyLineLength,
	}, nil
}

// Default returns a RuleSet with every field at its default.
func Default() *RuleSet {
	rules, err := New(Options{})
	if err != nil {
		// The default pattern is a compile-time constant that always compiles.
		panic(err)
	}
	return rules
}

// CodesInOrder returns the allowed codes sorted alphabetically, so error
// messages and help output stay deterministic.
func (r *RuleSet) CodesInOrder() []string {
	codes := make([]string, 0, len(r.AllowedCodes))
	for code := range r.AllowedCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

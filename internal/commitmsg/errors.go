// SPDX-License-Identifier: AGPL-3.0-or-later
package commitmsg

import (
	"errors"
	"fmt"
)

// Kind identifies which rule a commit message violated. Exactly one Kind is
// reported per failed parse; the parser fails fast on the first broken rule.
type Kind string

const (
	KindEmptyMessage            Kind = "empty_message"
	KindMissingCodeDelimiter    Kind = "missing_code_delimiter"
	KindDisallowedCode          Kind = "disallowed_code"
	KindHeaderTooLong           Kind = "header_too_long"
	KindInvalidHeaderEnding     Kind = "invalid_header_ending"
	KindMissingBlankLine        Kind = "missing_blank_line"
	KindMissingRequiredBody     Kind = "missing_required_body"
	KindBodyLineTooLong         Kind = "body_line_too_long"
	KindMalformedBreakingChange Kind = "malformed_breaking_change"
)

// Error is a single failed commit-message check. The message is written for
// the committer: it names the offending value and the limit that was broken.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newErrorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the rule Kind from any error, or "" if the error did not
// come from a commit-message check.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

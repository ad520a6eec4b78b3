// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitlog reads commit history by shelling out to git.
package gitlog

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// The log format delimits hash, header, body, and decoration with "|§" and
// terminates each entry with "@@@". Newlines cannot terminate entries because
// commit bodies contain them; the delimiter characters are chosen to be
// uncommon enough that delimiting errors are unlikely.
const (
	fieldDelimiter  = "|§"
	entryTerminator = "@@@"
	logFormat       = "--pretty=format:%h" + fieldDelimiter + "%s" + fieldDelimiter + "%b" + fieldDelimiter + "%d" + entryTerminator
)

var (
	releaseTagPattern = regexp.MustCompile(`tag: (\d+\.\d+\.\d+)`)
	refMergePattern   = regexp.MustCompile(`Merge [0-9a-f]+ into [0-9a-f]+`)
)

// Entry is one commit from the decorated git log.
type Entry struct {
	Hash       string
	Header     string
	Body       string
	Decoration string
}

// ReleaseTag returns the semantic-version release tag on this commit, if any.
func (e Entry) ReleaseTag() (string, bool) {
	match := releaseTagPattern.FindStringSubmatch(e.Decoration)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// IsRefMerge reports whether the commit is a merge of one commit ref into
// another. CI systems produce these; they do not appear in the actual branch
// history, so history consumers skip them.
func (e Entry) IsRefMerge() bool {
	return refMergePattern.MatchString(e.Header)
}

// Reader provides access to a repository's commit history, caching the log
// for the instance lifetime.
type Reader struct {
	repoRoot string

	mu       sync.Mutex
	logCache []Entry
}

// NewReader creates a Reader for the given repository root.
func NewReader(repoRoot string) *Reader {
	return &Reader{repoRoot: repoRoot}
}

// Log returns the full decorated commit log, newest first.
func (r *Reader) Log(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.logCache != nil {
		return r.logCache, nil
	}

	cmd := exec.CommandContext(ctx, "git", "log", logFormat)
	cmd.Dir = r.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w", err)
	}

	r.logCache = ParseEntries(string(out))
	return r.logCache, nil
}

// ParseEntries splits raw formatted log output into entries.
func ParseEntries(raw string) []Entry {
	entries := []Entry{}

	for _, chunk := range strings.Split(raw, entryTerminator) {
		chunk = strings.TrimLeft(chunk, "\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		fields := strings.SplitN(chunk, fieldDelimiter, 4)
		if len(fields) != 4 {
			continue
		}

		entries = append(entries, Entry{
			Hash:       strings.TrimSpace(fields[0]),
			Header:     fields[1],
			Body:       strings.TrimRight(fields[2], "\n"),
			Decoration: strings.TrimSpace(fields[3]),
		})
	}

	return entries
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitMessagePath returns the path of the message for the in-progress
// commit, as written by git for the commit-msg hook.
func CommitMessagePath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "COMMIT_EDITMSG")
}

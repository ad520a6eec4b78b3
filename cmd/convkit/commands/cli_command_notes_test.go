// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convkit/convkit/internal/relnotes"
)

func TestCLICommandNotes_Help(t *testing.T) {
	cmd := NewRootCmd()
	out := bytes.NewBufferString("")
	cmd.SetOut(out)
	cmd.SetArgs([]string{"notes", "--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "LAST_RELEASE")
	assert.Contains(t, out.String(), "--pull-request-url")
}

func TestCLICommandNotes_InvalidStopPoint(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(bytes.NewBufferString(""))
	cmd.SetErr(bytes.NewBufferString(""))
	cmd.SetArgs([]string{"notes", "WHENEVER"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop point must be one of")
}

func TestCLICommandNotes_PullRequestStart(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/repos/blah/my-repo/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"number": 7,
			"html_url": "https://github.com/blah/my-repo/pull/7",
			"body": "",
			"commits_url": "%s/repos/blah/my-repo/pulls/7/commits"
		}`, server.URL)
	})
	mux.HandleFunc("/repos/blah/my-repo/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"commit": {"message": "FEA: Add widget support\n\nAdds configurable widgets."}},
			{"commit": {"message": "FIX: Stop widgets from exploding"}},
			{"commit": {"message": "Made a quick fix"}}
		]`)
	})

	cmd := NewRootCmd()
	out := bytes.NewBufferString("")
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBufferString(""))
	cmd.SetArgs([]string{
		"notes", "PULL_REQUEST_START",
		"--pull-request-url", server.URL + "/repos/blah/my-repo/pulls/7",
	})

	require.NoError(t, cmd.Execute())

	notes := out.String()
	assert.Contains(t, notes, relnotes.AutoGenerationStart)
	assert.Contains(t, notes, relnotes.AutoGenerationEnd)
	assert.Contains(t, notes, "## Contents ([#7](https://github.com/blah/my-repo/pull/7))")
	assert.Contains(t, notes, "### New features\n- Add widget support")
	assert.Contains(t, notes, "### Fixes\n- Stop widgets from exploding")
	assert.Contains(t, notes, "### Uncategorised!\n- Made a quick fix")
}

func TestCLICommandNotes_SkipIndicatorInPullRequestBody(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/repos/blah/my-repo/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"number": 7,
			"html_url": "https://github.com/blah/my-repo/pull/7",
			"body": "%s\nHand-written notes",
			"commits_url": "%s/repos/blah/my-repo/pulls/7/commits"
		}`, relnotes.SkipIndicator, server.URL)
	})
	mux.HandleFunc("/repos/blah/my-repo/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"commit": {"message": "FEA: Add widget support"}}]`)
	})

	cmd := NewRootCmd()
	out := bytes.NewBufferString("")
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBufferString(""))
	cmd.SetArgs([]string{
		"notes", "PULL_REQUEST_START",
		"--pull-request-url", server.URL + "/repos/blah/my-repo/pulls/7",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Hand-written notes")
	assert.NotContains(t, out.String(), "Add widget support")
}

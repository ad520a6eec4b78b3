// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convkit/convkit/internal/gitlog"
	"github.com/convkit/convkit/internal/relnotes"
)

// NewNotesCommand returns the `convkit notes` command.
func NewNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <stop-point>",
		Short: "Compile commit messages into release notes",
		Long: "Compiles the commit messages since the given stop point (LAST_RELEASE or PULL_REQUEST_START) into " +
			"markdown release notes grouped by commit code, and prints them to stdout. " +
			"When a pull request URL is given, the generated section is spliced into the pull request's existing description.",
		Args: cobra.ExactArgs(1),
		RunE: runNotes,
	}

	// Flags in alphabetical order for deterministic help output
	cmd.Flags().String("api-token", "", "GitHub API token; only needed for private repositories")
	cmd.Flags().String("header", relnotes.DefaultHeader, "Markdown header to put above the generated notes")
	cmd.Flags().String("list-item-symbol", relnotes.DefaultListItemSymbol, "Markdown list symbol for listed commit messages")
	cmd.Flags().Bool("no-link-to-pull-request", false, "Don't link to the pull request in the notes")
	cmd.Flags().String("pull-request-url", "", "GitHub API URL of the pull request to compile notes for")

	return cmd
}

func runNotes(cmd *cobra.Command, args []string) error {
	stopPoint, err := relnotes.ParseStopPoint(args[0])
	if err != nil {
		return err
	}

	pullRequestURL, _ := cmd.Flags().GetString("pull-request-url")
	apiToken, _ := cmd.Flags().GetString("api-token")
	header, _ := cmd.Flags().GetString("header")
	listItemSymbol, _ := cmd.Flags().GetString("list-item-symbol")
	noLink, _ := cmd.Flags().GetBool("no-link-to-pull-request")

	var pullRequest *relnotes.PullRequest
	if pullRequestURL != "" {
		client := &relnotes.Client{Token: apiToken}
		pullRequest, err = client.FetchPullRequest(cmd.Context(), pullRequestURL)
		if err != nil {
			// An inaccessible pull request downgrades the run rather than
			// failing it: compile from the git log instead.
			fmt.Fprintf(cmd.ErrOrStderr(), "Pull request could not be accessed; resorting to using %s stop point.\n%v\n", relnotes.LastRelease, err)
			stopPoint = relnotes.LastRelease
			pullRequest = nil
		}
	}

	var entries []gitlog.Entry
	if pullRequest != nil && stopPoint == relnotes.PullRequestStart {
		entries = relnotes.EntriesFromMessages(pullRequest.CommitMessages)
	} else {
		repoRoot, err := gitlog.RepoRoot(cmd.Context(), ".")
		if err != nil {
			return fmt.Errorf("finding repository root: %w", err)
		}
		log, err := gitlog.NewReader(repoRoot).Log(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading commit history: %w", err)
		}
		entries = relnotes.UntilLastRelease(log)
	}

	compiler := &relnotes.Compiler{
		StopPoint:              stopPoint,
		Header:                 header,
		ListItemSymbol:         listItemSymbol,
		PullRequest:            pullRequest,
		IncludePullRequestLink: !noLink,
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), compiler.Compile(entries))
	return nil
}

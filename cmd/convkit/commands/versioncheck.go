// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/convkit/convkit/cmd/convkit/internal/clierr"
	"github.com/convkit/convkit/internal/gitlog"
	"github.com/convkit/convkit/internal/versiongate"
	"github.com/convkit/convkit/internal/versionsrc"
)

// NewVersionCheckCommand returns the `convkit version-check` command, the
// version gate for release pipelines.
func NewVersionCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version-check <source>",
		Short: "Check the declared package version against commit history",
		Long: "Compares the version declared in setup.py, pyproject.toml, or package.json with the semantic version " +
			"expected from the commit history since the last release tag. " +
			"Exits 0 when they match and 1 when they differ.",
		Args: cobra.ExactArgs(1),
		RunE: runVersionCheck,
	}

	cmd.Flags().String("file", "", "Path to the version source file if it is not in the current working directory")

	return cmd
}

func runVersionCheck(cmd *cobra.Command, args []string) error {
	source, err := versionsrc.ParseSource(args[0])
	if err != nil {
		return err
	}

	sourceFile, _ := cmd.Flags().GetString("file")

	current, err := versionsrc.Current(source, sourceFile)
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}
	if current == "" || current == "null" {
		return clierr.New(1, "VERSION FAILED CHECKS: No current version found")
	}

	currentVersion, err := semver.NewVersion(current)
	if err != nil {
		return clierr.Newf(1, "VERSION FAILED CHECKS: The current version %q is not a semantic version: %v", current, err)
	}

	repoRoot, err := gitlog.RepoRoot(cmd.Context(), ".")
	if err != nil {
		return fmt.Errorf("finding repository root: %w", err)
	}

	entries, err := gitlog.NewReader(repoRoot).Log(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading commit history: %w", err)
	}

	expected, err := versiongate.Expected(entries)
	if err != nil {
		return fmt.Errorf("computing expected version: %w", err)
	}

	if !currentVersion.Equal(expected) {
		return clierr.Newf(
			1,
			"VERSION FAILED CHECKS: The current version (%s) is different from the expected semantic version (%s)",
			currentVersion, expected,
		)
	}

	_, _ = fmt.Fprintf(
		cmd.OutOrStdout(),
		"VERSION PASSED CHECKS: The current version is the same as the expected semantic version: %s\n",
		expected,
	)
	return nil
}

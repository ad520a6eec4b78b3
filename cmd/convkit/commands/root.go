// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Convkit - Conventional Commits tooling for continuous-deployment pipelines.
It validates commit messages against the Conventional Commits convention, gates
declared package versions against the version expected from commit history, and
compiles commit messages into formatted release notes.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the convkit root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("CONVKIT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "convkit",
		Short:         "Convkit - Conventional Commits tooling for release pipelines",
		Long:          "Convkit validates commit messages, checks declared package versions against commit history, and compiles release notes from Conventional Commit messages.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of convkit",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "convkit version %s\n", version)
		},
	})

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewVersionCheckCommand())
	cmd.AddCommand(NewNotesCommand())

	return cmd
}

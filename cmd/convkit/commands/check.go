// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convkit/convkit/cmd/convkit/internal/clierr"
	"github.com/convkit/convkit/internal/commitmsg"
	"github.com/convkit/convkit/internal/gitlog"
	"github.com/convkit/convkit/internal/ruleset"
)

// NewCheckCommand returns the `convkit check` command, intended to run as a
// commit-msg hook.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [message-file]",
		Short: "Check a commit message against the Conventional Commits rules",
		Long: "Checks that a commit message adheres to the Conventional Commits convention and the configured rules. " +
			"The message is read from the given file, or from the in-progress commit of the current repository. " +
			"Exits 0 when the message passes and 1 when it fails.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}

	// Flags in alphabetical order for deterministic help output
	cmd.Flags().String("additional-commit-codes", "", "Comma-separated commit codes to allow on top of the defaults")
	cmd.Flags().String("allowed-commit-codes", "", "Comma-separated commit codes replacing the default set")
	cmd.Flags().String("config", "", "Path to a rule file (default: "+ruleset.DefaultFileName+" in the repository root)")
	cmd.Flags().Int("maximum-body-line-length", ruleset.DefaultMaximumBodyLineLength, "Maximum length of each body line in characters")
	cmd.Flags().Int("maximum-header-length", ruleset.DefaultMaximumHeaderLength, "Maximum header length in characters")
	cmd.Flags().Bool("require-body", false, "Require a body in the commit message")
	cmd.Flags().String("valid-header-ending-pattern", ruleset.DefaultHeaderEndingPattern, "Regex pattern the header's final character must match")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	messagePath := ""
	if len(args) == 1 {
		messagePath = args[0]
	}

	if messagePath == "" {
		repoRoot, err := gitlog.RepoRoot(cmd.Context(), ".")
		if err != nil {
			return fmt.Errorf("finding repository root: %w", err)
		}
		messagePath = gitlog.CommitMessagePath(repoRoot)
	}

	message, err := os.ReadFile(messagePath) //nolint:gosec // G304: path supplied by the operator
	if err != nil {
		return fmt.Errorf("reading commit message: %w", err)
	}

	rules, err := buildRules(cmd)
	if err != nil {
		return err
	}

	if _, err := commitmsg.Parse(string(message), rules); err != nil {
		return clierr.Wrap(1, "COMMIT MESSAGE FAILED CHECKS", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "COMMIT MESSAGE PASSED CHECKS")
	return nil
}

// buildRules resolves the rule set for a command: documented defaults, then
// the rule file, then explicitly-set flags, each layer overriding the last.
func buildRules(cmd *cobra.Command) (*ruleset.RuleSet, error) {
	opts := ruleset.Options{}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		if repoRoot, err := gitlog.RepoRoot(cmd.Context(), "."); err == nil {
			candidate := filepath.Join(repoRoot, ruleset.DefaultFileName)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
			}
		}
	}

	if configPath != "" {
		loaded, err := ruleset.Load(configPath)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	if cmd.Flags().Changed("allowed-commit-codes") {
		value, _ := cmd.Flags().GetString("allowed-commit-codes")
		opts.AllowedCodes = splitCodes(value)
	}
	if cmd.Flags().Changed("additional-commit-codes") {
		value, _ := cmd.Flags().GetString("additional-commit-codes")
		opts.AdditionalCodes = splitCodes(value)
	}
	if cmd.Flags().Changed("maximum-header-length") {
		opts.MaximumHeaderLength, _ = cmd.Flags().GetInt("maximum-header-length")
	}
	if cmd.Flags().Changed("valid-header-ending-pattern") {
		opts.ValidHeaderEndingPattern, _ = cmd.Flags().GetString("valid-header-ending-pattern")
	}
	if cmd.Flags().Changed("require-body") {
		opts.RequireBody, _ = cmd.Flags().GetBool("require-body")
	}
	if cmd.Flags().Changed("maximum-body-line-length") {
		opts.MaximumBodyLineLength, _ = cmd.Flags().GetInt("maximum-body-line-length")
	}

	return ruleset.New(opts)
}

func splitCodes(value string) []string {
	var codes []string
	for _, code := range strings.Split(value, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// SPDX-License-Identifier: AGPL-3.0-or-later
package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the repo-local rule file looked for by the CLI.
const DefaultFileName = ".convkit.yaml"

// Load reads Options from a YAML rule file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path supplied by the operator
	if err != nil {
		return Options{}, fmt.Errorf("failed to read rule file: %w", err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse rule file YAML: %w", err)
	}

	return opts, nil
}

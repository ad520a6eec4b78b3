// SPDX-License-Identifier: AGPL-3.0-or-later

// Package versionsrc extracts the version a package declares about itself
// from its packaging metadata file.
package versionsrc

import (
	"fmt"
	"os"
	"regexp"

	koanfjson "github.com/knadh/koanf/parsers/json"
	koanftoml "github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source names a supported version-source file.
type Source string

const (
	SetupPy     Source = "setup.py"
	PyProject   Source = "pyproject.toml"
	PackageJSON Source = "package.json"
)

// Sources lists the supported version sources.
var Sources = []Source{SetupPy, PyProject, PackageJSON}

// ParseSource validates a version-source name.
func ParseSource(s string) (Source, error) {
	for _, source := range Sources {
		if s == string(source) {
			return source, nil
		}
	}
	return "", fmt.Errorf("unsupported version source received: %q; options are %v", s, Sources)
}

var setupPyVersion = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)

// Current reads the declared version via the given source. path overrides
// the source file location; when empty, the source's default file name in
// the current working directory is used.
func Current(source Source, path string) (string, error) {
	if path == "" {
		path = string(source)
	}

	switch source {
	case SetupPy:
		return fromSetupPy(path)
	case PyProject:
		// Poetry layout first, PEP 621 as fallback.
		return fromStructuredFile(path, koanftoml.Parser(), "tool.poetry.version", "project.version")
	case PackageJSON:
		return fromStructuredFile(path, koanfjson.Parser(), "version")
	default:
		_, err := ParseSource(string(source))
		return "", err
	}
}

func fromSetupPy(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path supplied by the operator
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	match := setupPyVersion.FindSubmatch(data)
	if match == nil {
		return "", fmt.Errorf("no version found in %s", path)
	}
	return string(match[1]), nil
}

func fromStructuredFile(path string, parser koanf.Parser, keys ...string) (string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return "", fmt.Errorf("loading %s: %w", path, err)
	}

	for _, key := range keys {
		if version := k.String(key); version != "" {
			return version, nil
		}
	}
	return "", fmt.Errorf("no version found in %s", path)
}

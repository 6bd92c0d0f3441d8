// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gomaint/internal/issue"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the per-module and workspace config file.
const FileName = "gomaint.toml"

// LoadModuleConfig reads the task configuration for the module rooted at
// dir. A missing file is not an error; it yields the zero-value config.
func LoadModuleConfig(dir string) (*ModuleConfig, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ModuleConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ModuleConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load task config").
			WithResource(path).
			WithSuggestion("Check the TOML syntax near the reported line").
			WithSuggestion("Valid tables are [test], [lint], [docs], [fuzz], [integration], [prerelease]").
			Wrap(err).
			BuildError()
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate task config").
			WithResource(path).
			WithSuggestion("Fix the listed field values and re-run").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, nil
}

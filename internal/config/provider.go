// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit settings loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific settings file when set.
	ConfigFilePath string
	// WorkspaceRoot is the directory searched for gomaint.toml when no
	// explicit file is given.
	WorkspaceRoot string
}

// Provider loads tool settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, error)
}

type fileProvider struct{}

// NewProvider creates a settings provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	s, _, err := loadSettingsWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return s, nil
}

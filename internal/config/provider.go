// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from. The zero value
	// searches the platform config dir, then ./config.cue.
	LoadOptions struct {
		// ConfigFilePath names the only file to read, as given by --config.
		// A missing file is an error.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config dir in the search.
		ConfigDirPath string
	}

	// Provider loads configuration. The CLI depends on this interface so
	// that tests can inject fixed configurations.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider returns the Provider that reads CUE files and SHZIP_*
// environment variables.
func NewProvider() Provider {
	return fileProvider{}
}

// Load implements Provider. Config.Source records the file that was read.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

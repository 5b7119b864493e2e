// Package config loads the indexforge configuration
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/indexforge/indexforge/internal/mappings"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config represents the indexforge configuration
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Features FeaturesConfig `mapstructure:"features"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// RegistryConfig locates the type definition files
type RegistryConfig struct {
	Dir string `mapstructure:"dir"`
}

// FeaturesConfig holds the feature flags the mapping builder consults
type FeaturesConfig struct {
	Permissions bool `mapstructure:"permissions"`
	Workspaces  bool `mapstructure:"workspaces"`
}

// HasFlag implements mappings.FlagSource.
func (f FeaturesConfig) HasFlag(name string) bool {
	switch name {
	case mappings.FlagPermissions:
		return f.Permissions
	case mappings.FlagWorkspaces:
		return f.Workspaces
	}
	return false
}

// SnapshotConfig configures the mapping snapshot store
type SnapshotConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

// Load loads the configuration from indexforge.yml or indexforge.yaml
// in the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from the given directory. A missing
// config file is not an error; defaults and environment variables
// still apply.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("registry.dir", "types")
	v.SetDefault("features.permissions", false)
	v.SetDefault("features.workspaces", false)

	// Set config name and paths
	v.SetConfigName("indexforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Enable environment variable support (INDEXFORGE_FEATURES_PERMISSIONS etc.)
	v.SetEnvPrefix("indexforge")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// GetDatabaseURL returns the snapshot database URL from the
// environment or config, in that order.
func (c *Config) GetDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return c.Snapshot.DatabaseURL
}

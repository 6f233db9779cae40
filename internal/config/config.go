package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the search tool configuration
type Config struct {
	// Search settings
	Path           string   `mapstructure:"path"`             // default search root (empty: current directory)
	Recursive      bool     `mapstructure:"recursive"`        // walk subdirectories by default
	Exclude        []string `mapstructure:"exclude"`          // extra path fragments skipped in system-wide scans
	ExcludeProfile string   `mapstructure:"exclude_profiles"` // directory with YAML exclusion profiles
	ParallelRoots  bool     `mapstructure:"parallel_roots"`   // walk system-wide roots concurrently
	FollowSymlinks bool     `mapstructure:"follow_symlinks"`  // treat symlinks to regular files as files

	// Output settings
	Output      string `mapstructure:"output"`       // table, list, json, yaml
	SortResults bool   `mapstructure:"sort_results"` // sort results by path before rendering
	Progress    bool   `mapstructure:"progress"`     // show progress line on a terminal
}

// Output formats
const (
	OutputTable = "table"
	OutputList  = "list"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// OutputFormats lists the accepted output formats
var OutputFormats = []string{OutputTable, OutputList, OutputJSON, OutputYAML}

// LoadConfig loads configuration from defaults, environment variables and
// an optional YAML file. An empty configFile looks for $HOME/.csr.yaml and
// silently continues when it does not exist.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("path", "")
	v.SetDefault("recursive", false)
	v.SetDefault("exclude", []string{})
	v.SetDefault("exclude_profiles", "")
	v.SetDefault("parallel_roots", false)
	v.SetDefault("follow_symlinks", true)
	v.SetDefault("output", OutputTable)
	v.SetDefault("sort_results", false)
	v.SetDefault("progress", true)

	// Read environment variables
	v.SetEnvPrefix("CSR")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".csr.yaml"))
		if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isMissingConfig reports whether err means the config file is absent
func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// IsValidOutput checks if the output format is supported
func IsValidOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

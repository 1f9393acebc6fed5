// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package config loads sirseer-explorer settings.
//
// Sources, highest precedence first:
//  1. Command-line flags (applied by the caller)
//  2. Environment variables, including a .env file in the working directory
//  3. The YAML configuration file
//  4. Built-in defaults
//
// Without --config the file is searched for in .sirseer-explorer.yaml,
// .sirseer-explorer.yml, ~/.sirseer/explorer.yaml and ~/.sirseer/explorer.yml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/sirseer-explorer/internal/state"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

// DotEnvFile is loaded from the working directory when present. Variables
// already set in the process environment win over the file.
const DotEnvFile = ".env"

// LoadConfig builds the effective configuration. An explicit configPath
// must exist; the standard locations are optional. Paths are expanded
// (~ and $VARS) after overrides are applied.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.Dir = expandPath(cfg.Storage.Dir)
	return cfg, nil
}

func defaultPaths() []string {
	home := homeDir()
	return []string{
		".sirseer-explorer.yaml",
		".sirseer-explorer.yml",
		filepath.Join(home, ".sirseer", "explorer.yaml"),
		filepath.Join(home, ".sirseer", "explorer.yml"),
	}
}

// loadDotEnv loads path into the environment without overriding existing
// variables. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Malformed numeric values are reported rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}

	if user := os.Getenv("SIRSEER_DEFAULT_USER"); user != "" {
		cfg.Defaults.Username = strings.TrimSpace(user)
	}

	if dir := os.Getenv("SIRSEER_STATE_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if driver := os.Getenv("SIRSEER_STORE_DRIVER"); driver != "" {
		cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(driver))
	}

	if ms := os.Getenv("SIRSEER_DEBOUNCE_MS"); ms != "" {
		n, err := parsePositiveInt(ms)
		if err != nil {
			return fmt.Errorf("SIRSEER_DEBOUNCE_MS: %w", err)
		}
		cfg.Search.DebounceMS = n
	}

	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("SIRSEER_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if archived := os.Getenv("SIRSEER_SHOW_ARCHIVED"); archived != "" {
		cfg.Defaults.ShowArchived = parseBool(archived)
	}
	return nil
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// SortKey returns the configured default sort key. Validate guarantees it
// parses.
func (c *Config) SortKey() view.SortKey {
	key, err := view.ParseSortKey(c.Defaults.Sort)
	if err != nil {
		return view.SortCreated
	}
	return key
}

// Validate rejects settings that would fail later at runtime: unknown sort
// keys, drivers and output formats, a non-positive debounce, an empty
// endpoint and negative retry settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GitHub.APIEndpoint) == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("GitHub timeout must not be negative, got: %s", c.GitHub.Timeout)
	}
	if _, err := view.ParseSortKey(c.Defaults.Sort); err != nil {
		return fmt.Errorf("invalid default sort: %w", err)
	}
	switch c.Defaults.OutputFormat {
	case FormatTable, FormatNDJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Defaults.OutputFormat, FormatTable, FormatNDJSON)
	}
	if c.Search.DebounceMS <= 0 {
		return fmt.Errorf("search debounce must be positive, got: %d", c.Search.DebounceMS)
	}
	switch c.Storage.Driver {
	case state.DriverFile, state.DriverSQLite, state.DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got: %d", c.Retry.MaxRetries)
	}
	if c.Retry.MaxBackoff > 0 && c.Retry.InitialBackoff > c.Retry.MaxBackoff {
		return fmt.Errorf("initial backoff %s exceeds max backoff %s", c.Retry.InitialBackoff, c.Retry.MaxBackoff)
	}
	return nil
}

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
package config

import "time"

// Config is the complete configuration for sirseer-explorer. Values are
// layered defaults, then the YAML file, then environment, then flags.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Search   SearchConfig   `yaml:"search"`
	Storage  StorageConfig  `yaml:"storage"`
	Retry    RetryConfig    `yaml:"retry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GitHubConfig points the client at github.com or a GitHub Enterprise
// REST root such as https://ghe.example.com/api/v3.
type GitHubConfig struct {
	APIEndpoint string        `yaml:"api_endpoint"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultsConfig holds the initial view settings for a session.
type DefaultsConfig struct {
	Username     string `yaml:"username"`
	Sort         string `yaml:"sort"`
	ShowArchived bool   `yaml:"show_archived"`
	OutputFormat string `yaml:"output_format"`
}

// SearchConfig controls how search input is debounced.
type SearchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// StorageConfig selects where the last username is remembered.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

// RetryConfig bounds retries of transient network failures.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// LoggingConfig is passed through to the logging package.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Output formats accepted by defaults.output_format.
const (
	FormatTable  = "table"
	FormatNDJSON = "ndjson"
)

// DefaultConfig returns the built-in defaults: public github.com, newest
// repositories first, archived repositories visible, a 300ms search
// debounce and the JSON file store under ~/.sirseer/explorer.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			Timeout:     30 * time.Second,
		},
		Defaults: DefaultsConfig{
			Sort:         "created",
			ShowArchived: true,
			OutputFormat: FormatTable,
		},
		Search: SearchConfig{
			DebounceMS: 300,
		},
		Storage: StorageConfig{
			Driver: "file",
			Dir:    "~/.sirseer/explorer",
		},
		Retry: RetryConfig{
			MaxRetries:     2,
			InitialBackoff: time.Second,
			MaxBackoff:     10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DebounceDelay returns the search debounce as a duration.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

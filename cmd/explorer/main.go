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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-explorer/pkg/version"
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// newRootCommand wires the subcommands and the flags shared by all of them.
func newRootCommand() *cobra.Command {
	var global globalOptions

	rootCmd := &cobra.Command{
		Use:   "sirseer-explorer",
		Short: "Browse a GitHub user's profile and public repositories",
		Long: `SirSeer Explorer shows a GitHub user's profile and public repositories
with search, language filters, sorting, pagination and language statistics.
It talks to the public GitHub REST API without authentication.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&global.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&global.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&global.logFormat, "log-format", "", "Log format: console or json")
	flags.StringVar(&global.storeDriver, "store", "", "Where to remember the last username: file, sqlite or memory")
	flags.StringVar(&global.stateDir, "state-dir", "", "Directory for the username store")
	flags.StringVar(&global.endpoint, "api-endpoint", "", "GitHub REST API root (for GitHub Enterprise)")

	rootCmd.AddCommand(
		newShowCommand(&global),
		newExploreCommand(&global),
		newVersionCommand(),
	)
	return rootCmd
}

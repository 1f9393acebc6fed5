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

package testutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// BuildVersion is linked into the test binary so version output can be
// told apart from a developer build.
const BuildVersion = "v0.0.0-test"

// cliTimeout bounds a single CLI run. An explore session waiting on stdin
// that never closes fails instead of hanging the suite.
const cliTimeout = 60 * time.Second

var (
	binaryOnce sync.Once
	binaryPath string
	buildErr   error
)

// BuildBinary compiles cmd/explorer once per test run and returns the path
// of the sirseer-explorer executable.
func BuildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		// Outlives individual tests, so not t.TempDir.
		tmpDir, err := os.MkdirTemp("", "sirseer-explorer-test")
		if err != nil {
			buildErr = err
			return
		}
		binaryPath = filepath.Join(tmpDir, "sirseer-explorer")

		projectRoot, err := findProjectRoot()
		if err != nil {
			buildErr = err
			return
		}

		ldflags := "-X github.com/sirseerhq/sirseer-explorer/pkg/version.Version=" + BuildVersion
		cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", binaryPath, "./cmd/explorer")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = err
			t.Logf("Build output: %s", output)
		}
	})

	if buildErr != nil {
		t.Fatalf("Failed to build binary: %v", buildErr)
	}

	return binaryPath
}

// CLIResult contains the result of running a CLI command
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RunCLI executes the sirseer-explorer binary with the given arguments.
// Stdin is empty unless RunCLIWithInput is used.
func RunCLI(t *testing.T, args []string, env map[string]string) CLIResult {
	t.Helper()
	return RunCLIWithInput(t, args, env, "")
}

// RunCLIWithInput is RunCLI with input fed to the process on stdin, one
// explore command per line.
func RunCLIWithInput(t *testing.T, args []string, env map[string]string, input string) CLIResult {
	t.Helper()

	binary := BuildBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		t.Fatalf("sirseer-explorer %s did not finish within %s\nStdout: %s", strings.Join(args, " "), cliTimeout, stdout.String())
	}

	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		exitCode = exitErr.ExitCode()
	case err != nil:
		exitCode = -1
	}

	return CLIResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// AssertCLISuccess checks that the CLI command succeeded
func AssertCLISuccess(t *testing.T, result CLIResult) {
	t.Helper()

	if result.Err != nil {
		t.Fatalf("Command failed: %v\nStderr: %s", result.Err, result.Stderr)
	}
}

// AssertCLIError checks that the CLI command failed with expected error
func AssertCLIError(t *testing.T, result CLIResult, expectedError string) {
	t.Helper()

	if result.Err == nil {
		t.Fatal("Expected command to fail, but it succeeded")
	}

	if expectedError != "" && !strings.Contains(result.Stderr, expectedError) {
		t.Errorf("Expected error containing %q, got: %s", expectedError, result.Stderr)
	}
}

// AssertExitCode checks the command exit code
func AssertExitCode(t *testing.T, result CLIResult, expected int) {
	t.Helper()

	if result.ExitCode != expected {
		t.Errorf("Expected exit code %d, got %d\nStderr: %s", expected, result.ExitCode, result.Stderr)
	}
}

// IsolatedEnv returns environment overrides that point the CLI at server,
// keep it away from the developer's home directory and store the last
// username under stateDir.
func IsolatedEnv(server *MockServer, home, stateDir string) map[string]string {
	return map[string]string{
		"HOME":                 home,
		"GITHUB_API_ENDPOINT":  server.URL,
		"SIRSEER_STATE_DIR":    stateDir,
		"SIRSEER_STORE_DRIVER": "file",
		"SIRSEER_LOG_LEVEL":    "error",
		"SIRSEER_DEFAULT_USER": "",
	}
}

// RunWithMockServer runs "show <username>" against server with an
// isolated home and state directory.
func RunWithMockServer(t *testing.T, server *MockServer, username string, args ...string) CLIResult {
	t.Helper()

	home := NewHome(t)
	fullArgs := []string{"show"}
	if username != "" {
		fullArgs = append(fullArgs, username)
	}
	fullArgs = append(fullArgs, args...)

	return RunCLI(t, fullArgs, IsolatedEnv(server, home.Dir, home.StateDir))
}

// findProjectRoot finds the project root by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}


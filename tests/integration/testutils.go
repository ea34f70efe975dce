//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestTempDir creates a temporary directory for integration tests
func TestTempDir(t *testing.T) string {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "calpick-integration-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Clean up temp dir after test
	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return tempDir
}

// TestCLI runs the calpick binary against an isolated data directory
type TestCLI struct {
	t       *testing.T
	tempDir string
	dataDir string
	binPath string
	env     []string
}

// NewTestCLI builds the binary and creates an empty data directory
func NewTestCLI(t *testing.T) *TestCLI {
	t.Helper()

	tempDir := TestTempDir(t)
	dataDir := filepath.Join(tempDir, ".calpick")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	binPath := filepath.Join(tempDir, "calpick")
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/calpick")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build test binary: %v\n%s", err, out)
	}

	env := []string{
		fmt.Sprintf("CALPICK_DATA_DIR=%s", dataDir),
		"HOME=" + tempDir, // Prevent reading from actual home directory
	}

	return &TestCLI{
		t:       t,
		tempDir: tempDir,
		dataDir: dataDir,
		binPath: binPath,
		env:     env,
	}
}

// Run executes a CLI command with given arguments
func (tc *TestCLI) Run(args ...string) (stdout, stderr string, err error) {
	tc.t.Helper()

	cmd := exec.Command(tc.binPath, args...)
	cmd.Env = append(os.Environ(), tc.env...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()

	return stdoutBuf.String(), stderrBuf.String(), err
}

// RunExpectSuccess runs a command and expects it to succeed
func (tc *TestCLI) RunExpectSuccess(args ...string) string {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err != nil {
		tc.t.Logf("Command failed: %s %v", strings.Join(args, " "), err)
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Logf("STDERR: %s", stderr)
		tc.t.Fatalf("Expected command to succeed, but it failed")
	}

	return stdout
}

// RunExpectFailure runs a command and expects it to fail
func (tc *TestCLI) RunExpectFailure(args ...string) (stdout, stderr string) {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err == nil {
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Fatalf("Expected command to fail, but it succeeded")
	}

	return stdout, stderr
}

// WriteConfig replaces the picker configuration file
func (tc *TestCLI) WriteConfig(content string) string {
	tc.t.Helper()

	path := filepath.Join(tc.dataDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		tc.t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// WriteFile creates a file in the temp dir and returns its path
func (tc *TestCLI) WriteFile(name, content string) string {
	tc.t.Helper()

	path := filepath.Join(tc.tempDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

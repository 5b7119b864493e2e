package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the indexforge binary once for all tests
func buildTestBinary() (string, error) {
	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "indexforge-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		return "", testBinaryErr
	}
	return testBinary, nil
}

// setupProject creates a minimal project directory with a config file
// and one type definition
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	config := "registry:\n  dir: types\nfeatures:\n  workspaces: true\n"
	if err := os.WriteFile(filepath.Join(dir, "indexforge.yml"), []byte(config), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	typesDir := filepath.Join(dir, "types")
	if err := os.Mkdir(typesDir, 0o755); err != nil {
		t.Fatalf("failed to create types dir: %v", err)
	}

	def := "name: dashboard\nmappings:\n  properties:\n    title:\n      type: text\n"
	if err := os.WriteFile(filepath.Join(typesDir, "dashboard.yml"), []byte(def), 0o644); err != nil {
		t.Fatalf("failed to write type definition: %v", err)
	}

	return dir
}

func TestVersionCommand(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	cmd := exec.Command(binary, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	outputStr := string(output)
	for _, exp := range []string{"indexforge version:", "Git commit:", "Build date:", "Go version:"} {
		if !strings.Contains(outputStr, exp) {
			t.Errorf("version output missing expected string: %q\nGot: %s", exp, outputStr)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}
	dir := setupProject(t)

	cmd := exec.Command(binary, "build")
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build command failed: %v\nOutput: %s", err, output)
	}

	outputStr := string(output)
	for _, exp := range []string{`"dynamic": "strict"`, `"title"`, `"workspaces"`, `"migrationMappingPropertyHashes"`} {
		if !strings.Contains(outputStr, exp) {
			t.Errorf("build output missing %q\nGot: %s", exp, outputStr)
		}
	}
}

func TestDiffCommand_NoChanges(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}
	dir := setupProject(t)

	// Build to a file, then diff against it: no migration required.
	buildOut := filepath.Join(dir, "actual.json")
	cmd := exec.Command(binary, "build", "-o", buildOut)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build command failed: %v\nOutput: %s", err, output)
	}

	cmd = exec.Command(binary, "diff", "--no-color", buildOut)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("diff command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "up to date") {
		t.Errorf("expected up-to-date verdict, got: %s", output)
	}
}

func TestDiffCommand_Changed(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}
	dir := setupProject(t)

	buildOut := filepath.Join(dir, "actual.json")
	cmd := exec.Command(binary, "build", "-o", buildOut)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build command failed: %v\nOutput: %s", err, output)
	}

	// Register a second type so the expected mapping gains a field.
	def := "name: note\nmappings:\n  properties:\n    body:\n      type: text\n"
	if err := os.WriteFile(filepath.Join(dir, "types", "note.yml"), []byte(def), 0o644); err != nil {
		t.Fatalf("failed to write type definition: %v", err)
	}

	cmd = exec.Command(binary, "diff", "--no-color", buildOut)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected diff to exit non-zero, output: %s", output)
	}
	if !strings.Contains(string(output), "properties.body") {
		t.Errorf("expected properties.body in diff output, got: %s", output)
	}
}

func TestTypesCommand(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}
	dir := setupProject(t)

	cmd := exec.Command(binary, "types")
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("types command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "dashboard") {
		t.Errorf("expected dashboard in types output, got: %s", output)
	}
}

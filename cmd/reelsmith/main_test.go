package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	storePath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	storePath := filepath.Join(base, "reelsmith.db")
	configPath := filepath.Join(base, "config.toml")

	content := fmt.Sprintf(`[paths]
source_video = %q
prescale_dir = %q
output_dir = %q
store_path = %q
log_dir = %q
`,
		filepath.Join(base, "footage.mp4"),
		filepath.Join(base, "prescaled"),
		filepath.Join(base, "reels"),
		storePath,
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, storePath: storePath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q missing %q", haystack, needle)
	}
}

func TestRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	requireContains(t, out, "render")
	requireContains(t, out, "prescale")
	requireContains(t, out, "reels")
}

func TestRenderRequiresScript(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"render"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "script is required") {
		t.Fatalf("render without script: %v", err)
	}
}

func TestRenderRejectsConflictingScriptFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"render", "--script", "hi", "--script-file", "x.txt"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("render with both script flags: %v", err)
	}
}

func TestReelsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, []string{"reels", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("reels list: %v", err)
	}
	requireContains(t, out, "No reels rendered yet")
}

func TestReelsShowUnknownKey(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"reels", "show", "deadbeef"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no reel with cache key") {
		t.Fatalf("reels show: %v", err)
	}
}

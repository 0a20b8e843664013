package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with a config whose database lives in a temp dir.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, studio string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "database:\n" +
		"  driver: sqlite\n" +
		"  dsn: " + filepath.Join(dir, "pipeline.db") + "\n" +
		"  log_level: silent\n" +
		"workspace:\n" +
		"  default_root: " + studio + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, writeConfig(t, t.TempDir()), "templates")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[0], "TYPE"))
	assert.Contains(t, out, "tracking")
	assert.Contains(t, out, "houdini_fx")
	assert.Contains(t, out, "vfx")
}

func TestMaterializeCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	dir := filepath.Join(t.TempDir(), "250001_Show")

	out, err := run(t, cfg, "materialize", "--type", "compositing", "--name", "Show", "--client", "ACME", dir)
	require.NoError(t, err)

	var m scaffold.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "compositing", m.Type)
	assert.Equal(t, "ACME", m.Client)
	assert.DirExists(t, filepath.Join(dir, "03_scripts"))
	assert.FileExists(t, filepath.Join(dir, scaffold.ManifestFile))

	_, err = run(t, cfg, "materialize", "--type", "compositing", dir)
	assert.Error(t, err, "an existing directory is refused without --apply")

	_, err = run(t, cfg, "materialize", "--apply", "--type", "houdini_fx", dir)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "03_hip"))
	assert.DirExists(t, filepath.Join(dir, "03_scripts"))

	_, err = run(t, cfg, "materialize", "--apply", filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestMaterializeCommand_Shots(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	dir := filepath.Join(t.TempDir(), "Heist")

	_, err := run(t, cfg, "materialize", "--shots", "sh010, sh020,", dir)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "vfx", "sh010", "compositing", "nuke", "scripts"))
	assert.DirExists(t, filepath.Join(dir, "vfx", "sh020"))

	_, err = run(t, cfg, "materialize", "--shots", "sh010,sh010", filepath.Join(t.TempDir(), "Dup"))
	assert.Error(t, err)
}

func TestScanAndNextNumber(t *testing.T) {
	studio := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(studio, "Projects", "250007_Found", "vfx", "sh010"), 0755))
	cfg := writeConfig(t, studio)

	out, err := run(t, cfg, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "added   250007_Found (vfx)")
	assert.Contains(t, out, "1 added, 0 skipped, 1 registered")

	out, err = run(t, cfg, "scan", studio)
	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 1 skipped, 1 registered")

	out, err = run(t, cfg, "next-number")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}\n$`, out)

	_, err = run(t, cfg, "scan", filepath.Join(studio, "missing"))
	assert.Error(t, err)
}

func TestMigrateAndSeedTools(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := run(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	out, err = run(t, cfg, "seed-tools")
	require.NoError(t, err)
	assert.Equal(t, "3 tools registered\n", out)
}

func TestInitConfigCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	target := filepath.Join(t.TempDir(), "out", "config.yaml")

	_, err := run(t, cfg, "init-config", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: sqlite")

	_, err = run(t, cfg, "init-config", target)
	assert.Error(t, err)

	_, err = run(t, cfg, "init-config", "--force", target)
	assert.NoError(t, err)
}

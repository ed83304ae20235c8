//go:build !integration

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpelmig/bpelmig/pkg/testutil"
)

func TestLoadDefaults(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")

	cfg, err := Load(dir)
	require.NoError(t, err)
	if cfg.Input != "." {
		t.Errorf("unexpected default input %q", cfg.Input)
	}
	if cfg.Strict || cfg.Jobs != 0 || cfg.Output != "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	testutil.WriteFile(t, filepath.Join(dir, FileName), `
input: processes
output: build
strict: true
jobs: 4
prompt_dir: prompts
scaffold:
  group_id: com.acme
  base_package: com.acme.orders
  output_dir: generated
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	if cfg.Input != "processes" || cfg.Output != "build" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if !cfg.Strict || cfg.Jobs != 4 {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.PromptDir != "prompts" {
		t.Errorf("unexpected prompt dir %q", cfg.PromptDir)
	}
	if cfg.Scaffold.GroupID != "com.acme" || cfg.Scaffold.BasePackage != "com.acme.orders" || cfg.Scaffold.OutputDir != "generated" {
		t.Errorf("unexpected scaffold config %+v", cfg.Scaffold)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	testutil.WriteFile(t, filepath.Join(dir, FileName), "output: from-file\n")

	t.Setenv("BPELMIG_OUTPUT", "from-env")
	t.Setenv("BPELMIG_STRICT", "true")
	t.Setenv("BPELMIG_PROMPT_DIR", "env-prompts")
	t.Setenv("BPELMIG_SCAFFOLD_GROUP_ID", "com.env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	if cfg.Output != "from-env" {
		t.Errorf("environment must override the file, got %q", cfg.Output)
	}
	if !cfg.Strict {
		t.Error("expected BPELMIG_STRICT to apply")
	}
	if cfg.PromptDir != "env-prompts" {
		t.Errorf("expected BPELMIG_PROMPT_DIR to stay a flat key, got %q", cfg.PromptDir)
	}
	if cfg.Scaffold.GroupID != "com.env" {
		t.Errorf("expected BPELMIG_SCAFFOLD_GROUP_ID to map into scaffold, got %+v", cfg.Scaffold)
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	testutil.WriteFile(t, filepath.Join(dir, FileName), "input: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Error("expected an error for unparseable YAML")
	}
}

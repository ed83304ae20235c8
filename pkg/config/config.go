// Package config loads tool configuration from a project-level .bpelmig.yml
// file merged with BPELMIG_* environment variables. Flags set on the
// command line take precedence over both and are applied by the cli layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var configLog = logger.New("config:load")

// FileName is the conventional project configuration file.
const FileName = ".bpelmig.yml"

// envPrefix namespaces the environment variables this tool reads.
const envPrefix = "BPELMIG_"

// Config is the merged tool configuration.
type Config struct {
	// Input is the project root containing bpel/, wsdl/ and xsd/.
	Input string `koanf:"input"`
	// Output receives prds/ and summaries/. Empty means the input root.
	Output string `koanf:"output"`
	// Strict fails compilation on high-risk gaps.
	Strict bool `koanf:"strict"`
	// Jobs bounds parallel compilation workers.
	Jobs int `koanf:"jobs"`
	// PromptDir overrides the embedded prompt documents.
	PromptDir string `koanf:"prompt_dir"`

	Scaffold ScaffoldConfig `koanf:"scaffold"`
}

// ScaffoldConfig configures skeleton generation defaults.
type ScaffoldConfig struct {
	GroupID     string `koanf:"group_id"`
	BasePackage string `koanf:"base_package"`
	OutputDir   string `koanf:"output_dir"`
}

// Default returns the configuration used when no file or environment is
// present.
func Default() Config {
	return Config{Input: "."}
}

// Load reads configuration for the project rooted at dir. A missing config
// file is not an error.
func Load(dir string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		configLog.Printf("Loading configuration from %s", path)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// BPELMIG_SCAFFOLD_GROUP_ID=... maps to scaffold.group_id; everything
	// else stays a top-level key (BPELMIG_PROMPT_DIR -> prompt_dir).
	err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if rest, ok := strings.CutPrefix(key, "scaffold_"); ok {
			return "scaffold." + rest
		}
		return key
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	configLog.Printf("Loaded configuration: input=%s, strict=%v", cfg.Input, cfg.Strict)
	return cfg, nil
}

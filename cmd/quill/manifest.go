package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"quill/internal/backend/cgen"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Emit emitConfig `toml:"emit"`
}

type emitConfig struct {
	Policy string `toml:"policy"`
	Output string `toml:"output"`
}

// findQuillToml walks up from startDir looking for a quill.toml.
func findQuillToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "quill.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findQuillToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("emit", "policy") {
		if _, err := parsePolicy(cfg.Emit.Policy); err != nil {
			return projectConfig{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

func parsePolicy(s string) (cgen.ExprPolicy, error) {
	switch strings.TrimSpace(s) {
	case "", "recompute":
		return cgen.ExprRecompute, nil
	case "single-use-calls":
		return cgen.ExprSingleUseCalls, nil
	default:
		return cgen.ExprRecompute, fmt.Errorf("unknown emit policy %q (must be recompute or single-use-calls)", s)
	}
}

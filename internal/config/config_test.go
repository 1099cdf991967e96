// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// TestDefault verifies the built-in configuration.
func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	if cfg.Engine != EngineDocker {
		t.Errorf("expected default engine docker, got %q", cfg.Engine)
	}
	if want := []string{"sudo"}; !slices.Equal(cfg.ElevateCommand, want) {
		t.Errorf("expected elevate command %v, got %v", want, cfg.ElevateCommand)
	}
	if want := []string{"/bin/bash", "-l"}; !slices.Equal(cfg.Shell, want) {
		t.Errorf("expected shell %v, got %v", want, cfg.Shell)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

// TestValidate_RejectsUnknownEngine verifies engine validation.
func TestValidate_RejectsUnknownEngine(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Engine = "containerd"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidEngine) {
		t.Fatalf("expected ErrInvalidEngine, got %v", err)
	}
}

// TestLoad_ExplicitFile verifies values read from an explicit config file.
func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `engine = "podman"
base_image = "debian:12"
quiet = true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine != EnginePodman {
		t.Errorf("expected engine podman, got %q", cfg.Engine)
	}
	if cfg.BaseImage != "debian:12" {
		t.Errorf("expected base image debian:12, got %q", cfg.BaseImage)
	}
	if !cfg.Quiet {
		t.Error("expected quiet to be set")
	}
	// Unset keys keep their defaults.
	if want := []string{"sudo"}; !slices.Equal(cfg.ElevateCommand, want) {
		t.Errorf("expected elevate command %v, got %v", want, cfg.ElevateCommand)
	}
}

// TestLoad_MissingExplicitFile verifies an explicit path must exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

// TestLoad_InvalidEngineInFile verifies validation runs on loaded values.
func TestLoad_InvalidEngineInFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("engine = \"lxd\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidEngine) {
		t.Fatalf("expected ErrInvalidEngine, got %v", err)
	}
}

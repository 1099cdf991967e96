// SPDX-License-Identifier: MPL-2.0

package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"

	"dent-cli/internal/container"
)

// Account holds the invoking OS account fields used as template inputs.
type Account struct {
	// UID is the numeric user id, as a string.
	UID string
	// Username is the login name.
	Username string
	// Gecos is the descriptive field of the account entry.
	Gecos string
}

// CurrentAccount reads the invoking user's account from the OS directory.
func CurrentAccount() (Account, error) {
	u, err := user.Current()
	if err != nil {
		return Account{}, fmt.Errorf("look up the invoking user: %w", err)
	}
	return Account{
		UID:      u.Uid,
		Username: u.Username,
		Gecos:    u.Name,
	}, nil
}

// BuildConfig describes one image build.
type BuildConfig struct {
	// Alias is the resolved image alias the result is tagged with.
	Alias string
	// Base is the base image the build derives from.
	Base string
	// Dir is an explicit build-context directory. Empty means a fresh
	// temporary directory. An explicit directory must not already exist.
	Dir string
	// Keep retains the build-context directory after the build.
	Keep bool
	// Rebuild forces a cache-less rebuild even when the alias exists,
	// untagging the old alias first (best effort).
	Rebuild bool
	// Quiet suppresses build output.
	Quiet bool
	// Stdout receives build output when not quiet.
	Stdout io.Writer
	// Stderr receives live engine diagnostics.
	Stderr io.Writer
}

// Builder materializes build contexts and drives image builds through the
// engine.
type Builder struct {
	engine  container.Engine
	account Account
	logger  *log.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithAccount overrides the invoking account used for template substitution.
func WithAccount(acct Account) BuilderOption {
	return func(b *Builder) {
		b.account = acct
	}
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder. Unless overridden, the invoking user's
// account is resolved once here.
func NewBuilder(eng container.Engine, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		engine: eng,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.account == (Account{}) {
		acct, err := CurrentAccount()
		if err != nil {
			return nil, err
		}
		b.account = acct
	}
	return b, nil
}

// Ensure makes sure the image behind cfg.Alias exists, building it when the
// engine does not have it. An existing image is reused unless a rebuild is
// forced.
func (b *Builder) Ensure(ctx context.Context, cfg BuildConfig) error {
	records, err := b.engine.Inspect(ctx, container.KindImage, cfg.Alias)
	if err != nil {
		return err
	}
	if len(records) > 0 && !cfg.Rebuild {
		b.logger.Debug("reusing existing image", "alias", cfg.Alias)
		return nil
	}
	return b.Build(ctx, cfg)
}

// Build materializes the build context, drives one engine build, and removes
// the context after a successful build unless retention was requested. The
// context of a failed build is left in place so the operator can inspect it.
func (b *Builder) Build(ctx context.Context, cfg BuildConfig) error {
	dir, err := b.writeContext(cfg)
	if err != nil {
		return err
	}

	if cfg.Rebuild {
		// Best-effort untag. A failure here is deliberately ignored:
		// the cache-less rebuild below supersedes whatever was tagged.
		_ = b.engine.RemoveImage(ctx, cfg.Alias)
	}

	b.logger.Debug("building image", "alias", cfg.Alias, "base", cfg.Base, "dir", dir)

	err = b.engine.Build(ctx, container.BuildOptions{
		ContextDir: dir,
		Tag:        cfg.Alias,
		NoCache:    cfg.Rebuild,
		Quiet:      cfg.Quiet,
		Stdout:     cfg.Stdout,
		Stderr:     cfg.Stderr,
	})
	if err != nil {
		return fmt.Errorf("error building image %s from base %s: %w", cfg.Alias, cfg.Base, err)
	}

	if cfg.Keep {
		b.logger.Info("keeping build context", "dir", dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		b.logger.Warn("could not remove build context", "dir", dir, "err", err)
	}
	return nil
}

// writeContext creates the build-context directory and writes the two
// generated artifacts: the provisioning script (owner read+execute) and the
// build manifest (owner read).
func (b *Builder) writeContext(cfg BuildConfig) (string, error) {
	var dir string
	switch {
	case cfg.Dir != "":
		if _, err := os.Stat(cfg.Dir); err == nil {
			return "", fmt.Errorf("build directory %s already exists", cfg.Dir)
		}
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create build directory: %w", err)
		}
		dir = cfg.Dir
	default:
		tmp, err := os.MkdirTemp("", "dent-build-")
		if err != nil {
			return "", fmt.Errorf("create build directory: %w", err)
		}
		dir = tmp
	}

	script, err := render(ProvisionScriptName, provisionScriptTemplate, scriptData{
		UID:      b.account.UID,
		Username: b.account.Username,
		Gecos:    b.account.Gecos,
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, ProvisionScriptName), []byte(script), 0o500); err != nil {
		return "", fmt.Errorf("write provisioning script: %w", err)
	}

	manifest, err := render(ManifestName, manifestTemplate, manifestData{
		BaseImage: cfg.Base,
		Username:  b.account.Username,
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o400); err != nil {
		return "", fmt.Errorf("write build manifest: %w", err)
	}

	return dir, nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"dent-cli/internal/config"
	"dent-cli/internal/container"
	"dent-cli/internal/entry"
	"dent-cli/internal/image"
	"dent-cli/internal/issue"
	"dent-cli/internal/lifecycle"
)

// enterOptions is the fully merged, immutable set of inputs for one
// invocation. Flags win over configuration values; configuration values win
// over built-in defaults.
type enterOptions struct {
	name    string
	command []string

	image  string
	base   string
	tag    string
	engine string

	elevate []string
	shell   []string

	buildDir     string
	quiet        bool
	rebuild      bool
	keepBuildDir bool
}

// mergeOptions combines the loaded configuration, the parsed flags and the
// positional arguments into one enterOptions value.
func mergeOptions(cfg *config.Config, f rootFlags, args []string) enterOptions {
	opts := enterOptions{
		name:         args[0],
		command:      args[1:],
		image:        f.image,
		base:         f.base,
		tag:          f.tag,
		engine:       cfg.Engine,
		elevate:      cfg.ElevateCommand,
		shell:        cfg.Shell,
		buildDir:     f.buildDir,
		quiet:        cfg.Quiet || f.quiet,
		rebuild:      f.rebuild,
		keepBuildDir: f.keepBuildDir,
	}
	// Configured base and tag defaults only apply when no explicit image is
	// in play; a configured default must never trip the image/tag conflict.
	if opts.base == "" && opts.image == "" {
		opts.base = cfg.BaseImage
	}
	if opts.tag == "" && opts.image == "" {
		opts.tag = cfg.Tag
	}
	if f.engine != "" {
		opts.engine = f.engine
	}
	return opts
}

func runEnter(ctx context.Context, f rootFlags, args []string) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return reportSuggestions(issue.NewErrorContext().
			WithOperation("load configuration").
			WithSuggestion("check the file for syntax errors, or remove it to use the defaults").
			Wrap(err))
	}

	opts := mergeOptions(cfg, f, args)
	logger := newLogger(f.verbose)

	// A conflicting --image/--tag pair is a user error that no engine call
	// can resolve, so it fails before any engine is even located.
	if opts.image != "" && opts.tag != "" {
		return image.ErrImageAndTag
	}

	eng, err := container.NewEngine(container.EngineType(opts.engine))
	if err != nil {
		return reportSuggestions(issue.NewErrorContext().
			WithOperation("locate a container engine").
			WithSuggestion("install docker or podman and make sure it is on your PATH").
			WithSuggestion("select an installed engine with --engine or the engine configuration key").
			Wrap(err))
	}
	logger.Debug("selected container engine", "engine", eng.Name(), "binary", eng.BinaryPath())

	resolver := container.NewElevationResolver(opts.elevate)
	if err := resolver.Resolve(ctx, eng); err != nil {
		return reportSuggestions(issue.NewErrorContext().
			WithOperation("reach the container engine daemon").
			WithResource(eng.Name()).
			WithSuggestion("make sure the engine daemon is running").
			WithSuggestion("add your user to the engine's group, or configure elevate_command").
			Wrap(err))
	}

	builder, err := image.NewBuilder(eng, image.WithLogger(logger))
	if err != nil {
		return err
	}

	// Image resolution and building only happen when the container has to
	// be created. An existing container is entered as-is, even without any
	// image settings on hand.
	provider := lifecycle.ImageProviderFunc(func(ctx context.Context) (string, error) {
		alias, err := image.ResolveAlias(image.ResolveOptions{
			Image: opts.image,
			Base:  opts.base,
			Tag:   opts.tag,
		})
		if err != nil {
			return "", err
		}
		if opts.image != "" {
			return alias, nil
		}
		err = builder.Ensure(ctx, image.BuildConfig{
			Alias:   alias,
			Base:    opts.base,
			Dir:     opts.buildDir,
			Keep:    opts.keepBuildDir,
			Rebuild: opts.rebuild,
			Quiet:   opts.quiet,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		})
		if err != nil {
			return "", err
		}
		return alias, nil
	})

	ctrl := lifecycle.New(eng, provider, lifecycle.WithLogger(logger))
	if err := ctrl.Enter(ctx, opts.name); err != nil {
		return reportSuggestions(enterSuggestions(err))
	}

	command := opts.command
	if len(command) == 0 && len(opts.shell) > 0 {
		command = opts.shell
	}

	executor := entry.NewExecutor(eng)
	// On success this call replaces the current process and never returns.
	return executor.Enter(opts.name, command)
}

// enterSuggestions attaches recovery hints to the lifecycle errors a user
// can act on. Everything else passes through untouched.
func enterSuggestions(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrContainerVanished):
		return issue.NewErrorContext().
			WithOperation("enter container").
			WithSuggestion("the container exited right after starting; inspect its logs with the engine CLI").
			Wrap(err)
	case errors.Is(err, lifecycle.ErrStartTimeout):
		return issue.NewErrorContext().
			WithOperation("enter container").
			WithSuggestion("the container never reached the running state; inspect it with the engine CLI").
			Wrap(err)
	}
	return err
}

// reportSuggestions prints the hints carried by an actionable error before
// handing it back unchanged for the normal error path. Verbose runs get the
// full detailed form instead of the one-line hints.
func reportSuggestions(err error) error {
	return writeSuggestions(os.Stderr, flags.verbose, err)
}

func writeSuggestions(w io.Writer, verbose bool, err error) error {
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		return err
	}
	if verbose {
		fmt.Fprintln(w, ErrorStyle.Render(actionable.Detailed()))
		return err
	}
	for _, s := range actionable.Suggestions {
		fmt.Fprintln(w, SubtitleStyle.Render("hint: "+s))
	}
	return err
}

// SPDX-License-Identifier: MPL-2.0

// Package lifecycle decides whether a named container must be created,
// started, or left alone, and waits for it to report running.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"dent-cli/internal/container"
)

const (
	// waitAttempts bounds the wait-for-start polling loop.
	waitAttempts = 50
	// waitInterval spaces the polls. 50 attempts at 100ms trade a worst
	// case of ~5s for robustness without open-ended blocking; start is
	// near-instantaneous in the success case, so no backoff.
	waitInterval = 100 * time.Millisecond

	// KeepAliveCommand is the container's initial process. The initial
	// command is immutable once the container exists and the real
	// workload is always injected later via exec, so a generic
	// placeholder is required. The duration is seconds, safely below the
	// signed 32-bit ceiling some sleep implementations cap at.
	KeepAliveCommand = "sleep"
	// KeepAliveDuration is the argument to KeepAliveCommand.
	KeepAliveDuration = "2000000000"
)

var (
	// ErrContainerVanished is the sentinel error wrapped by VanishedError.
	ErrContainerVanished = errors.New("container vanished after start")
	// ErrStartTimeout is the sentinel error wrapped by StartTimeoutError.
	ErrStartTimeout = errors.New("container start timed out")
)

// VanishedError is returned when a container that was just created or
// started has no inspect record anymore: it existed and disappeared, as
// opposed to never reaching a running state.
type VanishedError struct {
	Name string
}

func (e *VanishedError) Error() string {
	return fmt.Sprintf("container %s was started but is no longer running", e.Name)
}

// Unwrap returns ErrContainerVanished for errors.Is() compatibility.
func (e *VanishedError) Unwrap() error { return ErrContainerVanished }

// StartTimeoutError is returned when the polling budget is exhausted without
// the container ever reporting running.
type StartTimeoutError struct {
	Name string
}

func (e *StartTimeoutError) Error() string {
	return fmt.Sprintf("cannot start container %s", e.Name)
}

// Unwrap returns ErrStartTimeout for errors.Is() compatibility.
func (e *StartTimeoutError) Unwrap() error { return ErrStartTimeout }

// ImageProvider ensures the backing image exists and returns its alias.
// It is only consulted when a container has to be created.
type ImageProvider interface {
	Ensure(ctx context.Context) (alias string, err error)
}

// ImageProviderFunc adapts a function to the ImageProvider interface.
type ImageProviderFunc func(ctx context.Context) (string, error)

// Ensure calls f.
func (f ImageProviderFunc) Ensure(ctx context.Context) (string, error) { return f(ctx) }

// Controller drives a single named container from whatever state inspection
// finds it in to running.
type Controller struct {
	engine   container.Engine
	images   ImageProvider
	logger   *log.Logger
	attempts int
	interval time.Duration
	sleep    func(time.Duration)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for lifecycle diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithWaitBudget overrides the polling bound and interval.
func WithWaitBudget(attempts int, interval time.Duration) Option {
	return func(c *Controller) {
		c.attempts = attempts
		c.interval = interval
	}
}

// WithSleep sets a custom sleep function for testing.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Controller) {
		c.sleep = fn
	}
}

// New creates a Controller over the given engine and image provider.
func New(eng container.Engine, images ImageProvider, opts ...Option) *Controller {
	c := &Controller{
		engine:   eng,
		images:   images,
		logger:   log.Default(),
		attempts: waitAttempts,
		interval: waitInterval,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enter brings the named container to the running state: absent containers
// are created (which resolves and builds the image as needed, and implicitly
// starts), stopped containers are started, running containers are left
// alone. Every path ends in the bounded wait for the container to actually
// report running.
func (c *Controller) Enter(ctx context.Context, name string) error {
	records, err := c.engine.Inspect(ctx, container.KindContainer, name)
	if err != nil {
		return err
	}

	switch {
	case len(records) == 0:
		if err := c.create(ctx, name); err != nil {
			return err
		}
	case !records[0].State.Running:
		c.logger.Debug("starting stopped container", "name", name)
		if err := c.engine.Start(ctx, name); err != nil {
			return fmt.Errorf("could not start container %s: %w", name, err)
		}
	default:
		c.logger.Debug("container already running", "name", name)
	}

	return c.waitRunning(ctx, name)
}

// create resolves/builds the image and issues a detached run. The long sleep
// keeps the container alive indefinitely without depending on any particular
// workload.
func (c *Controller) create(ctx context.Context, name string) error {
	alias, err := c.images.Ensure(ctx)
	if err != nil {
		return err
	}

	c.logger.Debug("creating container", "name", name, "image", alias)

	err = c.engine.Run(ctx, container.RunOptions{
		Image:          alias,
		Name:           name,
		Hostname:       name,
		Detach:         true,
		Command:        []string{KeepAliveCommand, KeepAliveDuration},
		SuppressOutput: true,
	})
	if err != nil {
		return fmt.Errorf("could not create container %s: %w", name, err)
	}
	return nil
}

// waitRunning polls inspection until the container reports running. A
// missing record terminates immediately with VanishedError; an exhausted
// budget terminates with StartTimeoutError.
func (c *Controller) waitRunning(ctx context.Context, name string) error {
	for attempt := 0; attempt < c.attempts; attempt++ {
		records, err := c.engine.Inspect(ctx, container.KindContainer, name)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return &VanishedError{Name: name}
		}
		if records[0].State.Running {
			return nil
		}
		c.sleep(c.interval)
	}
	return &StartTimeoutError{Name: name}
}

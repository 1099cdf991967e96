// SPDX-License-Identifier: MPL-2.0

package image

import (
	"context"

	"dent-cli/internal/container"
)

// fakeEngine records engine calls and scripts inspect responses, letting
// tests assert exact call sequences without a real engine.
type fakeEngine struct {
	calls []string

	inspectResults [][]container.Record
	inspectCalls   int
	inspectErr     error

	buildOpts []container.BuildOptions
	buildErr  error

	removedImages []string
	removeErr     error
}

func (f *fakeEngine) Name() string                    { return "docker" }
func (f *fakeEngine) BinaryPath() string              { return "/usr/bin/docker" }
func (f *fakeEngine) Available() bool                 { return true }
func (f *fakeEngine) Healthy(context.Context) bool    { return true }
func (f *fakeEngine) SetCommandPrefix(prefix []string) {}
func (f *fakeEngine) CommandPrefix() []string          { return nil }

func (f *fakeEngine) Inspect(_ context.Context, kind container.ObjectKind, _ ...string) ([]container.Record, error) {
	f.calls = append(f.calls, "inspect "+string(kind))
	idx := f.inspectCalls
	f.inspectCalls++
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	if idx < len(f.inspectResults) {
		return f.inspectResults[idx], nil
	}
	return nil, nil
}

func (f *fakeEngine) Build(_ context.Context, opts container.BuildOptions) error {
	f.calls = append(f.calls, "build")
	f.buildOpts = append(f.buildOpts, opts)
	return f.buildErr
}

func (f *fakeEngine) Run(_ context.Context, _ container.RunOptions) error {
	f.calls = append(f.calls, "run")
	return nil
}

func (f *fakeEngine) Start(_ context.Context, _ string) error {
	f.calls = append(f.calls, "start")
	return nil
}

func (f *fakeEngine) RemoveImage(_ context.Context, image string) error {
	f.calls = append(f.calls, "rmi")
	f.removedImages = append(f.removedImages, image)
	return f.removeErr
}

func (f *fakeEngine) ExecArgv(opts container.ExecOptions) []string {
	argv := []string{"/usr/bin/docker", "exec"}
	if opts.Interactive {
		argv = append(argv, "-i")
	}
	if opts.TTY {
		argv = append(argv, "-t")
	}
	argv = append(argv, opts.Container)
	return append(argv, opts.Command...)
}

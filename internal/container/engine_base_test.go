// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"slices"
	"testing"
)

// TestInspectArgs verifies the inspect argument vector for both object kinds.
func TestInspectArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("/usr/bin/docker")

	got := e.InspectArgs(KindContainer, "devbox")
	want := []string{"inspect", "--type", "container", "devbox"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = e.InspectArgs(KindImage, "dent/debian.10:alice")
	want = []string{"inspect", "--type", "image", "dent/debian.10:alice"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestBuildArgs verifies tag and cache flags on the build argument vector.
func TestBuildArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("/usr/bin/docker")

	got := e.BuildArgs(BuildOptions{ContextDir: "/tmp/ctx", Tag: "dent/debian.10:alice"})
	want := []string{"build", "-t", "dent/debian.10:alice", "/tmp/ctx"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = e.BuildArgs(BuildOptions{ContextDir: "/tmp/ctx", Tag: "x", NoCache: true})
	if !slices.Contains(got, "--no-cache") {
		t.Errorf("expected --no-cache in %v", got)
	}
}

// TestRunArgs verifies the detached named run argument vector, command last.
func TestRunArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("/usr/bin/docker")

	got := e.RunArgs(RunOptions{
		Image:    "dent/debian.10:alice",
		Name:     "devbox",
		Hostname: "devbox",
		Detach:   true,
		Command:  []string{"sleep", "2000000000"},
	})
	want := []string{
		"run", "-d",
		"--name", "devbox",
		"--hostname", "devbox",
		"dent/debian.10:alice",
		"sleep", "2000000000",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestExecArgs verifies interactive and TTY flags on the exec argument vector.
func TestExecArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("/usr/bin/docker")

	got := e.ExecArgs(ExecOptions{
		Container:   "devbox",
		Command:     []string{"/bin/bash", "-l"},
		Interactive: true,
		TTY:         true,
	})
	want := []string{"exec", "-i", "-t", "devbox", "/bin/bash", "-l"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = e.ExecArgs(ExecOptions{
		Container:   "devbox",
		Command:     []string{"ls"},
		Interactive: true,
	})
	if slices.Contains(got, "-t") {
		t.Errorf("expected no -t without a terminal, got %v", got)
	}
}

// TestExecArgv_IncludesPrefixAndBinary verifies argv[0] handling with and
// without an elevation prefix.
func TestExecArgv_IncludesPrefixAndBinary(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("/usr/bin/docker")

	argv := e.ExecArgv(ExecOptions{Container: "devbox", Command: []string{"ls"}, Interactive: true})
	if argv[0] != "/usr/bin/docker" {
		t.Errorf("expected argv[0] to be the engine binary, got %q", argv[0])
	}

	e.SetCommandPrefix([]string{"sudo"})
	argv = e.ExecArgv(ExecOptions{Container: "devbox", Command: []string{"ls"}, Interactive: true})
	want := []string{"sudo", "/usr/bin/docker", "exec", "-i", "devbox", "ls"}
	if !slices.Equal(argv, want) {
		t.Errorf("expected %v, got %v", want, argv)
	}
}

// TestCreateCommand_AppliesPrefix verifies that the elevation prefix becomes
// the invoked program and the binary shifts into the arguments.
func TestCreateCommand_AppliesPrefix(t *testing.T) {
	recorder := NewMockCommandRecorder()
	e := NewBaseCLIEngine("/usr/bin/docker",
		WithName("docker"),
		WithExecCommand(recorder.CommandFunc(t)),
	)
	e.SetCommandPrefix([]string{"sudo"})

	cmd := e.CreateCommand(context.Background(), "info")
	if err := cmd.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorder.AssertCommandName(t, "sudo")
	if got := recorder.LastArgs(); !slices.Equal(got, []string{"/usr/bin/docker", "info"}) {
		t.Errorf("expected [/usr/bin/docker info], got %v", got)
	}
}

// TestInspect_MissingObject exercises the "non-zero exit with empty array"
// contract: the exit code is ignored and the empty array decodes to no
// records.
func TestInspect_MissingObject(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 1
	recorder.Stdout = "[]"
	recorder.Stderr = "Error: no such container: devbox"
	e := newMockedDockerEngine(t, recorder)

	records, err := e.Inspect(context.Background(), KindContainer, "devbox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	recorder.AssertArgsContain(t, "inspect")
}

// TestInspect_EmptyStdout verifies blank stdout decodes as no records rather
// than a decode error.
func TestInspect_EmptyStdout(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 125
	e := newMockedDockerEngine(t, recorder)

	records, err := e.Inspect(context.Background(), KindContainer, "devbox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records, got %v", records)
	}
}

// TestInspect_RunningContainer verifies state decoding from the engine's JSON.
func TestInspect_RunningContainer(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.Stdout = `[{"Id":"abc123","Name":"/devbox","State":{"Running":true,"Status":"running"}}]`
	e := newMockedDockerEngine(t, recorder)

	records, err := e.Inspect(context.Background(), KindContainer, "devbox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].State.Running {
		t.Error("expected record to report running")
	}
	if records[0].State.Status != "running" {
		t.Errorf("expected status running, got %q", records[0].State.Status)
	}
}

// TestInspect_MalformedPayload verifies that undecodable output is surfaced
// as an error instead of being swallowed.
func TestInspect_MalformedPayload(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.Stdout = `{"not":"an array"`
	e := newMockedDockerEngine(t, recorder)

	if _, err := e.Inspect(context.Background(), KindContainer, "devbox"); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}

// TestRun_FailureSurfacesError verifies a non-zero run exit becomes an error.
func TestRun_FailureSurfacesError(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 125
	e := newMockedDockerEngine(t, recorder)

	err := e.Run(context.Background(), RunOptions{
		Image:          "dent/debian.10:alice",
		Name:           "devbox",
		Hostname:       "devbox",
		Detach:         true,
		Command:        []string{"sleep", "2000000000"},
		SuppressOutput: true,
	})
	if err == nil {
		t.Fatal("expected error for failed run")
	}
	recorder.AssertArgsContain(t, "run")
}

// TestStart_InvokesStartSubcommand verifies the start call shape.
func TestStart_InvokesStartSubcommand(t *testing.T) {
	recorder := NewMockCommandRecorder()
	e := newMockedDockerEngine(t, recorder)

	if err := e.Start(context.Background(), "devbox"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := recorder.LastArgs(); !slices.Equal(got, []string{"start", "devbox"}) {
		t.Errorf("expected [start devbox], got %v", got)
	}
}

// TestHealthy verifies the read-only probe maps exit codes to health.
func TestHealthy(t *testing.T) {
	recorder := NewMockCommandRecorder()
	e := newMockedDockerEngine(t, recorder)

	if !e.Healthy(context.Background()) {
		t.Error("expected healthy engine on zero exit")
	}
	if got := recorder.LastArgs(); !slices.Equal(got, []string{"info"}) {
		t.Errorf("expected [info], got %v", got)
	}

	recorder.ExitCode = 1
	if e.Healthy(context.Background()) {
		t.Error("expected unhealthy engine on non-zero exit")
	}
}

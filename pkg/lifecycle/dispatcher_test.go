package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	user string
	env  map[string]string
	cmd  Command
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(_ context.Context, user string, env map[string]string, cmd Command) error {
	f.calls = append(f.calls, call{user: user, env: env, cmd: cmd})
	return f.err
}

func testSpec(t *testing.T) Spec {
	t.Helper()
	return LivySpec("/usr/hdp/current/livy2-server", t.TempDir(), "livy", "/usr/jdk64/jdk1.8.0_112")
}

func writePID(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestApply_StartSkippedWhenRunning(t *testing.T) {
	spec := testSpec(t)
	writePID(t, spec.PIDFile, strconv.Itoa(os.Getpid()))

	runner := &fakeRunner{}
	outcome, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStart, spec)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAlreadyRunning, outcome)
	assert.Empty(t, runner.calls)
}

func TestApply_StartRunsOnce(t *testing.T) {
	tests := []struct {
		name string
		pid  string // empty: no pid file
	}{
		{"no pid file", ""},
		{"garbage pid file", "not-a-pid"},
		{"non-positive pid", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec(t)
			if tt.pid != "" {
				writePID(t, spec.PIDFile, tt.pid)
			}

			runner := &fakeRunner{}
			outcome, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStart, spec)
			require.NoError(t, err)

			assert.Equal(t, OutcomeStarted, outcome)
			require.Len(t, runner.calls, 1)
			assert.Equal(t, spec.Start, runner.calls[0].cmd)
			assert.Equal(t, "livy", runner.calls[0].user)
			assert.Equal(t, "/usr/jdk64/jdk1.8.0_112", runner.calls[0].env["JAVA_HOME"])
		})
	}
}

func TestApply_StartFailurePropagates(t *testing.T) {
	boom := errors.New("exit status 1")
	runner := &fakeRunner{err: boom}

	_, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStart, testSpec(t))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, runner.calls, 1)
}

func TestApply_StopRemovesPIDFile(t *testing.T) {
	spec := testSpec(t)
	writePID(t, spec.PIDFile, strconv.Itoa(os.Getpid()))

	runner := &fakeRunner{}
	outcome, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStop, spec)
	require.NoError(t, err)

	assert.Equal(t, OutcomeStopped, outcome)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, spec.Stop, runner.calls[0].cmd)
	assert.NoFileExists(t, spec.PIDFile)
}

func TestApply_StopWithoutPIDFile(t *testing.T) {
	runner := &fakeRunner{}
	outcome, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStop, testSpec(t))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStopped, outcome)
	assert.Len(t, runner.calls, 1)
}

func TestApply_StopFailureKeepsPIDFile(t *testing.T) {
	spec := testSpec(t)
	writePID(t, spec.PIDFile, "12345")

	boom := errors.New("exit status 2")
	runner := &fakeRunner{err: boom}
	_, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), ActionStop, spec)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, runner.calls, 1)
	assert.FileExists(t, spec.PIDFile)
}

func TestApply_UnknownAction(t *testing.T) {
	runner := &fakeRunner{}
	_, err := NewDispatcher(runner, testr.New(t)).Apply(context.Background(), Action("restart"), testSpec(t))
	assert.Error(t, err)
	assert.Empty(t, runner.calls)
}

func TestIsRunning(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, IsRunning(filepath.Join(dir, "missing.pid")))

	self := filepath.Join(dir, "self.pid")
	writePID(t, self, strconv.Itoa(os.Getpid())+"\n")
	assert.True(t, IsRunning(self))
}

package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivySpec(t *testing.T) {
	spec := LivySpec("/opt/livy", "/var/run/livy", "livy", "")

	assert.Equal(t, Command{Path: "/opt/livy/bin/livy-server", Args: []string{"start"}}, spec.Start)
	assert.Equal(t, Command{Path: "/opt/livy/bin/livy-server", Args: []string{"stop"}}, spec.Stop)
	assert.Equal(t, "/var/run/livy/livy-livy-server.pid", spec.PIDFile)
	assert.Nil(t, spec.Env)
	assert.NoError(t, spec.Validate())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("START")
	require.NoError(t, err)
	assert.Equal(t, ActionStart, a)

	_, err = ParseAction("restart")
	assert.Error(t, err)
}

func TestLoadSpecs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	content := `services:
  - name: livy
    user: livy
    env:
      JAVA_HOME: /usr/jdk64/jdk1.8.0_112
    start:
      path: /opt/livy/bin/livy-server
      args: [start]
    stop:
      path: /opt/livy/bin/livy-server
      args: [stop]
    pid_file: /var/run/livy/livy-livy-server.pid
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	spec, ok := FindSpec(specs, "LIVY")
	require.True(t, ok)
	assert.Equal(t, "/usr/jdk64/jdk1.8.0_112", spec.Env["JAVA_HOME"])
	assert.Equal(t, []string{"stop"}, spec.Stop.Args)

	_, ok = FindSpec(specs, "spark")
	assert.False(t, ok)
}

func TestLoadSpecs_JSONAndInvalid(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "services.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"services": [{"name": "x", "start": {"path": "/bin/true"}, "stop": {"path": "/bin/true"}, "pid_file": "/tmp/x.pid"}]}`), 0o644))
	specs, err := LoadSpecs(jsonPath)
	require.NoError(t, err)
	assert.Len(t, specs, 1)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("services:\n  - name: x\n"), 0o644))
	_, err = LoadSpecs(badPath)
	assert.Error(t, err)

	_, err = LoadSpecs(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "/opt/livy/bin/livy-server", shellQuote("/opt/livy/bin/livy-server"))
	assert.Equal(t, "'a b'", shellQuote("a b"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "''", shellQuote(""))

	script := suScript(map[string]string{"JAVA_HOME": "/usr/java", "B": "x y"},
		Command{Path: "/opt/livy/bin/livy-server", Args: []string{"start"}})
	assert.Equal(t, "export 'B=x y' ; export JAVA_HOME=/usr/java ; /opt/livy/bin/livy-server start", script)
}

func TestExecRunner(t *testing.T) {
	r := &ExecRunner{}
	ctx := context.Background()

	err := r.Run(ctx, "", map[string]string{"FOO": "bar"},
		Command{Path: "/bin/sh", Args: []string{"-c", `test "$FOO" = bar`}})
	assert.NoError(t, err)

	err = r.Run(ctx, "", nil, Command{Path: "/bin/sh", Args: []string{"-c", "exit 3"}})
	assert.Error(t, err)
}

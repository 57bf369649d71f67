package lifecycle

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/user"
	"sort"
	"strings"
)

// Runner executes a command as a user with extra environment variables
type Runner interface {
	Run(ctx context.Context, user string, env map[string]string, cmd Command) error
}

// ExecRunner runs commands as local processes. Commands for a user other
// than the current one are run through su.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner streaming to the process's stdout and stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd and waits for it. A non-zero exit is returned as an error.
func (r *ExecRunner) Run(ctx context.Context, runAs string, env map[string]string, cmd Command) error {
	var c *exec.Cmd
	if runAs == "" || isCurrentUser(runAs) {
		c = exec.CommandContext(ctx, cmd.Path, cmd.Args...)
		c.Env = append(os.Environ(), envList(env)...)
	} else {
		c = exec.CommandContext(ctx, "su", runAs, "-s", "/bin/bash", "-c", suScript(env, cmd))
	}
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	return c.Run()
}

func isCurrentUser(name string) bool {
	u, err := user.Current()
	return err == nil && u.Username == name
}

// envList renders env as sorted KEY=value pairs
func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// su starts a fresh environment, so variables are exported in the script
func suScript(env map[string]string, cmd Command) string {
	var b strings.Builder
	for _, kv := range envList(env) {
		b.WriteString("export ")
		b.WriteString(shellQuote(kv))
		b.WriteString(" ; ")
	}
	b.WriteString(cmd.String())
	return b.String()
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./=:,+@%", r):
		return false
	}
	return true
}

// Package lifecycle starts and stops service daemons through their control
// scripts, guarded by PID-file liveness checks.
package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is a lifecycle operation
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// ParseAction converts a command-line action name
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case ActionStart:
		return ActionStart, nil
	case ActionStop:
		return ActionStop, nil
	}
	return "", fmt.Errorf("unsupported lifecycle action %q (use start or stop)", s)
}

// Command is an executable and its arguments
type Command struct {
	Path string   `yaml:"path" json:"path"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Path))
	for _, a := range c.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// Spec describes how to control one service daemon
type Spec struct {
	Name    string            `yaml:"name" json:"name"`
	User    string            `yaml:"user,omitempty" json:"user,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Start   Command           `yaml:"start" json:"start"`
	Stop    Command           `yaml:"stop" json:"stop"`
	PIDFile string            `yaml:"pid_file" json:"pid_file"`
}

// Validate checks that the spec can be dispatched
func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if s.Start.Path == "" || s.Stop.Path == "" {
		return fmt.Errorf("service %s: start and stop commands are required", s.Name)
	}
	if s.PIDFile == "" {
		return fmt.Errorf("service %s: pid_file is required", s.Name)
	}
	return nil
}

// LivySpec builds the spec of a Livy server installed under home
func LivySpec(home, pidDir, user, javaHome string) Spec {
	script := filepath.Join(home, "bin", "livy-server")
	spec := Spec{
		Name:    "livy",
		User:    user,
		Start:   Command{Path: script, Args: []string{"start"}},
		Stop:    Command{Path: script, Args: []string{"stop"}},
		PIDFile: filepath.Join(pidDir, fmt.Sprintf("livy-%s-server.pid", user)),
	}
	if javaHome != "" {
		spec.Env = map[string]string{"JAVA_HOME": javaHome}
	}
	return spec
}

type specFile struct {
	Services []Spec `yaml:"services"`
}

// LoadSpecs reads service specs from a YAML or JSON file
func LoadSpecs(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service specs: %w", err)
	}

	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse service specs %s: %w", path, err)
	}
	for i := range f.Services {
		if err := f.Services[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return f.Services, nil
}

// FindSpec returns the spec with the given name
func FindSpec(specs []Spec, name string) (Spec, bool) {
	for _, s := range specs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Spec{}, false
}

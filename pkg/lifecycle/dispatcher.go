package lifecycle

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Outcome is what Apply did
type Outcome string

const (
	OutcomeStarted        Outcome = "started"
	OutcomeAlreadyRunning Outcome = "already-running"
	OutcomeStopped        Outcome = "stopped"
)

// Dispatcher applies lifecycle actions to service specs
type Dispatcher struct {
	runner    Runner
	log       logr.Logger
	isRunning func(pidFile string) bool
}

// NewDispatcher creates a dispatcher that runs commands through runner
func NewDispatcher(runner Runner, log logr.Logger) *Dispatcher {
	return &Dispatcher{
		runner:    runner,
		log:       log.WithName("lifecycle"),
		isRunning: IsRunning,
	}
}

// Apply runs one action against a service. Start is skipped when the PID
// file names a live process. Stop always runs the stop command and removes
// the PID file once it succeeds. Command failures are returned as-is, with
// no retry.
func (d *Dispatcher) Apply(ctx context.Context, action Action, spec Spec) (Outcome, error) {
	log := d.log.WithValues("service", spec.Name, "action", string(action))

	switch action {
	case ActionStart:
		if d.isRunning(spec.PIDFile) {
			log.Info("Service already running, skipping start", "pidFile", spec.PIDFile)
			return OutcomeAlreadyRunning, nil
		}
		log.V(1).Info("Running start command", "command", spec.Start.String(), "user", spec.User)
		if err := d.runner.Run(ctx, spec.User, spec.Env, spec.Start); err != nil {
			return "", fmt.Errorf("start %s: %w", spec.Name, err)
		}
		log.Info("Service started")
		return OutcomeStarted, nil

	case ActionStop:
		log.V(1).Info("Running stop command", "command", spec.Stop.String(), "user", spec.User)
		if err := d.runner.Run(ctx, spec.User, spec.Env, spec.Stop); err != nil {
			return "", fmt.Errorf("stop %s: %w", spec.Name, err)
		}
		if err := RemovePIDFile(spec.PIDFile); err != nil {
			return "", fmt.Errorf("stop %s: remove pid file: %w", spec.Name, err)
		}
		log.Info("Service stopped", "pidFile", spec.PIDFile)
		return OutcomeStopped, nil
	}

	return "", fmt.Errorf("unsupported lifecycle action %q", action)
}

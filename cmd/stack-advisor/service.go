package main

import (
	"context"
	"fmt"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opscart/stack-advisor/pkg/lifecycle"
	"github.com/opscart/stack-advisor/pkg/models"
)

func runService(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	action, err := lifecycle.ParseAction(args[0])
	if err != nil {
		return err
	}

	spec, err := resolveSpec(args[1])
	if err != nil {
		return err
	}
	logVerbose("Service %s: start=%q stop=%q pid=%s", spec.Name, spec.Start.String(), spec.Stop.String(), spec.PIDFile)

	dispatcher := lifecycle.NewDispatcher(lifecycle.NewExecRunner(), log)
	outcome, applyErr := dispatcher.Apply(ctx, action, spec)

	if cfg.StorageEnabled {
		if err := recordAction(ctx, spec.Name, action, outcome, applyErr); err != nil {
			warn("Failed to record audit entry: %v", err)
		}
	}

	if applyErr != nil {
		return applyErr
	}
	info("%s: %s", spec.Name, outcome)
	return nil
}

// resolveSpec looks the service up in --specs, falling back to the Livy
// server built from configuration
func resolveSpec(name string) (lifecycle.Spec, error) {
	if specsFile != "" {
		specs, err := lifecycle.LoadSpecs(specsFile)
		if err != nil {
			return lifecycle.Spec{}, err
		}
		spec, ok := lifecycle.FindSpec(specs, name)
		if !ok {
			return lifecycle.Spec{}, fmt.Errorf("service %q not found in %s", name, specsFile)
		}
		return spec, nil
	}

	livy := lifecycle.LivySpec(cfg.LivyHome, cfg.LivyPIDDir, cfg.LivyUser, cfg.JavaHome)
	if !strings.EqualFold(name, livy.Name) {
		return lifecycle.Spec{}, fmt.Errorf("unknown service %q, pass --specs to manage services other than %s", name, livy.Name)
	}
	return livy, nil
}

func recordAction(ctx context.Context, service string, action lifecycle.Action, outcome lifecycle.Outcome, applyErr error) error {
	if err := initStorage(); err != nil {
		return err
	}
	defer store.Close()

	entry := &models.AuditEntry{
		Service:    service,
		Action:     strings.ToUpper(string(action)),
		Status:     models.StatusSuccess,
		ExecutedBy: currentUser(),
	}
	switch {
	case applyErr != nil:
		entry.Status = models.StatusFailed
		entry.ErrorMessage = applyErr.Error()
	case outcome == lifecycle.OutcomeAlreadyRunning:
		entry.Status = models.StatusSkipped
	}

	return store.LogAction(ctx, entry)
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

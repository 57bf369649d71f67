package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/models"
)

// configsScript is the server-side helper that applies single property changes
const configsScript = "/var/lib/ambari-server/resources/scripts/configs.py"

// FromResult converts an advisor result into a persistable advisory run
func FromResult(result *advisor.Result, req *models.Request, action models.Action) *models.AdvisoryRun {
	run := &models.AdvisoryRun{
		ClusterName:  req.ClusterName,
		StackName:    req.Stack.Name,
		StackVersion: req.Stack.Version,
		Action:       action,
		CreatedAt:    time.Now(),
	}
	if result == nil {
		return run
	}

	run.Writes = result.Recommendations.Writes()
	run.Attributes = result.Recommendations.AttributeWrites()
	run.Findings = append(run.Findings, result.Findings...)
	for _, err := range result.Errors {
		run.Errors = append(run.Errors, err.Error())
	}
	return run
}

// ChangedWrites keeps the writes whose value differs from the request's
// current configuration
func ChangedWrites(writes []models.PropertyWrite, current models.Bundle) []models.PropertyWrite {
	var changed []models.PropertyWrite
	for _, w := range writes {
		if v, ok := current.Get(w.ConfigType, w.Name); ok && v == w.Value {
			continue
		}
		changed = append(changed, w)
	}
	return changed
}

// GenerateCommand creates the configs.py command that applies a write
func GenerateCommand(cluster string, w models.PropertyWrite) string {
	return fmt.Sprintf(
		"%s -a set -l localhost -n %s -c %s -k %s -v %s",
		configsScript,
		cluster,
		w.ConfigType,
		w.Name,
		quote(w.Value),
	)
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\"'$`\\[]{}*?;&|<>()") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

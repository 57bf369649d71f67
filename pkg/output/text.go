package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/opscart/stack-advisor/pkg/converter"
	"github.com/opscart/stack-advisor/pkg/models"
)

// TextHandler prints human-readable, colored output
type TextHandler struct {
	w      io.Writer
	red    *color.Color
	yellow *color.Color
	green  *color.Color
	bold   *color.Color
}

func NewTextHandler(w io.Writer) *TextHandler {
	return &TextHandler{
		w:      w,
		red:    color.New(color.FgRed).Add(color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		bold:   color.New(color.Bold),
	}
}

func (h *TextHandler) Format() string {
	return "text"
}

func (h *TextHandler) DisplayRun(_ context.Context, run *models.AdvisoryRun) error {
	h.bold.Fprintf(h.w, "\n%s %s-%s (%s)\n", run.ClusterName, run.StackName, run.StackVersion, run.Action)
	fmt.Fprintln(h.w, strings.Repeat("=", 60))

	if run.Action == models.ActionValidate {
		h.displayFindings(run)
	} else {
		h.displayWrites(run)
	}

	for _, e := range run.Errors {
		h.red.Fprintf(h.w, "[ERROR] %s\n", e)
	}
	if run.ID != "" {
		fmt.Fprintf(h.w, "\n[INFO] Saved as run %s\n", run.ID)
	}
	return nil
}

func (h *TextHandler) displayWrites(run *models.AdvisoryRun) {
	if len(run.Writes) == 0 && len(run.Attributes) == 0 {
		fmt.Fprintln(h.w, "No recommendations")
		return
	}

	current := ""
	for _, w := range run.Writes {
		if w.ConfigType != current {
			current = w.ConfigType
			h.bold.Fprintf(h.w, "\n[%s]\n", current)
		}
		fmt.Fprintf(h.w, "  %s = %s\n", w.Name, w.Value)
	}
	if len(run.Attributes) > 0 {
		h.bold.Fprintln(h.w, "\nProperty attributes:")
		for _, a := range run.Attributes {
			fmt.Fprintf(h.w, "  %s/%s [%s] = %s\n", a.ConfigType, a.Name, a.Attribute, a.Value)
		}
	}
	h.green.Fprintf(h.w, "\n%d properties recommended\n", len(run.Writes))
}

func (h *TextHandler) displayFindings(run *models.AdvisoryRun) {
	if len(run.Findings) == 0 {
		h.green.Fprintln(h.w, "No validation issues")
		return
	}
	for _, f := range run.Findings {
		c := h.yellow
		if f.Level == models.LevelError {
			c = h.red
		}
		c.Fprintf(h.w, "[%s] %s/%s: %s\n", f.Level, f.ConfigType, f.ConfigName, f.Message)
	}
	fmt.Fprintf(h.w, "\n%d errors, %d warnings\n", run.ErrorCount(), run.WarningCount())
}

// DisplayCommands prints the configs.py commands applying writes
func (h *TextHandler) DisplayCommands(cluster string, writes []models.PropertyWrite) {
	if len(writes) == 0 {
		return
	}
	h.bold.Fprintln(h.w, "\nApply with:")
	for _, w := range writes {
		fmt.Fprintf(h.w, "  %s\n", converter.GenerateCommand(cluster, w))
	}
}

func (h *TextHandler) DisplayHistory(_ context.Context, runs []*models.AdvisoryRun) error {
	if len(runs) == 0 {
		fmt.Fprintln(h.w, "No advisory runs found")
		return nil
	}
	fmt.Fprintf(h.w, "%-36s  %-19s  %-9s  %-12s  %6s  %6s  %6s\n",
		"ID", "CREATED", "ACTION", "STACK", "WRITES", "ERRORS", "WARNS")
	for _, r := range runs {
		fmt.Fprintf(h.w, "%-36s  %-19s  %-9s  %-12s  %6d  %6d  %6d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Action,
			r.StackName+"-"+r.StackVersion, len(r.Writes), r.ErrorCount(), r.WarningCount())
	}
	return nil
}

func (h *TextHandler) DisplayAudit(_ context.Context, entries []*models.AuditEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(h.w, "No audit entries found")
		return nil
	}
	for _, e := range entries {
		c := h.green
		switch e.Status {
		case models.StatusFailed:
			c = h.red
		case models.StatusSkipped:
			c = h.yellow
		}
		line := fmt.Sprintf("%s  %-8s %-5s %-8s by %s",
			e.ExecutedAt.Format("2006-01-02 15:04:05"), e.Service, e.Action, e.Status, e.ExecutedBy)
		if e.ErrorMessage != "" {
			line += ": " + e.ErrorMessage
		}
		c.Fprintln(h.w, line)
	}
	return nil
}

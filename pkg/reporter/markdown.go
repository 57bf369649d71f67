package reporter

import (
	"fmt"
	"io"
	"strings"
)

// GenerateMarkdown creates a Markdown report
func GenerateMarkdown(report *Report, writer io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Stack Advisor Report - %s\n\n", report.ClusterName)
	fmt.Fprintf(&b, "- **Stack:** %s-%s\n", report.StackName, report.StackVersion)
	fmt.Fprintf(&b, "- **Action:** %s\n", report.Action)
	if report.RunID != "" {
		fmt.Fprintf(&b, "- **Run:** %s\n", report.RunID)
	}
	fmt.Fprintf(&b, "- **Generated:** %s\n\n", report.GeneratedAt.Format("January 2, 2006 15:04:05 MST"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Recommended Properties | Errors | Warnings |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n\n", len(report.Writes), report.ErrorCount, report.WarningCount)

	if len(report.ConfigTypeStats) > 0 {
		b.WriteString("## By Config Type\n\n")
		b.WriteString("| Config Type | Writes | Errors | Warnings |\n|---|---|---|---|\n")
		for _, s := range report.ConfigTypeStats {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", s.ConfigType, s.Writes, s.Errors, s.Warnings)
		}
		b.WriteString("\n")
	}

	if len(report.Findings) > 0 {
		b.WriteString("## Findings\n\n")
		b.WriteString("| Level | Config Type | Property | Message |\n|---|---|---|---|\n")
		for _, f := range report.Findings {
			fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", f.Level, f.ConfigType, f.ConfigName, escapeCell(f.Message))
		}
		b.WriteString("\n")
	}

	if len(report.Writes) > 0 {
		b.WriteString("## Recommended Properties\n\n")
		b.WriteString("| Config Type | Property | Value |\n|---|---|---|\n")
		for _, w := range report.Writes {
			fmt.Fprintf(&b, "| %s | `%s` | `%s` |\n", w.ConfigType, w.Name, escapeCell(w.Value))
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

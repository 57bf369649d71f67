package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// GenerateCSV creates a CSV report
func GenerateCSV(report *Report, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{
		"Kind",
		"Config Type",
		"Property",
		"Attribute",
		"Level",
		"Value / Message",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var rows [][]string
	for _, wr := range report.Writes {
		rows = append(rows, []string{"write", wr.ConfigType, wr.Name, "", "", wr.Value})
	}
	for _, a := range report.Attributes {
		rows = append(rows, []string{"attribute", a.ConfigType, a.Name, a.Attribute, "", a.Value})
	}
	for _, f := range report.Findings {
		rows = append(rows, []string{"finding", f.ConfigType, f.ConfigName, "", string(f.Level), f.Message})
	}
	for _, e := range report.Errors {
		rows = append(rows, []string{"error", "", "", "", "ERROR", e})
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	// Summary rows
	w.Write([]string{})
	w.Write([]string{"SUMMARY"})
	w.Write([]string{"Cluster", report.ClusterName})
	w.Write([]string{"Stack", report.StackName + "-" + report.StackVersion})
	w.Write([]string{"Recommended Properties", fmt.Sprintf("%d", len(report.Writes))})
	w.Write([]string{"Errors", fmt.Sprintf("%d", report.ErrorCount)})
	w.Write([]string{"Warnings", fmt.Sprintf("%d", report.WarningCount)})

	// Config type breakdown
	w.Write([]string{})
	w.Write([]string{"CONFIG TYPE BREAKDOWN"})
	w.Write([]string{"Config Type", "Writes", "Errors", "Warnings"})
	for _, s := range report.ConfigTypeStats {
		w.Write([]string{
			s.ConfigType,
			fmt.Sprintf("%d", s.Writes),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%d", s.Warnings),
		})
	}

	w.Flush()
	return w.Error()
}

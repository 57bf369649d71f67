package reporter

import (
	"fmt"
	"sort"
	"time"

	"github.com/opscart/stack-advisor/pkg/models"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatHTML     ReportFormat = "html"
	FormatMarkdown ReportFormat = "markdown"
	FormatCSV      ReportFormat = "csv"
)

// ParseFormat accepts html, markdown (or md) and csv
func ParseFormat(s string) (ReportFormat, error) {
	switch s {
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported report format: %s", s)
}

// Extension returns the file extension of the format
func (f ReportFormat) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	}
	return ".html"
}

// Report contains all data for generating reports
type Report struct {
	ClusterName  string
	StackName    string
	StackVersion string
	Action       models.Action
	RunID        string
	GeneratedAt  time.Time

	Writes     []models.PropertyWrite
	Attributes []models.AttributeWrite
	Findings   []models.Finding
	Errors     []string

	WarningCount int
	ErrorCount   int

	// ConfigTypeStats is sorted by config type
	ConfigTypeStats []*ConfigTypeStats
}

// ConfigTypeStats holds statistics per config type
type ConfigTypeStats struct {
	ConfigType string
	Writes     int
	Warnings   int
	Errors     int
}

// Reporter generates advisory reports
type Reporter struct {
	format ReportFormat
}

// New creates a new reporter
func New(format ReportFormat) *Reporter {
	return &Reporter{
		format: format,
	}
}

func (r *Reporter) Format() ReportFormat {
	return r.format
}

// Generate builds a report from an advisory run
func (r *Reporter) Generate(run *models.AdvisoryRun) (*Report, error) {
	if run == nil {
		return nil, fmt.Errorf("no advisory run to report on")
	}

	report := &Report{
		ClusterName:  run.ClusterName,
		StackName:    run.StackName,
		StackVersion: run.StackVersion,
		Action:       run.Action,
		RunID:        run.ID,
		GeneratedAt:  time.Now(),
		Writes:       run.Writes,
		Attributes:   run.Attributes,
		Findings:     run.Findings,
		Errors:       run.Errors,
		WarningCount: run.WarningCount(),
		ErrorCount:   run.ErrorCount(),
	}

	r.calculateStats(report)

	return report, nil
}

// calculateStats computes per config type statistics
func (r *Reporter) calculateStats(report *Report) {
	stats := map[string]*ConfigTypeStats{}
	get := func(configType string) *ConfigTypeStats {
		if _, exists := stats[configType]; !exists {
			stats[configType] = &ConfigTypeStats{ConfigType: configType}
		}
		return stats[configType]
	}

	for _, w := range report.Writes {
		get(w.ConfigType).Writes++
	}
	for _, f := range report.Findings {
		s := get(f.ConfigType)
		if f.Level == models.LevelError {
			s.Errors++
		} else {
			s.Warnings++
		}
	}

	report.ConfigTypeStats = make([]*ConfigTypeStats, 0, len(stats))
	for _, s := range stats {
		report.ConfigTypeStats = append(report.ConfigTypeStats, s)
	}
	sort.Slice(report.ConfigTypeStats, func(i, j int) bool {
		return report.ConfigTypeStats[i].ConfigType < report.ConfigTypeStats[j].ConfigType
	})
}

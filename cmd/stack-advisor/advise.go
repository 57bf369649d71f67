package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/converter"
	"github.com/opscart/stack-advisor/pkg/datasource"
	"github.com/opscart/stack-advisor/pkg/loader"
	"github.com/opscart/stack-advisor/pkg/models"
	"github.com/opscart/stack-advisor/pkg/output"
	"github.com/opscart/stack-advisor/pkg/reporter"
	"github.com/opscart/stack-advisor/pkg/scanner"
	"github.com/opscart/stack-advisor/pkg/stacks"
)

func runRecommend(cmd *cobra.Command, args []string) error {
	return runAdvise(cmd.Context(), models.ActionRecommend)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return runAdvise(cmd.Context(), models.ActionValidate)
}

// info prints progress lines in text mode only, keeping json and yaml output parseable
func info(format string, args ...interface{}) {
	if outputFormat == "text" {
		fmt.Printf("[INFO] "+format+"\n", args...)
	}
}

func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", args...)
}

func runAdvise(ctx context.Context, action models.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}

	handler, err := output.New(outputFormat, os.Stdout)
	if err != nil {
		return err
	}

	req, err := loader.LoadRequest(requestFile)
	if err != nil {
		return err
	}
	if stackOverride != "" {
		name, version, ok := strings.Cut(stackOverride, "-")
		if !ok || name == "" || version == "" {
			return fmt.Errorf("--stack must be NAME-VERSION, got %q", stackOverride)
		}
		req.Stack = models.StackRef{Name: name, Version: version}
	}
	info("Stack Advisor - %s for cluster %s (%s-%s)", action, req.ClusterName, req.Stack.Name, req.Stack.Version)

	if discoverTopo {
		scan, err := scanner.New(cfg.Kubeconfig, log)
		if err != nil {
			return fmt.Errorf("failed to initialize scanner: %w", err)
		}
		topo, err := scan.Discover(ctx, namespace)
		if err != nil {
			return fmt.Errorf("failed to discover topology: %w", err)
		}
		topo.MergeInto(req)
		info("Merged discovered topology: %d service(s), %d host(s)", len(topo.Services), len(topo.Hosts))
	}

	if usePrometheus && !cfg.PrometheusDisabled {
		enrichHosts(ctx, req)
	}

	rules, err := stacks.Default().Resolve(req.Stack.Name, req.Stack.Version)
	if err != nil {
		return err
	}
	logVerbose("Using rule set %s", rules.Name)

	adv := advisor.New(rules, log)
	var result *advisor.Result
	if action == models.ActionValidate {
		result, err = adv.Validate(req)
	} else {
		result, err = adv.Recommend(req)
	}
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	run := converter.FromResult(result, req, action)

	if saveResults {
		if !cfg.StorageEnabled {
			warn("Storage disabled, set STORAGE_ENABLED=true to save runs")
		} else if err := saveRun(ctx, run); err != nil {
			warn("Failed to save run: %v", err)
		}
	}

	if err := handler.DisplayRun(ctx, run); err != nil {
		return fmt.Errorf("failed to display run: %w", err)
	}

	if action == models.ActionRecommend {
		if showCommands {
			if text, ok := handler.(*output.TextHandler); ok {
				text.DisplayCommands(req.ClusterName, converter.ChangedWrites(run.Writes, req.Configurations))
			}
		}
		if writeBundle != "" {
			if err := loader.SaveBundle(writeBundle, result.Recommendations); err != nil {
				return err
			}
			info("Recommendations written to %s", writeBundle)
		}
	}

	if generateReport {
		if err := generateAdvisoryReport(run); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to generate report: %v\n", err)
		}
	}

	if action == models.ActionValidate && run.ErrorCount() > 0 {
		return fmt.Errorf("validation found %d error(s)", run.ErrorCount())
	}
	return nil
}

func enrichHosts(ctx context.Context, req *models.Request) {
	dsCfg := datasource.Config{
		PrometheusURL: cfg.PrometheusURL,
		Timeout:       30 * time.Second,
		CacheTTL:      cfg.HostMetricsTTL,
		Concurrency:   cfg.FetchConcurrency,
	}
	prom, err := datasource.NewPrometheusSource(dsCfg, log)
	if err != nil {
		warn("Prometheus initialization failed: %v", err)
		return
	}
	if !prom.IsAvailable(ctx) {
		warn("Prometheus not reachable at %s, using host totals from the request", cfg.PrometheusURL)
		return
	}

	updated, err := datasource.Enrich(ctx, prom, req, cfg.FetchConcurrency, log)
	if err != nil {
		warn("Host enrichment failed: %v", err)
		return
	}
	info("Filled host totals for %d host(s) from %s", updated, prom.Name())
}

func saveRun(ctx context.Context, run *models.AdvisoryRun) error {
	if err := initStorage(); err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(ctx, run)
}

func generateAdvisoryReport(run *models.AdvisoryRun) error {
	format, err := reporter.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	report, err := reporter.New(format).Generate(run)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Create reports directory if it doesn't exist
	reportsDir := "reports"
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	outputFile := reportOutput
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputFile = fmt.Sprintf("%s/advisor-report-%s-%s-%s%s", reportsDir, run.ClusterName, run.Action, timestamp, format.Extension())
	} else if !strings.Contains(outputFile, "/") {
		outputFile = filepath.Join(reportsDir, outputFile)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case reporter.FormatHTML:
		err = reporter.GenerateHTML(report, file)
	case reporter.FormatMarkdown:
		err = reporter.GenerateMarkdown(report, file)
	case reporter.FormatCSV:
		err = reporter.GenerateCSV(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}

	info("%s report generated: %s", strings.ToUpper(string(format)), outputFile)
	if format == reporter.FormatHTML {
		absPath, _ := filepath.Abs(outputFile)
		info("Open in browser: file://%s", absPath)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/opscart/stack-advisor/pkg/config"
	"github.com/opscart/stack-advisor/pkg/storage"
)

var (
	// Advise flags
	requestFile    string
	outputFormat   string
	saveResults    bool
	usePrometheus  bool
	discoverTopo   bool
	namespace      string
	stackOverride  string
	writeBundle    string
	showCommands   bool
	verbose        bool
	generateReport bool
	reportFormat   string
	reportOutput   string

	// Service flags
	specsFile string

	// Global config
	cfg   *config.Config
	store storage.Store
	log   logr.Logger

	// History command vars
	historyLimit int
)

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// newLogger writes log lines to stderr. Info lines only appear with --verbose.
func newLogger(verbose bool) logr.Logger {
	verbosity := 0
	if verbose {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		isError := strings.Contains(args, `"error"=`)
		if !verbose && !isError {
			return
		}
		level := "[INFO]"
		if isError {
			level = "[ERROR]"
		}
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", level, prefix, args)
			return
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", level, args)
	}, funcr.Options{Verbosity: verbosity})
}

func main() {
	// Initialize config
	cfg = config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "stack-advisor",
		Short: "Hadoop stack configuration advisor",
		Long:  `Recommend and validate service configurations for a Hadoop stack, and manage service daemons.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log = newLogger(verbose)
			cfg.OutputFormat = outputFormat
			cfg.Verbose = verbose
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend configurations for the services in a request",
		Args:  cobra.NoArgs,
		RunE:  runRecommend,
	}
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configurations of a request",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	for _, c := range []*cobra.Command{recommendCmd, validateCmd} {
		c.Flags().StringVarP(&requestFile, "file", "f", "", "Advisory request file (yaml or json)")
		c.Flags().BoolVar(&saveResults, "save", false, "Save the run to the database")
		c.Flags().BoolVar(&usePrometheus, "use-prometheus", false, "Fill missing host totals from Prometheus")
		c.Flags().BoolVar(&discoverTopo, "discover", false, "Merge topology discovered from Kubernetes")
		c.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to discover (all when empty)")
		c.Flags().StringVar(&stackOverride, "stack", "", "Stack as NAME-VERSION, overrides the request")
		c.Flags().BoolVar(&generateReport, "generate-report", false, "Generate a report file")
		c.Flags().StringVar(&reportFormat, "report-format", "html", "Report format: html, markdown, csv")
		c.Flags().StringVar(&reportOutput, "report-output", "", "Output file for report")
		_ = c.MarkFlagRequired("file")
	}
	recommendCmd.Flags().StringVar(&writeBundle, "write-recommendations", "", "Write recommended configurations to this file")
	recommendCmd.Flags().BoolVar(&showCommands, "commands", false, "Print configs.py commands for changed properties")

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover service topology from Kubernetes",
		Args:  cobra.NoArgs,
		RunE:  runDiscover,
	}
	discoverCmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to discover (all when empty)")

	serviceCmd := &cobra.Command{
		Use:   "service <start|stop> <name>",
		Short: "Start or stop a service daemon",
		Args:  cobra.ExactArgs(2),
		RunE:  runService,
	}
	serviceCmd.Flags().StringVar(&specsFile, "specs", "", "Service specs file (defaults to the Livy server)")

	// History command
	historyCmd := &cobra.Command{
		Use:   "history <cluster>",
		Short: "View past advisory runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")

	// Audit command
	auditCmd := &cobra.Command{
		Use:   "audit <service>",
		Short: "View the lifecycle audit log of a service",
		Args:  cobra.ExactArgs(1),
		RunE:  runAudit,
	}
	auditCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")

	rootCmd.AddCommand(recommendCmd, validateCmd, discoverCmd, serviceCmd, historyCmd, auditCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initStorage() error {
	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return nil
}

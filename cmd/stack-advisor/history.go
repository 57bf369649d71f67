package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opscart/stack-advisor/pkg/output"
	"github.com/opscart/stack-advisor/pkg/scanner"
)

func runDiscover(cmd *cobra.Command, args []string) error {
	scan, err := scanner.New(cfg.Kubeconfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize scanner: %w", err)
	}

	topo, err := scan.Discover(cmd.Context(), namespace)
	if err != nil {
		return fmt.Errorf("failed to discover topology: %w", err)
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(topo)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(topo)
	}

	fmt.Printf("Discovered %d service(s) on %d host(s)\n\n", len(topo.Services), len(topo.Hosts))
	for _, svc := range topo.Services {
		fmt.Println(svc.Name)
		for _, comp := range svc.Components {
			fmt.Printf("   %s: %v\n", comp.Name, comp.Hosts)
		}
	}
	fmt.Println()
	for _, h := range topo.Hosts {
		fmt.Printf("%s  cpu=%d mem=%dMi\n", h.Name, h.CPUCount, h.TotalMemKB/1024)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cluster := args[0]

	handler, err := output.New(outputFormat, os.Stdout)
	if err != nil {
		return err
	}

	if err := initStorage(); err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), cluster, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 && outputFormat == "text" {
		fmt.Printf("No advisory runs found for cluster: %s\n", cluster)
		return nil
	}
	return handler.DisplayHistory(cmd.Context(), runs)
}

func runAudit(cmd *cobra.Command, args []string) error {
	service := args[0]

	handler, err := output.New(outputFormat, os.Stdout)
	if err != nil {
		return err
	}

	if err := initStorage(); err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.GetAuditLog(cmd.Context(), service, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(entries) == 0 && outputFormat == "text" {
		fmt.Println("No audit log entries found")
		return nil
	}
	return handler.DisplayAudit(cmd.Context(), entries)
}

package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opscart/stack-advisor/pkg/models"
)

// LoadRequest loads and validates an advisory request (supports JSON and YAML)
func LoadRequest(path string) (*models.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	var req models.Request

	// Determine format by file extension
	if isJSON(path) {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.Configurations == nil {
		req.Configurations = models.Bundle{}
	}
	return &req, nil
}

// SaveBundle writes a configuration bundle to path, as JSON or YAML by extension
func SaveBundle(path string, bundle models.Bundle) error {
	var data []byte
	var err error

	if isJSON(path) {
		data, err = json.MarshalIndent(bundle, "", "  ")
	} else {
		data, err = yaml.Marshal(bundle)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal configurations: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configurations: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func validateRequest(req *models.Request) error {
	if req.ClusterName == "" {
		return fmt.Errorf("cluster_name is required")
	}
	if req.Stack.Name == "" || req.Stack.Version == "" {
		return fmt.Errorf("stack name and version are required")
	}

	seen := make(map[string]bool, len(req.Services))
	for _, svc := range req.Services {
		if svc.Name == "" {
			return fmt.Errorf("service with empty name")
		}
		if seen[svc.Name] {
			return fmt.Errorf("duplicate service %s", svc.Name)
		}
		seen[svc.Name] = true
	}

	for i, h := range req.Hosts {
		if h.Name == "" {
			return fmt.Errorf("host %d has no name", i)
		}
		if h.TotalMemKB < 0 || h.CPUCount < 0 {
			return fmt.Errorf("host %s has negative resource totals", h.Name)
		}
	}
	return nil
}

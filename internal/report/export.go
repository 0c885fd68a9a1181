// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Export writes all stored runs to runs.yaml and runs.json in the report
// directory and returns the paths written.
func (s *Store) Export(ctx context.Context) ([]string, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	yamlPath := filepath.Join(s.dir, "runs.yaml")
	yamlData, err := yaml.Marshal(runs)
	if err != nil {
		return nil, fmt.Errorf("marshaling runs to YAML: %w", err)
	}
	if err := os.WriteFile(yamlPath, yamlData, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", yamlPath, err)
	}

	jsonPath := filepath.Join(s.dir, "runs.json")
	jsonData, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling runs to JSON: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	return []string{yamlPath, jsonPath}, nil
}

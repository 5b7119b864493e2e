package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indexforge/indexforge/internal/config"
	"github.com/indexforge/indexforge/internal/mappings"
	"github.com/indexforge/indexforge/internal/registry"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the active index mapping",
	Long:  "Merge core fields, registered type definitions, and feature-gated fields into the strict mapping document the index must carry",
	RunE: func(cmd *cobra.Command, args []string) error {
		mapping, _, err := loadAndBuild()
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(mapping, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mapping: %w", err)
		}
		encoded = append(encoded, '\n')

		if buildOutput != "" {
			if err := os.WriteFile(buildOutput, encoded, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", buildOutput, err)
			}
			fmt.Printf("Wrote mapping for %d properties to %s\n", len(mapping.Properties), buildOutput)
			return nil
		}

		fmt.Print(string(encoded))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Write the mapping document to a file instead of stdout")
}

// loadAndBuild loads configuration and type definitions, then builds
// the expected mapping.
func loadAndBuild() (*mappings.IndexMapping, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.NewRegistry()
	if _, err := os.Stat(cfg.Registry.Dir); err == nil {
		if err := registry.LoadDir(cfg.Registry.Dir, reg); err != nil {
			return nil, nil, err
		}
	} else {
		logger.Debug("type definition directory not found, building core fields only",
			zap.String("dir", cfg.Registry.Dir))
	}

	logger.Debug("building active mapping",
		zap.Int("types", reg.Count()),
		zap.Bool("permissions", cfg.Features.Permissions),
		zap.Bool("workspaces", cfg.Features.Workspaces))

	mapping, err := mappings.BuildActiveMappings(reg.Definitions(), cfg.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build mapping: %w", err)
	}

	return mapping, cfg, nil
}

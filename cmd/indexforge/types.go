package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indexforge/indexforge/internal/config"
	"github.com/indexforge/indexforge/internal/mappings"
	"github.com/indexforge/indexforge/internal/registry"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered type definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		reg := registry.NewRegistry()
		if err := registry.LoadDir(cfg.Registry.Dir, reg); err != nil {
			return err
		}

		if reg.Count() == 0 {
			fmt.Printf("No type definitions found in %s\n", cfg.Registry.Dir)
			return nil
		}

		dynamics := mappings.DynamicSettings(reg.Definitions())
		for _, name := range reg.List() {
			def, _ := reg.Get(name)
			line := fmt.Sprintf("%-24s %d fields", name, len(def.Mappings.Properties))
			if setting, ok := dynamics[name]; ok {
				line += fmt.Sprintf(" (dynamic: %s)", setting)
			}
			if def.Hidden {
				line += " [hidden]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

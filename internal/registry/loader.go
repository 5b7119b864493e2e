package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDir registers every type definition file found directly in dir.
// Files ending in .yml, .yaml, or .json are parsed; everything else is
// ignored. A definition without an explicit name takes the file's base
// name. Files are loaded in sorted order so registration failures are
// reproducible.
func LoadDir(dir string, reg *Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read type definitions from %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yml", ".yaml", ".json":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		def, err := LoadFile(path)
		if err != nil {
			return err
		}
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("failed to register %s: %w", path, err)
		}
	}

	return nil
}

// LoadFile parses a single type definition file.
func LoadFile(path string) (*TypeDefinition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var def TypeDefinition
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(content, &def); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(content, &def); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if def.Name == "" {
		base := filepath.Base(path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &def, nil
}

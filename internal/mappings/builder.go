package mappings

import (
	"sort"
	"strings"
)

// FlagSource is a read-only boolean-capability lookup supplied by the
// caller's configuration. A nil source leaves every flag off.
type FlagSource interface {
	HasFlag(name string) bool
}

// FlagFunc adapts a plain function to a FlagSource.
type FlagFunc func(name string) bool

// HasFlag implements FlagSource.
func (f FlagFunc) HasFlag(name string) bool { return f(name) }

// Feature flags the builder consults.
const (
	FlagPermissions = "permissions"
	FlagWorkspaces  = "workspaces"
)

// coreFields is the fixed field set every index mapping carries,
// independent of which types are registered.
func coreFields() map[string]FieldMapping {
	return map[string]FieldMapping{
		"id": {
			"type": "keyword",
		},
		"type": {
			"type": "keyword",
		},
		"namespace": {
			"type": "keyword",
		},
		"updated_at": {
			"type": "date",
		},
		"references": {
			"type": "nested",
			"properties": map[string]any{
				"name": map[string]any{"type": "keyword"},
				"type": map[string]any{"type": "keyword"},
				"id":   map[string]any{"type": "keyword"},
			},
		},
		"migrationVersion": {
			// Holds a version per document type; its keys are not
			// known up front, so this subtree alone stays dynamic.
			"dynamic": "true",
			"type":    "object",
		},
	}
}

// permissionsField is merged when the permissions feature is enabled.
func permissionsField() FieldMapping {
	return FieldMapping{
		"properties": map[string]any{
			"users":  map[string]any{"type": "keyword"},
			"groups": map[string]any{"type": "keyword"},
		},
	}
}

// workspacesField is merged when the workspaces feature is enabled.
func workspacesField() FieldMapping {
	return FieldMapping{
		"type": "keyword",
	}
}

// BuildActiveMappings merges the core fields, every registered type's
// field definitions, and any feature-gated fields into one strict
// schema document, annotated with a stable content hash per top-level
// property. Types are merged in sorted name order so the result is
// identical across runs regardless of map iteration order.
//
// Field names share a single flat namespace: a name claimed twice
// fails with DuplicateMappingError, and a name starting with "_" fails
// with InvalidMappingNameError. Both indicate a registration-time
// defect and abort the build.
func BuildActiveMappings(types map[string]TypeMappingDefinition, flags FlagSource) (*IndexMapping, error) {
	properties := coreFields()

	typeNames := make([]string, 0, len(types))
	for name := range types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, typeName := range typeNames {
		def := types[typeName]

		fieldNames := make([]string, 0, len(def.Properties))
		for field := range def.Properties {
			fieldNames = append(fieldNames, field)
		}
		sort.Strings(fieldNames)

		for _, field := range fieldNames {
			if err := mergeField(properties, field, typeName, def.Properties[field]); err != nil {
				return nil, err
			}
		}
	}

	if flags != nil {
		if flags.HasFlag(FlagPermissions) {
			if err := mergeField(properties, "permissions", "", permissionsField()); err != nil {
				return nil, err
			}
		}
		if flags.HasFlag(FlagWorkspaces) {
			if err := mergeField(properties, "workspaces", "", workspacesField()); err != nil {
				return nil, err
			}
		}
	}

	hashes := make(map[string]string, len(properties))
	for name, fm := range properties {
		hash, err := hashFieldMapping(fm)
		if err != nil {
			return nil, err
		}
		hashes[name] = hash
	}

	return &IndexMapping{
		Dynamic:    DynamicStrict.Ptr(),
		Properties: properties,
		Meta: &IndexMeta{
			MigrationMappingPropertyHashes: hashes,
		},
	}, nil
}

// mergeField inserts one top-level field, enforcing the flat-namespace
// and reserved-prefix rules.
func mergeField(properties map[string]FieldMapping, field, typeName string, fm FieldMapping) error {
	if _, exists := properties[field]; exists {
		return &DuplicateMappingError{Field: field, Type: typeName}
	}
	if strings.HasPrefix(field, "_") {
		return &InvalidMappingNameError{Field: field, Type: typeName}
	}
	properties[field] = fm
	return nil
}

// DynamicSettings collects the dynamic setting each type declares.
// The settings are diagnostic only: the top-level document is always
// strict, whatever the types declare.
func DynamicSettings(types map[string]TypeMappingDefinition) map[string]DynamicSetting {
	out := make(map[string]DynamicSetting)
	for name, def := range types {
		if def.Dynamic != nil {
			out[name] = *def.Dynamic
		}
	}
	return out
}

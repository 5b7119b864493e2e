// Package mappings computes and compares the strict schema document
// (the "mapping") a document index must carry for the currently
// registered object types.
package mappings

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// FieldMapping describes the mapping for a single field. It is a
// recursive, engine-specific document: a "type" attribute, optional
// nested sub-fields, and any other attributes are carried opaquely.
type FieldMapping map[string]any

// DynamicSetting is the per-type or top-level dynamic mode. The engine
// accepts the string "strict" or the JSON literal false; an absent
// setting is represented by a nil pointer.
type DynamicSetting string

const (
	DynamicStrict DynamicSetting = "strict"
	DynamicFalse  DynamicSetting = "false"
)

// MarshalJSON encodes the setting the way the engine expects: "strict"
// as a string, false as the bare JSON literal.
func (d DynamicSetting) MarshalJSON() ([]byte, error) {
	if d == DynamicFalse {
		return []byte(`false`), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts "strict" or false. Any other value is kept
// so it never compares equal to either accepted setting; strings are
// stored without their quotes so the document re-marshals cleanly.
func (d *DynamicSetting) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `false`:
		*d = DynamicFalse
	case `"strict"`:
		*d = DynamicStrict
	default:
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*d = DynamicSetting(s)
		} else {
			*d = DynamicSetting(string(data))
		}
	}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for type definition files, where
// "dynamic: false" arrives as a YAML boolean.
func (d *DynamicSetting) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		if b {
			*d = DynamicSetting("true")
		} else {
			*d = DynamicFalse
		}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*d = DynamicSetting(s)
	return nil
}

// Ptr returns a pointer to the setting, for use in mapping documents
// where an absent setting is a nil pointer.
func (d DynamicSetting) Ptr() *DynamicSetting {
	out := d
	return &out
}

// Equal compares two settings over the "strict" | false | unset
// domain. Both nil is equal; nil against anything else is not.
func (d *DynamicSetting) Equal(other *DynamicSetting) bool {
	if d == nil || other == nil {
		return d == other
	}
	return *d == *other
}

// TypeMappingDefinition is the field schema contributed by one
// registered object type: its top-level properties plus an optional
// dynamic setting describing how the type treats undeclared sub-fields.
type TypeMappingDefinition struct {
	Properties map[string]FieldMapping `json:"properties" yaml:"properties"`
	Dynamic    *DynamicSetting         `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// IndexMeta carries the mapping metadata persisted alongside the
// schema itself.
type IndexMeta struct {
	// MigrationMappingPropertyHashes fingerprints each top-level
	// property so schema drift can be detected without comparing raw
	// structures.
	MigrationMappingPropertyHashes map[string]string `json:"migrationMappingPropertyHashes,omitempty"`
}

// IndexMapping is the full schema document for an index. Mappings
// produced by BuildActiveMappings always have Dynamic set to "strict"
// and a hash entry for every property; documents read back from a live
// index may lack Meta entirely.
type IndexMapping struct {
	Dynamic    *DynamicSetting         `json:"dynamic,omitempty"`
	Properties map[string]FieldMapping `json:"properties"`
	Meta       *IndexMeta              `json:"_meta,omitempty"`
}

// MappingDiff names the first structural discrepancy between an actual
// and an expected mapping. A nil diff means no migration is required.
type MappingDiff struct {
	// ChangedProp is "dynamic", "_meta", or "properties.<key>".
	ChangedProp string
}

package mappings

import "sort"

// DiffMappings compares the mapping read back from a live index
// against the freshly built one and reports the first structural
// discrepancy, or nil when no migration is required.
//
// The per-property hash map is the sole fingerprint of field-level
// schema identity: raw properties are never compared, and properties
// present only in the actual mapping (leftovers from a disabled
// feature or a removed type) do not force a migration on their own.
// A missing _meta or hash map is a legitimate "different" signal, not
// an error; older deployments persisted mappings without them.
func DiffMappings(actual, expected *IndexMapping) *MappingDiff {
	if actual.Meta == nil {
		return &MappingDiff{ChangedProp: "_meta"}
	}
	if actual.Meta.MigrationMappingPropertyHashes == nil {
		return &MappingDiff{ChangedProp: "_meta"}
	}

	expectedHashes := map[string]string{}
	if expected.Meta != nil {
		expectedHashes = expected.Meta.MigrationMappingPropertyHashes
	}

	// Built mappings carry their properties in sorted order; iterate
	// the same way so the first reported discrepancy is deterministic.
	keys := make([]string, 0, len(expectedHashes))
	for k := range expectedHashes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		actualHash, ok := actual.Meta.MigrationMappingPropertyHashes[key]
		if !ok || actualHash != expectedHashes[key] {
			return &MappingDiff{ChangedProp: "properties." + key}
		}
	}

	if !actual.Dynamic.Equal(expected.Dynamic) {
		return &MappingDiff{ChangedProp: "dynamic"}
	}

	return nil
}

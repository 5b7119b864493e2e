package mappings

import "fmt"

// DuplicateMappingError reports a top-level field name claimed twice.
// Field names form a single flat namespace across core fields and all
// registered types; a collision is a registration-time defect and
// aborts the build.
type DuplicateMappingError struct {
	Field string
	Type  string
}

func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("cannot redefine mapping %q (type %q): the name is already claimed", e.Field, e.Type)
}

// InvalidMappingNameError reports a field name using the reserved "_"
// prefix, which belongs to the engine's meta fields.
type InvalidMappingNameError struct {
	Field string
	Type  string
}

func (e *InvalidMappingNameError) Error() string {
	return fmt.Sprintf("invalid mapping %q (type %q): names starting with _ are reserved", e.Field, e.Type)
}

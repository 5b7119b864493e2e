package registry

import (
	"strings"
	"testing"

	"github.com/indexforge/indexforge/internal/mappings"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&TypeDefinition{
		Name: "dashboard",
		Mappings: mappings.TypeMappingDefinition{
			Properties: map[string]mappings.FieldMapping{
				"title": {"type": "text"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if !reg.Exists("dashboard") {
		t.Error("Expected dashboard to be registered")
	}
	if reg.Count() != 1 {
		t.Errorf("Expected count 1, got %d", reg.Count())
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&TypeDefinition{Name: "dashboard"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	err := reg.Register(&TypeDefinition{Name: "dashboard"})
	if err == nil {
		t.Fatal("Expected duplicate registration to fail")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRegistry_RegisterInvalidName(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"", "Dashboard", "9lives", "has space", "_meta"} {
		if err := reg.Register(&TypeDefinition{Name: name}); err == nil {
			t.Errorf("Expected registration of %q to fail", name)
		}
	}

	for _, name := range []string{"dashboard", "index-pattern", "ui_settings", "v2"} {
		if err := reg.Register(&TypeDefinition{Name: name}); err != nil {
			t.Errorf("Expected registration of %q to succeed, got %v", name, err)
		}
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zebra", "apple", "mango"} {
		if err := reg.Register(&TypeDefinition{Name: name}); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	names := reg.List()
	want := []string{"apple", "mango", "zebra"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected names[%d]=%q, got %q", i, want[i], names[i])
		}
	}
}

func TestRegistry_DefinitionsFeedBuilder(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&TypeDefinition{
		Name:   "secret",
		Hidden: true,
		Mappings: mappings.TypeMappingDefinition{
			Properties: map[string]mappings.FieldMapping{
				"value": {"type": "keyword"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	mapping, err := mappings.BuildActiveMappings(reg.Definitions(), nil)
	if err != nil {
		t.Fatalf("BuildActiveMappings() failed: %v", err)
	}

	// Hidden types still contribute their fields.
	if _, ok := mapping.Properties["value"]; !ok {
		t.Error("Expected hidden type's field in built mapping")
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&TypeDefinition{Name: "doc"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	reg.Clear()
	if reg.Count() != 0 {
		t.Errorf("Expected empty registry after Clear, got %d", reg.Count())
	}
}

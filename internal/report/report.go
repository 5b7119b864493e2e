// Package report renders mapping diff verdicts for humans.
package report

import (
	"bytes"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/indexforge/indexforge/internal/mappings"
)

// Report pairs a diff verdict with the two mappings it was computed
// from, for rendering.
type Report struct {
	Actual   *mappings.IndexMapping
	Expected *mappings.IndexMapping
	Diff     *mappings.MappingDiff
	NoColor  bool
}

// New builds a report for the given verdict.
func New(actual, expected *mappings.IndexMapping, diff *mappings.MappingDiff) *Report {
	return &Report{
		Actual:   actual,
		Expected: expected,
		Diff:     diff,
	}
}

// String returns a human-readable rendering of the verdict with color
// highlighting.
func (r *Report) String() string {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	if r.NoColor {
		green.DisableColor()
		red.DisableColor()
		cyan.DisableColor()
	}

	if r.Diff == nil {
		return green.Sprint("Mapping is up to date, no migration required")
	}

	var buf bytes.Buffer
	cyan.Fprintf(&buf, "@@ %s @@\n", r.Diff.ChangedProp)

	switch {
	case r.Diff.ChangedProp == "_meta":
		red.Fprintln(&buf, "- persisted mapping carries no property hashes")
		green.Fprintln(&buf, "+ expected _meta.migrationMappingPropertyHashes")
	case r.Diff.ChangedProp == "dynamic":
		red.Fprintf(&buf, "- dynamic: %s\n", renderDynamic(r.Actual.Dynamic))
		green.Fprintf(&buf, "+ dynamic: %s\n", renderDynamic(r.Expected.Dynamic))
	case strings.HasPrefix(r.Diff.ChangedProp, "properties."):
		key := strings.TrimPrefix(r.Diff.ChangedProp, "properties.")
		if hash, ok := hashOf(r.Actual, key); ok {
			red.Fprintf(&buf, "- %s: %s\n", key, hash)
		} else {
			red.Fprintf(&buf, "- %s: (absent)\n", key)
		}
		if hash, ok := hashOf(r.Expected, key); ok {
			green.Fprintf(&buf, "+ %s: %s\n", key, hash)
		}
	}

	return buf.String()
}

// Summary lists every hash-level discrepancy, not just the first one
// the differ reports, so operators can see the full blast radius of a
// pending migration.
func (r *Report) Summary() string {
	expectedHashes := map[string]string{}
	if r.Expected.Meta != nil {
		expectedHashes = r.Expected.Meta.MigrationMappingPropertyHashes
	}
	actualHashes := map[string]string{}
	if r.Actual != nil && r.Actual.Meta != nil {
		actualHashes = r.Actual.Meta.MigrationMappingPropertyHashes
	}

	keys := make([]string, 0, len(expectedHashes))
	for k := range expectedHashes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var missing, changed, stale []string
	for _, k := range keys {
		actual, ok := actualHashes[k]
		switch {
		case !ok:
			missing = append(missing, k)
		case actual != expectedHashes[k]:
			changed = append(changed, k)
		}
	}
	for k := range actualHashes {
		if _, ok := expectedHashes[k]; !ok {
			stale = append(stale, k)
		}
	}
	sort.Strings(stale)

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(changed) > 0 {
		parts = append(parts, "changed: "+strings.Join(changed, ", "))
	}
	if len(stale) > 0 {
		// Stale fields alone never trigger a migration.
		parts = append(parts, "stale (tolerated): "+strings.Join(stale, ", "))
	}
	if len(parts) == 0 {
		return "no hash-level discrepancies"
	}
	return strings.Join(parts, "\n")
}

func renderDynamic(d *mappings.DynamicSetting) string {
	if d == nil {
		return "(absent)"
	}
	return string(*d)
}

func hashOf(mapping *mappings.IndexMapping, key string) (string, bool) {
	if mapping == nil || mapping.Meta == nil {
		return "", false
	}
	hash, ok := mapping.Meta.MigrationMappingPropertyHashes[key]
	return hash, ok
}

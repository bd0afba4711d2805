package routing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps classification categories to routing destinations.
type Table map[string]string

// DefaultTable returns the built-in category routing table.
func DefaultTable() Table {
	return Table{
		"document_submission": "documents",
		"court_notice":        "case-management",
		"lawsuit":             "case-management",
		"emergency":           "emergency",
		"billing":             "billing",
		"appointment":         "calendar",
		"inquiry":             DefaultRoute,
	}
}

// Destination looks up the route for a category, falling back to the
// default intake route.
func (t Table) Destination(category string) string {
	if dest, ok := t[category]; ok && dest != "" {
		return dest
	}
	return DefaultRoute
}

// LoadTable merges destination overrides from a YAML file onto the
// default table. Only the categories named in the file are replaced.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing table: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse routing table: %w", err)
	}

	for category, destination := range overrides {
		if destination != "" {
			table[category] = destination
		}
	}
	return table, nil
}

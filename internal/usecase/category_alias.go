package usecase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasEntry maps a canonical category label to the spellings found in stored data.
type AliasEntry struct {
	Label    string   `yaml:"label" json:"label"`
	Variants []string `yaml:"variants" json:"variants"`
}

// aliasFile is the on-disk YAML layout for a category alias table
type aliasFile struct {
	Categories []AliasEntry `yaml:"categories"`
}

// AliasTable resolves canonical category labels to stored collection values.
// Variants are kept verbatim: they are compared with exact equality against
// the collection column, not through Normalize.
// A table is immutable once built and safe for concurrent use.
type AliasTable struct {
	labels   []string
	variants map[string][]string
}

// defaultAliases is the storefront's category list with the spellings that
// turned up in imported sheets.
var defaultAliases = []AliasEntry{
	{Label: "Batteries", Variants: []string{"Laptop Battery", "Battery", "Laptop Batteries"}},
	{Label: "Adapters", Variants: []string{"Adapter", "Laptop Adapter", "Power Adapter", "Charger", "Chargers"}},
	{Label: "Docking Station", Variants: []string{"DockingStation", "Docking Stations", "Dock"}},
	{Label: "Locks", Variants: []string{"Lock", "Laptop Lock"}},
	{Label: "Headphones", Variants: []string{"Headphone", "Headset", "Headsets"}},
	{Label: "Mouse", Variants: []string{"Mice", "Mouses"}},
	{Label: "Screens", Variants: []string{"Screen", "Laptop Screen", "Display"}},
	{Label: "Privacy Filters", Variants: []string{"Privacy Filter", "PrivacyFilter"}},
	{Label: "Stands", Variants: []string{"Stand", "Laptop Stand"}},
	{Label: "Bags", Variants: []string{"Bag", "Laptop Bag"}},
	{Label: "Webcams", Variants: []string{"Webcam"}},
	{Label: "Cables", Variants: []string{"Cable"}},
}

// NewAliasTable builds a table from entries. Each label is added to its own
// variant set if missing; duplicate variants are collapsed.
func NewAliasTable(entries []AliasEntry) (*AliasTable, error) {
	t := &AliasTable{
		labels:   make([]string, 0, len(entries)),
		variants: make(map[string][]string, len(entries)),
	}

	for _, e := range entries {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			return nil, fmt.Errorf("alias entry with empty label")
		}
		if _, dup := t.variants[label]; dup {
			return nil, fmt.Errorf("duplicate alias label %q", label)
		}

		seen := map[string]bool{label: true}
		set := []string{label}
		for _, v := range e.Variants {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			set = append(set, v)
		}

		t.labels = append(t.labels, label)
		t.variants[label] = set
	}

	return t, nil
}

// DefaultAliasTable returns the built-in table
func DefaultAliasTable() *AliasTable {
	t, err := NewAliasTable(defaultAliases)
	if err != nil {
		panic(fmt.Sprintf("built-in alias table: %v", err))
	}
	return t
}

// LoadAliasFile reads a YAML alias table:
//
//	categories:
//	  - label: Batteries
//	    variants: [Laptop Battery, Battery]
func LoadAliasFile(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file %s: %w", path, err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("alias file %s: no categories", path)
	}

	t, err := NewAliasTable(f.Categories)
	if err != nil {
		return nil, fmt.Errorf("alias file %s: %w", path, err)
	}
	return t, nil
}

// Resolve expands label into every stored spelling it is known by.
// An unmapped label resolves to itself alone. The result is never empty
// and is a fresh slice the caller may keep.
func (t *AliasTable) Resolve(label string) []string {
	if t != nil {
		if set, ok := t.variants[label]; ok {
			out := make([]string, len(set))
			copy(out, set)
			return out
		}
	}
	return []string{label}
}

// Labels returns the canonical labels in table order
func (t *AliasTable) Labels() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Entries returns the table contents in table order
func (t *AliasTable) Entries() []AliasEntry {
	if t == nil {
		return nil
	}
	out := make([]AliasEntry, 0, len(t.labels))
	for _, l := range t.labels {
		out = append(out, AliasEntry{Label: l, Variants: t.Resolve(l)})
	}
	return out
}

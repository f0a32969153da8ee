package models

// DiffKind distinguishes the three diff entry variants.
type DiffKind string

const (
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffChanged DiffKind = "changed"
)

// DiffEntry records one difference between the remote listing and the local
// configuration. Entries are produced in the traversal order of the desired
// document and never mutated after creation.
//
// Value is set for Added and Removed entries; OldValue/NewValue for Changed
// entries, where OldValue is the remote side and NewValue the local side.
type DiffEntry struct {
	Kind     DiffKind `json:"kind"`
	Section  Section  `json:"-"`
	Name     string   `json:"name"`
	Value    any      `json:"value,omitempty"`
	OldValue any      `json:"old_value,omitempty"`
	NewValue any      `json:"new_value,omitempty"`
}

// Added builds an Added diff entry.
func Added(section Section, name string, value any) DiffEntry {
	return DiffEntry{Kind: DiffAdded, Section: section, Name: name, Value: value}
}

// Removed builds a Removed diff entry.
func Removed(section Section, name string, value any) DiffEntry {
	return DiffEntry{Kind: DiffRemoved, Section: section, Name: name, Value: value}
}

// Changed builds a Changed diff entry.
func Changed(section Section, name string, oldValue, newValue any) DiffEntry {
	return DiffEntry{Kind: DiffChanged, Section: section, Name: name, OldValue: oldValue, NewValue: newValue}
}

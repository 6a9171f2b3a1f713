package concepts

import (
	"sort"
)

// ConceptID is an OMOP standard concept identifier.
type ConceptID int64

// Entry binds a semantic label to a concept id within a catalog.
type Entry struct {
	Label string
	ID    ConceptID
}

// Catalog is an ordered, immutable set of labelled concept ids for one
// semantic group. Duplicate ids are legal: the upstream vocabulary contains
// known cases where two labels share an id, and the catalog preserves them
// literally rather than deduplicating (see Validate).
type Catalog struct {
	name    string
	entries []Entry
}

func NewCatalog(name string, entries ...Entry) Catalog {
	return Catalog{name: name, entries: entries}
}

func (c Catalog) Name() string { return c.name }

// Values returns the concept ids in declaration order, duplicates included.
func (c Catalog) Values() []ConceptID {
	out := make([]ConceptID, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.ID)
	}
	return out
}

// Labels returns the labels in declaration order.
func (c Catalog) Labels() []string {
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Label)
	}
	return out
}

// IsMember reports whether val belongs to the catalog. The zero value counts
// as a member: absent data is never flagged as out-of-catalog.
func (c Catalog) IsMember(val ConceptID) bool {
	if val == 0 {
		return true
	}
	for _, e := range c.entries {
		if e.ID == val {
			return true
		}
	}
	return false
}

// NameOf returns the label for val, or "" when val is not in the catalog.
// When duplicate ids exist the first declared label wins.
func (c Catalog) NameOf(val ConceptID) string {
	for _, e := range c.entries {
		if e.ID == val {
			return e.Label
		}
	}
	return ""
}

// Get returns the concept id for a label.
func (c Catalog) Get(label string) (ConceptID, bool) {
	for _, e := range c.entries {
		if e.Label == label {
			return e.ID, true
		}
	}
	return 0, false
}

// DuplicateGroup describes one concept id carrying more than one label.
type DuplicateGroup struct {
	ID     ConceptID
	Labels []string
}

// Validate reports every id that appears under more than one label. These
// are upstream vocabulary data errors; callers should log them, not fix them.
func (c Catalog) Validate() []DuplicateGroup {
	byID := make(map[ConceptID][]string)
	for _, e := range c.entries {
		byID[e.ID] = append(byID[e.ID], e.Label)
	}
	var out []DuplicateGroup
	for id, labels := range byID {
		if len(labels) > 1 {
			out = append(out, DuplicateGroup{ID: id, Labels: labels})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

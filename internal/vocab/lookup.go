package vocab

import (
	"context"
	"fmt"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/normalization"
)

// RelationshipSubsumes is the default parent-child relationship walked during
// hierarchical expansion.
const RelationshipSubsumes = "Subsumes"

// Config describes one lookup instance. Exactly one population strategy must
// be set: ParentConceptIDs (hierarchical expansion) or Domain (flat scan).
// Setting both, or neither, is a construction error.
type Config struct {
	Name             string
	Unknown          concepts.ConceptID
	ParentConceptIDs []int64
	Domain           string
	// Relationship defaults to RelationshipSubsumes when empty.
	Relationship string
	Corrections  []Correction
}

// Lookup maps normalized terms to concept ids. It is populated once by
// NewLookup and never mutated afterwards, so concurrent readers need no
// locking.
type Lookup struct {
	name        string
	unknown     concepts.ConceptID
	table       map[string]concepts.ConceptID
	corrections []Correction
}

// NewLookup builds a lookup by fully reading the configured slice of
// reference data. It returns an error rather than a partially populated
// lookup: a failed build means the instance must not be used.
func NewLookup(ctx context.Context, src Source, cfg Config) (*Lookup, error) {
	if len(cfg.ParentConceptIDs) > 0 && cfg.Domain != "" {
		return nil, fmt.Errorf("lookup %q: parent and domain strategies are mutually exclusive", cfg.Name)
	}
	if len(cfg.ParentConceptIDs) == 0 && cfg.Domain == "" {
		return nil, fmt.Errorf("lookup %q: either parent concepts or a domain is required", cfg.Name)
	}

	l := &Lookup{
		name:        cfg.Name,
		unknown:     cfg.Unknown,
		table:       make(map[string]concepts.ConceptID),
		corrections: cfg.Corrections,
	}

	if cfg.Domain != "" {
		if err := l.populateFromDomain(ctx, src, cfg.Domain); err != nil {
			return nil, fmt.Errorf("lookup %q: domain scan: %w", cfg.Name, err)
		}
		return l, nil
	}

	relationship := cfg.Relationship
	if relationship == "" {
		relationship = RelationshipSubsumes
	}
	if err := l.populateFromParents(ctx, src, cfg.ParentConceptIDs, relationship); err != nil {
		return nil, fmt.Errorf("lookup %q: hierarchy expansion: %w", cfg.Name, err)
	}
	return l, nil
}

func (l *Lookup) populateFromDomain(ctx context.Context, src Source, domainID string) error {
	rows, err := src.ConceptsByDomain(ctx, domainID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		l.insert(row)
	}
	return nil
}

// populateFromParents walks the relationship graph breadth-first from the
// seed parents. The frontier only ever advances to ids not yet visited, so
// the walk terminates even if the graph (which is assumed acyclic) turns out
// to contain a cycle. The parents themselves are not inserted; insertion is
// last-write-wins when two concepts normalize to the same name.
func (l *Lookup) populateFromParents(ctx context.Context, src Source, parents []int64, relationship string) error {
	visited := make(map[int64]bool, len(parents))
	frontier := make([]int64, 0, len(parents))
	for _, p := range parents {
		if !visited[p] {
			visited[p] = true
			frontier = append(frontier, p)
		}
	}

	for len(frontier) > 0 {
		pairs, err := src.RelationshipChildren(ctx, frontier, relationship)
		if err != nil {
			return err
		}

		next := make([]int64, 0, len(pairs))
		for _, pair := range pairs {
			if visited[pair.TargetID] {
				continue
			}
			visited[pair.TargetID] = true
			next = append(next, pair.TargetID)
		}
		if len(next) == 0 {
			break
		}

		rows, err := src.ConceptsByIDs(ctx, next)
		if err != nil {
			return err
		}
		for _, row := range rows {
			l.insert(row)
		}
		frontier = next
	}
	return nil
}

func (l *Lookup) insert(row ConceptRow) {
	l.table[normalization.NormalizeTerm(row.ConceptName)] = concepts.ConceptID(row.ConceptID)
}

func (l *Lookup) Name() string { return l.name }

// Unknown is the sentinel this lookup resolves unmatched input to.
func (l *Lookup) Unknown() concepts.ConceptID { return l.unknown }

// Size is the number of distinct normalized terms in the backing table.
func (l *Lookup) Size() int { return len(l.table) }

// LookupExact resolves a term without corrections. It is a total function:
// blank input normalizes to the empty string, and any absent key resolves to
// the unknown sentinel.
func (l *Lookup) LookupExact(term string) concepts.ConceptID {
	if id, ok := l.table[normalization.NormalizeTerm(term)]; ok {
		return id
	}
	return l.unknown
}

// LookupExactPtr treats a nil term as absent input.
func (l *Lookup) LookupExactPtr(term *string) concepts.ConceptID {
	if term == nil {
		return l.LookupExact("")
	}
	return l.LookupExact(*term)
}

// Lookup resolves a term, falling back to the correction chain on a miss.
// Each correction is applied to the original term in configuration order and
// the first corrected form that hits wins; corrections are never evaluated
// once a result is found. Exhaustion returns the unknown sentinel.
func (l *Lookup) Lookup(term string) concepts.ConceptID {
	value := l.LookupExact(term)
	for _, correct := range l.corrections {
		if value != l.unknown {
			break
		}
		value = l.LookupExact(correct(term))
	}
	return value
}

// LookupPtr treats a nil term as absent input.
func (l *Lookup) LookupPtr(term *string) concepts.ConceptID {
	if term == nil {
		return l.Lookup("")
	}
	return l.Lookup(*term)
}

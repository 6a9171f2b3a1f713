package vocab

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/logger"
)

// Resolver is one registered lookup context: a single Lookup, or a Chain of
// lookups tried in priority order.
type Resolver interface {
	Name() string
	Unknown() concepts.ConceptID
	LookupExact(term string) concepts.ConceptID
	Lookup(term string) concepts.ConceptID
}

// Definition is the declarative form of one lookup context, loadable from a
// YAML file. Unknown names an entry of the concepts.Unknown catalog. A
// definition with Members builds a Chain instead of a single lookup: each
// member is itself a definition (inheriting the chain's sentinel when its own
// is blank), and members are exclusive with the domain/parents/corrections
// fields.
type Definition struct {
	Name         string       `yaml:"name"`
	Unknown      string       `yaml:"unknown"`
	Domain       string       `yaml:"domain,omitempty"`
	Parents      []int64      `yaml:"parents,omitempty"`
	Relationship string       `yaml:"relationship,omitempty"`
	Corrections  []string     `yaml:"corrections,omitempty"`
	Members      []Definition `yaml:"members,omitempty"`
}

// DefaultDefinitions covers the lookup contexts the normalization pipeline
// consumes: the flat domains and the modifier hierarchies.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "gender", Unknown: "gender", Domain: "Gender"},
		{Name: "condition", Unknown: "condition", Domain: "Condition",
			Corrections: []string{"remove_slash", "insert_slash", "icd_code", "icd_group"}},
		{Name: "laterality", Unknown: "generic", Parents: []int64{int64(lateralityParent)}},
		{Name: "stage", Unknown: "stage", Parents: []int64{int64(concepts.TNMParent)}},
		{Name: "grade", Unknown: "grade", Parents: []int64{int64(gradeParent)}},
		{Name: "drug", Unknown: "generic", Domain: "Drug"},
		{Name: "unit", Unknown: "generic", Domain: "Unit"},
		{Name: "route", Unknown: "generic", Domain: "Route"},
	}
}

var (
	lateralityParent, _ = concepts.ModifierConcepts.Get("laterality")
	gradeParent, _      = concepts.ModifierConcepts.Get("grade")
)

// LoadDefinitions reads lookup definitions from a YAML file of the form:
//
//	lookups:
//	  - name: gender
//	    unknown: gender
//	    domain: Gender
//	  - name: diagnosis
//	    unknown: condition
//	    members:
//	      - name: icd10
//	        domain: ICD10
//	      - name: icdo3
//	        domain: ICDO3
func LoadDefinitions(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lookup definitions: %w", err)
	}
	var doc struct {
		Lookups []Definition `yaml:"lookups"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse lookup definitions: %w", err)
	}
	if len(doc.Lookups) == 0 {
		return nil, fmt.Errorf("lookup definitions file %q declares no lookups", path)
	}
	return doc.Lookups, nil
}

func (d Definition) toConfig() (Config, error) {
	if d.Name == "" {
		return Config{}, fmt.Errorf("lookup definition is missing a name")
	}
	unknown, ok := concepts.Unknown.Get(d.Unknown)
	if !ok {
		return Config{}, fmt.Errorf("lookup %q: unknown sentinel %q is not in the Unknown catalog", d.Name, d.Unknown)
	}
	corrections := make([]Correction, 0, len(d.Corrections))
	for _, name := range d.Corrections {
		c, ok := CorrectionByName(name)
		if !ok {
			return Config{}, fmt.Errorf("lookup %q: unknown correction %q", d.Name, name)
		}
		corrections = append(corrections, c)
	}
	return Config{
		Name:             d.Name,
		Unknown:          unknown,
		ParentConceptIDs: d.Parents,
		Domain:           d.Domain,
		Relationship:     d.Relationship,
		Corrections:      corrections,
	}, nil
}

// buildResolver constructs one context: a plain lookup, or a chain when the
// definition declares members.
func buildResolver(ctx context.Context, src Source, d Definition) (Resolver, error) {
	if len(d.Members) == 0 {
		cfg, err := d.toConfig()
		if err != nil {
			return nil, err
		}
		return NewLookup(ctx, src, cfg)
	}

	if d.Domain != "" || len(d.Parents) > 0 || len(d.Corrections) > 0 {
		return nil, fmt.Errorf("chain %q: members are exclusive with domain, parents and corrections", d.Name)
	}
	unknown, ok := concepts.Unknown.Get(d.Unknown)
	if !ok {
		return nil, fmt.Errorf("chain %q: unknown sentinel %q is not in the Unknown catalog", d.Name, d.Unknown)
	}

	members := make([]*Lookup, 0, len(d.Members))
	for _, md := range d.Members {
		if len(md.Members) > 0 {
			return nil, fmt.Errorf("chain %q: member %q: chains do not nest", d.Name, md.Name)
		}
		if md.Unknown == "" {
			md.Unknown = d.Unknown
		}
		cfg, err := md.toConfig()
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", d.Name, err)
		}
		l, err := NewLookup(ctx, src, cfg)
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", d.Name, err)
		}
		members = append(members, l)
	}
	return NewChain(d.Name, unknown, members...)
}

// Registry holds the process-wide lookup instances, constructed once at
// startup and injected into consumers. Construction is fail-fast: any
// definition that cannot be built aborts the whole registry.
type Registry struct {
	lookups map[string]Resolver
	log     *logger.Logger
}

// BuildRegistry constructs every defined lookup. Independent lookups are
// populated concurrently; they share no mutable state until the final
// assembly. The first failure cancels the remaining builds.
func BuildRegistry(ctx context.Context, src Source, defs []Definition, baseLog *logger.Logger) (*Registry, error) {
	log := baseLog.With("component", "VocabRegistry")

	ctx, span := otel.Tracer("vocab").Start(ctx, "vocab.BuildRegistry")
	defer span.End()
	span.SetAttributes(attribute.Int("vocab.definitions", len(defs)))

	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("lookup definition is missing a name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("lookup %q is defined twice", d.Name)
		}
		seen[d.Name] = true
	}

	var mu sync.Mutex
	lookups := make(map[string]Resolver, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range defs {
		g.Go(func() error {
			r, err := buildResolver(gctx, src, d)
			if err != nil {
				return err
			}
			mu.Lock()
			lookups[d.Name] = r
			mu.Unlock()
			log.Debug("Lookup populated", "lookup", d.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build vocabulary registry: %w", err)
	}

	log.Info("Vocabulary registry built", "lookups", len(lookups))
	return &Registry{lookups: lookups, log: log}, nil
}

// Lookup returns the named lookup context.
func (r *Registry) Lookup(name string) (Resolver, bool) {
	l, ok := r.lookups[name]
	return l, ok
}

// Contexts lists the registered lookup names, sorted.
func (r *Registry) Contexts() []string {
	out := make([]string, 0, len(r.lookups))
	for name := range r.lookups {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve runs the named lookup's full resolution (exact, then corrections)
// on a term. The only error is an unregistered context; resolution misses
// come back as the context's sentinel.
func (r *Registry) Resolve(name, term string) (concepts.ConceptID, error) {
	l, ok := r.lookups[name]
	if !ok {
		return 0, fmt.Errorf("no vocabulary lookup registered for context %q", name)
	}
	return l.Lookup(term), nil
}

// ResolveExact is Resolve without the correction chain.
func (r *Registry) ResolveExact(name, term string) (concepts.ConceptID, error) {
	l, ok := r.lookups[name]
	if !ok {
		return 0, fmt.Errorf("no vocabulary lookup registered for context %q", name)
	}
	return l.LookupExact(term), nil
}

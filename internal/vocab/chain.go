package vocab

import (
	"fmt"

	"github.com/oncobridge/omop-backend/internal/concepts"
)

// Chain tries an ordered list of lookups in priority order, e.g. ICD10 before
// ICD9CM before ICDO3 for condition codes. All exact passes run before any
// corrected pass, so an exact hit in a lower-priority vocabulary beats a
// corrected hit in a higher-priority one.
type Chain struct {
	name    string
	unknown concepts.ConceptID
	lookups []*Lookup
}

// NewChain composes member lookups under one sentinel. Every member must
// share the chain's sentinel: a member with a different Unknown would have
// its misses mistaken for hits during the pass loops.
func NewChain(name string, unknown concepts.ConceptID, lookups ...*Lookup) (*Chain, error) {
	if len(lookups) == 0 {
		return nil, fmt.Errorf("chain %q: at least one member lookup is required", name)
	}
	for _, l := range lookups {
		if l.Unknown() != unknown {
			return nil, fmt.Errorf("chain %q: member %q sentinel %d differs from the chain's %d",
				name, l.Name(), l.Unknown(), unknown)
		}
	}
	return &Chain{name: name, unknown: unknown, lookups: lookups}, nil
}

func (c *Chain) Name() string { return c.name }

func (c *Chain) Unknown() concepts.ConceptID { return c.unknown }

// LookupExact runs only the members' exact passes, in priority order.
func (c *Chain) LookupExact(term string) concepts.ConceptID {
	value := c.unknown
	for _, l := range c.lookups {
		if value != c.unknown {
			break
		}
		value = l.LookupExact(term)
	}
	return value
}

// Lookup resolves a term through the chain, short-circuiting on the first
// non-unknown result. Exhaustion returns the chain's sentinel.
func (c *Chain) Lookup(term string) concepts.ConceptID {
	value := c.LookupExact(term)
	for _, l := range c.lookups {
		if value != c.unknown {
			break
		}
		value = l.Lookup(term)
	}
	return value
}

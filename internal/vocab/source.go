// Package vocab resolves raw clinical strings (condition names, drug names,
// lateralities, stages, grades) onto OMOP standard concept ids. A Lookup is
// populated once at startup, either by walking the Subsumes hierarchy under
// seed parent concepts or by scanning a whole domain, and is immutable and
// safe for concurrent readers afterwards. Unmatched input resolves to the
// lookup's unknown sentinel, never to an error.
package vocab

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/repos"
)

// ConceptRow is the slice of the concept table the resolver needs.
type ConceptRow struct {
	ConceptID   int64
	ConceptName string
	DomainID    string
}

// RelationshipPair is one directed edge of the concept relationship graph.
type RelationshipPair struct {
	SourceID int64
	TargetID int64
}

// Source is the read-only reference-data interface lookups are built from.
// A failing Source call is a construction-time failure: the lookup being
// built is unusable and startup should abort.
type Source interface {
	ConceptsByDomain(ctx context.Context, domainID string) ([]ConceptRow, error)
	ConceptsByIDs(ctx context.Context, conceptIDs []int64) ([]ConceptRow, error)
	// RelationshipChildren returns distinct (source, target) pairs for each
	// source id, filtered to one relationship kind. Empty input yields an
	// empty result.
	RelationshipChildren(ctx context.Context, sourceIDs []int64, relationshipID string) ([]RelationshipPair, error)
}

type repoSource struct {
	concepts      repos.ConceptRepo
	relationships repos.ConceptRelationshipRepo
}

// NewRepoSource adapts the concept repos into a Source.
func NewRepoSource(concepts repos.ConceptRepo, relationships repos.ConceptRelationshipRepo) Source {
	return &repoSource{concepts: concepts, relationships: relationships}
}

func (s *repoSource) ConceptsByDomain(ctx context.Context, domainID string) ([]ConceptRow, error) {
	var tx *gorm.DB
	rows, err := s.concepts.GetByDomain(ctx, tx, domainID)
	if err != nil {
		return nil, err
	}
	out := make([]ConceptRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConceptRow{ConceptID: r.ConceptID, ConceptName: r.ConceptName, DomainID: r.DomainID})
	}
	return out, nil
}

func (s *repoSource) ConceptsByIDs(ctx context.Context, conceptIDs []int64) ([]ConceptRow, error) {
	var tx *gorm.DB
	rows, err := s.concepts.GetByIDs(ctx, tx, conceptIDs)
	if err != nil {
		return nil, err
	}
	out := make([]ConceptRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConceptRow{ConceptID: r.ConceptID, ConceptName: r.ConceptName, DomainID: r.DomainID})
	}
	return out, nil
}

func (s *repoSource) RelationshipChildren(ctx context.Context, sourceIDs []int64, relationshipID string) ([]RelationshipPair, error) {
	var tx *gorm.DB
	rows, err := s.relationships.ChildrenOf(ctx, tx, sourceIDs, relationshipID)
	if err != nil {
		return nil, err
	}
	out := make([]RelationshipPair, 0, len(rows))
	for _, r := range rows {
		out = append(out, RelationshipPair{SourceID: r.ConceptID1, TargetID: r.ConceptID2})
	}
	return out, nil
}

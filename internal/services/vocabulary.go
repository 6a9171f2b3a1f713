package services

import (
	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/vocab"
)

type VocabularyService interface {
	Contexts() []string
	Resolve(context, term string) (concepts.ConceptID, error)
	ResolveExact(context, term string) (concepts.ConceptID, error)
	// IsUnknown reports whether the resolved id is the sentinel for the
	// given context.
	IsUnknown(context string, id concepts.ConceptID) bool
}

type vocabularyService struct {
	log      *logger.Logger
	registry *vocab.Registry
}

func NewVocabularyService(log *logger.Logger, registry *vocab.Registry) VocabularyService {
	serviceLog := log.With("service", "VocabularyService")
	return &vocabularyService{log: serviceLog, registry: registry}
}

func (vs *vocabularyService) Contexts() []string {
	return vs.registry.Contexts()
}

func (vs *vocabularyService) Resolve(context, term string) (concepts.ConceptID, error) {
	return vs.registry.Resolve(context, term)
}

func (vs *vocabularyService) ResolveExact(context, term string) (concepts.ConceptID, error) {
	return vs.registry.ResolveExact(context, term)
}

func (vs *vocabularyService) IsUnknown(context string, id concepts.ConceptID) bool {
	l, ok := vs.registry.Lookup(context)
	if !ok {
		return true
	}
	return id == l.Unknown()
}

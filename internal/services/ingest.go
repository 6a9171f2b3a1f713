package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/normalization"
	"github.com/oncobridge/omop-backend/internal/repos"
	"github.com/oncobridge/omop-backend/internal/types"
)

// RawConditionRecord is one diagnosis row as it arrives from a source system:
// free text and local codes, nothing resolved yet. Nil fields mean the source
// carried no value; absent data is never promoted to a modifier row.
type RawConditionRecord struct {
	PersonSourceValue string
	Gender            *string
	ConditionTerm     *string
	Laterality        *string
	Grade             *string
	Stage             *string
	DiagnosisDate     time.Time
}

// RawDrugRecord is one drug administration row from a source system.
type RawDrugRecord struct {
	PersonSourceValue string
	Gender            *string
	DrugName          *string
	DoseUnit          *string
	Route             *string
	Quantity          float64
	StartDate         time.Time
}

type IngestService interface {
	NormalizeConditions(ctx context.Context, source string, records []RawConditionRecord) (*types.IngestBatch, error)
	NormalizeDrugExposures(ctx context.Context, source string, records []RawDrugRecord) (*types.IngestBatch, error)
}

type ingestService struct {
	db               *gorm.DB
	log              *logger.Logger
	vocabulary       VocabularyService
	personRepo       repos.PersonRepo
	conditionRepo    repos.ConditionOccurrenceRepo
	drugRepo         repos.DrugExposureRepo
	measurementRepo  repos.MeasurementRepo
	episodeRepo      repos.EpisodeRepo
	episodeEventRepo repos.EpisodeEventRepo
	batchRepo        repos.IngestBatchRepo
}

func NewIngestService(db *gorm.DB, log *logger.Logger, vocabulary VocabularyService, personRepo repos.PersonRepo, conditionRepo repos.ConditionOccurrenceRepo, drugRepo repos.DrugExposureRepo, measurementRepo repos.MeasurementRepo, episodeRepo repos.EpisodeRepo, episodeEventRepo repos.EpisodeEventRepo, batchRepo repos.IngestBatchRepo) IngestService {
	serviceLog := log.With("service", "IngestService")
	return &ingestService{
		db:               db,
		log:              serviceLog,
		vocabulary:       vocabulary,
		personRepo:       personRepo,
		conditionRepo:    conditionRepo,
		drugRepo:         drugRepo,
		measurementRepo:  measurementRepo,
		episodeRepo:      episodeRepo,
		episodeEventRepo: episodeEventRepo,
		batchRepo:        batchRepo,
	}
}

// unknownCounter tallies how many fields fell back to a sentinel per context.
type unknownCounter map[string]int

func (uc unknownCounter) count(context string, id concepts.ConceptID, vocabulary VocabularyService) {
	if vocabulary.IsUnknown(context, id) {
		uc[context]++
	}
}

func (uc unknownCounter) toJSON() datatypes.JSON {
	raw, err := json.Marshal(uc)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (is *ingestService) NormalizeConditions(ctx context.Context, source string, records []RawConditionRecord) (*types.IngestBatch, error) {
	unknowns := make(unknownCounter)
	batch := &types.IngestBatch{ID: uuid.New(), Source: source, RecordCount: len(records)}

	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			person, err := is.ensurePerson(ctx, tx, record.PersonSourceValue, record.Gender, unknowns)
			if err != nil {
				return err
			}

			conditionID, err := is.vocabulary.Resolve("condition", normalization.NormalizeTermPtr(record.ConditionTerm))
			if err != nil {
				return err
			}
			unknowns.count("condition", conditionID, is.vocabulary)

			problemList, _ := concepts.ConditionConcepts.Get("ehr_problem_list")
			conditions, err := is.conditionRepo.Create(ctx, tx, []*types.ConditionOccurrence{{
				PersonID:               person.PersonID,
				ConditionConceptID:     int64(conditionID),
				ConditionStartDate:     datatypes.Date(record.DiagnosisDate),
				ConditionTypeConceptID: int64(problemList),
				ConditionSourceValue:   derefOrEmpty(record.ConditionTerm),
			}})
			if err != nil {
				return err
			}
			condition := conditions[0]

			if err := is.composeDiseaseEpisode(ctx, tx, person.PersonID, condition, record); err != nil {
				return err
			}

			modifiers := []struct {
				context string
				concept concepts.ConceptID
				raw     *string
			}{
				{"laterality", mustGet(concepts.ModifierConcepts, "laterality"), record.Laterality},
				{"grade", mustGet(concepts.ModifierConcepts, "grade"), record.Grade},
				{"stage", concepts.TNMParent, record.Stage},
			}
			for _, m := range modifiers {
				// Absent source data never becomes a modifier row; only
				// present-but-unmappable values land on the sentinel.
				if m.raw == nil || normalization.NormalizeTerm(*m.raw) == "" {
					continue
				}
				value, err := is.vocabulary.Resolve(m.context, *m.raw)
				if err != nil {
					return err
				}
				unknowns.count(m.context, value, is.vocabulary)
				if _, err := is.measurementRepo.Create(ctx, tx, []*types.Measurement{{
					PersonID:                 person.PersonID,
					MeasurementConceptID:     int64(m.concept),
					MeasurementDate:          datatypes.Date(record.DiagnosisDate),
					ValueAsConceptID:         int64(value),
					ModifierOfEventID:        condition.ConditionOccurrenceID,
					ModifierOfFieldConceptID: int64(concepts.FieldConditionOccurrenceID),
					MeasurementSourceValue:   *m.raw,
				}}); err != nil {
					return err
				}
			}
		}

		batch.UnknownByField = unknowns.toJSON()
		_, err := is.batchRepo.Create(ctx, tx, batch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("normalize conditions from %q: %w", source, err)
	}

	is.log.Info("Condition batch normalized", "source", source, "records", len(records), "unknowns", map[string]int(unknowns))
	return batch, nil
}

func (is *ingestService) NormalizeDrugExposures(ctx context.Context, source string, records []RawDrugRecord) (*types.IngestBatch, error) {
	unknowns := make(unknownCounter)
	batch := &types.IngestBatch{ID: uuid.New(), Source: source, RecordCount: len(records)}
	treatments := make(map[int64]*types.Episode)

	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			person, err := is.ensurePerson(ctx, tx, record.PersonSourceValue, record.Gender, unknowns)
			if err != nil {
				return err
			}

			drugID, err := is.vocabulary.Resolve("drug", normalization.NormalizeTermPtr(record.DrugName))
			if err != nil {
				return err
			}
			unknowns.count("drug", drugID, is.vocabulary)

			unitID, err := is.vocabulary.Resolve("unit", normalization.NormalizeTermPtr(record.DoseUnit))
			if err != nil {
				return err
			}
			unknowns.count("unit", unitID, is.vocabulary)

			routeID, err := is.vocabulary.Resolve("route", normalization.NormalizeTermPtr(record.Route))
			if err != nil {
				return err
			}
			unknowns.count("route", routeID, is.vocabulary)

			ehrAdmin, _ := concepts.DrugExposureConcepts.Get("ehr_drug_admin")
			exposures, err := is.drugRepo.Create(ctx, tx, []*types.DrugExposure{{
				PersonID:              person.PersonID,
				DrugConceptID:         int64(drugID),
				DrugExposureStartDate: datatypes.Date(record.StartDate),
				DrugTypeConceptID:     int64(ehrAdmin),
				Quantity:              record.Quantity,
				DoseUnitConceptID:     int64(unitID),
				RouteConceptID:        int64(routeID),
				DrugSourceValue:       derefOrEmpty(record.DrugName),
				DoseUnitSourceValue:   derefOrEmpty(record.DoseUnit),
				RouteSourceValue:      derefOrEmpty(record.Route),
			}})
			if err != nil {
				return err
			}

			episode, err := is.treatmentEpisodeFor(ctx, tx, person.PersonID, treatments)
			if err != nil {
				return err
			}
			if _, err := is.episodeEventRepo.Create(ctx, tx, []*types.EpisodeEvent{{
				EpisodeID:                  episode.EpisodeID,
				EventID:                    exposures[0].DrugExposureID,
				EpisodeEventFieldConceptID: int64(concepts.FieldDrugExposureID),
			}}); err != nil {
				return err
			}
		}

		batch.UnknownByField = unknowns.toJSON()
		_, err := is.batchRepo.Create(ctx, tx, batch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("normalize drug exposures from %q: %w", source, err)
	}

	is.log.Info("Drug exposure batch normalized", "source", source, "records", len(records), "unknowns", map[string]int(unknowns))
	return batch, nil
}

// composeDiseaseEpisode creates the overarching disease episode for a newly
// ingested diagnosis and ties the condition occurrence to it through an
// episode event.
func (is *ingestService) composeDiseaseEpisode(ctx context.Context, tx *gorm.DB, personID int64, condition *types.ConditionOccurrence, record RawConditionRecord) error {
	start := record.DiagnosisDate
	episodes, err := is.episodeRepo.Create(ctx, tx, []*types.Episode{{
		PersonID:               personID,
		EpisodeConceptID:       int64(concepts.EpisodeOfCare),
		EpisodeStartDatetime:   &start,
		EpisodeObjectConceptID: condition.ConditionConceptID,
		EpisodeTypeConceptID:   int64(concepts.EpisodeEHRDerived),
		EpisodeSourceValue:     derefOrEmpty(record.ConditionTerm),
	}})
	if err != nil {
		return err
	}
	_, err = is.episodeEventRepo.Create(ctx, tx, []*types.EpisodeEvent{{
		EpisodeID:                  episodes[0].EpisodeID,
		EventID:                    condition.ConditionOccurrenceID,
		EpisodeEventFieldConceptID: int64(concepts.FieldConditionOccurrenceID),
	}})
	return err
}

// treatmentEpisodeFor returns the batch's treatment episode for a person,
// creating it on first use. The episode parents onto the person's most recent
// disease episode; a person without one gets an unparented episode.
func (is *ingestService) treatmentEpisodeFor(ctx context.Context, tx *gorm.DB, personID int64, cache map[int64]*types.Episode) (*types.Episode, error) {
	if e, ok := cache[personID]; ok {
		return e, nil
	}

	existing, err := is.episodeRepo.GetByPersonIDs(ctx, tx, []int64{personID})
	if err != nil {
		return nil, err
	}
	var parentID *int64
	for _, e := range existing {
		if e.EpisodeConceptID != int64(concepts.EpisodeOfCare) {
			continue
		}
		if parentID == nil || e.EpisodeID > *parentID {
			id := e.EpisodeID
			parentID = &id
		}
	}

	created, err := is.episodeRepo.Create(ctx, tx, []*types.Episode{{
		PersonID:             personID,
		EpisodeConceptID:     int64(concepts.TreatmentRegimen),
		EpisodeParentID:      parentID,
		EpisodeTypeConceptID: int64(concepts.EpisodeEHRDerived),
	}})
	if err != nil {
		return nil, err
	}
	cache[personID] = created[0]
	return created[0], nil
}

// ensurePerson resolves a person by source value, creating one (with gender
// resolved through the vocabulary) when absent.
func (is *ingestService) ensurePerson(ctx context.Context, tx *gorm.DB, sourceValue string, gender *string, unknowns unknownCounter) (*types.Person, error) {
	if sourceValue == "" {
		return nil, fmt.Errorf("source record has no person_source_value")
	}
	existing, err := is.personRepo.GetBySourceValues(ctx, tx, []string{sourceValue})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	genderID, err := is.vocabulary.Resolve("gender", normalization.NormalizeTermPtr(gender))
	if err != nil {
		return nil, err
	}
	unknowns.count("gender", genderID, is.vocabulary)

	created, err := is.personRepo.Create(ctx, tx, []*types.Person{{
		GenderConceptID:   int64(genderID),
		PersonSourceValue: sourceValue,
		GenderSourceValue: derefOrEmpty(gender),
	}})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mustGet(catalog concepts.Catalog, label string) concepts.ConceptID {
	id, _ := catalog.Get(label)
	return id
}

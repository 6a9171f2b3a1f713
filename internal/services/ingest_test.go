package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/normalization"
	"github.com/oncobridge/omop-backend/internal/repos"
	"github.com/oncobridge/omop-backend/internal/types"
)

// stubVocabulary resolves from fixed term tables, falling back to the
// per-context sentinel the way a built registry does.
type stubVocabulary struct {
	terms    map[string]map[string]concepts.ConceptID
	unknowns map[string]concepts.ConceptID
}

func newStubVocabulary() *stubVocabulary {
	return &stubVocabulary{
		terms: map[string]map[string]concepts.ConceptID{
			"gender":     {"female": 8532, "male": 8507},
			"condition":  {"malignant neoplasm of breast": 3000},
			"laterality": {"left": 7100},
			"grade":      {"grade 2": 7200},
			"stage":      {"iib": 7300},
			"drug":       {"cisplatin": 4000},
			"unit":       {"milligram": 8576},
			"route":      {"intravenous": 4171047},
		},
		unknowns: map[string]concepts.ConceptID{
			"gender":     concepts.UnknownGender,
			"condition":  concepts.UnknownCondition,
			"laterality": concepts.UnknownGeneric,
			"grade":      concepts.UnknownGrade,
			"stage":      concepts.UnknownStage,
			"drug":       concepts.UnknownGeneric,
			"unit":       concepts.UnknownGeneric,
			"route":      concepts.UnknownGeneric,
		},
	}
}

func (sv *stubVocabulary) Contexts() []string {
	out := make([]string, 0, len(sv.terms))
	for name := range sv.terms {
		out = append(out, name)
	}
	return out
}

func (sv *stubVocabulary) Resolve(context, term string) (concepts.ConceptID, error) {
	return sv.ResolveExact(context, term)
}

func (sv *stubVocabulary) ResolveExact(context, term string) (concepts.ConceptID, error) {
	table, ok := sv.terms[context]
	if !ok {
		return 0, fmt.Errorf("no lookup registered for context %q", context)
	}
	if id, ok := table[normalization.NormalizeTerm(term)]; ok {
		return id, nil
	}
	return sv.unknowns[context], nil
}

func (sv *stubVocabulary) IsUnknown(context string, id concepts.ConceptID) bool {
	return id == sv.unknowns[context]
}

func newIngestService(t *testing.T, db *gorm.DB) IngestService {
	t.Helper()
	log := testLogger(t)
	return NewIngestService(db, log, newStubVocabulary(),
		repos.NewPersonRepo(db, log),
		repos.NewConditionOccurrenceRepo(db, log),
		repos.NewDrugExposureRepo(db, log),
		repos.NewMeasurementRepo(db, log),
		repos.NewEpisodeRepo(db, log),
		repos.NewEpisodeEventRepo(db, log),
		repos.NewIngestBatchRepo(db, log),
	)
}

func strPtr(s string) *string { return &s }

func TestNormalizeConditionsCreatesRows(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	batch, err := svc.NormalizeConditions(context.Background(), "regional-cancer-registry", []RawConditionRecord{{
		PersonSourceValue: "mrn-100",
		Gender:            strPtr("Female"),
		ConditionTerm:     strPtr("Malignant neoplasm of breast"),
		Laterality:        strPtr("Left"),
		Grade:             strPtr("Grade 2"),
		Stage:             strPtr("IIB"),
		DiagnosisDate:     time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("NormalizeConditions: %v", err)
	}
	if batch.RecordCount != 1 || batch.Source != "regional-cancer-registry" {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	var persons []types.Person
	if err := db.Find(&persons).Error; err != nil {
		t.Fatalf("load persons: %v", err)
	}
	if len(persons) != 1 {
		t.Fatalf("expected 1 person, got %d", len(persons))
	}
	if persons[0].GenderConceptID != 8532 || persons[0].PersonSourceValue != "mrn-100" {
		t.Fatalf("unexpected person: %+v", persons[0])
	}

	var conditions []types.ConditionOccurrence
	if err := db.Find(&conditions).Error; err != nil {
		t.Fatalf("load conditions: %v", err)
	}
	if len(conditions) != 1 {
		t.Fatalf("expected 1 condition occurrence, got %d", len(conditions))
	}
	if conditions[0].ConditionConceptID != 3000 {
		t.Fatalf("condition concept = %d, want 3000", conditions[0].ConditionConceptID)
	}
	if conditions[0].ConditionSourceValue != "Malignant neoplasm of breast" {
		t.Fatalf("condition source value = %q", conditions[0].ConditionSourceValue)
	}

	var measurements []types.Measurement
	if err := db.Order("measurement_concept_id").Find(&measurements).Error; err != nil {
		t.Fatalf("load measurements: %v", err)
	}
	if len(measurements) != 3 {
		t.Fatalf("expected 3 modifier measurements, got %d", len(measurements))
	}
	values := make(map[int64]int64, len(measurements))
	for _, m := range measurements {
		if m.ModifierOfEventID != conditions[0].ConditionOccurrenceID {
			t.Fatalf("modifier points at event %d, want %d", m.ModifierOfEventID, conditions[0].ConditionOccurrenceID)
		}
		if m.ModifierOfFieldConceptID != int64(concepts.FieldConditionOccurrenceID) {
			t.Fatalf("modifier field concept = %d", m.ModifierOfFieldConceptID)
		}
		values[m.MeasurementConceptID] = m.ValueAsConceptID
	}
	lateralityConcept, _ := concepts.ModifierConcepts.Get("laterality")
	gradeConcept, _ := concepts.ModifierConcepts.Get("grade")
	if values[int64(lateralityConcept)] != 7100 {
		t.Fatalf("laterality value = %d, want 7100", values[int64(lateralityConcept)])
	}
	if values[int64(gradeConcept)] != 7200 {
		t.Fatalf("grade value = %d, want 7200", values[int64(gradeConcept)])
	}
	if values[int64(concepts.TNMParent)] != 7300 {
		t.Fatalf("stage value = %d, want 7300", values[int64(concepts.TNMParent)])
	}

	var episodes []types.Episode
	if err := db.Find(&episodes).Error; err != nil {
		t.Fatalf("load episodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("expected 1 disease episode, got %d", len(episodes))
	}
	if episodes[0].EpisodeConceptID != int64(concepts.EpisodeOfCare) || episodes[0].EpisodeStartDatetime == nil {
		t.Fatalf("unexpected episode: %+v", episodes[0])
	}
	var events []types.EpisodeEvent
	if err := db.Find(&events).Error; err != nil {
		t.Fatalf("load episode events: %v", err)
	}
	if len(events) != 1 || events[0].EpisodeID != episodes[0].EpisodeID ||
		events[0].EventID != conditions[0].ConditionOccurrenceID ||
		events[0].EpisodeEventFieldConceptID != int64(concepts.FieldConditionOccurrenceID) {
		t.Fatalf("unexpected episode events: %+v", events)
	}

	var batches []types.IngestBatch
	if err := db.Find(&batches).Error; err != nil {
		t.Fatalf("load batches: %v", err)
	}
	if len(batches) != 1 || batches[0].ID != batch.ID {
		t.Fatalf("expected batch %s persisted, got %+v", batch.ID, batches)
	}
}

func TestNormalizeConditionsSkipsAbsentModifiers(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	_, err := svc.NormalizeConditions(context.Background(), "ehr-feed", []RawConditionRecord{{
		PersonSourceValue: "mrn-200",
		Gender:            strPtr("male"),
		ConditionTerm:     strPtr("malignant neoplasm of breast"),
		Laterality:        nil,
		Grade:             strPtr("   "),
		Stage:             strPtr("IIB"),
		DiagnosisDate:     time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("NormalizeConditions: %v", err)
	}

	// Absent and blank modifiers never become rows; only the stage landed.
	var measurements []types.Measurement
	if err := db.Find(&measurements).Error; err != nil {
		t.Fatalf("load measurements: %v", err)
	}
	if len(measurements) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(measurements))
	}
	if measurements[0].MeasurementConceptID != int64(concepts.TNMParent) {
		t.Fatalf("measurement concept = %d, want stage parent", measurements[0].MeasurementConceptID)
	}
}

func TestNormalizeConditionsCountsUnknowns(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	batch, err := svc.NormalizeConditions(context.Background(), "ehr-feed", []RawConditionRecord{
		{
			PersonSourceValue: "mrn-300",
			Gender:            strPtr("unrecorded"),
			ConditionTerm:     strPtr("some local condition label"),
			Grade:             strPtr("not gradeable"),
			DiagnosisDate:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			PersonSourceValue: "mrn-301",
			Gender:            strPtr("female"),
			ConditionTerm:     strPtr("malignant neoplasm of breast"),
			DiagnosisDate:     time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("NormalizeConditions: %v", err)
	}

	var unknowns map[string]int
	if err := json.Unmarshal(batch.UnknownByField, &unknowns); err != nil {
		t.Fatalf("unmarshal unknown_by_field: %v", err)
	}
	if unknowns["gender"] != 1 || unknowns["condition"] != 1 || unknowns["grade"] != 1 {
		t.Fatalf("unknown counts = %v", unknowns)
	}

	// The unmappable term still lands as a row, on the sentinel.
	var conditions []types.ConditionOccurrence
	if err := db.Where("condition_source_value = ?", "some local condition label").Find(&conditions).Error; err != nil {
		t.Fatalf("load conditions: %v", err)
	}
	if len(conditions) != 1 || conditions[0].ConditionConceptID != int64(concepts.UnknownCondition) {
		t.Fatalf("expected sentinel condition row, got %+v", conditions)
	}
}

func TestNormalizeConditionsReusesPerson(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	records := []RawConditionRecord{
		{PersonSourceValue: "mrn-400", Gender: strPtr("female"), ConditionTerm: strPtr("malignant neoplasm of breast"), DiagnosisDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PersonSourceValue: "mrn-400", Gender: strPtr("female"), ConditionTerm: strPtr("malignant neoplasm of breast"), DiagnosisDate: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	if _, err := svc.NormalizeConditions(context.Background(), "ehr-feed", records); err != nil {
		t.Fatalf("NormalizeConditions: %v", err)
	}

	var personCount int64
	if err := db.Model(&types.Person{}).Count(&personCount).Error; err != nil {
		t.Fatalf("count persons: %v", err)
	}
	if personCount != 1 {
		t.Fatalf("expected 1 person, got %d", personCount)
	}
	var conditionCount int64
	if err := db.Model(&types.ConditionOccurrence{}).Count(&conditionCount).Error; err != nil {
		t.Fatalf("count conditions: %v", err)
	}
	if conditionCount != 2 {
		t.Fatalf("expected 2 condition occurrences, got %d", conditionCount)
	}
}

func TestNormalizeConditionsRequiresPersonSource(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	_, err := svc.NormalizeConditions(context.Background(), "ehr-feed", []RawConditionRecord{{
		ConditionTerm: strPtr("malignant neoplasm of breast"),
		DiagnosisDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	if err == nil {
		t.Fatalf("expected error for record without person_source_value")
	}

	// The failed batch leaves nothing behind.
	var batchCount int64
	if err := db.Model(&types.IngestBatch{}).Count(&batchCount).Error; err != nil {
		t.Fatalf("count batches: %v", err)
	}
	if batchCount != 0 {
		t.Fatalf("expected no batch rows after rollback, got %d", batchCount)
	}
}

func TestIngestComposesEpisodes(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	// Concept rows back the agent labels in the episode views.
	if err := db.Create(&types.Concept{ConceptID: 4000, ConceptName: "Cisplatin", DomainID: "Drug", VocabularyID: "RxNorm", ConceptCode: "2555"}).Error; err != nil {
		t.Fatalf("seed concept: %v", err)
	}

	if _, err := svc.NormalizeConditions(context.Background(), "ehr-feed", []RawConditionRecord{{
		PersonSourceValue: "mrn-600",
		Gender:            strPtr("female"),
		ConditionTerm:     strPtr("malignant neoplasm of breast"),
		DiagnosisDate:     time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}}); err != nil {
		t.Fatalf("NormalizeConditions: %v", err)
	}
	if _, err := svc.NormalizeDrugExposures(context.Background(), "chemo-feed", []RawDrugRecord{
		{PersonSourceValue: "mrn-600", Gender: strPtr("female"), DrugName: strPtr("cisplatin"), Quantity: 75, StartDate: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)},
		{PersonSourceValue: "mrn-600", Gender: strPtr("female"), DrugName: strPtr("cisplatin"), Quantity: 75, StartDate: time.Date(2022, 4, 22, 0, 0, 0, 0, time.UTC)},
		{PersonSourceValue: "mrn-601", Gender: strPtr("male"), DrugName: strPtr("cisplatin"), Quantity: 50, StartDate: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)},
	}); err != nil {
		t.Fatalf("NormalizeDrugExposures: %v", err)
	}

	var dx []types.Episode
	if err := db.Where("episode_concept_id = ?", int64(concepts.EpisodeOfCare)).Find(&dx).Error; err != nil {
		t.Fatalf("load disease episodes: %v", err)
	}
	if len(dx) != 1 {
		t.Fatalf("expected 1 disease episode, got %d", len(dx))
	}

	var treatments []types.Episode
	if err := db.Where("episode_concept_id = ?", int64(concepts.TreatmentRegimen)).Order("episode_id").Find(&treatments).Error; err != nil {
		t.Fatalf("load treatment episodes: %v", err)
	}
	// One treatment episode per person per batch, not per administration.
	if len(treatments) != 2 {
		t.Fatalf("expected 2 treatment episodes, got %d", len(treatments))
	}
	withDx, orphan := treatments[0], treatments[1]
	if withDx.PersonID != dx[0].PersonID {
		withDx, orphan = orphan, withDx
	}
	if withDx.EpisodeParentID == nil || *withDx.EpisodeParentID != dx[0].EpisodeID {
		t.Fatalf("treatment episode should parent onto disease episode %d, got %v", dx[0].EpisodeID, withDx.EpisodeParentID)
	}
	if orphan.EpisodeParentID != nil {
		t.Fatalf("treatment episode without a diagnosis should have no parent, got %v", *orphan.EpisodeParentID)
	}

	var eventCount int64
	if err := db.Model(&types.EpisodeEvent{}).
		Where("episode_id = ?", withDx.EpisodeID).
		Where("episode_event_field_concept_id = ?", int64(concepts.FieldDrugExposureID)).
		Count(&eventCount).Error; err != nil {
		t.Fatalf("count drug events: %v", err)
	}
	if eventCount != 2 {
		t.Fatalf("expected 2 drug events on the treatment episode, got %d", eventCount)
	}

	// The composed rows surface through the episode views.
	episodeSvc := NewEpisodeService(db, testLogger(t))
	sact, err := episodeSvc.SystemicTherapyEpisodes(context.Background(), withDx.PersonID)
	if err != nil {
		t.Fatalf("SystemicTherapyEpisodes: %v", err)
	}
	if len(sact) != 1 {
		t.Fatalf("expected 1 systemic therapy episode, got %d", len(sact))
	}
	if sact[0].DxEpisodeID == nil || *sact[0].DxEpisodeID != dx[0].EpisodeID {
		t.Fatalf("view should link to disease episode %d, got %v", dx[0].EpisodeID, sact[0].DxEpisodeID)
	}
	if len(sact[0].Agents) != 1 || sact[0].Agents[0] != "Cisplatin" {
		t.Fatalf("agents = %v", sact[0].Agents)
	}
}

func TestNormalizeDrugExposures(t *testing.T) {
	db := newTestDB(t)
	svc := newIngestService(t, db)

	batch, err := svc.NormalizeDrugExposures(context.Background(), "chemo-feed", []RawDrugRecord{{
		PersonSourceValue: "mrn-500",
		Gender:            strPtr("female"),
		DrugName:          strPtr("Cisplatin"),
		DoseUnit:          strPtr("milligram"),
		Route:             strPtr("nebulised"),
		Quantity:          75,
		StartDate:         time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("NormalizeDrugExposures: %v", err)
	}
	if batch.RecordCount != 1 {
		t.Fatalf("record count = %d", batch.RecordCount)
	}

	var exposures []types.DrugExposure
	if err := db.Find(&exposures).Error; err != nil {
		t.Fatalf("load drug exposures: %v", err)
	}
	if len(exposures) != 1 {
		t.Fatalf("expected 1 drug exposure, got %d", len(exposures))
	}
	got := exposures[0]
	if got.DrugConceptID != 4000 || got.DoseUnitConceptID != 8576 || got.Quantity != 75 {
		t.Fatalf("unexpected exposure: %+v", got)
	}
	if got.RouteConceptID != int64(concepts.UnknownGeneric) {
		t.Fatalf("route concept = %d, want sentinel", got.RouteConceptID)
	}
	if got.DrugSourceValue != "Cisplatin" || got.RouteSourceValue != "nebulised" {
		t.Fatalf("source values not preserved: %+v", got)
	}

	var unknowns map[string]int
	if err := json.Unmarshal(batch.UnknownByField, &unknowns); err != nil {
		t.Fatalf("unmarshal unknown_by_field: %v", err)
	}
	if unknowns["route"] != 1 || unknowns["drug"] != 0 {
		t.Fatalf("unknown counts = %v", unknowns)
	}
}

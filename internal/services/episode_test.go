package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Concept{},
		&types.ConceptRelationship{},
		&types.Person{},
		&types.ConditionOccurrence{},
		&types.DrugExposure{},
		&types.Measurement{},
		&types.Episode{},
		&types.EpisodeEvent{},
		&types.IngestBatch{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func seedEpisodes(t *testing.T, db *gorm.DB) {
	t.Helper()

	mustCreate := func(value any) {
		if err := db.Create(value).Error; err != nil {
			t.Fatalf("seed %T: %v", value, err)
		}
	}

	mustCreate(&types.Person{PersonID: 1, GenderConceptID: 8532, PersonSourceValue: "mrn-001"})

	mustCreate(&types.Concept{ConceptID: 3000, ConceptName: "Malignant neoplasm of breast", DomainID: "Condition", VocabularyID: "ICD10", ConceptCode: "C50.9"})
	mustCreate(&types.Concept{ConceptID: 4000, ConceptName: "Cisplatin", DomainID: "Drug", VocabularyID: "RxNorm", ConceptCode: "2555"})
	mustCreate(&types.Concept{ConceptID: 4001, ConceptName: "Paclitaxel", DomainID: "Drug", VocabularyID: "RxNorm", ConceptCode: "56946"})

	dxStart := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	mustCreate(&types.Episode{EpisodeID: 10, PersonID: 1, EpisodeConceptID: int64(concepts.EpisodeOfCare), EpisodeStartDatetime: &dxStart, EpisodeTypeConceptID: int64(concepts.EpisodeEHRDefined)})
	mustCreate(&types.ConditionOccurrence{ConditionOccurrenceID: 500, PersonID: 1, ConditionConceptID: 3000, ConditionStartDate: date(2020, 1, 2), ConditionTypeConceptID: 32840})
	mustCreate(&types.EpisodeEvent{EpisodeID: 10, EventID: 500, EpisodeEventFieldConceptID: int64(concepts.FieldConditionOccurrenceID)})

	// Treatment episode linked to the diagnosis episode, two agents; the
	// earlier administration sets the episode's sact start.
	parent := int64(10)
	mustCreate(&types.Episode{EpisodeID: 20, PersonID: 1, EpisodeConceptID: int64(concepts.TreatmentRegimen), EpisodeParentID: &parent, EpisodeTypeConceptID: int64(concepts.EpisodeEHRDerived)})
	mustCreate(&types.DrugExposure{DrugExposureID: 600, PersonID: 1, DrugConceptID: 4000, DrugExposureStartDate: date(2020, 2, 1), DrugTypeConceptID: 32818})
	mustCreate(&types.DrugExposure{DrugExposureID: 601, PersonID: 1, DrugConceptID: 4001, DrugExposureStartDate: date(2020, 1, 15), DrugTypeConceptID: 32818})
	mustCreate(&types.EpisodeEvent{EpisodeID: 20, EventID: 600, EpisodeEventFieldConceptID: int64(concepts.FieldDrugExposureID)})
	mustCreate(&types.EpisodeEvent{EpisodeID: 20, EventID: 601, EpisodeEventFieldConceptID: int64(concepts.FieldDrugExposureID)})

	// Orphan treatment episode: no parent diagnosis episode.
	mustCreate(&types.Episode{EpisodeID: 30, PersonID: 1, EpisodeConceptID: int64(concepts.TreatmentRegimen), EpisodeTypeConceptID: int64(concepts.EpisodeEHRDerived)})
	mustCreate(&types.DrugExposure{DrugExposureID: 602, PersonID: 1, DrugConceptID: 4000, DrugExposureStartDate: date(2020, 5, 1), DrugTypeConceptID: 32818})
	mustCreate(&types.EpisodeEvent{EpisodeID: 30, EventID: 602, EpisodeEventFieldConceptID: int64(concepts.FieldDrugExposureID)})

	// A surgery episode with no drug events must not appear as systemic
	// therapy.
	mustCreate(&types.Episode{EpisodeID: 40, PersonID: 1, EpisodeConceptID: int64(concepts.CancerSurgery), EpisodeParentID: &parent, EpisodeTypeConceptID: int64(concepts.EpisodeEHRDefined)})
}

func TestConditionEpisodes(t *testing.T) {
	db := newTestDB(t)
	seedEpisodes(t, db)
	svc := NewEpisodeService(db, testLogger(t))

	episodes, err := svc.ConditionEpisodes(context.Background(), 1)
	if err != nil {
		t.Fatalf("ConditionEpisodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("expected 1 condition episode, got %d", len(episodes))
	}
	got := episodes[0]
	if got.EpisodeID != 10 || got.ConditionOccurrenceID != 500 || got.ConditionConceptID != 3000 {
		t.Fatalf("unexpected condition episode: %+v", got)
	}
	if got.ConditionCode != "C50.9" {
		t.Fatalf("condition code = %q, want C50.9", got.ConditionCode)
	}
	if got.EpisodeStartDatetime == nil {
		t.Fatalf("expected episode start datetime")
	}
}

func TestConditionEpisodesEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpisodeService(db, testLogger(t))
	episodes, err := svc.ConditionEpisodes(context.Background(), 99)
	if err != nil {
		t.Fatalf("ConditionEpisodes: %v", err)
	}
	if len(episodes) != 0 {
		t.Fatalf("expected no episodes, got %d", len(episodes))
	}
}

func TestSystemicTherapyEpisodes(t *testing.T) {
	db := newTestDB(t)
	seedEpisodes(t, db)
	svc := NewEpisodeService(db, testLogger(t))

	episodes, err := svc.SystemicTherapyEpisodes(context.Background(), 1)
	if err != nil {
		t.Fatalf("SystemicTherapyEpisodes: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 systemic therapy episodes, got %d", len(episodes))
	}

	// Ordered by earliest administration.
	first, second := episodes[0], episodes[1]
	if first.EpisodeID != 20 || second.EpisodeID != 30 {
		t.Fatalf("unexpected episode order: %d, %d", first.EpisodeID, second.EpisodeID)
	}
	if first.SactStart.Format("2006-01-02") != "2020-01-15" {
		t.Fatalf("sact start = %s, want 2020-01-15", first.SactStart.Format("2006-01-02"))
	}
	if first.DxEpisodeID == nil || *first.DxEpisodeID != 10 {
		t.Fatalf("episode 20 should link to diagnosis episode 10, got %v", first.DxEpisodeID)
	}
	if second.DxEpisodeID != nil {
		t.Fatalf("episode 30 has no parent diagnosis, got %v", *second.DxEpisodeID)
	}

	if len(first.Agents) != 2 || first.Agents[0] != "Cisplatin" || first.Agents[1] != "Paclitaxel" {
		t.Fatalf("episode 20 agents = %v", first.Agents)
	}
	if len(second.Agents) != 1 || second.Agents[0] != "Cisplatin" {
		t.Fatalf("episode 30 agents = %v", second.Agents)
	}
}

func TestAllAgentsDistinctUnion(t *testing.T) {
	db := newTestDB(t)
	seedEpisodes(t, db)
	svc := NewEpisodeService(db, testLogger(t))

	agents, err := svc.AllAgents(context.Background(), 1)
	if err != nil {
		t.Fatalf("AllAgents: %v", err)
	}
	// Cisplatin appears in two episodes but once here.
	if len(agents) != 2 || agents[0] != "Cisplatin" || agents[1] != "Paclitaxel" {
		t.Fatalf("agents = %v", agents)
	}
}

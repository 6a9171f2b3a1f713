package services

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/logger"
)

// ConditionEpisode is a diagnosis joined to the episode it belongs to: every
// condition occurrence attached to an episode through an episode event.
type ConditionEpisode struct {
	EpisodeID             int64      `json:"episode_id"`
	PersonID              int64      `json:"person_id"`
	ConditionOccurrenceID int64      `json:"condition_occurrence_id"`
	ConditionConceptID    int64      `json:"condition_concept_id"`
	ConditionCode         string     `json:"condition_code,omitempty"`
	EpisodeStartDatetime  *time.Time `json:"episode_start_datetime,omitempty"`
}

// SystemicTherapyEpisode is a treatment episode with at least one drug
// administration event. SactStart is the earliest administration date in the
// episode; DxEpisodeID links back to the originating diagnosis episode via
// the episode parent, when one exists.
type SystemicTherapyEpisode struct {
	EpisodeID   int64     `json:"episode_id"`
	PersonID    int64     `json:"person_id"`
	SactStart   time.Time `json:"sact_start"`
	DxEpisodeID *int64    `json:"dx_episode_id,omitempty"`
	Agents      []string  `json:"agents"`
}

type EpisodeService interface {
	ConditionEpisodes(ctx context.Context, personID int64) ([]*ConditionEpisode, error)
	SystemicTherapyEpisodes(ctx context.Context, personID int64) ([]*SystemicTherapyEpisode, error)
	// AllAgents is the distinct set of drug labels across every systemic
	// therapy episode of a person.
	AllAgents(ctx context.Context, personID int64) ([]string, error)
}

type episodeService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEpisodeService(db *gorm.DB, log *logger.Logger) EpisodeService {
	serviceLog := log.With("service", "EpisodeService")
	return &episodeService{db: db, log: serviceLog}
}

func (es *episodeService) ConditionEpisodes(ctx context.Context, personID int64) ([]*ConditionEpisode, error) {
	ctx, span := otel.Tracer("episodes").Start(ctx, "EpisodeService.ConditionEpisodes")
	defer span.End()
	span.SetAttributes(attribute.Int64("person_id", personID))

	var rows []*ConditionEpisode
	err := es.db.WithContext(ctx).
		Table("episode_event AS ee").
		Select(`ee.episode_id,
			co.person_id,
			co.condition_occurrence_id,
			co.condition_concept_id,
			c.concept_code AS condition_code,
			e.episode_start_datetime`).
		Joins("JOIN condition_occurrence co ON co.condition_occurrence_id = ee.event_id").
		Joins("JOIN episode e ON e.episode_id = ee.episode_id").
		Joins("LEFT JOIN concept c ON c.concept_id = co.condition_concept_id").
		Where("ee.episode_event_field_concept_id = ?", int64(concepts.FieldConditionOccurrenceID)).
		Where("co.person_id = ?", personID).
		Order("e.episode_start_datetime, ee.episode_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type sactRow struct {
	EpisodeID   int64
	PersonID    int64
	SactStart   time.Time
	DxEpisodeID *int64
}

func (es *episodeService) SystemicTherapyEpisodes(ctx context.Context, personID int64) ([]*SystemicTherapyEpisode, error) {
	ctx, span := otel.Tracer("episodes").Start(ctx, "EpisodeService.SystemicTherapyEpisodes")
	defer span.End()
	span.SetAttributes(attribute.Int64("person_id", personID))

	// Diagnosis episodes: episodes carrying at least one condition event.
	// The dx link is LEFT-joined; a treatment episode without a resolvable
	// parent diagnosis still appears, with DxEpisodeID absent.
	dxEpisodes := es.db.
		Table("episode_event AS dxe").
		Select("DISTINCT dxe.episode_id").
		Where("dxe.episode_event_field_concept_id = ?", int64(concepts.FieldConditionOccurrenceID))

	var rows []*sactRow
	err := es.db.WithContext(ctx).
		Table("episode AS e").
		Select(`e.episode_id,
			e.person_id,
			MIN(de.drug_exposure_start_date) AS sact_start,
			dx.episode_id AS dx_episode_id`).
		Joins("JOIN episode_event ee ON ee.episode_id = e.episode_id AND ee.episode_event_field_concept_id = ?", int64(concepts.FieldDrugExposureID)).
		Joins("JOIN drug_exposure de ON de.drug_exposure_id = ee.event_id").
		Joins("LEFT JOIN (?) dx ON dx.episode_id = e.episode_parent_id", dxEpisodes).
		Where("e.person_id = ?", personID).
		Group("e.episode_id, e.person_id, dx.episode_id").
		Order("sact_start").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*SystemicTherapyEpisode{}, nil
	}

	episodeIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		episodeIDs = append(episodeIDs, r.EpisodeID)
	}
	agentsByEpisode, err := es.agentsByEpisode(ctx, episodeIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*SystemicTherapyEpisode, 0, len(rows))
	for _, r := range rows {
		out = append(out, &SystemicTherapyEpisode{
			EpisodeID:   r.EpisodeID,
			PersonID:    r.PersonID,
			SactStart:   r.SactStart,
			DxEpisodeID: r.DxEpisodeID,
			Agents:      agentsByEpisode[r.EpisodeID],
		})
	}
	return out, nil
}

func (es *episodeService) AllAgents(ctx context.Context, personID int64) ([]string, error) {
	episodes, err := es.SystemicTherapyEpisodes(ctx, personID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, ep := range episodes {
		for _, agent := range ep.Agents {
			if !seen[agent] {
				seen[agent] = true
				out = append(out, agent)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

type agentRow struct {
	EpisodeID int64
	Agent     string
}

// agentsByEpisode resolves the distinct drug labels administered within each
// episode, via the concept names of the drug exposure events.
func (es *episodeService) agentsByEpisode(ctx context.Context, episodeIDs []int64) (map[int64][]string, error) {
	var rows []*agentRow
	err := es.db.WithContext(ctx).
		Table("episode_event AS ee").
		Select("DISTINCT ee.episode_id, c.concept_name AS agent").
		Joins("JOIN drug_exposure de ON de.drug_exposure_id = ee.event_id").
		Joins("JOIN concept c ON c.concept_id = de.drug_concept_id").
		Where("ee.episode_id IN ?", episodeIDs).
		Where("ee.episode_event_field_concept_id = ?", int64(concepts.FieldDrugExposureID)).
		Order("ee.episode_id, agent").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]string, len(episodeIDs))
	for _, r := range rows {
		out[r.EpisodeID] = append(out[r.EpisodeID], r.Agent)
	}
	return out, nil
}

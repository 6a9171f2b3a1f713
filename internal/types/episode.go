package types

import (
	"time"
)

// Episode is an oncology-extension abstraction over raw clinical events: an
// overarching disease episode or a treatment episode. Treatment episodes link
// back to their originating disease episode through EpisodeParentID.
type Episode struct {
	EpisodeID              int64      `gorm:"column:episode_id;primaryKey;autoIncrement" json:"episode_id"`
	PersonID               int64      `gorm:"column:person_id;not null;index" json:"person_id"`
	Person                 *Person    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	EpisodeConceptID       int64      `gorm:"column:episode_concept_id;not null;index" json:"episode_concept_id"`
	EpisodeStartDatetime   *time.Time `gorm:"column:episode_start_datetime" json:"episode_start_datetime,omitempty"`
	EpisodeEndDatetime     *time.Time `gorm:"column:episode_end_datetime" json:"episode_end_datetime,omitempty"`
	EpisodeParentID        *int64     `gorm:"column:episode_parent_id;index" json:"episode_parent_id,omitempty"`
	EpisodeParent          *Episode   `gorm:"foreignKey:EpisodeParentID;references:EpisodeID" json:"episode_parent,omitempty"`
	EpisodeNumber          int        `gorm:"column:episode_number" json:"episode_number"`
	EpisodeObjectConceptID int64      `gorm:"column:episode_object_concept_id" json:"episode_object_concept_id"`
	EpisodeTypeConceptID   int64      `gorm:"column:episode_type_concept_id" json:"episode_type_concept_id"`
	EpisodeSourceValue     string     `gorm:"column:episode_source_value" json:"episode_source_value,omitempty"`
	EpisodeSourceConceptID int64      `gorm:"column:episode_source_concept_id" json:"episode_source_concept_id"`

	Events []*EpisodeEvent `gorm:"foreignKey:EpisodeID;references:EpisodeID" json:"events,omitempty"`
}

func (Episode) TableName() string { return "episode" }

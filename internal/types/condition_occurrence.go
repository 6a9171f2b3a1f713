package types

import (
	"time"

	"gorm.io/datatypes"
)

type ConditionOccurrence struct {
	ConditionOccurrenceID    int64           `gorm:"column:condition_occurrence_id;primaryKey;autoIncrement" json:"condition_occurrence_id"`
	PersonID                 int64           `gorm:"column:person_id;not null;index" json:"person_id"`
	Person                   *Person         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	ConditionConceptID       int64           `gorm:"column:condition_concept_id;not null;index" json:"condition_concept_id"`
	ConditionStartDate       datatypes.Date  `gorm:"column:condition_start_date;not null" json:"condition_start_date"`
	ConditionStartDatetime   *time.Time      `gorm:"column:condition_start_datetime" json:"condition_start_datetime,omitempty"`
	ConditionEndDate         *datatypes.Date `gorm:"column:condition_end_date" json:"condition_end_date,omitempty"`
	ConditionTypeConceptID   int64           `gorm:"column:condition_type_concept_id;not null" json:"condition_type_concept_id"`
	ConditionStatusConceptID int64           `gorm:"column:condition_status_concept_id" json:"condition_status_concept_id"`
	ConditionSourceValue     string          `gorm:"column:condition_source_value" json:"condition_source_value,omitempty"`
	ConditionSourceConceptID int64           `gorm:"column:condition_source_concept_id" json:"condition_source_concept_id"`
}

func (ConditionOccurrence) TableName() string { return "condition_occurrence" }

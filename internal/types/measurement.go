package types

import (
	"gorm.io/datatypes"
)

// Measurement carries condition modifiers in the oncology extension: staging,
// grade and laterality rows point back at the clinical row they modify via
// ModifierOfEventID plus the field concept saying which table that id lives in.
type Measurement struct {
	MeasurementID            int64          `gorm:"column:measurement_id;primaryKey;autoIncrement" json:"measurement_id"`
	PersonID                 int64          `gorm:"column:person_id;not null;index" json:"person_id"`
	Person                   *Person        `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	MeasurementConceptID     int64          `gorm:"column:measurement_concept_id;not null;index" json:"measurement_concept_id"`
	MeasurementDate          datatypes.Date `gorm:"column:measurement_date" json:"measurement_date"`
	MeasurementTypeConceptID int64          `gorm:"column:measurement_type_concept_id" json:"measurement_type_concept_id"`
	ValueAsNumber            *float64       `gorm:"column:value_as_number" json:"value_as_number,omitempty"`
	ValueAsConceptID         int64          `gorm:"column:value_as_concept_id;index" json:"value_as_concept_id"`
	ModifierOfEventID        int64          `gorm:"column:modifier_of_event_id;index" json:"modifier_of_event_id"`
	ModifierOfFieldConceptID int64          `gorm:"column:modifier_of_field_concept_id" json:"modifier_of_field_concept_id"`
	MeasurementSourceValue   string         `gorm:"column:measurement_source_value" json:"measurement_source_value,omitempty"`
}

func (Measurement) TableName() string { return "measurement" }

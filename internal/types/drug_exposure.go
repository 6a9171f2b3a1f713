package types

import (
	"gorm.io/datatypes"
)

type DrugExposure struct {
	DrugExposureID        int64           `gorm:"column:drug_exposure_id;primaryKey;autoIncrement" json:"drug_exposure_id"`
	PersonID              int64           `gorm:"column:person_id;not null;index" json:"person_id"`
	Person                *Person         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	DrugConceptID         int64           `gorm:"column:drug_concept_id;not null;index" json:"drug_concept_id"`
	DrugExposureStartDate datatypes.Date  `gorm:"column:drug_exposure_start_date;not null;index" json:"drug_exposure_start_date"`
	DrugExposureEndDate   *datatypes.Date `gorm:"column:drug_exposure_end_date" json:"drug_exposure_end_date,omitempty"`
	DrugTypeConceptID     int64           `gorm:"column:drug_type_concept_id;not null" json:"drug_type_concept_id"`
	Quantity              float64         `gorm:"column:quantity" json:"quantity"`
	DoseUnitConceptID     int64           `gorm:"column:dose_unit_concept_id" json:"dose_unit_concept_id"`
	RouteConceptID        int64           `gorm:"column:route_concept_id" json:"route_concept_id"`
	DrugSourceValue       string          `gorm:"column:drug_source_value" json:"drug_source_value,omitempty"`
	DoseUnitSourceValue   string          `gorm:"column:dose_unit_source_value" json:"dose_unit_source_value,omitempty"`
	RouteSourceValue      string          `gorm:"column:route_source_value" json:"route_source_value,omitempty"`
}

func (DrugExposure) TableName() string { return "drug_exposure" }

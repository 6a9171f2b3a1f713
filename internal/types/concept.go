package types

import (
	"gorm.io/datatypes"
)

// Concept is an OMOP standard vocabulary entry. Reference data: read-only at
// runtime, loaded by vocabulary ETL outside this service.
type Concept struct {
	ConceptID       int64          `gorm:"column:concept_id;primaryKey" json:"concept_id"`
	ConceptName     string         `gorm:"column:concept_name;not null;index" json:"concept_name"`
	DomainID        string         `gorm:"column:domain_id;not null;index" json:"domain_id"`
	VocabularyID    string         `gorm:"column:vocabulary_id;not null;index" json:"vocabulary_id"`
	ConceptClassID  string         `gorm:"column:concept_class_id" json:"concept_class_id"`
	StandardConcept string         `gorm:"column:standard_concept" json:"standard_concept,omitempty"`
	ConceptCode     string         `gorm:"column:concept_code;index" json:"concept_code"`
	ValidStartDate  datatypes.Date `gorm:"column:valid_start_date" json:"valid_start_date"`
	ValidEndDate    datatypes.Date `gorm:"column:valid_end_date" json:"valid_end_date"`
	InvalidReason   string         `gorm:"column:invalid_reason" json:"invalid_reason,omitempty"`
}

func (Concept) TableName() string { return "concept" }

package types

import (
	"gorm.io/datatypes"
)

// ConceptRelationship is a directed edge between two concepts, e.g. the
// "Subsumes" parent-child link walked during hierarchical lookup expansion.
type ConceptRelationship struct {
	ConceptID1     int64          `gorm:"column:concept_id_1;primaryKey;autoIncrement:false" json:"concept_id_1"`
	ConceptID2     int64          `gorm:"column:concept_id_2;primaryKey;autoIncrement:false" json:"concept_id_2"`
	RelationshipID string         `gorm:"column:relationship_id;primaryKey;index" json:"relationship_id"`
	ValidStartDate datatypes.Date `gorm:"column:valid_start_date" json:"valid_start_date"`
	ValidEndDate   datatypes.Date `gorm:"column:valid_end_date" json:"valid_end_date"`
	InvalidReason  string         `gorm:"column:invalid_reason" json:"invalid_reason,omitempty"`
}

func (ConceptRelationship) TableName() string { return "concept_relationship" }

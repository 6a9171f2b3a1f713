package types

import (
	"time"
)

type Person struct {
	PersonID           int64      `gorm:"column:person_id;primaryKey;autoIncrement" json:"person_id"`
	GenderConceptID    int64      `gorm:"column:gender_concept_id;not null" json:"gender_concept_id"`
	YearOfBirth        int        `gorm:"column:year_of_birth" json:"year_of_birth"`
	BirthDatetime      *time.Time `gorm:"column:birth_datetime" json:"birth_datetime,omitempty"`
	RaceConceptID      int64      `gorm:"column:race_concept_id" json:"race_concept_id"`
	EthnicityConceptID int64      `gorm:"column:ethnicity_concept_id" json:"ethnicity_concept_id"`
	PersonSourceValue  string     `gorm:"column:person_source_value;index" json:"person_source_value,omitempty"`
	GenderSourceValue  string     `gorm:"column:gender_source_value" json:"gender_source_value,omitempty"`
}

func (Person) TableName() string { return "person" }

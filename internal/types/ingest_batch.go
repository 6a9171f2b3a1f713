package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IngestBatch records one normalization run of raw source records into the
// CDM tables: which source, how many rows landed, and how many fields fell
// back to an unknown sentinel per context.
type IngestBatch struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Source         string         `gorm:"column:source;not null;index" json:"source"`
	RecordCount    int            `gorm:"column:record_count;not null" json:"record_count"`
	UnknownByField datatypes.JSON `gorm:"type:jsonb;column:unknown_by_field" json:"unknown_by_field,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (IngestBatch) TableName() string { return "ingest_batch" }

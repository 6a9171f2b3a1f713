package types

// EpisodeEvent ties an episode to one clinical row. EventID is the primary
// key of that row; EpisodeEventFieldConceptID says which table's key it is
// (see concepts.ModifierFields).
type EpisodeEvent struct {
	EpisodeID                  int64 `gorm:"column:episode_id;primaryKey;autoIncrement:false" json:"episode_id"`
	EventID                    int64 `gorm:"column:event_id;primaryKey;autoIncrement:false;index" json:"event_id"`
	EpisodeEventFieldConceptID int64 `gorm:"column:episode_event_field_concept_id;primaryKey;autoIncrement:false" json:"episode_event_field_concept_id"`
}

func (EpisodeEvent) TableName() string { return "episode_event" }

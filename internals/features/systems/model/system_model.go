// file: internals/features/systems/model/system_model.go
package model

// SystemListModel is an organ-system category (read-only from the API's
// perspective; rows are seeded by the import tooling).
type SystemListModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Topic    string `gorm:"type:varchar(255);not null;column:topic" json:"topic"`
	IsActive bool   `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (SystemListModel) TableName() string { return "system_lists" }

// TopicListModel groups subtopics under a system.
type TopicListModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SystemID int64  `gorm:"not null;column:system_id" json:"system_id"`
	Topic    string `gorm:"type:varchar(255);not null;column:topic" json:"topic"`
}

func (TopicListModel) TableName() string { return "topic_lists" }

// SubtopicListModel is the grouping a question belongs to.
type SubtopicListModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TopicID  int64  `gorm:"not null;column:topic_id" json:"topic_id"`
	Subtopic string `gorm:"type:varchar(255);not null;column:subtopic" json:"subtopic"`
}

func (SubtopicListModel) TableName() string { return "subtopic_lists" }

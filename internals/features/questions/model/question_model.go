// file: internals/features/questions/model/question_model.go
package model

// QuestionModel is the working copy under review. already_updated is set
// exclusively by the replace pipeline and never reverts to false.
type QuestionModel struct {
	ID             int64 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SubtopicListID int64 `gorm:"not null;column:subtopic_list_id" json:"subtopic_list_id"`

	Scenario          string `gorm:"type:text;not null;column:scenario" json:"scenario"`
	Question          string `gorm:"type:text;not null;column:question" json:"question"`
	OptionA           string `gorm:"type:text;not null;column:option_a" json:"option_a"`
	OptionB           string `gorm:"type:text;not null;column:option_b" json:"option_b"`
	OptionC           string `gorm:"type:text;not null;column:option_c" json:"option_c"`
	OptionD           string `gorm:"type:text;not null;column:option_d" json:"option_d"`
	OptionE           string `gorm:"type:text;not null;column:option_e" json:"option_e"`
	CorrectAnswer     string `gorm:"type:varchar(1);not null;column:correct_answer" json:"correct_answer"`
	Discussion        string `gorm:"type:text;not null;column:discussion" json:"discussion"`
	LearningObjective string `gorm:"type:text;not null;column:learning_objective" json:"learning_objective"`

	ImageURL *string `gorm:"type:text;column:image_url" json:"image_url,omitempty"`

	AlreadyUpdated bool `gorm:"not null;default:false;column:already_updated" json:"already_updated"`
	IsAccepted     bool `gorm:"not null;default:false;column:is_accepted" json:"is_accepted"`
}

func (QuestionModel) TableName() string { return "questions_duplicated" }

// QuestionBeforeModel reads the untouched source table; it backs the
// best-effort "before" snapshot and is never written by this service.
type QuestionBeforeModel QuestionModel

func (QuestionBeforeModel) TableName() string { return "questions" }

// file: internals/features/questions/dto/question_dto.go
package dto

import (
	"soalklinis_backend/internals/features/questions/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

// ReplaceQuestionRequest is a full overwrite gated by this fixed field
// list — NOT a merge patch. Keys outside the list are dropped on purpose;
// downstream consumers read already_updated as "fully replaced".
type ReplaceQuestionRequest struct {
	Scenario          string `json:"scenario" validate:"required"`
	Question          string `json:"question" validate:"required"`
	OptionA           string `json:"option_a" validate:"required"`
	OptionB           string `json:"option_b" validate:"required"`
	OptionC           string `json:"option_c" validate:"required"`
	OptionD           string `json:"option_d" validate:"required"`
	OptionE           string `json:"option_e" validate:"required"`
	CorrectAnswer     string `json:"correct_answer" validate:"required,oneof=A B C D E"`
	Discussion        string `json:"discussion" validate:"required"`
	LearningObjective string `json:"learning_objective" validate:"required"`
}

// ApplyTo overwrites the replaceable fields verbatim. subtopic_list_id and
// image_url stay untouched; already_updated is the pipeline's job.
func (r ReplaceQuestionRequest) ApplyTo(m *model.QuestionModel) {
	m.Scenario = r.Scenario
	m.Question = r.Question
	m.OptionA = r.OptionA
	m.OptionB = r.OptionB
	m.OptionC = r.OptionC
	m.OptionD = r.OptionD
	m.OptionE = r.OptionE
	m.CorrectAnswer = r.CorrectAnswer
	m.Discussion = r.Discussion
	m.LearningObjective = r.LearningObjective
}

type AcceptRequest struct {
	IsAccepted *bool `json:"is_accepted" validate:"required"`
}

type GenerateRequest struct {
	OriginalQuestion *DraftQuestion `json:"originalQuestion"`
}

/* =========================================================
   RESPONSE / SHARED DTOs
========================================================= */

// QuestionListItem is the sidebar row: {id, already_updated}.
type QuestionListItem struct {
	ID             int64 `json:"id"`
	AlreadyUpdated bool  `json:"already_updated"`
}

// DraftQuestion is an unpersisted candidate replacement — same shape as a
// question minus identity and status flags. It is what the generator
// returns and what a manual "skip" starts blank.
type DraftQuestion struct {
	Scenario          string `json:"scenario"`
	Question          string `json:"question"`
	OptionA           string `json:"option_a"`
	OptionB           string `json:"option_b"`
	OptionC           string `json:"option_c"`
	OptionD           string `json:"option_d"`
	OptionE           string `json:"option_e"`
	CorrectAnswer     string `json:"correct_answer"`
	Discussion        string `json:"discussion"`
	LearningObjective string `json:"learning_objective"`
}

// Complete reports whether every replaceable field is populated.
func (d DraftQuestion) Complete() bool {
	fields := []string{
		d.Scenario, d.Question,
		d.OptionA, d.OptionB, d.OptionC, d.OptionD, d.OptionE,
		d.CorrectAnswer, d.Discussion, d.LearningObjective,
	}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

// ToReplaceRequest promotes a draft into a commit payload.
func (d DraftQuestion) ToReplaceRequest() ReplaceQuestionRequest {
	return ReplaceQuestionRequest{
		Scenario:          d.Scenario,
		Question:          d.Question,
		OptionA:           d.OptionA,
		OptionB:           d.OptionB,
		OptionC:           d.OptionC,
		OptionD:           d.OptionD,
		OptionE:           d.OptionE,
		CorrectAnswer:     d.CorrectAnswer,
		Discussion:        d.Discussion,
		LearningObjective: d.LearningObjective,
	}
}

// DraftFromModel projects a persisted question into draft shape, e.g. as
// generator input.
func DraftFromModel(m *model.QuestionModel) DraftQuestion {
	return DraftQuestion{
		Scenario:          m.Scenario,
		Question:          m.Question,
		OptionA:           m.OptionA,
		OptionB:           m.OptionB,
		OptionC:           m.OptionC,
		OptionD:           m.OptionD,
		OptionE:           m.OptionE,
		CorrectAnswer:     m.CorrectAnswer,
		Discussion:        m.Discussion,
		LearningObjective: m.LearningObjective,
	}
}

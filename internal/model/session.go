package model

import "time"

// AnswerRecord is one entry of a session's ordered answer history
type AnswerRecord struct {
	QuestionID string `json:"questionId"`
	OptionKey  string `json:"optionKey"`
}

// Session is the per-user diagnosis handle. Only the answer history is kept;
// the diagnosis state is re-derived from it on every request.
type Session struct {
	ID                string           `json:"id"`
	QuestionSetID     string           `json:"questionSetId"`
	PreferredWeight   WeightPreference `json:"preferredWeight,omitempty"`
	PreferredCategory CategoryKey      `json:"preferredCategory,omitempty"`
	History           []AnswerRecord   `json:"history"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

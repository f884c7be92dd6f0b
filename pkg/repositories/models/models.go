package models

import "time"

// SessionResult is the summary of a finished session.
type SessionResult struct {
	SessionID      string    `json:"session_id" yaml:"sessionId"`
	Score          int       `json:"score" yaml:"score"`
	CorrectAnswers int       `json:"correct_answers" yaml:"correctAnswers"`
	TotalQuestions int       `json:"total_questions" yaml:"totalQuestions"`
	Phase          string    `json:"phase" yaml:"phase"`
	StartedAt      time.Time `json:"started_at" yaml:"startedAt"`
	EndedAt        time.Time `json:"ended_at" yaml:"endedAt"`
}

// HighScore is the body returned by the high score endpoint.
type HighScore struct {
	Score int `json:"score"`
}

package types

import (
	"time"

	"github.com/cbodonnell/breedadventure/pkg/game/constants"
)

// GameState is the score-keeping record of a session. It is a value: every
// transition returns a new GameState and leaves the receiver untouched, so a
// snapshot handed to an observer never changes under it.
type GameState struct {
	// Score is the running score, never decreasing while the game is active
	Score int `json:"score"`
	// CorrectAnswers never exceeds TotalQuestions
	CorrectAnswers int `json:"correctAnswers"`
	// TotalQuestions counts resolved answers and timeouts
	TotalQuestions int `json:"totalQuestions"`
	// ConsecutiveCorrect is the current streak
	ConsecutiveCorrect int `json:"consecutiveCorrect"`
	// CurrentPhase is the difficulty tier challenges are drawn from
	CurrentPhase Phase `json:"currentPhase"`
	// UsedLabels holds labels resolved in the current phase
	UsedLabels LabelSet `json:"usedLabels"`
	// TimeRemaining mirrors the countdown in seconds
	TimeRemaining int `json:"timeRemaining"`
	// IsGameActive is true between start and end
	IsGameActive bool `json:"isGameActive"`
	// PowerUps is a copy of the power-up inventory
	PowerUps Inventory `json:"powerUps"`
	// SessionStart is when the game was started
	SessionStart time.Time `json:"sessionStart"`
}

// NewGameState returns the initial state of a session that has not started.
func NewGameState(timeLimit int, inventory Inventory) GameState {
	return GameState{
		CurrentPhase:  FirstPhase,
		UsedLabels:    NewLabelSet(),
		TimeRemaining: timeLimit,
		PowerUps:      inventory.Copy(),
	}
}

// Started returns the state of a freshly started game.
func (g GameState) Started(at time.Time) GameState {
	g = g.Copy()
	g.IsGameActive = true
	g.SessionStart = at
	return g
}

// Copy returns a GameState sharing nothing mutable with g. UsedLabels is
// copy-on-write already, so only the inventory is copied.
func (g GameState) Copy() GameState {
	g.PowerUps = g.PowerUps.Copy()
	return g
}

func (g GameState) IncorrectAnswers() int {
	return g.TotalQuestions - g.CorrectAnswers
}

func (g GameState) LivesRemaining() int {
	lives := constants.MaxLives - g.IncorrectAnswers()
	if lives < 0 {
		return 0
	}
	return lives
}

// Accuracy returns the share of correct answers in [0, 1].
func (g GameState) Accuracy() float64 {
	if g.TotalQuestions == 0 {
		return 0
	}
	return float64(g.CorrectAnswers) / float64(g.TotalQuestions)
}

// WithCorrectAnswer records a correct answer worth points.
func (g GameState) WithCorrectAnswer(points int) GameState {
	g = g.Copy()
	if points > 0 {
		g.Score += points
	}
	g.CorrectAnswers++
	g.TotalQuestions++
	g.ConsecutiveCorrect++
	return g
}

// WithIncorrectAnswer records an incorrect answer or a timeout.
func (g GameState) WithIncorrectAnswer() GameState {
	g = g.Copy()
	g.TotalQuestions++
	g.ConsecutiveCorrect = 0
	return g
}

func (g GameState) WithLabelUsed(label string) GameState {
	g = g.Copy()
	g.UsedLabels = g.UsedLabels.With(label)
	return g
}

// WithPhase moves to phase and clears the used labels.
func (g GameState) WithPhase(phase Phase) GameState {
	g = g.Copy()
	g.CurrentPhase = phase
	g.UsedLabels = NewLabelSet()
	return g
}

func (g GameState) WithTimeRemaining(seconds int) GameState {
	g = g.Copy()
	if seconds < 0 {
		seconds = 0
	}
	g.TimeRemaining = seconds
	return g
}

func (g GameState) WithPowerUps(inventory Inventory) GameState {
	g.PowerUps = inventory.Copy()
	return g
}

func (g GameState) Ended() GameState {
	g = g.Copy()
	g.IsGameActive = false
	return g
}

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameState_transitionsDoNotMutateReceiver(t *testing.T) {
	initial := NewGameState(10, Inventory{PowerUpSkip: 1}).Started(time.Unix(0, 0))

	next := initial.WithCorrectAnswer(150).WithLabelUsed("beagle")
	next.PowerUps[PowerUpSkip] = 0

	assert.Equal(t, 0, initial.Score)
	assert.Equal(t, 0, initial.UsedLabels.Len())
	assert.Equal(t, 1, initial.PowerUps[PowerUpSkip])
	assert.Equal(t, 150, next.Score)
	assert.True(t, next.UsedLabels.Has("beagle"))
}

func TestGameState_correctNeverExceedsTotal(t *testing.T) {
	g := NewGameState(10, nil).Started(time.Now())
	steps := []bool{true, false, true, true, false, false}
	for _, correct := range steps {
		if correct {
			g = g.WithCorrectAnswer(100)
		} else {
			g = g.WithIncorrectAnswer()
		}
		assert.LessOrEqual(t, g.CorrectAnswers, g.TotalQuestions)
	}
	assert.Equal(t, 3, g.IncorrectAnswers())
	assert.Equal(t, 0, g.LivesRemaining())
	assert.Equal(t, 0, g.ConsecutiveCorrect)
	assert.InDelta(t, 0.5, g.Accuracy(), 0.0001)
}

func TestGameState_WithPhaseClearsUsedLabels(t *testing.T) {
	g := NewGameState(10, nil).WithLabelUsed("pug").WithLabelUsed("corgi")

	g = g.WithPhase(PhaseIntermediate)

	assert.Equal(t, PhaseIntermediate, g.CurrentPhase)
	assert.Equal(t, 0, g.UsedLabels.Len())
}

func TestPhase_progression(t *testing.T) {
	assert.Equal(t, []Phase{PhaseBeginner, PhaseIntermediate, PhaseExpert}, AllPhases())

	next, ok := PhaseExpert.Next()
	assert.False(t, ok)
	assert.Empty(t, next)

	assert.Equal(t, 1, PhaseBeginner.ScoreMultiplier())
	assert.Equal(t, 3, PhaseExpert.ScoreMultiplier())
}

func TestChallenge_Images(t *testing.T) {
	c, err := NewChallenge("pug", "a.jpg", "b.jpg", 1, PhaseBeginner)
	assert.NoError(t, err)
	assert.Equal(t, [2]string{"b.jpg", "a.jpg"}, c.Images())

	_, err = NewChallenge("pug", "a.jpg", "a.jpg", 0, PhaseBeginner)
	assert.Error(t, err)
	_, err = NewChallenge("pug", "a.jpg", "b.jpg", 2, PhaseBeginner)
	assert.Error(t, err)
}

func TestGameState_transitionsCopyInventory(t *testing.T) {
	initial := NewGameState(10, Inventory{PowerUpExtraTime: 2, PowerUpSkip: 1}).Started(time.Unix(0, 0))

	tests := []struct {
		name       string
		transition func(GameState) GameState
	}{
		{name: "started", transition: func(g GameState) GameState { return g.Started(time.Unix(1, 0)) }},
		{name: "correct answer", transition: func(g GameState) GameState { return g.WithCorrectAnswer(100) }},
		{name: "incorrect answer", transition: func(g GameState) GameState { return g.WithIncorrectAnswer() }},
		{name: "label used", transition: func(g GameState) GameState { return g.WithLabelUsed("pug") }},
		{name: "phase", transition: func(g GameState) GameState { return g.WithPhase(PhaseExpert) }},
		{name: "time remaining", transition: func(g GameState) GameState { return g.WithTimeRemaining(3) }},
		{name: "power-ups", transition: func(g GameState) GameState { return g.WithPowerUps(g.PowerUps) }},
		{name: "ended", transition: func(g GameState) GameState { return g.Ended() }},
		{name: "copy", transition: func(g GameState) GameState { return g.Copy() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.transition(initial)
			next.PowerUps[PowerUpExtraTime] = 0
			delete(next.PowerUps, PowerUpSkip)

			assert.Equal(t, 2, initial.PowerUps[PowerUpExtraTime])
			assert.Equal(t, 1, initial.PowerUps[PowerUpSkip])
		})
	}
}

package types

import (
	"errors"
	"fmt"
)

var ErrUnknownPowerUpKind = errors.New("unknown power-up kind")

// Phase is a difficulty tier. Phases form a linear progression.
type Phase string

const (
	PhaseBeginner     Phase = "beginner"
	PhaseIntermediate Phase = "intermediate"
	PhaseExpert       Phase = "expert"
)

type phaseInfo struct {
	multiplier int
	next       Phase
}

var phases = map[Phase]phaseInfo{
	PhaseBeginner:     {multiplier: 1, next: PhaseIntermediate},
	PhaseIntermediate: {multiplier: 2, next: PhaseExpert},
	PhaseExpert:       {multiplier: 3},
}

// FirstPhase is the phase every session starts in.
const FirstPhase = PhaseBeginner

// ScoreMultiplier returns the phase's score multiplier. Unknown phases score as 1.
func (p Phase) ScoreMultiplier() int {
	info, ok := phases[p]
	if !ok {
		return 1
	}
	return info.multiplier
}

// Next returns the successor phase. The terminal phase has none.
func (p Phase) Next() (Phase, bool) {
	info, ok := phases[p]
	if !ok || info.next == "" {
		return "", false
	}
	return info.next, true
}

func (p Phase) Valid() bool {
	_, ok := phases[p]
	return ok
}

// AllPhases returns the phases in progression order.
func AllPhases() []Phase {
	out := []Phase{}
	for p, ok := FirstPhase, true; ok; p, ok = p.Next() {
		out = append(out, p)
	}
	return out
}

func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase: %s", s)
	}
	return p, nil
}

// PowerUpKind is the closed set of power-ups. Only extra time and skip
// have an effect in this mode; the rest are inert.
type PowerUpKind string

const (
	PowerUpExtraTime  PowerUpKind = "extraTime"
	PowerUpSkip       PowerUpKind = "skip"
	PowerUpHint       PowerUpKind = "hint"
	PowerUpFiftyFifty PowerUpKind = "fiftyFifty"
	PowerUpTimeFreeze PowerUpKind = "timeFreeze"
)

func AllPowerUpKinds() []PowerUpKind {
	return []PowerUpKind{
		PowerUpExtraTime,
		PowerUpSkip,
		PowerUpHint,
		PowerUpFiftyFifty,
		PowerUpTimeFreeze,
	}
}

func ParsePowerUpKind(s string) (PowerUpKind, error) {
	for _, kind := range AllPowerUpKinds() {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPowerUpKind, s)
}

// Inventory maps power-up kinds to their nonnegative counts.
type Inventory map[PowerUpKind]int

func (inv Inventory) Copy() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

func (inv Inventory) Count(kind PowerUpKind) int {
	return inv[kind]
}

// Feedback is the result shown for the most recently resolved challenge.
type Feedback string

const (
	FeedbackNone      Feedback = "none"
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	StatusUninitialized SessionStatus = "uninitialized"
	StatusInitialized   SessionStatus = "initialized"
	StatusActive        SessionStatus = "active"
	StatusPaused        SessionStatus = "paused"
	StatusEnded         SessionStatus = "ended"
)

// NoSlot marks a resolution without a pick, such as a timeout.
const NoSlot = -1

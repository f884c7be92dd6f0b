// Package audio declares the sound cues the session emits. Playback is
// the client's concern.
package audio

import (
	"context"

	"github.com/cbodonnell/breedadventure/pkg/log"
)

type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueTimeout   Cue = "timeout"
	CuePowerUp   Cue = "powerUp"
	CuePhaseUp   Cue = "phaseUp"
	CueGameOver  Cue = "gameOver"
)

// Player plays a cue. Errors are logged by the caller and never interrupt play.
type Player interface {
	Play(ctx context.Context, cue Cue) error
}

// Silent drops every cue.
type Silent struct{}

func (Silent) Play(context.Context, Cue) error {
	return nil
}

// LogPlayer records cues in the log, for headless servers.
type LogPlayer struct {
	Logger *log.Logger
}

func (p LogPlayer) Play(_ context.Context, cue Cue) error {
	p.Logger.Trace("Audio cue %s", cue)
	return nil
}

// CueFunc adapts a function to a Player.
type CueFunc func(ctx context.Context, cue Cue) error

func (f CueFunc) Play(ctx context.Context, cue Cue) error {
	return f(ctx, cue)
}

package challenges

import (
	"context"
	"errors"

	"github.com/cbodonnell/breedadventure/pkg/game/types"
)

var (
	// ErrExhausted means every label of the phase has been used. It is a
	// normal end-of-phase signal, not a failure.
	ErrExhausted = errors.New("no unused labels remain for phase")
	// ErrInsufficientContent means no distractor image could be found.
	ErrInsufficientContent = errors.New("not enough content to build a challenge")
)

// Entry is one label with its image reference.
type Entry struct {
	Label string      `yaml:"label" json:"label"`
	Image string      `yaml:"image" json:"image"`
	Phase types.Phase `yaml:"phase" json:"phase"`
}

// Generator supplies challenges for a phase, never repeating a used label.
type Generator interface {
	HasAvailable(ctx context.Context, phase types.Phase, used types.LabelSet) (bool, error)
	// ListAvailable returns unused entries of the phase in a stable order.
	ListAvailable(ctx context.Context, phase types.Phase, used types.LabelSet) ([]Entry, error)
	// Generate returns ErrExhausted when no unused label remains.
	Generate(ctx context.Context, phase types.Phase, used types.LabelSet) (*types.Challenge, error)
	ListByPhase(ctx context.Context, phase types.Phase) ([]Entry, error)
}

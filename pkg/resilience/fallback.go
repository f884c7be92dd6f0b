package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
)

// BundledFallback is shipped with every client, so a challenge can always be
// shown without connectivity.
var BundledFallback = [2]challenges.Entry{
	{Label: "Labrador", Image: "local://breeds/labrador.jpg", Phase: types.PhaseBeginner},
	{Label: "Poodle", Image: "local://breeds/poodle.jpg", Phase: types.PhaseBeginner},
}

// Synthesizer builds a degraded challenge when the generator fails.
type Synthesizer struct {
	lock      sync.Mutex
	generator challenges.Generator
	rng       *rand.Rand
}

func NewSynthesizer(generator challenges.Generator, rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Synthesizer{
		generator: generator,
		rng:       rng,
	}
}

// Synthesize first re-queries the phase's content and builds a challenge
// from it, preferring unused labels. When that fails it returns the bundled
// two-breed challenge. It never returns nil.
func (s *Synthesizer) Synthesize(ctx context.Context, phase types.Phase, used types.LabelSet) (*types.Challenge, bool) {
	if c, err := s.fromPhase(ctx, phase, used); err == nil {
		return c, false
	}
	return s.bundled(phase), true
}

func (s *Synthesizer) fromPhase(ctx context.Context, phase types.Phase, used types.LabelSet) (*types.Challenge, error) {
	entries, err := s.generator.ListByPhase(ctx, phase)
	if err != nil {
		return nil, fmt.Errorf("failed to list phase %s: %w", phase, err)
	}

	unused := []challenges.Entry{}
	for _, e := range entries {
		if !used.Has(e.Label) {
			unused = append(unused, e)
		}
	}
	if len(unused) == 0 || len(entries) < 2 {
		return nil, challenges.ErrInsufficientContent
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	correct := unused[s.rng.Intn(len(unused))]
	distractors := []challenges.Entry{}
	for _, e := range entries {
		if e.Label != correct.Label && e.Image != correct.Image {
			distractors = append(distractors, e)
		}
	}
	if len(distractors) == 0 {
		return nil, challenges.ErrInsufficientContent
	}
	distractor := distractors[s.rng.Intn(len(distractors))]
	return challenges.BuildChallenge(correct, distractor, s.rng.Intn(2), phase)
}

func (s *Synthesizer) bundled(phase types.Phase) *types.Challenge {
	s.lock.Lock()
	slot := s.rng.Intn(2)
	s.lock.Unlock()

	return &types.Challenge{
		CorrectLabel:   BundledFallback[0].Label,
		CorrectImage:   BundledFallback[0].Image,
		IncorrectImage: BundledFallback[1].Image,
		CorrectSlot:    slot,
		Phase:          phase,
	}
}

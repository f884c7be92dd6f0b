package game

import (
	"context"
	"errors"

	"github.com/cbodonnell/breedadventure/pkg/audio"
	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/images"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// nextChallenge shows the next challenge of the current phase, moving to the
// next phase when this one is used up. The game ends after the last phase.
func (s *Session) nextChallenge(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "session.NextChallenge", trace.WithAttributes(attribute.String("session.id", s.id)))
	defer span.End()

	for s.state.IsGameActive {
		challenge, err := s.generate(ctx)
		switch {
		case err == nil:
			s.showChallenge(ctx, challenge)
			return
		case errors.Is(err, challenges.ErrExhausted):
			next, ok := s.state.CurrentPhase.Next()
			if !ok {
				s.logger.Info("Session %s completed every phase", s.id)
				s.endGame(ctx)
				return
			}
			s.logger.Debug("Session %s advancing from %s to %s", s.id, s.state.CurrentPhase, next)
			s.state = s.state.WithPhase(next)
			s.play(ctx, audio.CuePhaseUp)
		default:
			span.RecordError(err)
			if errors.Is(err, challenges.ErrInsufficientContent) {
				s.tracker.RecordGameLogicFailure("not enough content to build a challenge", err)
			} else {
				s.tracker.RecordNetworkFailure("failed to generate challenge", err)
			}
			challenge, degraded := s.synth.Synthesize(ctx, s.state.CurrentPhase, s.state.UsedLabels)
			if degraded {
				s.logger.Warn("Session %s is showing the bundled fallback challenge", s.id)
			}
			s.showChallenge(ctx, challenge)
			return
		}
	}
}

func (s *Session) generate(ctx context.Context) (*types.Challenge, error) {
	ok, err := s.generator.HasAvailable(ctx, s.state.CurrentPhase, s.state.UsedLabels)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, challenges.ErrExhausted
	}
	return s.generator.Generate(ctx, s.state.CurrentPhase, s.state.UsedLabels)
}

// showChallenge waits for the challenge images and starts its countdown.
// Images that fail to load count as failures but never hold the game up.
func (s *Session) showChallenge(ctx context.Context, challenge *types.Challenge) {
	if s.cancelPrefetch != nil {
		s.cancelPrefetch()
		s.cancelPrefetch = nil
	}
	s.challengeSeq++
	s.challenge = challenge
	s.feedback = types.FeedbackNone
	s.pickedSlot = types.NoSlot

	refs := challenge.Images()
	if err := s.images.PreloadCritical(ctx, refs[:]); err != nil {
		var failed *images.FailedRefsError
		if errors.As(err, &failed) {
			for _, ref := range failed.Refs {
				s.tracker.RecordImageFailure(ref, failed.Cause)
			}
		} else {
			s.tracker.RecordNetworkFailure("failed to preload challenge images", err)
		}
	}

	s.state = s.state.WithTimeRemaining(s.tuning.ChallengeSeconds)
	s.timer.Start(s.onTick)
	if s.status == types.StatusPaused {
		s.timer.Pause()
	}
	s.prefetchLookahead(ctx, challenge)
	s.publish()
}

// prefetchLookahead warms the cache with images of upcoming challenges.
// Results come back through the scheduler and are dropped once another
// challenge is shown.
func (s *Session) prefetchLookahead(ctx context.Context, current *types.Challenge) {
	if s.tuning.LookaheadImages == 0 {
		return
	}
	entries, err := s.generator.ListAvailable(ctx, s.state.CurrentPhase, s.state.UsedLabels.With(current.CorrectLabel))
	if err != nil {
		s.logger.Debug("Session %s skipped lookahead: %v", s.id, err)
		return
	}

	shown := current.Images()
	refs := []string{}
	for _, entry := range entries {
		if len(refs) == s.tuning.LookaheadImages {
			break
		}
		if entry.Image == shown[0] || entry.Image == shown[1] {
			continue
		}
		refs = append(refs, entry.Image)
	}
	if len(refs) == 0 {
		return
	}

	prefetchCtx, cancel := context.WithCancel(s.ctx)
	s.cancelPrefetch = cancel
	seq := s.challengeSeq
	s.images.PreloadBackground(prefetchCtx, refs, func(ref string, err error) {
		s.scheduler.AfterFunc(0, func() {
			s.onPrefetchResult(seq, ref, err)
		})
	})
}

func (s *Session) onPrefetchResult(seq uint64, ref string, err error) {
	if seq != s.challengeSeq || err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.tracker.RecordImageFailure(ref, err)
	s.publish()
}

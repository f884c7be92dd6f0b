package resilience

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	mocks "github.com/cbodonnell/breedadventure/mocks/github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []Record
}

func (s *recordingSink) Record(kind Kind, message string, severity Severity, cause error) {
	s.records = append(s.records, Record{Kind: kind, Message: message, Severity: severity})
}

func (s *recordingSink) severities() []Severity {
	out := []Severity{}
	for _, r := range s.records {
		out = append(out, r.Severity)
	}
	return out
}

type fakeCache struct {
	resets int
	clears int
}

func (c *fakeCache) ResetFailedRefs() { c.resets++ }
func (c *fakeCache) ClearCache()      { c.clears++ }

func TestRetrier_escalatesSeverityAndBacksOff(t *testing.T) {
	sink := &recordingSink{}
	sleeps := []time.Duration{}
	r := NewRetrier(sink)
	r.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	calls := 0
	err := r.Do(context.Background(), "image cache", func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, sleeps)
	assert.Equal(t, []Severity{SeverityMedium, SeverityMedium, SeverityHigh}, sink.severities())
}

func TestRetrier_succeedsAfterFailure(t *testing.T) {
	sink := &recordingSink{}
	r := NewRetrier(sink)
	r.Sleep = func(context.Context, time.Duration) error { return nil }

	calls := 0
	err := r.Do(context.Background(), "catalog", func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("flaky")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, sink.records, 1)
}

func TestTracker_entersRecoveryAtThreshold(t *testing.T) {
	sink := &recordingSink{}
	cache := &fakeCache{}
	tracker := NewTracker(NewTrackerOptions{Sink: sink, Cache: cache})

	tracker.RecordImageFailure("a.jpg", errors.New("404"))
	tracker.RecordImageFailure("b.jpg", errors.New("404"))
	assert.False(t, tracker.InRecoveryMode())

	tracker.RecordImageFailure("c.jpg", errors.New("404"))
	state := tracker.State()
	assert.True(t, state.IsInRecoveryMode)
	assert.Equal(t, 3, state.ConsecutiveFailures)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, state.FailedImages)
	assert.Equal(t, 1, cache.resets)
	assert.Equal(t, SeverityHigh, sink.records[len(sink.records)-1].Severity)

	// re-entering is idempotent
	tracker.RecordImageFailure("d.jpg", errors.New("404"))
	assert.Equal(t, 1, cache.resets)
	assert.Equal(t, 4, tracker.State().ConsecutiveFailures)

	tracker.Recover(KindNetwork)
	state = tracker.State()
	assert.False(t, state.IsInRecoveryMode)
	assert.Equal(t, 0, state.ConsecutiveFailures)
	assert.Empty(t, state.LastError)
	assert.Equal(t, 1, cache.clears)
}

func TestTracker_gameLogicFailuresDoNotCount(t *testing.T) {
	sink := &recordingSink{}
	tracker := NewTracker(NewTrackerOptions{Sink: sink, Threshold: 1})

	tracker.RecordGameLogicFailure("no distractor", errors.New("not enough content"))

	state := tracker.State()
	assert.Equal(t, 0, state.ConsecutiveFailures)
	assert.False(t, state.IsInRecoveryMode)
	assert.Equal(t, "not enough content", state.LastError)
	require.Len(t, sink.records, 1)
	assert.Equal(t, KindGameLogic, sink.records[0].Kind)
}

func TestTracker_failedImagesAreBounded(t *testing.T) {
	tracker := NewTracker(NewTrackerOptions{Sink: &recordingSink{}, Threshold: 100})
	for i := 0; i < 15; i++ {
		tracker.RecordImageFailure(string(rune('a'+i)), nil)
	}
	state := tracker.State()
	assert.Len(t, state.FailedImages, 10)
	assert.Equal(t, "f", state.FailedImages[0])
}

func TestTracker_RecoverByKind(t *testing.T) {
	tests := []struct {
		kind         Kind
		wantFailures int
		wantClears   int
	}{
		{kind: KindNetwork, wantFailures: 0, wantClears: 1},
		{kind: KindGameLogic, wantFailures: 2, wantClears: 0},
		{kind: KindStorage, wantFailures: 2, wantClears: 0},
		{kind: KindAudio, wantFailures: 2, wantClears: 0},
		{kind: KindUnknown, wantFailures: 0, wantClears: 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			cache := &fakeCache{}
			tracker := NewTracker(NewTrackerOptions{Sink: &recordingSink{}, Cache: cache})
			tracker.RecordNetworkFailure("fetch", errors.New("timeout"))
			tracker.RecordNetworkFailure("fetch", errors.New("timeout"))
			tracker.EnterRecoveryMode("manual", nil)

			tracker.Recover(tt.kind)

			state := tracker.State()
			assert.False(t, state.IsInRecoveryMode)
			assert.Empty(t, state.LastError)
			assert.Equal(t, tt.wantFailures, state.ConsecutiveFailures)
			assert.Equal(t, tt.wantClears, cache.clears)
		})
	}
}

func TestSynthesizer_requeriesPhase(t *testing.T) {
	generator := mocks.NewGenerator(t)
	generator.EXPECT().ListByPhase(mock.Anything, types.PhaseIntermediate).Return([]challenges.Entry{
		{Label: "Husky", Image: "husky.jpg", Phase: types.PhaseIntermediate},
		{Label: "Boxer", Image: "boxer.jpg", Phase: types.PhaseIntermediate},
	}, nil).Once()

	s := NewSynthesizer(generator, rand.New(rand.NewSource(7)))
	c, degraded := s.Synthesize(context.Background(), types.PhaseIntermediate, types.NewLabelSet("Boxer"))

	require.NotNil(t, c)
	assert.False(t, degraded)
	assert.Equal(t, "Husky", c.CorrectLabel)
	assert.Equal(t, "boxer.jpg", c.IncorrectImage)
}

func TestSynthesizer_fallsBackToBundledImages(t *testing.T) {
	generator := mocks.NewGenerator(t)
	generator.EXPECT().ListByPhase(mock.Anything, types.PhaseExpert).Return(nil, errors.New("service unavailable")).Once()

	s := NewSynthesizer(generator, nil)
	c, degraded := s.Synthesize(context.Background(), types.PhaseExpert, types.NewLabelSet())

	require.NotNil(t, c)
	assert.True(t, degraded)
	assert.NoError(t, c.Validate())
	assert.Equal(t, types.PhaseExpert, c.Phase)
	for _, ref := range c.Images() {
		assert.Contains(t, ref, "local://")
	}
}

func TestLogSink_keepsRecentRecords(t *testing.T) {
	sink := NewLogSink(nil)
	for i := 0; i < LogSinkCapacity+5; i++ {
		sink.Record(KindAudio, "cue failed", SeverityLow, nil)
	}
	assert.Len(t, sink.Records(), LogSinkCapacity)
}
